// Copyright © 2025 Attestant Limited.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package mock provides a manually-driven block stream for testing.
package mock

import (
	"github.com/NethermindEth/juno/core/felt"
	"github.com/stakewatch/sentinel/services/blockstream"
)

// Service is a block stream whose headers are pushed by the test.
type Service struct {
	*blockstream.Tracker
}

// New creates a new mock block stream.
func New() *Service {
	return &Service{
		Tracker: blockstream.NewTracker(),
	}
}

// PushBlock records a header with the given number and a synthetic hash.
func (s *Service) PushBlock(number uint64) {
	s.Update(blockstream.Header{
		Number: number,
		Hash:   new(felt.Felt).SetUint64(number),
	})
}
