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

// Package mock provides a scriptable window evaluator for testing.
package mock

import (
	"github.com/stakewatch/sentinel/services/epochtracker"
	"github.com/stakewatch/sentinel/services/windowevaluator"
)

// Service is a mock window evaluator.  Assign EvaluateFunc to script
// its behaviour; by default the assigned block is the start of the
// epoch with a window covering the remainder.
type Service struct {
	EvaluateFunc func(epoch *epochtracker.Epoch) (*windowevaluator.Obligation, error)
}

// New creates a new mock window evaluator.
func New() *Service {
	return &Service{}
}

// Evaluate provides the attestation obligation for the given epoch.
func (s *Service) Evaluate(epoch *epochtracker.Epoch) (*windowevaluator.Obligation, error) {
	if s.EvaluateFunc != nil {
		return s.EvaluateFunc(epoch)
	}
	return &windowevaluator.Obligation{
		EpochID:       epoch.ID,
		AssignedBlock: epoch.StartingBlock,
		WindowStart:   epoch.StartingBlock,
		WindowEnd:     epoch.StartingBlock + epoch.Length,
	}, nil
}
