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

// Package blockstream provides a stream of chain head updates.
package blockstream

import (
	"github.com/NethermindEth/juno/core/felt"
)

// Header is a chain head observation.
type Header struct {
	// Number is the block number.
	Number uint64
	// Hash is the block hash.
	Hash *felt.Felt
}

// EventHandler is called for each attestation event observed for the
// configured staker.  epochID is the epoch the attestation was made in.
type EventHandler func(epochID uint64)

// Service is the interface for block streams.  Only the most recent
// header is retained; consumers that fall behind see the latest state
// rather than a backlog.
type Service interface {
	// Latest provides the most recently observed header.  The second
	// return value is false if no header has been observed yet.
	Latest() (Header, bool)

	// Notifications provides a channel that receives a signal when a
	// new header is observed.  The channel has a single slot; missed
	// signals are coalesced.
	Notifications() <-chan struct{}
}
