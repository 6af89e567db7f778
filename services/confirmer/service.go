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

// Package confirmer tracks confirmation of submitted attestations.
package confirmer

import (
	"context"

	"github.com/NethermindEth/juno/core/felt"
)

// Status is the confirmation state of an epoch's attestation.
type Status int

const (
	// StatusPending means no confirmation has been observed yet.
	StatusPending Status = iota
	// StatusConfirmedLocal means the locally-submitted transaction was included.
	StatusConfirmedLocal
	// StatusConfirmedExternal means the attestation was recorded on chain
	// but not by the locally-submitted transaction.
	StatusConfirmedExternal
	// StatusFailed means the locally-submitted transaction was rejected
	// or reverted and no other confirmation has been observed.
	StatusFailed
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConfirmedLocal:
		return "confirmed"
	case StatusConfirmedExternal:
		return "confirmed externally"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Service is the interface for attestation confirmers.
type Service interface {
	// RecordEvent records an on-chain attestation event for the staker
	// in the given epoch.
	RecordEvent(epochID uint64)

	// Check provides the confirmation status of the given epoch's
	// attestation.  txHash is the locally-submitted transaction hash,
	// or nil if nothing has been submitted.
	Check(ctx context.Context, epochID uint64, txHash *felt.Felt) (Status, error)

	// Prune discards recorded events for epochs at or before the given epoch.
	Prune(epochID uint64)
}
