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

// Package controller drives the attestation lifecycle across epochs.
package controller

import "context"

// State is the stage of the current epoch's attestation lifecycle.
type State int

const (
	// StateIdle means no epoch has been observed yet.
	StateIdle State = iota
	// StateWaitingForAssignedBlock means the assigned block has not been
	// produced yet.
	StateWaitingForAssignedBlock
	// StateAttesting means the attestation window is open, or about to
	// open, and the attestation has not been accepted yet.
	StateAttesting
	// StateAwaitingConfirmation means the attestation has been submitted
	// and its confirmation is being tracked.
	StateAwaitingConfirmation
	// StateConfirmed means the epoch's attestation is recorded on chain.
	StateConfirmed
	// StateMissed means the attestation window closed without a
	// confirmed attestation.
	StateMissed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaitingForAssignedBlock:
		return "waiting for assigned block"
	case StateAttesting:
		return "attesting"
	case StateAwaitingConfirmation:
		return "awaiting confirmation"
	case StateConfirmed:
		return "confirmed"
	case StateMissed:
		return "missed"
	default:
		return "unknown"
	}
}

// Service is the interface for attestation controllers.
type Service interface {
	// Run processes chain head updates until the context is cancelled.
	Run(ctx context.Context) error
}
