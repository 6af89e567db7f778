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

// Package windowevaluator determines a validator's attestation duty for an epoch.
package windowevaluator

import (
	"fmt"

	"github.com/stakewatch/sentinel/services/epochtracker"
)

// Obligation is a validator's attestation duty for a single epoch.
type Obligation struct {
	// EpochID is the epoch this obligation belongs to.
	EpochID uint64
	// AssignedBlock is the block whose hash must be attested.
	AssignedBlock uint64
	// WindowStart is the first block at which the attestation may be
	// submitted, inclusive.
	WindowStart uint64
	// WindowEnd is the block at which the attestation window closes,
	// exclusive.
	WindowEnd uint64
}

// String implements fmt.Stringer.
func (o *Obligation) String() string {
	return fmt.Sprintf("epoch %d block %d window [%d,%d)", o.EpochID, o.AssignedBlock, o.WindowStart, o.WindowEnd)
}

// Service is the interface for attestation window evaluators.
type Service interface {
	// Evaluate provides the attestation obligation for the given epoch.
	Evaluate(epoch *epochtracker.Epoch) (*Obligation, error)
}
