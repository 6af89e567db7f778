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

// Package epochtracker tracks the staking epoch for an operational address.
package epochtracker

import (
	"context"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/holiman/uint256"
)

// Epoch holds the staking parameters for a single epoch.
type Epoch struct {
	// ID is the epoch identifier.
	ID uint64
	// StartingBlock is the first block of the epoch.
	StartingBlock uint64
	// Length is the number of blocks in the epoch.
	Length uint64
	// StakerAddress is the staker behind the operational address.
	StakerAddress *felt.Felt
	// Stake is the staker's total stake, in fri.
	Stake *uint256.Int
	// AttestationWindow is the protocol attestation window, in blocks.
	AttestationWindow uint64
}

// Contains reports whether the given block number falls within the epoch.
func (e *Epoch) Contains(blockNumber uint64) bool {
	return blockNumber >= e.StartingBlock && blockNumber < e.StartingBlock+e.Length
}

// Service is the interface for epoch trackers.
type Service interface {
	// Current provides the epoch containing the given block number,
	// refreshing from the chain when the cached epoch does not contain it.
	Current(ctx context.Context, blockNumber uint64) (*Epoch, error)
}
