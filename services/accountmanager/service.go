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

// Package accountmanager manages the operational account's nonce and balance.
package accountmanager

import (
	"context"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/shopspring/decimal"
)

// Service is the interface for account managers.
type Service interface {
	// Address provides the operational account address.
	Address() *felt.Felt

	// NextNonce provides the next unused nonce for the account.  Each
	// call returns a distinct nonce.
	NextNonce(ctx context.Context) (*felt.Felt, error)

	// RefreshNonce discards the local nonce state and refetches it from
	// the chain, for use after a nonce conflict.
	RefreshNonce(ctx context.Context) error

	// RefreshBalance fetches the account's STRK balance from the chain.
	RefreshBalance(ctx context.Context) (decimal.Decimal, error)
}
