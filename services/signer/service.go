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

// Package signer provides signing of invoke transactions.
package signer

import (
	"context"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/rpc"
	"github.com/pkg/errors"
)

// ErrUnavailable is returned when the signer cannot be reached or
// returns an unusable response.  A signing failure never consumes a
// nonce, so callers are free to retry.
var ErrUnavailable = errors.New("signer unavailable")

// Service is the interface for transaction signers.
type Service interface {
	// PublicKey provides the public key of the signer.
	PublicKey() *felt.Felt

	// Sign signs an invoke transaction for the given chain, returning
	// the two components of the signature.
	Sign(ctx context.Context, txn *rpc.InvokeTxnV3, chainID *felt.Felt) (*felt.Felt, *felt.Felt, error)
}
