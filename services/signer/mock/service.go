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

// Package mock provides a scriptable signer for testing.
package mock

import (
	"context"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/rpc"
)

// Service is a mock signer.  Assign SignFunc to script signing
// behaviour; by default it returns a fixed signature.
type Service struct {
	SignFunc func(ctx context.Context, txn *rpc.InvokeTxnV3, chainID *felt.Felt) (*felt.Felt, *felt.Felt, error)
}

// New creates a new mock signer.
func New() *Service {
	return &Service{}
}

// PublicKey provides the public key of the signer.
func (*Service) PublicKey() *felt.Felt {
	return new(felt.Felt).SetUint64(0x1234)
}

// Sign signs an invoke transaction for the given chain.
func (s *Service) Sign(ctx context.Context, txn *rpc.InvokeTxnV3, chainID *felt.Felt) (*felt.Felt, *felt.Felt, error) {
	if s.SignFunc != nil {
		return s.SignFunc(ctx, txn, chainID)
	}
	return new(felt.Felt).SetUint64(1), new(felt.Felt).SetUint64(2), nil
}
