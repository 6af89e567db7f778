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

// Package mock provides a scriptable chain client for testing.
package mock

import (
	"context"
	"sync"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/rpc"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stakewatch/sentinel/services/chainclient"
)

// Service is a mock chain client. Each operation can be scripted by
// assigning the corresponding function field; unscripted operations
// return static defaults.
type Service struct {
	mu sync.Mutex

	LatestBlockNumberFunc func(ctx context.Context) (uint64, error)
	BlockHashFunc         func(ctx context.Context, number uint64) (*felt.Felt, error)
	AttestationInfoFunc   func(ctx context.Context, operationalAddress *felt.Felt) (*chainclient.AttestationInfo, error)
	NonceFunc             func(ctx context.Context, address *felt.Felt) (*felt.Felt, error)
	BalanceFunc           func(ctx context.Context, address *felt.Felt) (*uint256.Int, error)
	SubmitInvokeFunc      func(ctx context.Context, txn *rpc.BroadcastInvokeTxnV3) (*felt.Felt, error)
	TransactionStatusFunc func(ctx context.Context, hash *felt.Felt) (chainclient.TransactionStatus, error)
	AttestationDoneFunc   func(ctx context.Context, stakerAddress *felt.Felt) (bool, error)

	// Submissions records every transaction passed to SubmitInvoke.
	Submissions []*rpc.BroadcastInvokeTxnV3
}

// New creates a new mock chain client.
func New() *Service {
	return &Service{}
}

// LatestBlockNumber provides the highest block number known to the node.
func (s *Service) LatestBlockNumber(ctx context.Context) (uint64, error) {
	if s.LatestBlockNumberFunc != nil {
		return s.LatestBlockNumberFunc(ctx)
	}
	return 0, nil
}

// BlockHash provides the hash of the block at the given number.
func (s *Service) BlockHash(ctx context.Context, number uint64) (*felt.Felt, error) {
	if s.BlockHashFunc != nil {
		return s.BlockHashFunc(ctx, number)
	}
	return new(felt.Felt).SetUint64(number), nil
}

// AttestationInfo provides the current epoch's attestation parameters.
func (s *Service) AttestationInfo(ctx context.Context, operationalAddress *felt.Felt) (*chainclient.AttestationInfo, error) {
	if s.AttestationInfoFunc != nil {
		return s.AttestationInfoFunc(ctx, operationalAddress)
	}
	return nil, errors.New("no attestation info scripted")
}

// Nonce provides the next nonce of the account.
func (s *Service) Nonce(ctx context.Context, address *felt.Felt) (*felt.Felt, error) {
	if s.NonceFunc != nil {
		return s.NonceFunc(ctx, address)
	}
	return new(felt.Felt).SetUint64(0), nil
}

// Balance provides the STRK balance of the account, in fri.
func (s *Service) Balance(ctx context.Context, address *felt.Felt) (*uint256.Int, error) {
	if s.BalanceFunc != nil {
		return s.BalanceFunc(ctx, address)
	}
	return uint256.NewInt(0), nil
}

// SubmitInvoke records and optionally scripts a transaction submission.
func (s *Service) SubmitInvoke(ctx context.Context, txn *rpc.BroadcastInvokeTxnV3) (*felt.Felt, error) {
	s.mu.Lock()
	s.Submissions = append(s.Submissions, txn)
	s.mu.Unlock()
	if s.SubmitInvokeFunc != nil {
		return s.SubmitInvokeFunc(ctx, txn)
	}
	return new(felt.Felt).SetUint64(1), nil
}

// TransactionStatus provides the chain-side status of a transaction.
func (s *Service) TransactionStatus(ctx context.Context, hash *felt.Felt) (chainclient.TransactionStatus, error) {
	if s.TransactionStatusFunc != nil {
		return s.TransactionStatusFunc(ctx, hash)
	}
	return chainclient.TransactionStatusUnknown, nil
}

// AttestationDone reports whether the staker has attested in the current epoch.
func (s *Service) AttestationDone(ctx context.Context, stakerAddress *felt.Felt) (bool, error) {
	if s.AttestationDoneFunc != nil {
		return s.AttestationDoneFunc(ctx, stakerAddress)
	}
	return false, nil
}

// SubmissionCount provides the number of recorded submissions.
func (s *Service) SubmissionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Submissions)
}
