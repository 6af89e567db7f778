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

// Package chainclient defines the capability surface the rest of the process
// uses to talk to a StarkNet node.  Implementations are expected to wrap all
// failures so that callers can treat them uniformly as transient query or
// submission errors.
package chainclient

import (
	"context"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/rpc"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// ErrNonceConflict is returned by SubmitInvoke when the node rejects the
// transaction because its nonce has already been consumed.
var ErrNonceConflict = errors.New("invalid transaction nonce")

// AttestationInfo holds the staking parameters for the current epoch, as
// reported by the staking contract for an operational address.
type AttestationInfo struct {
	StakerAddress      *felt.Felt
	Stake              *uint256.Int
	EpochLength        uint64
	EpochID            uint64
	EpochStartingBlock uint64
	AttestationWindow  uint64
}

// TransactionStatus is the chain-side state of a submitted transaction.
type TransactionStatus int

// Possible transaction statuses.
const (
	TransactionStatusUnknown TransactionStatus = iota
	TransactionStatusPending
	TransactionStatusIncluded
	TransactionStatusRejected
	TransactionStatusReverted
)

func (s TransactionStatus) String() string {
	switch s {
	case TransactionStatusPending:
		return "pending"
	case TransactionStatusIncluded:
		return "included"
	case TransactionStatusRejected:
		return "rejected"
	case TransactionStatusReverted:
		return "reverted"
	default:
		return "unknown"
	}
}

// BlockNumberProvider provides the latest block number of the chain.
type BlockNumberProvider interface {
	// LatestBlockNumber provides the highest block number known to the node.
	LatestBlockNumber(ctx context.Context) (uint64, error)
}

// BlockHashProvider provides block hashes for accepted blocks.
type BlockHashProvider interface {
	// BlockHash provides the hash of the block at the given number.
	BlockHash(ctx context.Context, number uint64) (*felt.Felt, error)
}

// AttestationInfoProvider provides the staking parameters for the current
// epoch of an operational address.
type AttestationInfoProvider interface {
	// AttestationInfo provides the current epoch's attestation parameters.
	AttestationInfo(ctx context.Context, operationalAddress *felt.Felt) (*AttestationInfo, error)
}

// NonceProvider provides account nonces.
type NonceProvider interface {
	// Nonce provides the next nonce of the account against the pending block.
	Nonce(ctx context.Context, address *felt.Felt) (*felt.Felt, error)
}

// BalanceProvider provides account balances.
type BalanceProvider interface {
	// Balance provides the STRK balance of the account, in fri.
	Balance(ctx context.Context, address *felt.Felt) (*uint256.Int, error)
}

// InvokeSubmitter submits signed invoke transactions.
type InvokeSubmitter interface {
	// SubmitInvoke submits a signed invoke transaction, returning its hash.
	// Returns an error wrapping ErrNonceConflict when the node rejects the
	// transaction's nonce.
	SubmitInvoke(ctx context.Context, txn *rpc.BroadcastInvokeTxnV3) (*felt.Felt, error)
}

// TransactionStatusProvider provides the status of submitted transactions.
type TransactionStatusProvider interface {
	// TransactionStatus provides the chain-side status of a transaction.
	TransactionStatus(ctx context.Context, hash *felt.Felt) (TransactionStatus, error)
}

// AttestationStatusProvider reports whether an attestation has already been
// recorded on chain for the current epoch.
type AttestationStatusProvider interface {
	// AttestationDone reports whether the staker has a recorded attestation
	// for the current epoch, regardless of who submitted it.
	AttestationDone(ctx context.Context, stakerAddress *felt.Felt) (bool, error)
}

// Service is the full chain client capability surface.
type Service interface {
	BlockNumberProvider
	BlockHashProvider
	AttestationInfoProvider
	NonceProvider
	BalanceProvider
	InvokeSubmitter
	TransactionStatusProvider
	AttestationStatusProvider
}
