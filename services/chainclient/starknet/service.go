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

// Package starknet is a chain client using the StarkNet JSON-RPC API.
package starknet

import (
	"context"
	"strings"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/rpc"
	"github.com/NethermindEth/starknet.go/utils"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
	"github.com/stakewatch/sentinel/services/chainclient"
	"github.com/stakewatch/sentinel/services/metrics"
)

// invalidTransactionNonceCode is the JSON-RPC error code for a rejected nonce.
const invalidTransactionNonceCode = 52

// Service is a chain client for StarkNet nodes.
type Service struct {
	log                 zerolog.Logger
	monitor             metrics.ClientMonitor
	provider            *rpc.Provider
	address             string
	timeout             time.Duration
	stakingContract     *felt.Felt
	attestationContract *felt.Felt
	strkToken           *felt.Felt

	attestationInfoSelector   *felt.Felt
	attestationWindowSelector *felt.Felt
	attestationDoneSelector   *felt.Felt
	balanceOfSelector         *felt.Felt
}

// New creates a new StarkNet chain client.
func New(_ context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log := zerologger.With().Str("service", "chainclient").Str("impl", "starknet").Logger()
	if parameters.logLevel != log.GetLevel() {
		log = log.Level(parameters.logLevel)
	}

	provider, err := rpc.NewProvider(parameters.address)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to node")
	}

	s := &Service{
		log:                 log,
		monitor:             parameters.monitor,
		provider:            provider,
		address:             parameters.address,
		timeout:             parameters.timeout,
		stakingContract:     parameters.stakingContract,
		attestationContract: parameters.attestationContract,
		strkToken:           parameters.strkToken,

		attestationInfoSelector:   utils.GetSelectorFromNameFelt("get_attestation_info_by_operational_address"),
		attestationWindowSelector: utils.GetSelectorFromNameFelt("attestation_window"),
		attestationDoneSelector:   utils.GetSelectorFromNameFelt("is_attestation_done_in_curr_epoch"),
		balanceOfSelector:         utils.GetSelectorFromNameFelt("balanceOf"),
	}

	return s, nil
}

// LatestBlockNumber provides the highest block number known to the node.
func (s *Service) LatestBlockNumber(ctx context.Context) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	number, err := s.provider.BlockNumber(ctx)
	s.monitor.ClientOperation(s.address, "block number", err == nil, time.Since(started))
	if err != nil {
		return 0, errors.Wrap(err, "failed to obtain block number")
	}

	return number, nil
}

// BlockHash provides the hash of the block at the given number.
func (s *Service) BlockHash(ctx context.Context, number uint64) (*felt.Felt, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	res, err := s.provider.BlockWithTxHashes(ctx, rpc.WithBlockNumber(number))
	s.monitor.ClientOperation(s.address, "block by number", err == nil, time.Since(started))
	if err != nil {
		return nil, errors.Wrap(err, "failed to obtain block")
	}

	block, isBlock := res.(*rpc.BlockTxHashes)
	if !isBlock {
		return nil, errors.New("block not yet accepted")
	}

	return block.BlockHash, nil
}

// AttestationInfo provides the current epoch's attestation parameters.
func (s *Service) AttestationInfo(ctx context.Context, operationalAddress *felt.Felt) (*chainclient.AttestationInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	res, err := s.provider.Call(ctx, rpc.FunctionCall{
		ContractAddress:    s.stakingContract,
		EntryPointSelector: s.attestationInfoSelector,
		Calldata:           []*felt.Felt{operationalAddress},
	}, rpc.WithBlockTag("pending"))
	s.monitor.ClientOperation(s.address, "attestation info", err == nil, time.Since(started))
	if err != nil {
		return nil, errors.Wrap(err, "failed to obtain attestation info")
	}
	if len(res) < 5 {
		return nil, errors.New("truncated attestation info response")
	}

	window, err := s.attestationWindow(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to obtain attestation window")
	}

	stake := uint256.MustFromBig(utils.FeltToBigInt(res[1]))

	return &chainclient.AttestationInfo{
		StakerAddress:      res[0],
		Stake:              stake,
		EpochLength:        utils.FeltToBigInt(res[2]).Uint64(),
		EpochID:            utils.FeltToBigInt(res[3]).Uint64(),
		EpochStartingBlock: utils.FeltToBigInt(res[4]).Uint64(),
		AttestationWindow:  window,
	}, nil
}

// attestationWindow provides the protocol attestation window, in blocks.
func (s *Service) attestationWindow(ctx context.Context) (uint64, error) {
	started := time.Now()
	res, err := s.provider.Call(ctx, rpc.FunctionCall{
		ContractAddress:    s.attestationContract,
		EntryPointSelector: s.attestationWindowSelector,
		Calldata:           []*felt.Felt{},
	}, rpc.WithBlockTag("pending"))
	s.monitor.ClientOperation(s.address, "attestation window", err == nil, time.Since(started))
	if err != nil {
		return 0, err
	}
	if len(res) == 0 {
		return 0, errors.New("empty attestation window response")
	}

	return utils.FeltToBigInt(res[0]).Uint64(), nil
}

// Nonce provides the next nonce of the account against the pending block.
func (s *Service) Nonce(ctx context.Context, address *felt.Felt) (*felt.Felt, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	nonce, err := s.provider.Nonce(ctx, rpc.WithBlockTag("pending"), address)
	s.monitor.ClientOperation(s.address, "nonce", err == nil, time.Since(started))
	if err != nil {
		return nil, errors.Wrap(err, "failed to obtain nonce")
	}

	return nonce, nil
}

// Balance provides the STRK balance of the account, in fri.
func (s *Service) Balance(ctx context.Context, address *felt.Felt) (*uint256.Int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	res, err := s.provider.Call(ctx, rpc.FunctionCall{
		ContractAddress:    s.strkToken,
		EntryPointSelector: s.balanceOfSelector,
		Calldata:           []*felt.Felt{address},
	}, rpc.WithBlockTag("pending"))
	s.monitor.ClientOperation(s.address, "balance", err == nil, time.Since(started))
	if err != nil {
		return nil, errors.Wrap(err, "failed to obtain balance")
	}
	if len(res) < 2 {
		return nil, errors.New("truncated balance response")
	}

	// The balance is a Uint256 encoded as (low, high) 128-bit limbs.
	balance := uint256.MustFromBig(utils.FeltToBigInt(res[1]))
	balance.Lsh(balance, 128)
	balance.Add(balance, uint256.MustFromBig(utils.FeltToBigInt(res[0])))

	return balance, nil
}

// SubmitInvoke submits a signed invoke transaction, returning its hash.
func (s *Service) SubmitInvoke(ctx context.Context, txn *rpc.BroadcastInvokeTxnV3) (*felt.Felt, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	res, err := s.provider.AddInvokeTransaction(ctx, txn)
	s.monitor.ClientOperation(s.address, "submit invoke", err == nil, time.Since(started))
	if err != nil {
		if isNonceConflict(err) {
			return nil, errors.Wrap(chainclient.ErrNonceConflict, err.Error())
		}
		return nil, errors.Wrap(err, "failed to submit transaction")
	}

	return res.TransactionHash, nil
}

// TransactionStatus provides the chain-side status of a transaction.
func (s *Service) TransactionStatus(ctx context.Context, hash *felt.Felt) (chainclient.TransactionStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	res, err := s.provider.GetTransactionStatus(ctx, hash)
	s.monitor.ClientOperation(s.address, "transaction status", err == nil, time.Since(started))
	if err != nil {
		return chainclient.TransactionStatusUnknown, errors.Wrap(err, "failed to obtain transaction status")
	}

	switch res.FinalityStatus {
	case rpc.TxnStatus_Received:
		return chainclient.TransactionStatusPending, nil
	case rpc.TxnStatus_Rejected:
		return chainclient.TransactionStatusRejected, nil
	case rpc.TxnStatus_Accepted_On_L2, rpc.TxnStatus_Accepted_On_L1:
		if res.ExecutionStatus == rpc.TxnExecutionStatusREVERTED {
			return chainclient.TransactionStatusReverted, nil
		}
		return chainclient.TransactionStatusIncluded, nil
	default:
		return chainclient.TransactionStatusUnknown, nil
	}
}

// AttestationDone reports whether the staker has a recorded attestation for the current epoch.
func (s *Service) AttestationDone(ctx context.Context, stakerAddress *felt.Felt) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	res, err := s.provider.Call(ctx, rpc.FunctionCall{
		ContractAddress:    s.attestationContract,
		EntryPointSelector: s.attestationDoneSelector,
		Calldata:           []*felt.Felt{stakerAddress},
	}, rpc.WithBlockTag("pending"))
	s.monitor.ClientOperation(s.address, "attestation done", err == nil, time.Since(started))
	if err != nil {
		return false, errors.Wrap(err, "failed to obtain attestation state")
	}

	return len(res) > 0 && res[0].IsOne(), nil
}

// isNonceConflict reports whether an error is a chain-side nonce rejection.
func isNonceConflict(err error) bool {
	var rpcErr *rpc.RPCError
	if errors.As(err, &rpcErr) {
		if rpcErr.Code == invalidTransactionNonceCode {
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "invalid transaction nonce")
}
