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

// Package standard is a submitter for attestation transactions.
package standard

import (
	"context"
	"fmt"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/rpc"
	"github.com/NethermindEth/starknet.go/utils"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
	"github.com/stakewatch/sentinel/services/accountmanager"
	"github.com/stakewatch/sentinel/services/chainclient"
	"github.com/stakewatch/sentinel/services/signer"
	"github.com/stakewatch/sentinel/services/submitter"
)

// Service is a submitter that builds and signs attestation invoke
// transactions for the operational account.
type Service struct {
	log                 zerolog.Logger
	chainClient         chainclient.InvokeSubmitter
	accountManager      accountmanager.Service
	signer              signer.Service
	chainID             *felt.Felt
	attestationContract *felt.Felt
	attestSelector      *felt.Felt
	resourceBounds      rpc.ResourceBoundsMapping
	tipCalculator       *submitter.TipCalculator
}

// New creates a new submitter.
func New(_ context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log := zerologger.With().Str("service", "submitter").Str("impl", "standard").Logger()
	if parameters.logLevel != log.GetLevel() {
		log = log.Level(parameters.logLevel)
	}

	return &Service{
		log:                 log,
		chainClient:         parameters.chainClient,
		accountManager:      parameters.accountManager,
		signer:              parameters.signer,
		chainID:             parameters.chainID,
		attestationContract: parameters.attestationContract,
		attestSelector:      utils.GetSelectorFromNameFelt("attest"),
		resourceBounds:      *parameters.resourceBounds,
		tipCalculator:       parameters.tipCalculator,
	}, nil
}

// Submit signs and submits an attestation of the given block hash.
// On a nonce conflict the local nonce state is resynchronized with the
// chain and the submission retried once.
func (s *Service) Submit(ctx context.Context, blockHash *felt.Felt) (*felt.Felt, error) {
	hash, err := s.attempt(ctx, blockHash)
	if err == nil {
		return hash, nil
	}
	if !errors.Is(err, chainclient.ErrNonceConflict) {
		return nil, err
	}

	s.log.Debug().Msg("Nonce conflict; resynchronizing and retrying")
	if err := s.accountManager.RefreshNonce(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to refresh nonce after conflict")
	}

	return s.attempt(ctx, blockHash)
}

// attempt makes a single submission attempt with a freshly-allocated nonce.
func (s *Service) attempt(ctx context.Context, blockHash *felt.Felt) (*felt.Felt, error) {
	nonce, err := s.accountManager.NextNonce(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to obtain nonce")
	}

	txn := &rpc.BroadcastInvokeTxnV3{
		InvokeTxnV3: rpc.InvokeTxnV3{
			Type:          rpc.TransactionType_Invoke,
			Version:       rpc.TransactionV3,
			SenderAddress: s.accountManager.Address(),
			Calldata: []*felt.Felt{
				new(felt.Felt).SetUint64(1),
				s.attestationContract,
				s.attestSelector,
				new(felt.Felt).SetUint64(1),
				blockHash,
			},
			Nonce:                 nonce,
			ResourceBounds:        s.resourceBounds,
			Tip:                   rpc.U64(fmt.Sprintf("%#x", s.tipCalculator.Tip(0))),
			PayMasterData:         []*felt.Felt{},
			AccountDeploymentData: []*felt.Felt{},
			NonceDataMode:         rpc.DAModeL1,
			FeeMode:               rpc.DAModeL1,
		},
	}

	r, sig, err := s.signer.Sign(ctx, &txn.InvokeTxnV3, s.chainID)
	if err != nil {
		// The allocated nonce was never seen by the chain; resynchronize
		// so the next attempt reuses it.
		if refreshErr := s.accountManager.RefreshNonce(ctx); refreshErr != nil {
			s.log.Warn().Err(refreshErr).Msg("Failed to refresh nonce after signing failure")
		}
		if errors.Is(err, signer.ErrUnavailable) {
			return nil, err
		}
		return nil, errors.Wrap(err, "failed to sign transaction")
	}
	txn.Signature = []*felt.Felt{r, sig}

	hash, err := s.chainClient.SubmitInvoke(ctx, txn)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Stringer("block_hash", blockHash).
		Stringer("transaction_hash", hash).
		Msg("Submitted attestation")

	return hash, nil
}
