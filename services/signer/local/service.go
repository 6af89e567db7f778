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

// Package local is a signer using a private key held in memory.
package local

import (
	"context"
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/curve"
	"github.com/NethermindEth/starknet.go/rpc"
	"github.com/NethermindEth/starknet.go/utils"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
	"github.com/stakewatch/sentinel/services/signer"
)

// Service is a signer that signs with a locally-held private key.
type Service struct {
	log        zerolog.Logger
	privateKey *big.Int
	publicKey  *felt.Felt
}

// New creates a new local signer.
func New(_ context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log := zerologger.With().Str("service", "signer").Str("impl", "local").Logger()
	if parameters.logLevel != log.GetLevel() {
		log = log.Level(parameters.logLevel)
	}

	privateKey := utils.FeltToBigInt(parameters.privateKey)
	pubX, _, err := curve.Curve.PrivateToPoint(privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive public key")
	}

	return &Service{
		log:        log,
		privateKey: privateKey,
		publicKey:  utils.BigIntToFelt(pubX),
	}, nil
}

// PublicKey provides the public key of the signer.
func (s *Service) PublicKey() *felt.Felt {
	return s.publicKey
}

// Sign signs an invoke transaction for the given chain.
func (s *Service) Sign(_ context.Context, txn *rpc.InvokeTxnV3, chainID *felt.Felt) (*felt.Felt, *felt.Felt, error) {
	hash, err := signer.HashInvokeV3(txn, chainID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to hash transaction")
	}

	r, sigS, err := curve.Curve.Sign(utils.FeltToBigInt(hash), s.privateKey)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to sign transaction")
	}
	s.log.Trace().Stringer("hash", hash).Msg("Signed transaction")

	return utils.BigIntToFelt(r), utils.BigIntToFelt(sigS), nil
}
