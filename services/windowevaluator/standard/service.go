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

// Package standard is an attestation window evaluator following SNIP-28.
package standard

import (
	"context"
	"math/big"

	"github.com/NethermindEth/juno/core/crypto"
	"github.com/NethermindEth/juno/core/felt"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
	"github.com/stakewatch/sentinel/services/epochtracker"
	"github.com/stakewatch/sentinel/services/windowevaluator"
)

// Service is an attestation window evaluator.
type Service struct {
	log                  zerolog.Logger
	minAttestationWindow uint64
}

// New creates a new window evaluator.
func New(_ context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log := zerologger.With().Str("service", "windowevaluator").Str("impl", "standard").Logger()
	if parameters.logLevel != log.GetLevel() {
		log = log.Level(parameters.logLevel)
	}

	return &Service{
		log:                  log,
		minAttestationWindow: parameters.minAttestationWindow,
	}, nil
}

// Evaluate provides the attestation obligation for the given epoch.
// The assigned block is drawn pseudo-randomly from the epoch using the
// staker's stake, the epoch identifier and the staker address, so every
// observer derives the same duty without communication.
func (s *Service) Evaluate(epoch *epochtracker.Epoch) (*windowevaluator.Obligation, error) {
	if epoch.StakerAddress == nil {
		return nil, errors.New("epoch has no staker address")
	}
	if epoch.Stake == nil || epoch.Stake.IsZero() {
		return nil, errors.New("epoch has no stake")
	}
	if epoch.Length <= epoch.AttestationWindow {
		return nil, errors.New("epoch shorter than attestation window")
	}

	stakeBytes := epoch.Stake.Bytes32()
	hash := crypto.PoseidonArray(
		new(felt.Felt).SetBytes(stakeBytes[:]),
		new(felt.Felt).SetUint64(epoch.ID),
		epoch.StakerAddress,
	)

	span := new(big.Int).SetUint64(epoch.Length - epoch.AttestationWindow)
	offset := new(big.Int).Mod(hash.BigInt(new(big.Int)), span).Uint64()
	assigned := epoch.StartingBlock + offset

	windowEnd := assigned + epoch.AttestationWindow
	if epochEnd := epoch.StartingBlock + epoch.Length; windowEnd > epochEnd {
		windowEnd = epochEnd
	}

	obligation := &windowevaluator.Obligation{
		EpochID:       epoch.ID,
		AssignedBlock: assigned,
		WindowStart:   assigned + s.minAttestationWindow,
		WindowEnd:     windowEnd,
	}

	s.log.Debug().
		Uint64("epoch", epoch.ID).
		Uint64("assigned_block", assigned).
		Uint64("window_start", obligation.WindowStart).
		Uint64("window_end", obligation.WindowEnd).
		Msg("Evaluated attestation obligation")

	return obligation, nil
}
