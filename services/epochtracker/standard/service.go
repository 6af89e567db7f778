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

// Package standard is an epoch tracker that caches chain lookups.
package standard

import (
	"context"
	"sync"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
	"github.com/stakewatch/sentinel/services/chainclient"
	"github.com/stakewatch/sentinel/services/epochtracker"
)

// Service is an epoch tracker that fetches attestation information from
// the chain and caches it for the duration of the epoch.
type Service struct {
	log                zerolog.Logger
	chainClient        chainclient.AttestationInfoProvider
	operationalAddress *felt.Felt

	mu      sync.Mutex
	current *epochtracker.Epoch
}

// New creates a new epoch tracker.
func New(_ context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log := zerologger.With().Str("service", "epochtracker").Str("impl", "standard").Logger()
	if parameters.logLevel != log.GetLevel() {
		log = log.Level(parameters.logLevel)
	}

	return &Service{
		log:                log,
		chainClient:        parameters.chainClient,
		operationalAddress: parameters.operationalAddress,
	}, nil
}

// Current provides the epoch containing the given block number.
func (s *Service) Current(ctx context.Context, blockNumber uint64) (*epochtracker.Epoch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.current.Contains(blockNumber) {
		return s.current, nil
	}

	info, err := s.chainClient.AttestationInfo(ctx, s.operationalAddress)
	if err != nil {
		return nil, errors.Wrap(err, "failed to obtain attestation info")
	}

	epoch := &epochtracker.Epoch{
		ID:                info.EpochID,
		StartingBlock:     info.EpochStartingBlock,
		Length:            info.EpochLength,
		StakerAddress:     info.StakerAddress,
		Stake:             info.Stake,
		AttestationWindow: info.AttestationWindow,
	}

	if s.current != nil {
		switch {
		case epoch.ID == s.current.ID:
			// Still in the same epoch; the chain has not advanced yet.
		case epoch.StartingBlock != s.current.StartingBlock+s.current.Length:
			// Epochs are contiguous, so a gap means a reorg or skipped epochs.
			s.log.Warn().
				Uint64("previous_epoch", s.current.ID).
				Uint64("epoch", epoch.ID).
				Uint64("expected_starting_block", s.current.StartingBlock+s.current.Length).
				Uint64("starting_block", epoch.StartingBlock).
				Msg("Epoch boundary discontinuity")
		}
	}
	s.current = epoch

	s.log.Debug().
		Uint64("epoch", epoch.ID).
		Uint64("starting_block", epoch.StartingBlock).
		Uint64("length", epoch.Length).
		Msg("Refreshed epoch")

	return epoch, nil
}
