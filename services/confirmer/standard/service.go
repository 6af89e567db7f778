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

// Package standard is a confirmer using transaction status and chain events.
package standard

import (
	"context"
	"sync"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
	"github.com/stakewatch/sentinel/services/chainclient"
	"github.com/stakewatch/sentinel/services/confirmer"
)

// Service is a confirmer that combines the status of the local
// transaction with attestation events observed on chain.
type Service struct {
	log           zerolog.Logger
	chainClient   chainClient
	stakerAddress *felt.Felt
	pollInterval  time.Duration

	eventsMu sync.Mutex
	events   map[uint64]bool

	cacheMu     sync.Mutex
	cachedAt    time.Time
	cacheEpoch  uint64
	cacheTxHash *felt.Felt
	cached      confirmer.Status
}

// New creates a new confirmer.
func New(_ context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log := zerologger.With().Str("service", "confirmer").Str("impl", "standard").Logger()
	if parameters.logLevel != log.GetLevel() {
		log = log.Level(parameters.logLevel)
	}

	return &Service{
		log:           log,
		chainClient:   parameters.chainClient,
		stakerAddress: parameters.stakerAddress,
		pollInterval:  parameters.pollInterval,
		events:        make(map[uint64]bool),
	}, nil
}

// RecordEvent records an on-chain attestation event for the staker.
func (s *Service) RecordEvent(epochID uint64) {
	s.eventsMu.Lock()
	s.events[epochID] = true
	s.eventsMu.Unlock()

	// An event can flip a cached pending result, so force the next check
	// through to the chain.
	s.cacheMu.Lock()
	s.cachedAt = time.Time{}
	s.cacheMu.Unlock()

	s.log.Debug().Uint64("epoch", epochID).Msg("Recorded attestation event")
}

// hasEvent reports whether an attestation event has been recorded for the epoch.
func (s *Service) hasEvent(epochID uint64) bool {
	s.eventsMu.Lock()
	defer s.eventsMu.Unlock()
	return s.events[epochID]
}

// Check provides the confirmation status of the given epoch's attestation.
// Checks for the same confirmation inside the poll interval are served from
// the previous result to bound chain-query load.
func (s *Service) Check(ctx context.Context, epochID uint64, txHash *felt.Felt) (confirmer.Status, error) {
	if status, ok := s.cachedStatus(epochID, txHash); ok {
		return status, nil
	}

	status, err := s.check(ctx, epochID, txHash)
	if err != nil {
		return status, err
	}

	if s.pollInterval > 0 {
		s.cacheMu.Lock()
		s.cachedAt = time.Now()
		s.cacheEpoch = epochID
		s.cacheTxHash = txHash
		s.cached = status
		s.cacheMu.Unlock()
	}

	return status, nil
}

// cachedStatus provides the previous result if it is still fresh and for the
// same confirmation.
func (s *Service) cachedStatus(epochID uint64, txHash *felt.Felt) (confirmer.Status, bool) {
	if s.pollInterval == 0 {
		return 0, false
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.cachedAt.IsZero() || time.Since(s.cachedAt) >= s.pollInterval {
		return 0, false
	}
	if s.cacheEpoch != epochID || !feltsEqual(s.cacheTxHash, txHash) {
		return 0, false
	}
	return s.cached, true
}

func feltsEqual(a *felt.Felt, b *felt.Felt) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(b)
}

func (s *Service) check(ctx context.Context, epochID uint64, txHash *felt.Felt) (confirmer.Status, error) {
	txStatus := chainclient.TransactionStatusUnknown
	if txHash != nil {
		status, err := s.chainClient.TransactionStatus(ctx, txHash)
		if err != nil {
			return confirmer.StatusPending, errors.Wrap(err, "failed to obtain transaction status")
		}
		txStatus = status
	}

	if s.hasEvent(epochID) {
		if txStatus == chainclient.TransactionStatusIncluded {
			return confirmer.StatusConfirmedLocal, nil
		}
		return confirmer.StatusConfirmedExternal, nil
	}

	switch txStatus {
	case chainclient.TransactionStatusIncluded:
		return confirmer.StatusConfirmedLocal, nil
	case chainclient.TransactionStatusRejected, chainclient.TransactionStatusReverted:
		// The local transaction is dead, but another party may still
		// have attested on the staker's behalf.
		done, err := s.chainClient.AttestationDone(ctx, s.stakerAddress)
		if err != nil {
			return confirmer.StatusPending, errors.Wrap(err, "failed to obtain attestation state")
		}
		if done {
			return confirmer.StatusConfirmedExternal, nil
		}
		return confirmer.StatusFailed, nil
	default:
		done, err := s.chainClient.AttestationDone(ctx, s.stakerAddress)
		if err != nil {
			return confirmer.StatusPending, errors.Wrap(err, "failed to obtain attestation state")
		}
		if done && txHash == nil {
			return confirmer.StatusConfirmedExternal, nil
		}
		return confirmer.StatusPending, nil
	}
}

// Prune discards recorded events for epochs at or before the given epoch.
func (s *Service) Prune(epochID uint64) {
	s.eventsMu.Lock()
	defer s.eventsMu.Unlock()
	for id := range s.events {
		if id <= epochID {
			delete(s.events, id)
		}
	}
}
