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

// Package standard is a controller that attests once per epoch.
package standard

import (
	"context"
	"sync"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
	"github.com/stakewatch/sentinel/services/blockstream"
	"github.com/stakewatch/sentinel/services/chainclient"
	"github.com/stakewatch/sentinel/services/confirmer"
	"github.com/stakewatch/sentinel/services/controller"
	"github.com/stakewatch/sentinel/services/epochtracker"
	"github.com/stakewatch/sentinel/services/metrics"
	"github.com/stakewatch/sentinel/services/submitter"
	"github.com/stakewatch/sentinel/services/windowevaluator"
)

// Service is a controller that walks each epoch through its attestation
// lifecycle, driven by chain head updates.
type Service struct {
	log             zerolog.Logger
	monitor         metrics.ControllerMonitor
	blockStream     blockstream.Service
	chainClient     chainclient.BlockHashProvider
	epochTracker    epochtracker.Service
	windowEvaluator windowevaluator.Service
	submitter       submitter.Service
	confirmer       confirmer.Service
	resubmitDelay   uint64

	mu           sync.Mutex
	state        controller.State
	epoch        *epochtracker.Epoch
	obligation   *windowevaluator.Obligation
	assignedHash *felt.Felt
	txHash       *felt.Felt
	submittedAt  uint64
}

// New creates a new controller.
func New(_ context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log := zerologger.With().Str("service", "controller").Str("impl", "standard").Logger()
	if parameters.logLevel != log.GetLevel() {
		log = log.Level(parameters.logLevel)
	}

	return &Service{
		log:             log,
		monitor:         parameters.monitor,
		blockStream:     parameters.blockStream,
		chainClient:     parameters.chainClient,
		epochTracker:    parameters.epochTracker,
		windowEvaluator: parameters.windowEvaluator,
		submitter:       parameters.submitter,
		confirmer:       parameters.confirmer,
		resubmitDelay:   parameters.resubmitDelay,
		state:           controller.StateIdle,
	}, nil
}

// State provides the current lifecycle state.
func (s *Service) State() controller.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run processes chain head updates until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	s.log.Info().Msg("Controller started")

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("Controller stopped")
			return nil
		case <-s.blockStream.Notifications():
			header, ok := s.blockStream.Latest()
			if !ok {
				continue
			}
			s.process(ctx, header)
		}
	}
}

// process advances the lifecycle for a single head observation.
func (s *Service) process(ctx context.Context, header blockstream.Header) {
	s.mu.Lock()
	defer s.mu.Unlock()

	epoch, err := s.epochTracker.Current(ctx, header.Number)
	if err != nil {
		s.log.Warn().Err(err).Uint64("block_number", header.Number).Msg("Failed to obtain epoch")
		return
	}

	if s.epoch == nil || epoch.ID != s.epoch.ID {
		s.transition(epoch)
	}

	s.step(ctx, header)
}

// transition moves the controller to a new epoch, recording a miss if
// the previous epoch never reached a terminal state.
func (s *Service) transition(epoch *epochtracker.Epoch) {
	if s.epoch != nil {
		if s.state != controller.StateConfirmed && s.state != controller.StateMissed {
			s.markMissed()
		}
		s.confirmer.Prune(s.epoch.ID)
	}

	s.epoch = epoch
	s.obligation = nil
	s.assignedHash = nil
	s.txHash = nil
	s.submittedAt = 0

	obligation, err := s.windowEvaluator.Evaluate(epoch)
	if err != nil {
		s.log.Error().Err(err).Uint64("epoch", epoch.ID).Msg("Failed to evaluate attestation obligation")
		s.state = controller.StateIdle
		return
	}
	s.obligation = obligation
	s.state = controller.StateWaitingForAssignedBlock

	s.monitor.EpochChanged(epoch.ID, epoch.Length, epoch.StartingBlock, obligation.AssignedBlock)
	s.log.Info().
		Uint64("epoch", epoch.ID).
		Uint64("assigned_block", obligation.AssignedBlock).
		Uint64("window_start", obligation.WindowStart).
		Uint64("window_end", obligation.WindowEnd).
		Msg("New epoch")
}

// step runs the state machine for the current head.
func (s *Service) step(ctx context.Context, header blockstream.Header) {
	switch s.state {
	case controller.StateWaitingForAssignedBlock:
		if header.Number < s.obligation.AssignedBlock {
			return
		}
		if header.Number == s.obligation.AssignedBlock && header.Hash != nil {
			// The live header is the assigned block; no lookup needed.
			s.assignedHash = header.Hash
		} else {
			hash, err := s.chainClient.BlockHash(ctx, s.obligation.AssignedBlock)
			if err != nil {
				s.log.Warn().Err(err).Uint64("block_number", s.obligation.AssignedBlock).Msg("Failed to obtain assigned block hash")
				return
			}
			s.assignedHash = hash
		}
		s.state = controller.StateAttesting
		s.log.Debug().
			Uint64("epoch", s.epoch.ID).
			Stringer("block_hash", s.assignedHash).
			Msg("Assigned block produced")
		fallthrough

	case controller.StateAttesting:
		if header.Number >= s.obligation.WindowEnd {
			s.markMissed()
			return
		}
		if header.Number < s.obligation.WindowStart {
			return
		}

		// Another party may already have attested on the staker's behalf.
		status, err := s.confirmer.Check(ctx, s.epoch.ID, nil)
		if err != nil {
			s.log.Warn().Err(err).Msg("Failed to check prior attestation")
		} else if status == confirmer.StatusConfirmedExternal {
			s.monitor.ConfirmationObserved()
			s.state = controller.StateConfirmed
			s.log.Info().Uint64("epoch", s.epoch.ID).Msg("Attestation already recorded")
			return
		}

		txHash, err := s.submitter.Submit(ctx, s.assignedHash)
		if err != nil {
			s.monitor.AttestationFailed()
			s.log.Warn().Err(err).Uint64("epoch", s.epoch.ID).Msg("Failed to submit attestation")
			return
		}
		s.txHash = txHash
		s.submittedAt = header.Number
		s.monitor.AttestationSubmitted()
		s.state = controller.StateAwaitingConfirmation

	case controller.StateAwaitingConfirmation:
		status, err := s.confirmer.Check(ctx, s.epoch.ID, s.txHash)
		if err != nil {
			s.log.Warn().Err(err).Msg("Failed to check confirmation")
			s.maybeResubmit(header)
			return
		}
		switch status {
		case confirmer.StatusConfirmedLocal:
			s.monitor.AttestationConfirmed()
			s.state = controller.StateConfirmed
			s.log.Info().Uint64("epoch", s.epoch.ID).Msg("Attestation confirmed")
		case confirmer.StatusConfirmedExternal:
			s.monitor.ConfirmationObserved()
			s.state = controller.StateConfirmed
			s.log.Info().Uint64("epoch", s.epoch.ID).Msg("Attestation recorded by another party")
		case confirmer.StatusFailed:
			s.monitor.AttestationFailed()
			s.txHash = nil
			if header.Number < s.obligation.WindowEnd {
				s.log.Warn().Uint64("epoch", s.epoch.ID).Msg("Attestation transaction failed; retrying")
				s.state = controller.StateAttesting
			} else {
				s.markMissed()
			}
		case confirmer.StatusPending:
			// A transaction submitted inside the window may still be
			// included after it closes, so pending never turns into a
			// miss here; an unconfirmed transaction is resubmitted while
			// the window remains open.
			s.maybeResubmit(header)
		}

	case controller.StateIdle, controller.StateConfirmed, controller.StateMissed:
		// Nothing to do until the next epoch.
	}
}

// maybeResubmit returns the controller to the attesting state when the
// in-flight transaction has gone unconfirmed for the resubmit delay and
// the window is still open.
func (s *Service) maybeResubmit(header blockstream.Header) {
	if header.Number < s.submittedAt+s.resubmitDelay || header.Number >= s.obligation.WindowEnd {
		return
	}
	s.log.Warn().
		Uint64("epoch", s.epoch.ID).
		Uint64("submitted_at", s.submittedAt).
		Msg("No confirmation after resubmit delay; resubmitting")
	s.txHash = nil
	s.state = controller.StateAttesting
}

// markMissed records the current epoch as missed.  It is recorded at
// most once per epoch.
func (s *Service) markMissed() {
	if s.state == controller.StateMissed {
		return
	}
	s.state = controller.StateMissed
	s.monitor.EpochMissed()

	log := s.log.Warn()
	if s.epoch != nil {
		log = log.Uint64("epoch", s.epoch.ID)
	}
	log.Msg("Missed attestation")
}
