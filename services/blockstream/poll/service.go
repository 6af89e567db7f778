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

// Package poll is a block stream that polls the node for new blocks.
// It is a fallback for nodes without websocket subscription support;
// attestation events are not available through it.
package poll

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
	"github.com/stakewatch/sentinel/services/blockstream"
	"github.com/stakewatch/sentinel/services/metrics"
)

// Service is a block stream fed by periodic block number polls.
type Service struct {
	log         zerolog.Logger
	monitor     metrics.BlockStreamMonitor
	chainClient chainClient
	interval    time.Duration

	tracker *blockstream.Tracker
}

// New creates a new polling block stream and starts its poll loop.
func New(ctx context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log := zerologger.With().Str("service", "blockstream").Str("impl", "poll").Logger()
	if parameters.logLevel != log.GetLevel() {
		log = log.Level(parameters.logLevel)
	}

	s := &Service{
		log:         log,
		monitor:     parameters.monitor,
		chainClient: parameters.chainClient,
		interval:    parameters.interval,
		tracker:     blockstream.NewTracker(),
	}

	go s.run(ctx)

	return s, nil
}

// Latest provides the most recently observed header.
func (s *Service) Latest() (blockstream.Header, bool) {
	return s.tracker.Latest()
}

// Notifications provides the new-header signal channel.
func (s *Service) Notifications() <-chan struct{} {
	return s.tracker.Notifications()
}

// run polls the node until the context is cancelled.
func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.poll(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// poll makes a single block lookup and feeds the tracker.
func (s *Service) poll(ctx context.Context) {
	number, err := s.chainClient.LatestBlockNumber(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to obtain latest block number")
		return
	}

	if current, ok := s.tracker.Latest(); ok && current.Number == number {
		return
	}

	hash, err := s.chainClient.BlockHash(ctx, number)
	if err != nil {
		s.log.Warn().Err(err).Uint64("block_number", number).Msg("Failed to obtain block hash")
		return
	}

	if s.tracker.Update(blockstream.Header{Number: number, Hash: hash}) {
		s.monitor.LatestBlockNumber(number)
		s.log.Trace().Uint64("block_number", number).Msg("New head")
	}
}
