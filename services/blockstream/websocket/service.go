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

// Package websocket is a block stream using JSON-RPC websocket subscriptions.
package websocket

import (
	"context"
	"encoding/json"
	"math/big"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/utils"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
	"github.com/stakewatch/sentinel/services/blockstream"
	"github.com/stakewatch/sentinel/services/metrics"
	"golang.org/x/sync/errgroup"
)

// Service is a block stream fed by websocket subscriptions.  Dropped
// subscriptions are re-established after a delay.
type Service struct {
	log                 zerolog.Logger
	monitor             metrics.BlockStreamMonitor
	address             string
	attestationContract *felt.Felt
	stakerAddress       *felt.Felt
	eventHandler        blockstream.EventHandler
	restartDelay        time.Duration
	eventKey            *felt.Felt

	tracker *blockstream.Tracker
}

type subscriptionRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type eventFilter struct {
	FromAddress *felt.Felt     `json:"from_address"`
	Keys        [][]*felt.Felt `json:"keys"`
}

type subscriptionResponse struct {
	ID     uint64 `json:"id"`
	Result uint64 `json:"result"`
}

type notification struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

type newHeadsParams struct {
	Result struct {
		BlockHash   *felt.Felt `json:"block_hash"`
		BlockNumber uint64     `json:"block_number"`
	} `json:"result"`
	SubscriptionID uint64 `json:"subscription_id"`
}

type eventsParams struct {
	Result struct {
		FromAddress *felt.Felt   `json:"from_address"`
		Keys        []*felt.Felt `json:"keys"`
		Data        []*felt.Felt `json:"data"`
		BlockNumber uint64       `json:"block_number"`
	} `json:"result"`
	SubscriptionID uint64 `json:"subscription_id"`
}

type reorgParams struct {
	Result struct {
		StartingBlockNumber uint64 `json:"starting_block_number"`
		EndingBlockNumber   uint64 `json:"ending_block_number"`
	} `json:"result"`
	SubscriptionID uint64 `json:"subscription_id"`
}

// New creates a new websocket block stream and starts its subscriptions.
func New(ctx context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log := zerologger.With().Str("service", "blockstream").Str("impl", "websocket").Logger()
	if parameters.logLevel != log.GetLevel() {
		log = log.Level(parameters.logLevel)
	}

	s := &Service{
		log:                 log,
		monitor:             parameters.monitor,
		address:             parameters.address,
		attestationContract: parameters.attestationContract,
		stakerAddress:       parameters.stakerAddress,
		eventHandler:        parameters.eventHandler,
		restartDelay:        parameters.restartDelay,
		eventKey:            utils.GetSelectorFromNameFelt("StakerAttestationSuccessful"),
		tracker:             blockstream.NewTracker(),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.run(ctx, "new heads", s.streamHeads)
		return nil
	})
	g.Go(func() error {
		s.run(ctx, "events", s.streamEvents)
		return nil
	})
	go func() {
		_ = g.Wait()
	}()

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

// run keeps a subscription alive, re-establishing it after failures.
func (s *Service) run(ctx context.Context, name string, stream func(ctx context.Context) error) {
	for {
		if err := stream(ctx); err != nil {
			s.log.Warn().Err(err).Str("subscription", name).Msg("Subscription failed; restarting")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.restartDelay):
		}
	}
}

// streamHeads subscribes to new block headers and feeds the tracker.
func (s *Service) streamHeads(ctx context.Context) error {
	return s.stream(ctx, "starknet_subscribeNewHeads", struct{}{})
}

// streamEvents subscribes to the attestation contract's success events.
func (s *Service) streamEvents(ctx context.Context) error {
	return s.stream(ctx, "starknet_subscribeEvents", &eventFilter{
		FromAddress: s.attestationContract,
		Keys:        [][]*felt.Felt{{s.eventKey}},
	})
}

// stream establishes a single subscription and processes its
// notifications until the connection drops or the context is cancelled.
func (s *Service) stream(ctx context.Context, method string, filter any) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.address, nil)
	if err != nil {
		return errors.Wrap(err, "failed to connect")
	}
	defer conn.Close()

	// Unblock the read loop when the context is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	if err := conn.WriteJSON(&subscriptionRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  filter,
	}); err != nil {
		return errors.Wrap(err, "failed to send subscription request")
	}

	_, data, err := conn.ReadMessage()
	if err != nil {
		return errors.Wrap(err, "failed to read subscription response")
	}
	var resp subscriptionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return errors.Wrap(err, "malformed subscription response")
	}
	if resp.ID != 1 {
		return errors.New("unexpected subscription response ID")
	}
	s.log.Debug().Str("method", method).Uint64("subscription_id", resp.Result).Msg("Subscription established")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "failed to read notification")
		}
		if err := s.handleMessage(data); err != nil {
			s.log.Debug().Err(err).Msg("Dropped notification")
		}
	}
}

// handleMessage processes a single notification message.
func (s *Service) handleMessage(data []byte) error {
	var note notification
	if err := json.Unmarshal(data, &note); err != nil {
		return errors.Wrap(err, "malformed notification")
	}

	switch note.Method {
	case "starknet_subscriptionNewHeads":
		var params newHeadsParams
		if err := json.Unmarshal(note.Params, &params); err != nil {
			return errors.Wrap(err, "malformed new heads notification")
		}
		if s.tracker.Update(blockstream.Header{
			Number: params.Result.BlockNumber,
			Hash:   params.Result.BlockHash,
		}) {
			s.monitor.LatestBlockNumber(params.Result.BlockNumber)
			s.log.Trace().Uint64("block_number", params.Result.BlockNumber).Msg("New head")
		}
	case "starknet_subscriptionEvents":
		var params eventsParams
		if err := json.Unmarshal(note.Params, &params); err != nil {
			return errors.Wrap(err, "malformed events notification")
		}
		s.handleEvent(&params)
	case "starknet_subscriptionReorg":
		var params reorgParams
		if err := json.Unmarshal(note.Params, &params); err != nil {
			return errors.Wrap(err, "malformed reorg notification")
		}
		s.log.Warn().
			Uint64("starting_block_number", params.Result.StartingBlockNumber).
			Uint64("ending_block_number", params.Result.EndingBlockNumber).
			Msg("Chain reorganization")
	default:
		return errors.Errorf("unknown notification method %q", note.Method)
	}

	return nil
}

// handleEvent forwards attestation success events for the configured staker.
func (s *Service) handleEvent(params *eventsParams) {
	keys := params.Result.Keys
	if len(keys) < 2 || !keys[0].Equal(s.eventKey) {
		return
	}
	if !keys[1].Equal(s.stakerAddress) {
		return
	}
	if len(params.Result.Data) == 0 {
		s.log.Debug().Msg("Attestation event without epoch ID")
		return
	}

	epochID := params.Result.Data[0].BigInt(new(big.Int)).Uint64()
	s.log.Debug().Uint64("epoch", epochID).Msg("Observed attestation event")
	s.eventHandler(epochID)
}
