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

// Package standard is an account manager backed by chain lookups.
package standard

import (
	"context"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
	deadlock "github.com/sasha-s/go-deadlock"
	"github.com/shopspring/decimal"
	"github.com/stakewatch/sentinel/services/metrics"
)

// friPerSTRK is the number of fri in one STRK.
var friPerSTRK = decimal.New(1, 18)

// Service is an account manager that allocates nonces locally and
// resynchronizes with the chain on demand.
type Service struct {
	log         zerolog.Logger
	monitor     metrics.AccountManagerMonitor
	chainClient chainClient
	address     *felt.Felt

	nonceMu deadlock.Mutex
	nonce   *felt.Felt
}

// New creates a new account manager.
func New(_ context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log := zerologger.With().Str("service", "accountmanager").Str("impl", "standard").Logger()
	if parameters.logLevel != log.GetLevel() {
		log = log.Level(parameters.logLevel)
	}

	return &Service{
		log:         log,
		monitor:     parameters.monitor,
		chainClient: parameters.chainClient,
		address:     parameters.address,
	}, nil
}

// Address provides the operational account address.
func (s *Service) Address() *felt.Felt {
	return s.address
}

// NextNonce provides the next unused nonce for the account.
func (s *Service) NextNonce(ctx context.Context) (*felt.Felt, error) {
	s.nonceMu.Lock()
	defer s.nonceMu.Unlock()

	if s.nonce == nil {
		nonce, err := s.chainClient.Nonce(ctx, s.address)
		if err != nil {
			return nil, errors.Wrap(err, "failed to obtain nonce")
		}
		s.nonce = nonce
	}

	next := new(felt.Felt).Set(s.nonce)
	s.nonce = new(felt.Felt).Add(s.nonce, new(felt.Felt).SetUint64(1))

	return next, nil
}

// RefreshNonce discards the local nonce state and refetches it from the chain.
func (s *Service) RefreshNonce(ctx context.Context) error {
	s.nonceMu.Lock()
	defer s.nonceMu.Unlock()

	nonce, err := s.chainClient.Nonce(ctx, s.address)
	if err != nil {
		return errors.Wrap(err, "failed to obtain nonce")
	}
	s.nonce = nonce
	s.log.Debug().Stringer("nonce", nonce).Msg("Refreshed nonce")

	return nil
}

// RefreshBalance fetches the account's STRK balance from the chain.
func (s *Service) RefreshBalance(ctx context.Context) (decimal.Decimal, error) {
	balance, err := s.chainClient.Balance(ctx, s.address)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to obtain balance")
	}

	strk := decimal.NewFromBigInt(balance.ToBig(), 0).Div(friPerSTRK)
	s.monitor.Balance(strk)

	return strk, nil
}
