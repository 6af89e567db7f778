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

package standard

import (
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stakewatch/sentinel/services/chainclient"
)

// chainClient is the subset of chain operations the confirmer needs.
type chainClient interface {
	chainclient.TransactionStatusProvider
	chainclient.AttestationStatusProvider
}

type parameters struct {
	logLevel      zerolog.Level
	chainClient   chainClient
	stakerAddress *felt.Felt
	pollInterval  time.Duration
}

// Parameter is the interface for service parameters.
type Parameter interface {
	apply(*parameters)
}

type parameterFunc func(*parameters)

func (f parameterFunc) apply(p *parameters) {
	f(p)
}

// WithLogLevel sets the log level for the module.
func WithLogLevel(logLevel zerolog.Level) Parameter {
	return parameterFunc(func(p *parameters) {
		p.logLevel = logLevel
	})
}

// WithChainClient sets the chain client for confirmation lookups.
func WithChainClient(chainClient chainClient) Parameter {
	return parameterFunc(func(p *parameters) {
		p.chainClient = chainClient
	})
}

// WithStakerAddress sets the staker address whose attestations are confirmed.
func WithStakerAddress(stakerAddress *felt.Felt) Parameter {
	return parameterFunc(func(p *parameters) {
		p.stakerAddress = stakerAddress
	})
}

// WithPollInterval sets the minimum interval between chain queries for the
// same confirmation; checks inside the interval are served from the last
// result.  A zero interval queries the chain on every check.
func WithPollInterval(pollInterval time.Duration) Parameter {
	return parameterFunc(func(p *parameters) {
		p.pollInterval = pollInterval
	})
}

// parseAndCheckParameters parses and checks parameters to ensure that mandatory parameters are present and correct.
func parseAndCheckParameters(params ...Parameter) (*parameters, error) {
	parameters := parameters{
		logLevel:     zerolog.GlobalLevel(),
		pollInterval: 5 * time.Second,
	}
	for _, p := range params {
		if params != nil {
			p.apply(&parameters)
		}
	}

	if parameters.chainClient == nil {
		return nil, errors.New("no chain client specified")
	}
	if parameters.stakerAddress == nil {
		return nil, errors.New("no staker address specified")
	}

	return &parameters, nil
}
