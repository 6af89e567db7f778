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
	"context"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stakewatch/sentinel/services/chainclient"
	"github.com/stakewatch/sentinel/services/metrics"
	nullmetrics "github.com/stakewatch/sentinel/services/metrics/null"
)

// chainClient is the subset of chain operations the account manager needs.
type chainClient interface {
	chainclient.NonceProvider
	chainclient.BalanceProvider
}

type parameters struct {
	logLevel    zerolog.Level
	monitor     metrics.AccountManagerMonitor
	chainClient chainClient
	address     *felt.Felt
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

// WithMonitor sets the monitor for the module.
func WithMonitor(monitor metrics.AccountManagerMonitor) Parameter {
	return parameterFunc(func(p *parameters) {
		p.monitor = monitor
	})
}

// WithChainClient sets the chain client for nonce and balance lookups.
func WithChainClient(chainClient chainClient) Parameter {
	return parameterFunc(func(p *parameters) {
		p.chainClient = chainClient
	})
}

// WithAddress sets the operational account address.
func WithAddress(address *felt.Felt) Parameter {
	return parameterFunc(func(p *parameters) {
		p.address = address
	})
}

// parseAndCheckParameters parses and checks parameters to ensure that mandatory parameters are present and correct.
func parseAndCheckParameters(params ...Parameter) (*parameters, error) {
	parameters := parameters{
		logLevel: zerolog.GlobalLevel(),
		monitor:  nullmetrics.New(context.Background()),
	}
	for _, p := range params {
		if params != nil {
			p.apply(&parameters)
		}
	}

	if parameters.chainClient == nil {
		return nil, errors.New("no chain client specified")
	}
	if parameters.address == nil {
		return nil, errors.New("no address specified")
	}

	return &parameters, nil
}
