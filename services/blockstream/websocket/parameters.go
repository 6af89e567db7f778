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

package websocket

import (
	"context"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stakewatch/sentinel/services/blockstream"
	"github.com/stakewatch/sentinel/services/metrics"
	nullmetrics "github.com/stakewatch/sentinel/services/metrics/null"
)

type parameters struct {
	logLevel            zerolog.Level
	monitor             metrics.BlockStreamMonitor
	address             string
	attestationContract *felt.Felt
	stakerAddress       *felt.Felt
	eventHandler        blockstream.EventHandler
	restartDelay        time.Duration
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
func WithMonitor(monitor metrics.BlockStreamMonitor) Parameter {
	return parameterFunc(func(p *parameters) {
		p.monitor = monitor
	})
}

// WithAddress sets the websocket URL of the node's JSON-RPC API.
func WithAddress(address string) Parameter {
	return parameterFunc(func(p *parameters) {
		p.address = address
	})
}

// WithAttestationContract sets the contract whose events are watched.
func WithAttestationContract(attestationContract *felt.Felt) Parameter {
	return parameterFunc(func(p *parameters) {
		p.attestationContract = attestationContract
	})
}

// WithStakerAddress sets the staker whose attestation events are reported.
func WithStakerAddress(stakerAddress *felt.Felt) Parameter {
	return parameterFunc(func(p *parameters) {
		p.stakerAddress = stakerAddress
	})
}

// WithEventHandler sets the handler for attestation events.
func WithEventHandler(eventHandler blockstream.EventHandler) Parameter {
	return parameterFunc(func(p *parameters) {
		p.eventHandler = eventHandler
	})
}

// WithRestartDelay sets the delay before a dropped subscription is re-established.
func WithRestartDelay(restartDelay time.Duration) Parameter {
	return parameterFunc(func(p *parameters) {
		p.restartDelay = restartDelay
	})
}

// parseAndCheckParameters parses and checks parameters to ensure that mandatory parameters are present and correct.
func parseAndCheckParameters(params ...Parameter) (*parameters, error) {
	parameters := parameters{
		logLevel:     zerolog.GlobalLevel(),
		monitor:      nullmetrics.New(context.Background()),
		restartDelay: 5 * time.Second,
	}
	for _, p := range params {
		if params != nil {
			p.apply(&parameters)
		}
	}

	if parameters.address == "" {
		return nil, errors.New("no address specified")
	}
	if parameters.attestationContract == nil {
		return nil, errors.New("no attestation contract specified")
	}
	if parameters.stakerAddress == nil {
		return nil, errors.New("no staker address specified")
	}
	if parameters.eventHandler == nil {
		return nil, errors.New("no event handler specified")
	}
	if parameters.restartDelay == 0 {
		return nil, errors.New("no restart delay specified")
	}

	return &parameters, nil
}
