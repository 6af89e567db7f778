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

package starknet

import (
	"context"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stakewatch/sentinel/services/metrics"
	nullmetrics "github.com/stakewatch/sentinel/services/metrics/null"
)

type parameters struct {
	logLevel            zerolog.Level
	monitor             metrics.ClientMonitor
	address             string
	timeout             time.Duration
	stakingContract     *felt.Felt
	attestationContract *felt.Felt
	strkToken           *felt.Felt
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
func WithMonitor(monitor metrics.ClientMonitor) Parameter {
	return parameterFunc(func(p *parameters) {
		p.monitor = monitor
	})
}

// WithAddress sets the JSON-RPC endpoint address of the StarkNet node.
func WithAddress(address string) Parameter {
	return parameterFunc(func(p *parameters) {
		p.address = address
	})
}

// WithTimeout sets the timeout for chain calls.
func WithTimeout(timeout time.Duration) Parameter {
	return parameterFunc(func(p *parameters) {
		p.timeout = timeout
	})
}

// WithStakingContract sets the address of the staking contract.
func WithStakingContract(address *felt.Felt) Parameter {
	return parameterFunc(func(p *parameters) {
		p.stakingContract = address
	})
}

// WithAttestationContract sets the address of the attestation contract.
func WithAttestationContract(address *felt.Felt) Parameter {
	return parameterFunc(func(p *parameters) {
		p.attestationContract = address
	})
}

// WithSTRKToken sets the address of the STRK token contract.
func WithSTRKToken(address *felt.Felt) Parameter {
	return parameterFunc(func(p *parameters) {
		p.strkToken = address
	})
}

// parseAndCheckParameters parses and checks parameters to ensure that mandatory parameters are present and correct.
func parseAndCheckParameters(params ...Parameter) (*parameters, error) {
	parameters := parameters{
		logLevel: zerolog.GlobalLevel(),
		monitor:  nullmetrics.New(context.Background()),
		timeout:  10 * time.Second,
	}
	for _, p := range params {
		if params != nil {
			p.apply(&parameters)
		}
	}

	if parameters.address == "" {
		return nil, errors.New("no address specified")
	}
	if parameters.stakingContract == nil {
		return nil, errors.New("no staking contract specified")
	}
	if parameters.attestationContract == nil {
		return nil, errors.New("no attestation contract specified")
	}
	if parameters.strkToken == nil {
		return nil, errors.New("no STRK token contract specified")
	}

	return &parameters, nil
}
