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

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stakewatch/sentinel/services/blockstream"
	"github.com/stakewatch/sentinel/services/chainclient"
	"github.com/stakewatch/sentinel/services/confirmer"
	"github.com/stakewatch/sentinel/services/epochtracker"
	"github.com/stakewatch/sentinel/services/metrics"
	nullmetrics "github.com/stakewatch/sentinel/services/metrics/null"
	"github.com/stakewatch/sentinel/services/submitter"
	"github.com/stakewatch/sentinel/services/windowevaluator"
)

type parameters struct {
	logLevel        zerolog.Level
	monitor         metrics.ControllerMonitor
	blockStream     blockstream.Service
	chainClient     chainclient.BlockHashProvider
	epochTracker    epochtracker.Service
	windowEvaluator windowevaluator.Service
	submitter       submitter.Service
	confirmer       confirmer.Service
	resubmitDelay   uint64
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
func WithMonitor(monitor metrics.ControllerMonitor) Parameter {
	return parameterFunc(func(p *parameters) {
		p.monitor = monitor
	})
}

// WithBlockStream sets the source of chain head updates.
func WithBlockStream(blockStream blockstream.Service) Parameter {
	return parameterFunc(func(p *parameters) {
		p.blockStream = blockStream
	})
}

// WithChainClient sets the chain client for block hash lookups.
func WithChainClient(chainClient chainclient.BlockHashProvider) Parameter {
	return parameterFunc(func(p *parameters) {
		p.chainClient = chainClient
	})
}

// WithEpochTracker sets the epoch tracker.
func WithEpochTracker(epochTracker epochtracker.Service) Parameter {
	return parameterFunc(func(p *parameters) {
		p.epochTracker = epochTracker
	})
}

// WithWindowEvaluator sets the attestation window evaluator.
func WithWindowEvaluator(windowEvaluator windowevaluator.Service) Parameter {
	return parameterFunc(func(p *parameters) {
		p.windowEvaluator = windowEvaluator
	})
}

// WithSubmitter sets the attestation submitter.
func WithSubmitter(submitterSvc submitter.Service) Parameter {
	return parameterFunc(func(p *parameters) {
		p.submitter = submitterSvc
	})
}

// WithConfirmer sets the attestation confirmer.
func WithConfirmer(confirmerSvc confirmer.Service) Parameter {
	return parameterFunc(func(p *parameters) {
		p.confirmer = confirmerSvc
	})
}

// WithResubmitDelay sets the number of blocks an unconfirmed attestation
// transaction is waited on before it is resubmitted within the window.
func WithResubmitDelay(resubmitDelay uint64) Parameter {
	return parameterFunc(func(p *parameters) {
		p.resubmitDelay = resubmitDelay
	})
}

// parseAndCheckParameters parses and checks parameters to ensure that mandatory parameters are present and correct.
func parseAndCheckParameters(params ...Parameter) (*parameters, error) {
	parameters := parameters{
		logLevel:      zerolog.GlobalLevel(),
		monitor:       nullmetrics.New(context.Background()),
		resubmitDelay: 10,
	}
	for _, p := range params {
		if params != nil {
			p.apply(&parameters)
		}
	}

	if parameters.blockStream == nil {
		return nil, errors.New("no block stream specified")
	}
	if parameters.chainClient == nil {
		return nil, errors.New("no chain client specified")
	}
	if parameters.epochTracker == nil {
		return nil, errors.New("no epoch tracker specified")
	}
	if parameters.windowEvaluator == nil {
		return nil, errors.New("no window evaluator specified")
	}
	if parameters.submitter == nil {
		return nil, errors.New("no submitter specified")
	}
	if parameters.confirmer == nil {
		return nil, errors.New("no confirmer specified")
	}
	if parameters.resubmitDelay == 0 {
		return nil, errors.New("no resubmit delay specified")
	}

	return &parameters, nil
}
