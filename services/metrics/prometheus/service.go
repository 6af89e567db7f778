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

// Package prometheus is a metrics service exposing metrics via prometheus.
package prometheus

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	zerologger "github.com/rs/zerolog/log"
)

// Service is a metrics service exposing metrics via prometheus.
type Service struct {
	network string

	latestBlockNumber prometheus.Gauge

	currentEpochID            prometheus.Gauge
	currentEpochLength        prometheus.Gauge
	currentEpochStartingBlock prometheus.Gauge
	currentEpochAssignedBlock prometheus.Gauge

	lastAttestationTimestamp prometheus.Gauge
	attestationsSubmitted    prometheus.Counter
	attestationsFailed       prometheus.Counter
	attestationsConfirmed    prometheus.Counter
	confirmationsObserved    prometheus.Counter
	missedEpochs             prometheus.Counter

	accountBalance prometheus.Gauge

	clientOperationCounter *prometheus.CounterVec
	clientOperationTimer   *prometheus.HistogramVec
}

// module-wide log.
var log zerolog.Logger

// New creates a new prometheus metrics service.
func New(_ context.Context, params ...Parameter) (*Service, error) {
	parameters, err := parseAndCheckParameters(params...)
	if err != nil {
		return nil, errors.Wrap(err, "problem with parameters")
	}

	// Set logging.
	log = zerologger.With().Str("service", "metrics").Str("impl", "prometheus").Logger()
	if parameters.logLevel != log.GetLevel() {
		log = log.Level(parameters.logLevel)
	}

	s := &Service{
		network: parameters.network,
	}

	if err := s.setupBlockStreamMetrics(); err != nil {
		return nil, errors.Wrap(err, "failed to set up block stream metrics")
	}
	if err := s.setupControllerMetrics(); err != nil {
		return nil, errors.Wrap(err, "failed to set up controller metrics")
	}
	if err := s.setupAccountMetrics(); err != nil {
		return nil, errors.Wrap(err, "failed to set up account metrics")
	}
	if err := s.setupClientMetrics(); err != nil {
		return nil, errors.Wrap(err, "failed to set up client metrics")
	}

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(parameters.address, nil); err != nil {
			log.Warn().Str("metrics_address", parameters.address).Err(err).Msg("Failed to run metrics server")
		}
	}()

	return s, nil
}

// Presenter provides the presenter for this service.
func (*Service) Presenter() string {
	return "prometheus"
}

// registerGauge registers a gauge, reusing an existing collector if one is present.
func registerGauge(gauge prometheus.Gauge) (prometheus.Gauge, error) {
	if err := prometheus.Register(gauge); err != nil {
		var alreadyRegisteredError prometheus.AlreadyRegisteredError
		if ok := errors.As(err, &alreadyRegisteredError); ok {
			return alreadyRegisteredError.ExistingCollector.(prometheus.Gauge), nil
		}
		return nil, err
	}
	return gauge, nil
}

// registerCounter registers a counter, reusing an existing collector if one is present.
func registerCounter(counter prometheus.Counter) (prometheus.Counter, error) {
	if err := prometheus.Register(counter); err != nil {
		var alreadyRegisteredError prometheus.AlreadyRegisteredError
		if ok := errors.As(err, &alreadyRegisteredError); ok {
			return alreadyRegisteredError.ExistingCollector.(prometheus.Counter), nil
		}
		return nil, err
	}
	return counter, nil
}

func (s *Service) labels() prometheus.Labels {
	return prometheus.Labels{"network": s.network}
}
