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

package prometheus

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

func (s *Service) setupClientMetrics() error {
	s.clientOperationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   "sentinel",
		Subsystem:   "client_operation",
		Name:        "requests_total",
		Help:        "The number of client operations.",
		ConstLabels: s.labels(),
	}, []string{"provider", "operation", "result"})
	if err := prometheus.Register(s.clientOperationCounter); err != nil {
		var alreadyRegisteredError prometheus.AlreadyRegisteredError
		if ok := errors.As(err, &alreadyRegisteredError); ok {
			s.clientOperationCounter = alreadyRegisteredError.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return err
		}
	}

	s.clientOperationTimer = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   "sentinel",
		Subsystem:   "client_operation",
		Name:        "duration_seconds",
		Help:        "The time spent in client operations.",
		ConstLabels: s.labels(),
		Buckets: []float64{
			0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0,
			1.5, 2.0, 2.5, 3.0, 3.5, 4.0, 5.0, 7.5, 10.0, 15.0,
		},
	}, []string{"provider", "operation"})
	if err := prometheus.Register(s.clientOperationTimer); err != nil {
		var alreadyRegisteredError prometheus.AlreadyRegisteredError
		if ok := errors.As(err, &alreadyRegisteredError); ok {
			s.clientOperationTimer = alreadyRegisteredError.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return err
		}
	}

	return nil
}

// ClientOperation provides a generic monitor for client operations.
func (s *Service) ClientOperation(provider string, name string, succeeded bool, duration time.Duration) {
	if succeeded {
		s.clientOperationCounter.WithLabelValues(provider, name, "succeeded").Inc()
		s.clientOperationTimer.WithLabelValues(provider, name).Observe(duration.Seconds())
	} else {
		s.clientOperationCounter.WithLabelValues(provider, name, "failed").Inc()
	}
}
