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
	"github.com/prometheus/client_golang/prometheus"
)

func (s *Service) setupBlockStreamMetrics() error {
	var err error

	s.latestBlockNumber, err = registerGauge(prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "validator_attestation",
		Subsystem:   "starknet",
		Name:        "latest_block_number",
		Help:        "Latest block number seen by the validator.",
		ConstLabels: s.labels(),
	}))
	if err != nil {
		return err
	}

	return nil
}

// LatestBlockNumber is called when a new latest block is observed.
func (s *Service) LatestBlockNumber(number uint64) {
	s.latestBlockNumber.Set(float64(number))
}
