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
	"github.com/shopspring/decimal"
)

func (s *Service) setupAccountMetrics() error {
	var err error

	s.accountBalance, err = registerGauge(prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "validator_attestation",
		Name:        "operational_account_balance_strk",
		Help:        "STRK balance of the operational account.",
		ConstLabels: s.labels(),
	}))
	if err != nil {
		return err
	}

	return nil
}

// Balance is called when the operational account balance has been refreshed.
func (s *Service) Balance(balance decimal.Decimal) {
	s.accountBalance.Set(balance.InexactFloat64())
}
