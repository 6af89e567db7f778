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

package submitter_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stakewatch/sentinel/services/submitter"
	"github.com/stretchr/testify/require"
)

func TestTipCalculator(t *testing.T) {
	tests := []struct {
		name    string
		boost   string
		minimum uint64
		median  uint64
		tip     uint64
	}{
		{
			name:    "ZeroMedianUsesMinimum",
			boost:   "1.5",
			minimum: 100,
			median:  0,
			tip:     100,
		},
		{
			name:    "BoostedMedian",
			boost:   "1.5",
			minimum: 100,
			median:  1000,
			tip:     1500,
		},
		{
			name:    "BoostRoundsUp",
			boost:   "1.1",
			minimum: 0,
			median:  15,
			tip:     17,
		},
		{
			name:    "BelowMinimum",
			boost:   "2",
			minimum: 500,
			median:  100,
			tip:     500,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			calc := &submitter.TipCalculator{
				Boost:   decimal.RequireFromString(test.boost),
				Minimum: test.minimum,
			}
			require.Equal(t, test.tip, calc.Tip(test.median))
		})
	}
}
