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

package submitter

import "github.com/shopspring/decimal"

// TipCalculator derives the tip for a transaction from the recent
// median tip, boosting it to improve inclusion odds and applying a
// floor for periods when the median is zero.
type TipCalculator struct {
	// Boost is the multiplier applied to the median tip.
	Boost decimal.Decimal
	// Minimum is the lowest tip ever offered, in fri.
	Minimum uint64
}

// Tip provides the tip to offer given the recent median tip.
func (c *TipCalculator) Tip(median uint64) uint64 {
	boosted := decimal.NewFromUint64(median).Mul(c.Boost)
	minimum := decimal.NewFromUint64(c.Minimum)
	if boosted.LessThan(minimum) {
		return c.Minimum
	}
	return boosted.Ceil().BigInt().Uint64()
}
