// Copyright 2026 The Genius Authors
//
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

// Package costmodel implements the deterministic price-per-byte cost
// estimator of spec §4.K.
package costmodel

import (
	"fmt"
	"math/bits"

	"github.com/GeniusVentures/geniuscore/internal/fixedpoint"
)

// usdPrecision is the working precision at which "usd = flops ×
// 5 × 10^-13" is carried: a plain integer count of flops times 5 is
// exactly that quantity scaled by 10^13.
const usdPrecision = 13

// nativeWorkingPrecision is the precision "native" is held at before the
// final conversion to minions (precision 6), minimizing rounding loss.
const nativeWorkingPrecision = fixedpoint.MaxPrecision

// CostMinions estimates the minion cost of processing totalBytes, given
// the current USD price of one native token (a decimal string, e.g.
// "1.25"). It fails on overflow at any step (spec §4.K).
func CostMinions(totalBytes uint64, priceUSDPerNative string) (uint64, error) {
	priceFP, err := fixedpoint.FromString(priceUSDPerNative, usdPrecision)
	if err != nil {
		return 0, fmt.Errorf("costmodel: parse price: %w", err)
	}
	if priceFP == 0 {
		return 0, fmt.Errorf("%w: zero price", fixedpoint.ErrOutOfRange)
	}

	flopsHi, flops := bits.Mul64(totalBytes, 20)
	if flopsHi != 0 {
		return 0, fmt.Errorf("%w: flops overflow for %d bytes", fixedpoint.ErrValueTooLarge, totalBytes)
	}

	usdHi, usdFP := bits.Mul64(flops, 5)
	if usdHi != 0 {
		return 0, fmt.Errorf("%w: usd overflow for %d flops", fixedpoint.ErrValueTooLarge, flops)
	}

	nativeFP, err := fixedpoint.Divide(usdFP, priceFP, nativeWorkingPrecision)
	if err != nil {
		return 0, fmt.Errorf("costmodel: %w", err)
	}

	minions, err := fixedpoint.ConvertPrecision(nativeFP, nativeWorkingPrecision, 6)
	if err != nil {
		return 0, fmt.Errorf("costmodel: %w", err)
	}
	if minions == 0 {
		return 1, nil
	}
	return minions, nil
}
