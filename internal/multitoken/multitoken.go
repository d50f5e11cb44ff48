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

// Package multitoken implements MultiTokenAmount (spec §4.L): parsing and
// formatting of a child token's decimal amount against the native token's
// minion scale, given the token's value-in-native.
package multitoken

import "github.com/GeniusVentures/geniuscore/internal/fixedpoint"

// childPrecision is the fractional-digit count a child-token decimal
// string is parsed/rendered at.
const childPrecision = 6

// ParseChildTokens converts a decimal child-token amount into native
// minion units, given the token's value_in_native (scaled by
// 10^valueInNativePrecision). child_units × value_in_native =
// native_minions (spec §4.L).
func ParseChildTokens(text string, valueInNative uint64, valueInNativePrecision uint8) (uint64, error) {
	childFP, err := fixedpoint.FromString(text, childPrecision)
	if err != nil {
		return 0, err
	}
	return fixedpoint.Multiply(childFP, valueInNative, valueInNativePrecision)
}

// FormatChildTokens is the inverse of ParseChildTokens: given an amount in
// native minions, render the equivalent decimal child-token amount.
func FormatChildTokens(minions uint64, valueInNative uint64, valueInNativePrecision uint8) (string, error) {
	childFP, err := fixedpoint.Divide(minions, valueInNative, valueInNativePrecision)
	if err != nil {
		return "", err
	}
	return fixedpoint.ToString(childFP, childPrecision)
}
