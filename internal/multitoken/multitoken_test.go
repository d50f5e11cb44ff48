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

package multitoken

import "testing"

func TestParseFormatRoundTrip(t *testing.T) {
	const valueInNative = 2_000_000 // 2.0, precision 6
	const precision = 6

	minions, err := ParseChildTokens("4.000000", valueInNative, precision)
	if err != nil {
		t.Fatal(err)
	}
	if minions != 8_000_000 {
		t.Fatalf("got %d want 8000000", minions)
	}

	text, err := FormatChildTokens(minions, valueInNative, precision)
	if err != nil {
		t.Fatal(err)
	}
	if text != "4.000000" {
		t.Fatalf("got %q want 4.000000", text)
	}

	roundTrip, err := ParseChildTokens(text, valueInNative, precision)
	if err != nil {
		t.Fatal(err)
	}
	if roundTrip != minions {
		t.Fatalf("round trip mismatch: got %d want %d", roundTrip, minions)
	}
}

func TestParseChildTokensHalfScale(t *testing.T) {
	// value_in_native = 0.5 at precision 6: one child token is worth half
	// a native token.
	minions, err := ParseChildTokens("10.0", 500_000, 6)
	if err != nil {
		t.Fatal(err)
	}
	if minions != 5_000_000 {
		t.Fatalf("got %d want 5000000", minions)
	}
}
