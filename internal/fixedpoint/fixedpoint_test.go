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

package fixedpoint

import "testing"

func TestFromStringToString(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		precision uint8
		want      uint64
		wantErr   bool
	}{
		{name: "integer only", input: "500000", precision: 6, want: 500_000_000_000},
		{name: "fraction padded", input: "1.5", precision: 6, want: 1_500_000},
		{name: "fraction exact width", input: "0.000001", precision: 6, want: 1},
		{name: "leading dot", input: ".25", precision: 2, want: 25},
		{name: "empty", input: "", precision: 6, wantErr: true},
		{name: "non digit", input: "12a", precision: 6, wantErr: true},
		{name: "fraction too long", input: "1.1234567", precision: 6, wantErr: true},
		{name: "precision too large", input: "1.0", precision: 19, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromString(tt.input, tt.precision)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if got != tt.want {
				t.Fatalf("FromString(%q,%d) = %d, want %d", tt.input, tt.precision, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 999, 1_000_000, 999_999_999_999_999_999}
	for _, p := range []uint8{0, 2, 6, 18} {
		for _, v := range values {
			scale, _ := Pow10(p)
			if v >= scale && p > 0 {
				// values at or above 10^p still round-trip: ToString
				// carries the excess in the integer part
			}
			s, err := ToString(v, p)
			if err != nil {
				t.Fatalf("ToString error: %s", err)
			}
			back, err := FromString(s, p)
			if err != nil {
				t.Fatalf("FromString(%q) error: %s", s, err)
			}
			if back != v {
				t.Fatalf("round trip mismatch: v=%d p=%d s=%q back=%d", v, p, s, back)
			}
		}
	}
}

func TestMultiply(t *testing.T) {
	got, err := Multiply(2_000_000, 500_000, 6) // 2.0 * 0.5 = 1.0
	if err != nil {
		t.Fatal(err)
	}
	if got != 1_000_000 {
		t.Fatalf("got %d want 1000000", got)
	}
	if _, err := Multiply(^uint64(0), ^uint64(0), 0); err == nil {
		t.Fatal("expected overflow error")
	}
}

func TestDivide(t *testing.T) {
	got, err := Divide(1_000_000, 2_000_000, 6) // 1.0 / 2.0 = 0.5
	if err != nil {
		t.Fatal(err)
	}
	if got != 500_000 {
		t.Fatalf("got %d want 500000", got)
	}
	if _, err := Divide(1, 0, 6); err == nil {
		t.Fatal("expected out-of-range error on division by zero")
	}
}

func TestConvertPrecision(t *testing.T) {
	got, err := ConvertPrecision(1_500_000, 6, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != 150 {
		t.Fatalf("got %d want 150", got)
	}
	got, err = ConvertPrecision(15, 2, 6)
	if err != nil {
		t.Fatal(err)
	}
	if got != 150_000 {
		t.Fatalf("got %d want 150000", got)
	}
}
