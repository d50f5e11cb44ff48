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

package tokenid

import "testing"

func TestFromBytesPadding(t *testing.T) {
	id := FromBytes([]byte{0x50})
	want := TokenID{}
	want.bytes[31] = 0x50
	want.valid = true
	if id != want {
		t.Fatalf("got %+v want %+v", id, want)
	}
}

func TestNativeEquality(t *testing.T) {
	a := Native()
	b := FromBytes(nil)
	c := FromBytes([]byte{0x00})
	if !Equal(a, b) {
		t.Fatal("two empty token ids should be native-equal")
	}
	if !Equal(a, c) {
		t.Fatal("an all-zero token id should be native-equal")
	}
	d := FromBytes([]byte{0x01})
	if Equal(a, d) {
		t.Fatal("non-zero id should not equal native")
	}
}

func TestOrdering(t *testing.T) {
	low := FromBytes([]byte{0x01})
	high := FromBytes([]byte{0x02})
	if Compare(low, high) >= 0 {
		t.Fatal("expected low < high")
	}
	if Compare(high, low) <= 0 {
		t.Fatal("expected high > low")
	}
	if Compare(low, low) != 0 {
		t.Fatal("expected equal ids to compare 0")
	}
}
