/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package entropy

import "testing"

func TestTPAQBHFirstAccessIsFreshSlot(t *testing.T) {
	bh := newTPAQBH(64)
	row := bh.get(12345, 0)

	for k, v := range row {
		if v != 0 {
			t.Errorf("fresh slot byte %d = %d, want 0", k, v)
		}
	}
}

func TestTPAQBHRepeatedAccessIsStable(t *testing.T) {
	bh := newTPAQBH(64)

	row1 := bh.get(777, 2)
	row1[0] = 5

	row2 := bh.get(777, 2)

	if row1 != row2 {
		t.Error("repeated (h,j) access returned a different slot before eviction")
	}

	if row2[0] != 5 {
		t.Errorf("slot contents not preserved across repeated access: got %d", row2[0])
	}
}

func TestTPAQBHDistinctContextsGetDistinctSlots(t *testing.T) {
	bh := newTPAQBH(64)

	a := bh.get(1, 0)
	a[0] = 1

	b := bh.get(1, 1)
	b[0] = 2

	if a == b {
		t.Error("different distinguishers landed in the same row")
	}

	if a[0] != 1 || b[0] != 2 {
		t.Error("slot contents crossed between distinct contexts")
	}
}
