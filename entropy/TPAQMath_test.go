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

import (
	"math"
	"testing"
)

func TestTPAQSquashStretchRoundTrip(t *testing.T) {
	for d := -2047; d <= 2047; d += 7 {
		p := tpaqSquash(d)
		back := tpaqStretch(p)

		// One probability covers a plateau of inputs; stretch returns the
		// first input of that plateau, which must lie at or below d.
		if back > d || tpaqSquash(back) != p {
			t.Errorf("stretch(squash(%d)) = %d, not the start of the plateau of squash(%d) = %d", d, back, d, p)
		}
	}
}

func TestTPAQSquashBounds(t *testing.T) {
	if p := tpaqSquash(-3000); p != 0 {
		t.Errorf("squash(-3000) = %d, want clamped to 0", p)
	}

	if p := tpaqSquash(3000); p != 4095 {
		t.Errorf("squash(3000) = %d, want clamped to 4095", p)
	}
}

func TestTPAQIlogAccuracy(t *testing.T) {
	for x := 2; x <= 65535; x *= 3 {
		got := tpaqIlog(uint32(x))
		want := int(math.Round(16 * math.Log2(float64(x))))

		if diff := got - want; diff < -1 || diff > 1 {
			t.Errorf("ilog(%d) = %d, want within 1 of %d", x, got, want)
		}
	}
}

func TestTPAQRandomIsDeterministic(t *testing.T) {
	r1 := newTPAQRandom()
	r2 := newTPAQRandom()

	for i := 0; i < 1000; i++ {
		a := r1.next()
		b := r2.next()

		if a != b {
			t.Fatalf("two freshly constructed generators diverged at step %d: %d != %d", i, a, b)
		}
	}
}
