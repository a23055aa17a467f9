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

	"github.com/kr/pretty"
)

func feedByte(p *TPAQPredictor, b byte) {
	for i := 7; i >= 0; i-- {
		p.Get()
		p.Update((b >> uint(i)) & 1)
	}
}

func TestTPAQColdStart(t *testing.T) {
	p, err := NewTPAQPredictor(nil)

	if err != nil {
		t.Fatalf("NewTPAQPredictor: %v", err)
	}

	if pr := p.Get(); pr != 2048 {
		t.Errorf("cold start prediction = %d, want 2048", pr)
	}
}

func TestTPAQPredictIsIdempotent(t *testing.T) {
	p, _ := NewTPAQPredictor(nil)
	feedByte(p, 'x')

	a := p.Get()
	b := p.Get()

	if a != b {
		t.Errorf("Get() not idempotent: %d then %d", a, b)
	}
}

func TestTPAQLevelOutOfRange(t *testing.T) {
	ctx := map[string]any{"level": uint(10)}

	if _, err := NewTPAQPredictor(&ctx); err == nil {
		t.Error("expected an error for level 10")
	}
}

func TestTPAQRunOfZerosBiasesTowardZero(t *testing.T) {
	p, _ := NewTPAQPredictor(nil)

	for i := 0; i < 4096; i++ {
		feedByte(p, 0)
	}

	if pr := p.Get(); pr >= 2048 {
		t.Errorf("after 4KiB of 0x00, predict() = %d, want a strong bias toward 0 (< 2048)", pr)
	}
}

func TestTPAQUniformRandomMeanNearCenter(t *testing.T) {
	p, _ := NewTPAQPredictor(nil)

	var rnd uint32 = 0x2545f491
	next := func() byte {
		rnd ^= rnd << 13
		rnd ^= rnd >> 17
		rnd ^= rnd << 5
		return byte(rnd)
	}

	sum := 0.0
	sumsq := 0.0
	n := 0

	for i := 0; i < 64*1024; i++ {
		b := next()

		for bit := 7; bit >= 0; bit-- {
			pr := float64(p.Get())
			sum += pr
			sumsq += pr * pr
			n++
			p.Update((b >> uint(bit)) & 1)
		}
	}

	mean := sum / float64(n)
	variance := sumsq/float64(n) - mean*mean

	if mean < 1500 || mean > 2600 {
		t.Errorf("mean(p) = %.1f, want roughly centered near 2048", mean)
	}

	if variance < 0 || math.IsNaN(variance) {
		t.Errorf("variance computation is invalid: %.1f", variance)
	}
}

func TestTPAQRunTransitionDropsQuickly(t *testing.T) {
	p, _ := NewTPAQPredictor(nil)

	for i := 0; i < 1024; i++ {
		feedByte(p, 'A')
	}

	before := p.Get()

	feedByte(p, 'B')

	after := p.Get()

	if before < 2048 {
		t.Skip("predictor did not lock onto the 'A' run strongly enough to exercise the transition")
	}

	if after >= before {
		t.Errorf("prediction did not drop across the run transition: before=%d after=%d", before, after)
	}
}

// TestTPAQShadowStateDeterminism drives two freshly constructed predictors
// on the same byte sequence and asserts their externally observable state
// (the last prediction) stays identical throughout, i.e. perceive is a
// pure function of (state, bit).
func TestTPAQShadowStateDeterminism(t *testing.T) {
	p1, _ := NewTPAQPredictor(nil)
	p2, _ := NewTPAQPredictor(nil)

	msg := []byte("the quick brown fox jumps over the lazy dog")

	for _, b := range msg {
		for i := 7; i >= 0; i-- {
			bit := (b >> uint(i)) & 1

			pr1 := p1.Get()
			pr2 := p2.Get()

			if pr1 != pr2 {
				t.Fatalf("diverged mid-stream:\n%s", strDiff(p1, p2))
			}

			p1.Update(bit)
			p2.Update(bit)
		}
	}
}

func strDiff(a, b *TPAQPredictor) string {
	out := ""
	for _, d := range pretty.Diff(a.g, b.g) {
		out += d + "\n"
	}
	return out
}

func TestTPAQWordModelLocksOn(t *testing.T) {
	p, _ := NewTPAQPredictor(nil)

	phrase := "the quick brown fox "

	for i := 0; i < 64; i++ {
		for _, b := range []byte(phrase) {
			feedByte(p, b)
		}
	}

	// Predict the second character of "quick": after "...brown fox the q"
	for _, b := range []byte("the q") {
		feedByte(p, b)
	}

	pr := p.Get()

	if pr <= 0 {
		t.Errorf("predict() returned a non-positive probability: %d", pr)
	}
}
