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

import "errors"

// TPAQPredictor is a context-mixing bitwise statistical predictor in the
// PAQ8HP lineage: a battery of order-N, match, word, record and sparse
// models feed a gated logistic mixer, whose output is refined through a
// chain of six adaptive probability maps before being handed to an
// entropy coder as a 12-bit probability that the next bit is one.
//
// A TPAQPredictor owns every piece of its mutable state; nothing here is
// process-wide, so running several predictors concurrently (for instance,
// one per stream in an ensemble) is safe as long as each has its own
// instance.
type TPAQPredictor struct {
	g   *tpaqGlobal
	cm2 *tpaqContextModel2
	a1  *tpaqAPM
	a2  *tpaqAPM
	a3  *tpaqAPM
	a4  *tpaqAPM
	a5  *tpaqAPM
	a6  *tpaqAPM
	pr  int

	ready bool // pr already computed for the current bit
}

// NewTPAQPredictor allocates a predictor at the memory level given by the
// "level" entry of ctx (a uint in [0,9]). A nil ctx, a missing entry or a
// value of another type selects level 6; a level above 9 is an error.
func NewTPAQPredictor(ctx *map[string]any) (*TPAQPredictor, error) {
	level := uint(6)

	if ctx != nil {
		if v, ok := (*ctx)["level"]; ok {
			if lv, ok := v.(uint); ok {
				level = lv
			}
		}
	}

	if level > 9 {
		return nil, errors.New("TPAQPredictor: level must be in [0,9]")
	}

	mem := uint32(0x10000) << level

	this := &TPAQPredictor{
		g:   newTPAQGlobal(level),
		cm2: newTPAQContextModel2(mem),
		a1:  newTPAQAPM(256),
		a2:  newTPAQAPM(0x10000),
		a3:  newTPAQAPM(0x10000),
		a4:  newTPAQAPM(0x10000),
		a5:  newTPAQAPM(0x1000),
		a6:  newTPAQAPM(0x10000),
		pr:  2048,
	}

	return this, nil
}

func (this *TPAQPredictor) apmRate() uint {
	rate := uint(6)

	if this.g.pos > 14*256*1024 {
		rate++
	}
	if this.g.pos > 28*512*1024 {
		rate++
	}

	return rate
}

// Get returns the probability that the next bit is one, scaled to
// [0, 4095]. The first call after an Update runs the models; further calls
// before the next Update return the same value and change nothing.
func (this *TPAQPredictor) Get() int {
	if this.ready {
		return this.pr
	}

	g := this.g
	base := this.cm2.p(g)

	rate := this.apmRate()

	p1 := this.a1.p(base, g.c0, rate)
	p2 := this.a2.p(base, int(g.c4&0xffff), rate)
	p3 := this.a3.p(base, int(g.c4&0xff)|int(g.b2)<<8, rate)
	p4 := this.a4.p(base, int(g.c0)|int(g.b1)<<8, rate)
	p5 := this.a5.p(base, int(g.failcount)&0xfff, rate)
	p6 := this.a6.p(base, int(g.c4>>16)&0xffff, rate)

	var pr int

	if g.fails&0xff != 0 {
		pr = (p1*4 + p2*4 + p3*4 + p4*4 + p5*8 + p6*8) / 32
	} else {
		pr = (p1*2 + p2*4 + p3*6 + p4*6 + p5*6 + p6*8) / 32
	}

	if pr < 1 {
		pr = 1
	}
	if pr > 4094 {
		pr = 4094
	}

	// No bit seen yet: the first prediction is even.
	if g.pos == 0 && g.bpos == 0 {
		pr = 2048
	}

	this.pr = pr
	this.ready = true
	return pr
}

// Update consumes the observed bit and advances every piece of state:
// the global context, the failure counters, every model, the mixer, and
// the APM chain. After this call Get reflects the next bit position.
func (this *TPAQPredictor) Update(bit byte) {
	y := int(bit)
	g := this.g
	this.ready = false

	pr := this.pr
	if y == 1 {
		pr ^= 4095
	}

	if g.fails&0x80000000 != 0 {
		g.failcount--
	}

	g.fails = g.fails << 1
	g.failz = g.failz << 1

	if pr >= 1820 {
		g.fails |= 1
	}
	if pr >= 848 {
		g.failz |= 1
	}
	if g.fails&0x80 != 0 {
		g.failcount++
	}

	this.a1.update(y, this.apmRate())
	this.a2.update(y, this.apmRate())
	this.a3.update(y, this.apmRate())
	this.a4.update(y, this.apmRate())
	this.a5.update(y, this.apmRate())
	this.a6.update(y, this.apmRate())

	this.cm2.update(y)
	g.update(y)
}
