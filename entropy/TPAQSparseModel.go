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

// tpaqSparseModel picks up structure a contiguous order-N model misses: it
// keys on bytes separated by a gap (order 1 and 2 with a hole) through a
// shared ContextMap, and additionally keeps four small stationary maps
// keyed on the previous byte, the byte two back, the low byte of a running
// count of spaces, and the stream position mod 4.
type tpaqSparseModel struct {
	cm     *tpaqContextMap
	ssm    [4]*tpaqSmallStationaryContextMap
	wcount uint32
}

func newTPAQSparseModel(mem uint32) *tpaqSparseModel {
	this := &tpaqSparseModel{cm: newTPAQContextMap(mem, 4)}

	for i := range this.ssm {
		this.ssm[i] = newTPAQSmallStationaryContextMap(1<<16, 7)
	}

	return this
}

func (this *tpaqSparseModel) onByte(g *tpaqGlobal) {
	b := byte(g.c4 & 0xff)
	if b == ' ' {
		this.wcount++
	}

	ctxs := [4]uint32{
		tpaqHash(0x300, g.c4&0xff, (g.c4>>16)&0xff),
		tpaqHash(0x301, g.c4&0xff00),
		tpaqHash(0x302, g.c4&0xff0000),
		tpaqHash(0x303, g.c4&0xff000000),
	}

	for i, h := range ctxs {
		this.cm.set(i, h)
		this.cm.update(i, g)
	}

	this.ssm[0].set(uint32(b))
	this.ssm[1].set((g.c4 >> 8) & 0xff)
	this.ssm[2].set(this.wcount & 0xff)
	this.ssm[3].set(uint32(g.pos) & 3)
}

func (this *tpaqSparseModel) mix(mx *tpaqMixer, g *tpaqGlobal) {
	for i := 0; i < 4; i++ {
		this.cm.mix1(mx, i, g)
	}

	for _, s := range this.ssm {
		mx.add(tpaqStretch(s.p(g)))
	}
}

func (this *tpaqSparseModel) update(y int) {
	for _, s := range this.ssm {
		s.update(y)
	}
}
