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

// tpaqContextModel2 orchestrates every context-producing model and the
// mixer that combines their predictions into a single 12-bit probability.
// It owns nothing about failure counters or the APM chain; that belongs to
// the driving predictor.
type tpaqContextModel2 struct {
	order  *tpaqOrderModel
	match  *tpaqMatchModel
	word   *tpaqWordModel
	record *tpaqRecordModel
	sparse *tpaqSparseModel
	mx     *tpaqMixer
}

func newTPAQContextModel2(mem uint32) *tpaqContextModel2 {
	return &tpaqContextModel2{
		order:  newTPAQOrderModel(mem),
		match:  newTPAQMatchModel(mem),
		word:   newTPAQWordModel(mem),
		record: newTPAQRecordModel(mem),
		sparse: newTPAQSparseModel(mem),
		mx:     newTPAQMixer(144, 8, 8, 1<<14),
	}
}

// p runs every model for the current bit and returns the mixed 12-bit
// probability. At bpos==0 it first refreshes every model's per-byte
// contexts from the freshly updated global state.
func (this *tpaqContextModel2) p(g *tpaqGlobal) int {
	if g.bpos == 0 {
		this.order.onByte(g)
		this.match.onByte(g)
		this.word.onByte(g)
		this.record.onByte(g)
		this.sparse.onByte(g)
	}

	order := this.order.mix(this.mx, g)
	this.match.mix(this.mx, g)
	this.word.mix(this.mx, g)
	this.record.mix(this.mx, g)
	this.sparse.mix(this.mx, g)

	sel := order
	if sel > 7 {
		sel = 7
	}
	this.mx.set(sel, 8)

	return this.mx.p(g.y)
}

// update trains the mixer and every stationary map on the bit just
// observed.
func (this *tpaqContextModel2) update(y int) {
	this.mx.update(y)
	this.sparse.update(y)
}
