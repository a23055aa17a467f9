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

// tpaqOrderPrimes scales each order's running hash; index 0 is unused so
// that cxt[i] lines up with "order i".
var tpaqOrderPrimes = [14]uint32{0, 257, 251, 241, 239, 233, 229, 227, 223, 211, 199, 197, 193, 191}

// tpaqOrderModel maintains the order-0..13 hash chain over recent bytes and
// binds orders {0,3,4,5,6,8,13} to a shared ContextMap and orders {7,9,11}
// to individual RunContextMaps.
type tpaqOrderModel struct {
	cxt   [14]uint32
	cm    *tpaqContextMap
	rcm7  *tpaqRunContextMap
	rcm9  *tpaqRunContextMap
	rcm11 *tpaqRunContextMap
}

func newTPAQOrderModel(mem uint32) *tpaqOrderModel {
	return &tpaqOrderModel{
		cm:    newTPAQContextMap(mem*2, 7),
		rcm7:  newTPAQRunContextMap(mem / 4),
		rcm9:  newTPAQRunContextMap(mem / 4),
		rcm11: newTPAQRunContextMap(mem / 4),
	}
}

// onByte rebuilds every hash chain after a byte completes and installs the
// fresh contexts into the backing maps. Must run at bpos==0, after
// tpaqGlobal.update.
func (this *tpaqOrderModel) onByte(g *tpaqGlobal) {
	// Descending so each cxt[i] is built from the previous byte's
	// cxt[i-1], not this byte's already-updated one: ascending would
	// fold g.b1 into cxt[i-1] before it is read for cxt[i].
	for i := 13; i >= 1; i-- {
		this.cxt[i] = this.cxt[i-1]*tpaqOrderPrimes[i] + g.b1
	}

	orders := [7]int{0, 3, 4, 5, 6, 8, 13}
	for i, o := range orders {
		h := tpaqHash(uint32(o), this.cxt[o])
		this.cm.set(i, h)
	}

	this.rcm7.set(tpaqHash(7, this.cxt[7]))
	this.rcm9.set(tpaqHash(9, this.cxt[9]))
	this.rcm11.set(tpaqHash(11, this.cxt[11]))

	for i := range orders {
		this.cm.update(i, g)
	}

	this.rcm7.update(g)
	this.rcm9.update(g)
	this.rcm11.update(g)
}

// mix feeds every order's prediction into mx and returns how many of the
// seven ContextMap contexts are already populated, used as the order
// indicator for downstream gating.
func (this *tpaqOrderModel) mix(mx *tpaqMixer, g *tpaqGlobal) int {
	order := 0
	slot := int(g.bpos)
	if slot > 6 {
		slot = 6
	}

	for i := 0; i < 7; i++ {
		if this.cm.ptr[i][slot] != 0 {
			order++
		}

		this.cm.mix1(mx, i, g)
	}

	mx.add(this.rcm7.p(g))
	mx.add(this.rcm9.p(g))
	mx.add(this.rcm11.p(g))

	return order
}
