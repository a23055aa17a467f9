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

// tpaqStateMap maps a nonstationary bit-history state (0-255) to a
// probability, and adapts the mapping after each query. The table is
// addressed by state and holds a 16-bit probability scaled by 64K.
type tpaqStateMap struct {
	cxt int
	t   [256]uint16
}

func newTPAQStateMap() *tpaqStateMap {
	this := &tpaqStateMap{}

	for i := 0; i < 256; i++ {
		n0 := tpaqStateN0(uint8(i))
		n1 := tpaqStateN1(uint8(i))

		if n0 == 0 {
			n1 *= 128
		}

		if n1 == 0 {
			n0 *= 128
		}

		this.t[i] = uint16(65536 * (n1 + 1) / (n0 + n1 + 2))
	}

	return this
}

// p converts state cx to a 12-bit probability. As a side effect, it adapts
// the entry addressed by the *previous* call toward the global context's
// freshly observed bit, via smAddY >> smShft.
func (this *tpaqStateMap) p(cx int, g *tpaqGlobal) int {
	q := int(this.t[this.cxt])
	this.t[this.cxt] = uint16(q + ((g.smAddY - q) >> g.smShft))
	this.cxt = cx
	return int(this.t[cx]) >> 4
}
