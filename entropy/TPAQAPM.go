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

// tpaqAPM refines a probability through a secondary adaptive map: cxt
// selects one of n 33-point piecewise-linear curves over stretch(pr), and
// the two bracketing points are interpolated and then adapted toward the
// observed bit.
type tpaqAPM struct {
	index int
	t     []uint16
}

func newTPAQAPM(n int) *tpaqAPM {
	this := &tpaqAPM{t: make([]uint16, n*33)}

	for i := 0; i < n; i++ {
		for j := 0; j < 33; j++ {
			this.t[i*33+j] = uint16(tpaqSquash((j-16)*128) * 16)
		}
	}

	return this
}

// p refines pr (a 12-bit probability) under context cxt, at adaptation
// rate 1<<rate. Call update immediately after with the observed bit.
func (this *tpaqAPM) p(pr, cxt int, rate uint) int {
	s := tpaqStretch(pr)
	w := s & 127
	this.index = ((s+2048)>>7)+cxt*33

	return (int(this.t[this.index])*(128-w) + int(this.t[this.index+1])*w) >> 11
}

func (this *tpaqAPM) update(y int, rate uint) {
	g := (y << 16) + (y << rate) - y - y

	this.t[this.index] = uint16(int(this.t[this.index]) + (g-int(this.t[this.index]))>>rate)
	this.t[this.index+1] = uint16(int(this.t[this.index+1]) + (g-int(this.t[this.index+1]))>>rate)
}
