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

// tpaqMixer is a gated logistic mixer: N stretched per-model predictions are
// combined by a dot product against one of M weight columns selected by up
// to S gating contexts. When S > 1 the S per-context outputs are combined
// by a child mixer (S,1,1).
type tpaqMixer struct {
	n, m, s int
	wx      []int16 // N*M weights
	cxt     []int   // S selected contexts
	ncxt    int
	base    int
	pr      []int
	child   *tpaqMixer

	tx []int16 // N inputs pushed by add()
	nx int
}

func newTPAQMixer(n, m, s, w int) *tpaqMixer {
	n = (n + 7) &^ 7

	this := &tpaqMixer{
		n:   n,
		m:   m,
		s:   s,
		wx:  make([]int16, n*m),
		cxt: make([]int, s),
		pr:  make([]int, s),
		tx:  make([]int16, n),
	}

	for i := range this.pr {
		this.pr[i] = 2048
	}

	for i := range this.wx {
		this.wx[i] = int16(w)
	}

	if s > 1 {
		this.child = newTPAQMixer(s, 1, 1, 0x7fff)
	}

	return this
}

// add pushes one stretched model prediction as an input; must be called at
// most N times between two calls to p().
func (this *tpaqMixer) add(x int) {
	this.tx[this.nx] = int16(x)
	this.nx++
}

// mul rereads the most recently pushed input and rescales it by x/4.
func (this *tpaqMixer) mul(x int) {
	z := int(this.tx[this.nx-1])
	z = z * x / 4
	this.tx[this.nx-1] = int16(z)
}

// set selects column base+cx as one of up to S context slots; the sum of
// ranges across the S calls made between two p() calls must not exceed M.
func (this *tpaqMixer) set(cx, rng int) {
	this.cxt[this.ncxt] = this.base + cx
	this.ncxt++
	this.base += rng
}

func tpaqDotProduct(t, w []int16, n int) int {
	sum := 0
	n = (n + 7) &^ 7

	for i := 0; i < n; i += 2 {
		sum += (int(t[i])*int(w[i]) + int(t[i+1])*int(w[i+1])) >> 8
	}

	return sum
}

func tpaqTrain(t, w []int16, n, err int) {
	n = (n + 7) &^ 7

	for i := 0; i < n; i++ {
		wt := int(w[i]) + (((int(t[i])*err*2)>>16 + 1) >> 1)

		if wt < -32768 {
			wt = -32768
		}
		if wt > 32767 {
			wt = 32767
		}

		w[i] = int16(wt)
	}
}

// p returns the output prediction that the next bit is 1, as a 12-bit
// probability. Inputs are zero-padded to a multiple of 8 first. y is the
// most recently observed bit, needed to train a child mixer in place.
func (this *tpaqMixer) p(y int) int {
	for this.nx&7 != 0 {
		this.tx[this.nx] = 0
		this.nx++
	}

	if this.child != nil {
		this.child.update2(y)

		for i := 0; i < this.ncxt; i++ {
			dp := tpaqDotProduct(this.tx, this.wx[this.cxt[i]*this.n:], this.nx)
			dp = (dp * 9) >> 9
			this.pr[i] = tpaqSquash(dp)
			this.child.add(dp)
		}

		return this.child.p(y)
	}

	z := tpaqDotProduct(this.tx, this.wx, this.nx)
	this.base = tpaqSquash((z * 15) >> 13)
	return tpaqSquash(z >> 9)
}

// update trains the weights of each selected context slot to minimize the
// coding cost of the last prediction, given the observed bit y.
func (this *tpaqMixer) update(y int) {
	for i := 0; i < this.ncxt; i++ {
		err := (y<<12 - this.pr[i]) * 7
		tpaqTrain(this.tx, this.wx[this.cxt[i]*this.n:], this.nx, err)
	}

	this.nx, this.base, this.ncxt = 0, 0, 0
}

// update2 trains a child mixer's single weight column against the base
// bias computed by the parent's last p() call.
func (this *tpaqMixer) update2(y int) {
	err := (y<<12 - this.base) * 3 / 2
	tpaqTrain(this.tx, this.wx, this.nx, err)
	this.nx = 0
}
