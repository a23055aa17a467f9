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

// Fixed-point math primitives shared by the TPAQ context model: ilog/llog
// (scaled log2), squash/stretch (the logistic function and its inverse in
// 12/16 bit fixed point) and a context hash. All four tables are built once
// at package init and never mutated afterwards.

var _TPAQ_ILOG [65536]uint8

func init() {
	// round(log2(x) * 16), computed by numerical integration of 1/x,
	// scale factor 2^29/ln(2).
	x := uint32(14155776)

	for i := 2; i < 65536; i++ {
		x += 774541002 / uint32(i*2-1)
		_TPAQ_ILOG[i] = uint8(x >> 24)
	}
}

// tpaqIlog returns round(16*log2(x)) for x in [0,65535].
func tpaqIlog(x uint32) int {
	return int(_TPAQ_ILOG[x&0xFFFF])
}

// tpaqLlog extends ilog to a full 32 bit value by looking at the top byte.
func tpaqLlog(x uint32) int {
	if x >= 0x1000000 {
		return 256 + tpaqIlog(x>>16)
	}

	if x >= 0x10000 {
		return 128 + tpaqIlog(x>>8)
	}

	return tpaqIlog(x)
}

var _TPAQ_SQUASH_T = [33]int{
	1, 2, 3, 6, 10, 16, 27, 45, 73, 120, 194, 310, 488, 747, 1101,
	1546, 2047, 2549, 2994, 3348, 3607, 3785, 3901, 3975, 4022,
	4050, 4068, 4079, 4085, 4089, 4092, 4093, 4094,
}

// tpaqSquash maps a stretched value d (logistic input scaled by 256) in
// [-2047,2047] to a probability scaled by 4096, via 33-point interpolation.
func tpaqSquash(d int) int {
	if d > 2047 {
		return 4095
	}

	if d < -2047 {
		return 0
	}

	w := d & 127
	d = (d >> 7) + 16
	return (_TPAQ_SQUASH_T[d]*(128-w) + _TPAQ_SQUASH_T[d+1]*w + 64) >> 7
}

var _TPAQ_STRETCH [4096]int16

func init() {
	pi := 0

	for x := -2047; x <= 2047; x++ {
		i := tpaqSquash(x)

		for j := pi; j <= i; j++ {
			_TPAQ_STRETCH[j] = int16(x)
		}

		pi = i + 1
	}

	_TPAQ_STRETCH[4095] = 2047
}

// tpaqStretch is the inverse of tpaqSquash: ln(p/(1-p)) scaled by 256, for
// p in [0,4095].
func tpaqStretch(p int) int {
	return int(_TPAQ_STRETCH[p])
}

// tpaqHash combines 2 or 3 32-bit values into one, used to derive context
// hashes from recent byte history.
func tpaqHash(a, b uint32, c ...uint32) uint32 {
	cc := uint32(0xFFFFFFFF)

	if len(c) > 0 {
		cc = c[0]
	}

	h := a*110002499 + b*30005491 + cc*50004239
	return h ^ (h >> 9) ^ (a >> 3) ^ (b >> 3) ^ (cc >> 4)
}

// tpaqRandom is a 64-slot lagged-Fibonacci pseudo-random generator:
// t[i] = t[i-24] ^ t[i-55]. Its exact recurrence is part of the predictor's
// behavior contract (probabilistic state decrement) and must not be
// replaced by a platform RNG.
type tpaqRandom struct {
	table [64]uint32
	index int
}

func newTPAQRandom() *tpaqRandom {
	this := &tpaqRandom{}
	this.table[0] = 123456789
	this.table[1] = 987654321

	for j := 0; j < 62; j++ {
		this.table[j+2] = this.table[j+1]*11 + this.table[j]*23/16
	}

	return this
}

func (this *tpaqRandom) next() uint32 {
	this.index++
	v := this.table[(this.index-24)&63] ^ this.table[(this.index-55)&63]
	this.table[this.index&63] = v
	return v
}
