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

// tpaqWrtMpw and tpaqWrtMtt fold a byte's high nibble into a small code
// used to build the w4/w5 and tt shift registers. The coarse grouping
// favors letters, then digits, then punctuation and control bytes.
var tpaqWrtMpw = [16]uint32{3, 3, 3, 2, 2, 2, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0}
var tpaqWrtMtt = [16]uint32{0, 0, 1, 2, 3, 4, 5, 5, 6, 6, 6, 6, 6, 7, 7, 7}

// isTPAQSentenceEnd reports whether b is one of the punctuation bytes that
// drive the "end of sentence" heuristics across the word and sparse models.
func isTPAQSentenceEnd(b uint32) bool {
	return b == '.' || b == 'O' || b == 'M' || b == '!' || b == ')' || b == ('}'-'{'+'P')
}

// tpaqGlobal is the process-wide (but, here, predictor-instance-owned) bit
// stream context that every model reads and only the driver mutates: the
// ring buffer of bytes seen so far, the partial-byte accumulator, and the
// packed history registers used as gating contexts.
type tpaqGlobal struct {
	buf  []byte // ring buffer, capacity a power of two
	mask uint32

	pos  int // total bytes emitted so far
	bpos uint
	c0   int // partial byte with leading 1 bit, in [1,255]
	y    int // last observed bit

	b1, b2, b3, b4, b5, b6, b7, b8 uint32
	c4, x4, x5, w4, w5, f4, tt     uint32

	smShft uint
	smAdd  int
	smAddY int

	cxtfl bool // selects the 5- vs 4-feature mix2 form; toggled by the record model

	fails, failz, failcount uint32

	order int

	rnd *tpaqRandom
}

func newTPAQGlobal(level uint) *tpaqGlobal {
	mem := uint32(0x10000) << level
	size := mem * 8

	this := &tpaqGlobal{
		buf:    make([]byte, size),
		mask:   size - 1,
		c0:     1,
		smShft: 7,
		smAdd:  65535 + 127,
		cxtfl:  true,
		rnd:    newTPAQRandom(),
	}

	return this
}

// byteAt returns the byte i positions back from the current position
// (i > 0): byteAt(1) is the most recently emitted byte.
func (this *tpaqGlobal) byteAt(i int) byte {
	return this.buf[uint32(this.pos-i)&this.mask]
}

// bufGet returns the byte stored at absolute ring position p.
func (this *tpaqGlobal) bufGet(p int) byte {
	return this.buf[uint32(p)&this.mask]
}

// update advances the global context by one bit, per section 4.1: shift y
// into c0, refresh the StateMap training target smAddY from the bit just
// observed, and on byte completion emit the byte into the ring buffer and
// refresh every packed register.
func (this *tpaqGlobal) update(y int) {
	this.y = y

	if y != 0 {
		this.smAddY = this.smAdd
	} else {
		this.smAddY = 0
	}

	this.c0 = this.c0 + this.c0 + y

	if this.c0 >= 256 {
		c0 := uint32(this.c0 - 256)
		this.buf[uint32(this.pos)&this.mask] = byte(c0)
		this.pos++

		if this.pos <= 1024*1024 {
			if this.pos == 1024*1024 {
				this.smShft, this.smAdd = 9, 65535+511
			}
			if this.pos == 512*1024 {
				this.smShft, this.smAdd = 8, 65535+255
			}
		}

		i := tpaqWrtMpw[c0>>4]
		this.w4 = this.w4*4 + i

		if this.b1 == 12 {
			i = 2
		}

		this.w5 = this.w5*4 + i

		this.b8, this.b7, this.b6, this.b5 = this.b7, this.b6, this.b5, this.b4
		this.b4, this.b3, this.b2, this.b1 = this.b3, this.b2, this.b1, c0

		if isTPAQSentenceEnd(c0) {
			this.w5 = (this.w5 << 8) | 0x3ff
			this.x5 = (this.x5 << 8) + c0
			this.f4 = (this.f4 & 0xfffffff0) + 2

			if c0 != '!' && c0 != 'O' {
				this.w4 |= 12
			}

			if c0 != '!' {
				this.b2 = '.'
				this.tt = (this.tt & 0xfffffff8) + 1
			}
		}

		this.c4 = (this.c4 << 8) + c0
		this.x5 = (this.x5 << 8) + c0

		if c0 == 32 {
			c0--
		}

		this.f4 = this.f4*16 + (c0 >> 4)
		this.tt = this.tt*8 + tpaqWrtMtt[c0>>4]
		this.c0 = 1
	}

	this.bpos = (this.bpos + 1) & 7
}
