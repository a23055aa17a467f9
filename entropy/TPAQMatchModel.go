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

// tpaqMatchModel looks for the most recent earlier occurrence of the last
// few bytes and, while the match holds, predicts that the current byte
// will continue to agree with what followed it last time.
type tpaqMatchModel struct {
	table        []int32 // hash of the last four bytes -> last position with that hash
	mask         uint32
	ptr          int // position just after the matched occurrence, 0 if none
	length       int
	sm           *tpaqStateMap
	expectedByte byte
}

func newTPAQMatchModel(mem uint32) *tpaqMatchModel {
	n := mem
	if n < 1<<16 {
		n = 1 << 16
	}

	return &tpaqMatchModel{
		table: make([]int32, n),
		mask:  n - 1,
		sm:    newTPAQStateMap(),
	}
}

// onByte refreshes the match (or starts searching for one) after a byte
// completes. Must run at bpos==0.
func (this *tpaqMatchModel) onByte(g *tpaqGlobal) {
	h := tpaqHash(g.c4, 0x96f) & this.mask

	if this.length > 0 {
		if this.ptr > 0 && g.bufGet(this.ptr-1) == byte(g.c4&0xff) {
			this.ptr++
			if this.length < 65535 {
				this.length++
			}
		} else {
			this.length = 0
		}
	}

	if this.length == 0 {
		cand := int(this.table[h])
		if cand > 0 {
			this.ptr = cand
			this.length = 1
		}
	}

	this.table[h] = int32(g.pos)

	if this.length > 0 && this.ptr > 0 && this.ptr <= g.pos {
		this.expectedByte = g.bufGet(this.ptr)
	} else {
		this.length = 0
	}
}

// mix feeds a confidence-scaled prediction of the next bit, derived from
// whether the partial byte so far agrees with the matched occurrence.
func (this *tpaqMatchModel) mix(mx *tpaqMixer, g *tpaqGlobal) {
	if this.length == 0 {
		mx.add(0)
		this.sm.p(0, g)
		return
	}

	bpos := int(g.bpos)

	if bpos > 0 {
		mask := (1 << uint(bpos)) - 1
		want := g.c0 & mask
		got := int(this.expectedByte) >> uint(8-bpos)

		if got != want {
			// Partial byte already diverged from the match; kill it.
			this.length = 0
			mx.add(0)
			this.sm.p(0, g)
			return
		}
	}

	expectedBit := int(this.expectedByte>>uint(7-bpos)) & 1

	ln := this.length
	if ln > 28 {
		ln = 28
	}

	st := 1
	if expectedBit == 0 {
		st = 2
	}

	pr := this.sm.p(st, g)
	conf := tpaqStretch(pr) * ln / 28
	mx.add(conf)
}
