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

// tpaqRecordModel guesses a repeating record length (CSV rows, fixed-width
// lines) from the column position of each newline, and feeds five
// ContextMaps built from (column mod period, byte) and neighboring bytes.
// The period comes from line lengths only; repetition of a byte at a fixed
// distance is not tracked, so records without newlines are not detected.
type tpaqRecordModel struct {
	column uint32
	period uint32
	cm     [5]*tpaqContextMap
}

func newTPAQRecordModel(mem uint32) *tpaqRecordModel {
	this := &tpaqRecordModel{}

	for i := range this.cm {
		this.cm[i] = newTPAQContextMap(mem, 1)
	}

	return this
}

// onByte updates the column tracker and, at each newline, takes the length
// of the line just ended as the guessed record length when no period is set
// yet, or when that length is over 2 and differs from the current period.
// It then installs the five record contexts; mix clears the global cxtfl
// gate while the middle three are mixed, per the 4- vs 5-feature mix2 split.
func (this *tpaqRecordModel) onByte(g *tpaqGlobal) {
	b := byte(g.c4 & 0xff)

	if b == '\n' {
		if this.period == 0 || (this.column > 2 && this.column != this.period) {
			this.period = this.column
		}
		this.column = 0
	} else {
		this.column++
	}

	row := uint32(0)
	if this.period > 0 {
		row = this.column % this.period
	}

	ctxs := [5]uint32{
		tpaqHash(0x200, row, uint32(b)),
		tpaqHash(0x201, row, g.c4&0xff00ff),
		tpaqHash(0x202, this.period, row),
		tpaqHash(0x203, row, g.c4&0xffff),
		tpaqHash(0x204, this.column),
	}

	for i, h := range ctxs {
		this.cm[i].set(0, h)
		this.cm[i].update(0, g)
	}
}

func (this *tpaqRecordModel) mix(mx *tpaqMixer, g *tpaqGlobal) {
	this.cm[0].mix2(mx, 0, g)

	g.cxtfl = false
	this.cm[1].mix2(mx, 0, g)
	this.cm[2].mix2(mx, 0, g)
	this.cm[3].mix2(mx, 0, g)
	g.cxtfl = true

	this.cm[4].mix2(mx, 0, g)
}
