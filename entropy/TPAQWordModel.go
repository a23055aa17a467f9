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

import "unicode"

// tpaqWordModel tracks rolling hashes of the current and two previous
// words, the column position within the current line, and the number of
// spaces since the last newline, and binds all of it to a shared
// ContextMap. Long runs of alphabetic bytes lock the model onto a
// particular word, which is what lets it anticipate the rest of common
// words after only its first couple of letters.
type tpaqWordModel struct {
	word0, word1, word2 uint32
	column              uint32
	spaces              uint32
	cm                  *tpaqContextMap
}

func newTPAQWordModel(mem uint32) *tpaqWordModel {
	return &tpaqWordModel{cm: newTPAQContextMap(mem*2, 8)}
}

func isTPAQWordByte(b byte) bool {
	return unicode.IsLetter(rune(b)) || b >= 128
}

// onByte folds the most recently completed byte into the rolling word
// hashes and line-position counters, then installs the resulting contexts.
func (this *tpaqWordModel) onByte(g *tpaqGlobal) {
	b := byte(g.c4 & 0xff)

	if isTPAQWordByte(b) {
		lower := b
		if lower >= 'A' && lower <= 'Z' {
			lower += 'a' - 'A'
		}
		this.word0 = this.word0*263 + uint32(lower) + 1
	} else {
		if this.word0 != 0 {
			this.word2 = this.word1
			this.word1 = this.word0
			this.word0 = 0
		}

		if b == '\n' {
			this.column = 0
			this.spaces = 0
		} else {
			this.column++
			if b == ' ' {
				this.spaces++
			}
		}
	}

	contexts := [8]uint32{
		tpaqHash(0x100, this.word0),
		tpaqHash(0x101, this.word0, this.word1),
		tpaqHash(0x102, this.word1, this.word2),
		tpaqHash(0x103, this.word0, this.word2),
		tpaqHash(0x104, this.column&0xff),
		tpaqHash(0x105, this.spaces&0xff),
		tpaqHash(0x106, this.word1),
		tpaqHash(0x107, g.c4&0xffff),
	}

	for i, h := range contexts {
		this.cm.set(i, h)
		this.cm.update(i, g)
	}
}

func (this *tpaqWordModel) mix(mx *tpaqMixer, g *tpaqGlobal) {
	for i := 0; i < 8; i++ {
		this.cm.mix1(mx, i, g)
	}
}
