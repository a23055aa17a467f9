/*
Copyright 2011-2024 Frederic Langlet
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

import (
	"errors"
	"math/bits"

	cmix "github.com/jhorourke2/cmix"
)

// ExpGolombEncoder an Exponential Golomb Entropy Encoder
type ExpGolombEncoder struct {
	signed    bool
	bitstream cmix.OutputBitStream
}

// NewExpGolombEncoder creates a new instance of ExpGolombEncoder
// If sgn is true, values will be encoded as signed (int8) in the bitstream.
func NewExpGolombEncoder(bs cmix.OutputBitStream, sgn bool) (*ExpGolombEncoder, error) {
	if bs == nil {
		return nil, errors.New("ExpGolomb codec: Invalid null bitstream parameter")
	}

	this := &ExpGolombEncoder{}
	this.signed = sgn
	this.bitstream = bs
	return this, nil
}

// Signed returns true if this encoder is sign aware
func (this *ExpGolombEncoder) Signed() bool {
	return this.signed
}

// Dispose this implementation does nothing
func (this *ExpGolombEncoder) Dispose() {
}

// EncodeByte encodes the given value into the bitstream.
// The value is written as (val+1) prefixed with as many zero bits as
// needed to reach twice its bit length minus one (unary length, binary value).
func (this *ExpGolombEncoder) EncodeByte(val byte) {
	var emit uint64

	if this.signed == true && val&0x80 != 0 {
		emit = uint64(-val)
	} else {
		emit = uint64(val)
	}

	emit++
	n := uint(bits.Len64(emit))
	this.bitstream.WriteBits(emit, 2*n-1)

	if this.signed == true && val != 0 {
		this.bitstream.WriteBit(int((val >> 7) & 1))
	}
}

// BitStream returns the underlying bitstream
func (this *ExpGolombEncoder) BitStream() cmix.OutputBitStream {
	return this.bitstream
}

// Write encodes the data provided into the bitstream. Return the number of bytes
// written to the bitstream
func (this *ExpGolombEncoder) Write(block []byte) (int, error) {
	for i := range block {
		this.EncodeByte(block[i])
	}

	return len(block), nil
}

// ExpGolombDecoder an Exponential Golomb Entropy Decoder
type ExpGolombDecoder struct {
	signed    bool
	bitstream cmix.InputBitStream
}

// NewExpGolombDecoder creates a new instance of ExpGolombDecoder
// If sgn is true, values from the bitstream will be decoded as signed (int8)
func NewExpGolombDecoder(bs cmix.InputBitStream, sgn bool) (*ExpGolombDecoder, error) {
	if bs == nil {
		return nil, errors.New("ExpGolomb codec: Invalid null bitstream parameter")
	}

	this := &ExpGolombDecoder{}
	this.signed = sgn
	this.bitstream = bs
	return this, nil
}

// Signed returns true if this decoder is sign aware
func (this *ExpGolombDecoder) Signed() bool {
	return this.signed
}

// Dispose this implementation does nothing
func (this *ExpGolombDecoder) Dispose() {
}

// DecodeByte decodes one byte from the bitstream
func (this *ExpGolombDecoder) DecodeByte() byte {
	z := uint(0)

	for this.bitstream.ReadBit() == 0 {
		z++
	}

	rem := uint64(0)

	if z > 0 {
		rem = this.bitstream.ReadBits(z)
	}

	emit := (uint64(1) << z) | rem
	res := byte(emit - 1)

	if this.signed == true && res != 0 {
		if this.bitstream.ReadBit() == 1 {
			return -res
		}
	}

	return res
}

// BitStream returns the underlying bitstream
func (this *ExpGolombDecoder) BitStream() cmix.InputBitStream {
	return this.bitstream
}

// Read decodes data from the bitstream and return it in the provided buffer.
// Return the number of bytes read from the bitstream
func (this *ExpGolombDecoder) Read(block []byte) (int, error) {
	for i := range block {
		block[i] = this.DecodeByte()
	}

	return len(block), nil
}
