/*
 *  MIT License
 *
 *  Copyright (c) 2020 Nicolas JUHEL
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a copy
 *  of this software and associated documentation files (the "Software"), to deal
 *  in the Software without restriction, including without limitation the rights
 *  to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *  copies of the Software, and to permit persons to whom the Software is
 *  furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included in all
 *  copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *  AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *  LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *  OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *  SOFTWARE.
 *
 */

package byteio

import "io"

// BitOrder selects which end of each byte is consumed first.
type BitOrder uint8

const (
	// MSBFirst consumes the most significant bit of each byte first, the
	// convention bzip2 and the canonical Huffman decoder use.
	MSBFirst BitOrder = iota
	// LSBFirst consumes the least significant bit first, the convention
	// DEFLATE and LZMA's range coder prefix use.
	LSBFirst
)

// BitReader pulls individual bits out of an underlying byte stream. It is
// not safe for concurrent use; each archive/codec reader owns one.
type BitReader struct {
	r     io.Reader
	order BitOrder
	acc   uint64
	nbits uint
	err   error
}

// NewBitReader wraps r for bit-at-a-time consumption in the given order.
func NewBitReader(r io.Reader, order BitOrder) *BitReader {
	return &BitReader{r: r, order: order}
}

func (b *BitReader) fill() error {
	if b.err != nil {
		return b.err
	}
	var buf [1]byte
	if _, err := io.ReadFull(b.r, buf[:]); err != nil {
		b.err = ErrorTruncated.ErrorParent(err)
		return b.err
	}
	if b.order == MSBFirst {
		b.acc = b.acc<<8 | uint64(buf[0])
	} else {
		b.acc |= uint64(buf[0]) << b.nbits
	}
	b.nbits += 8
	return nil
}

// ReadBit returns the next single bit as 0 or 1.
func (b *BitReader) ReadBit() (uint8, error) {
	v, err := b.ReadBits(1)
	if err != nil {
		return 0, err
	}
	return uint8(v), nil
}

// ReadBits returns the next n bits (n <= 57) as an unsigned value, built in
// the reader's configured bit order.
func (b *BitReader) ReadBits(n uint) (uint64, error) {
	if n == 0 {
		return 0, nil
	}
	if n > 57 {
		return 0, ErrorBitOverflow.ErrorParent(nil)
	}
	for b.nbits < n {
		if err := b.fill(); err != nil {
			return 0, err
		}
	}
	if b.order == MSBFirst {
		shift := b.nbits - n
		v := (b.acc >> shift) & ((1 << n) - 1)
		b.nbits -= n
		b.acc &= (1 << b.nbits) - 1
		return v, nil
	}
	v := b.acc & ((1 << n) - 1)
	b.acc >>= n
	b.nbits -= n
	return v, nil
}

// Align discards the bits already consumed from the current byte, so the
// next read starts at a byte boundary (used by stored/uncompressed deflate
// blocks, for instance).
func (b *BitReader) Align() {
	extra := b.nbits % 8
	if extra == 0 {
		return
	}
	if b.order == LSBFirst {
		b.acc >>= extra
	}
	b.nbits -= extra
}
