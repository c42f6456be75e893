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

package bzip2

import (
	"io"

	"github.com/nabbar/archive/byteio"
	"github.com/nabbar/archive/huffman"
)

const (
	blockMagicHi = 0x314159
	blockMagicLo = 0x265359
	endMagicHi   = 0x177245
	endMagicLo   = 0x385090
)

// bitWriter is the minimal MSB-first bit sink the block writer needs;
// byteio only ships a reader since encoders in this module write through
// bytes.Buffer-backed accumulators instead.
type bitWriter struct {
	w    io.Writer
	acc  uint64
	nbit uint
	err  error
}

func newBitWriter(w io.Writer) *bitWriter {
	return &bitWriter{w: w}
}

func (b *bitWriter) writeBits(v uint64, n uint) {
	if b.err != nil || n == 0 {
		return
	}
	b.acc = b.acc<<n | (v & ((1 << n) - 1))
	b.nbit += n
	for b.nbit >= 8 {
		b.nbit -= 8
		by := byte(b.acc >> b.nbit)
		if _, err := b.w.Write([]byte{by}); err != nil {
			b.err = err
			return
		}
	}
}

func (b *bitWriter) flush() error {
	if b.err != nil {
		return b.err
	}
	if b.nbit > 0 {
		by := byte(b.acc << (8 - b.nbit))
		if _, err := b.w.Write([]byte{by}); err != nil {
			return err
		}
		b.nbit = 0
	}
	return nil
}

// Writer is a streaming BZip2 encoder: it buffers up to level*100000 bytes
// per block, then runs RLE1 -> block sort -> MTF -> Huffman on Close/block
// boundary.
type Writer struct {
	bw    *bitWriter
	level int
	buf   []byte
	crc   uint32 // combined stream CRC
	open  bool
}

// NewWriter creates a BZip2 encoder at the given block-size level (1..9).
func NewWriter(w io.Writer, level int) (*Writer, error) {
	if level < 1 || level > 9 {
		return nil, ErrorInvalidLevel.ErrorParent(nil)
	}
	bw := newBitWriter(w)
	bw.writeBits('B', 8)
	bw.writeBits('Z', 8)
	bw.writeBits('h', 8)
	bw.writeBits(uint64('0'+level), 8)

	return &Writer{bw: bw, level: level, open: true}, nil
}

func (z *Writer) Write(p []byte) (int, error) {
	if !z.open {
		return 0, ErrorInvalidBlock.ErrorParent(nil)
	}
	n := len(p)
	limit := z.level * blockSizeUnit
	for len(p) > 0 {
		space := limit - len(z.buf)
		if space <= 0 {
			if err := z.flushBlock(); err != nil {
				return 0, err
			}
			space = limit
		}
		take := space
		if take > len(p) {
			take = len(p)
		}
		z.buf = append(z.buf, p[:take]...)
		p = p[take:]
	}
	return n, nil
}

func (z *Writer) flushBlock() error {
	if len(z.buf) == 0 {
		return nil
	}
	blkCRC := byteio.CRC32(z.buf)
	z.crc = ((z.crc << 1) | (z.crc >> 31)) ^ blkCRC

	rle := rle1Encode(z.buf)
	last, origPtr, randomised := blockSort(rle)

	z.bw.writeBits(blockMagicHi, 24)
	z.bw.writeBits(blockMagicLo, 24)
	z.bw.writeBits(uint64(blkCRC), 32)
	if randomised {
		z.bw.writeBits(1, 1)
	} else {
		z.bw.writeBits(0, 1)
	}

	z.bw.writeBits(uint64(origPtr), 24)

	symMap := usedSymbols(last)
	writeSymMap(z.bw, symMap)

	mtf := mtfEncode(last, symMap)
	alphaSize := len(symMap) + 2
	syms := encodeSymbols(mtf, alphaSize)

	freqs := make(map[int]int64, alphaSize)
	for _, s := range syms {
		freqs[s]++
	}
	lengths := huffman.BuildLengths(freqs, 20)
	for len(lengths) < alphaSize {
		lengths = append(lengths, 20)
	}

	nGroups := 2
	nSelectors := (len(syms) + 49) / 50

	z.bw.writeBits(uint64(nGroups), 3)
	z.bw.writeBits(uint64(nSelectors), 15)
	for i := 0; i < nSelectors; i++ {
		// every 50-symbol run uses table 0; MTF of an all-zero selector
		// stream is itself all zero, written here as a single terminating 0.
		z.bw.writeBits(0, 1)
	}

	for g := 0; g < nGroups; g++ {
		writeDeltaLengths(z.bw, lengths)
	}

	table, err := huffman.BuildTable(lengths)
	if err != nil {
		return err
	}
	enc := buildEncodeTable(table, lengths)

	for _, s := range syms {
		code, n := enc[s].code, enc[s].len
		z.bw.writeBits(uint64(code), uint(n))
	}

	z.buf = z.buf[:0]
	return z.bw.err
}

// Close flushes any buffered block and writes the stream trailer.
func (z *Writer) Close() error {
	if !z.open {
		return nil
	}
	z.open = false
	if err := z.flushBlock(); err != nil {
		return err
	}
	z.bw.writeBits(endMagicHi, 24)
	z.bw.writeBits(endMagicLo, 24)
	z.bw.writeBits(uint64(z.crc), 32)
	return z.bw.flush()
}

func writeSymMap(bw *bitWriter, symMap []byte) {
	var used [16]uint16
	for _, b := range symMap {
		used[b/16] |= 1 << uint(b%16)
	}
	var hi uint16
	for i := 0; i < 16; i++ {
		if used[i] != 0 {
			hi |= 1 << uint(i)
		}
	}
	bw.writeBits(uint64(hi), 16)
	for i := 0; i < 16; i++ {
		if used[i] != 0 {
			bw.writeBits(uint64(used[i]), 16)
		}
	}
}

// writeDeltaLengths encodes a code-length array as the format's delta/unary
// scheme: a 5-bit starting length, then per symbol a sequence of "10" pairs
// to move up and "11" pairs to move down, terminated by a single 0.
func writeDeltaLengths(bw *bitWriter, lengths []byte) {
	cur := int(lengths[0])
	bw.writeBits(uint64(cur), 5)
	for _, l := range lengths {
		for cur < int(l) {
			bw.writeBits(0b10, 2)
			cur++
		}
		for cur > int(l) {
			bw.writeBits(0b11, 2)
			cur--
		}
		bw.writeBits(0, 1)
	}
}

type encEntry struct {
	code uint32
	len  byte
}

// buildEncodeTable derives canonical codes from the lengths used to build
// table (so encode and decode agree on the same canonical assignment).
func buildEncodeTable(table *huffman.Table, lengths []byte) []encEntry {
	type ls struct {
		sym int
		l   byte
	}
	items := make([]ls, 0, len(lengths))
	for s, l := range lengths {
		if l > 0 {
			items = append(items, ls{s, l})
		}
	}
	// stable sort by (length, symbol), matching the canonical assignment
	// order huffman.BuildTable uses for its sorted[] array.
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && (items[j].l < items[j-1].l || (items[j].l == items[j-1].l && items[j].sym < items[j-1].sym)); j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}

	out := make([]encEntry, len(lengths))
	code := uint32(0)
	curLen := byte(0)
	for _, it := range items {
		if it.l != curLen {
			code <<= uint(it.l - curLen)
			curLen = it.l
		}
		out[it.sym] = encEntry{code: code, len: curLen}
		code++
	}
	return out
}
