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
	"bytes"
	"io"

	"github.com/nabbar/archive/byteio"
	"github.com/nabbar/archive/huffman"
)

// Reader is a streaming BZip2 decoder, handling multiple blocks per stream
// and verifying both per-block and combined stream CRCs.
type Reader struct {
	br       *byteio.BitReader
	level    int
	pending  *bytes.Reader
	streamCRC uint32
	done     bool
}

// NewReader validates the "BZh"+level header and returns a decoder ready to
// stream decoded bytes out through Read.
func NewReader(r io.Reader) (*Reader, error) {
	br := byteio.NewBitReader(r, byteio.MSBFirst)

	magic, err := br.ReadBits(24)
	if err != nil {
		return nil, err
	}
	if magic != 0x425a68 { // "BZh"
		return nil, ErrorInvalidHeader.ErrorParent(nil)
	}
	lvl, err := br.ReadBits(8)
	if err != nil {
		return nil, err
	}
	if lvl < '1' || lvl > '9' {
		return nil, ErrorInvalidLevel.ErrorParent(nil)
	}

	return &Reader{br: br, level: int(lvl - '0')}, nil
}

// Close releases the decoder. The block-sort decoder holds no external
// resources, so this only satisfies io.ReadCloser for callers that need it.
func (z *Reader) Close() error {
	return nil
}

func (z *Reader) Read(p []byte) (int, error) {
	for {
		if z.pending != nil {
			n, err := z.pending.Read(p)
			if err == io.EOF {
				z.pending = nil
				if n > 0 {
					return n, nil
				}
				continue
			}
			return n, err
		}
		if z.done {
			return 0, io.EOF
		}
		if err := z.nextBlock(); err != nil {
			return 0, err
		}
	}
}

func (z *Reader) nextBlock() error {
	hi, err := z.br.ReadBits(24)
	if err != nil {
		return err
	}
	lo, err := z.br.ReadBits(24)
	if err != nil {
		return err
	}

	if hi == endMagicHi && lo == endMagicLo {
		combined, err := z.br.ReadBits(32)
		if err != nil {
			return err
		}
		if uint32(combined) != z.streamCRC {
			return ErrorTrailerMismatch.ErrorParent(nil)
		}
		z.done = true
		return nil
	}
	if hi != blockMagicHi || lo != blockMagicLo {
		return ErrorInvalidBlock.ErrorParent(nil)
	}

	blkCRC, err := z.br.ReadBits(32)
	if err != nil {
		return err
	}
	randBit, err := z.br.ReadBits(1)
	if err != nil {
		return err
	}
	randomised := randBit == 1
	origPtrV, err := z.br.ReadBits(24)
	if err != nil {
		return err
	}
	origPtr := int(origPtrV)

	symMap, err := readSymMap(z.br)
	if err != nil {
		return err
	}

	nGroupsV, err := z.br.ReadBits(3)
	if err != nil {
		return err
	}
	nGroups := int(nGroupsV)
	nSelV, err := z.br.ReadBits(15)
	if err != nil {
		return err
	}
	nSelectors := int(nSelV)

	selectors := make([]int, nSelectors)
	for i := range selectors {
		j := 0
		for {
			bit, err := z.br.ReadBit()
			if err != nil {
				return err
			}
			if bit == 0 {
				break
			}
			j++
		}
		selectors[i] = j % maxInt(nGroups, 1)
	}

	alphaSize := len(symMap) + 2
	tables := make([]*huffman.Table, nGroups)
	for g := 0; g < nGroups; g++ {
		lengths, err := readDeltaLengths(z.br, alphaSize)
		if err != nil {
			return err
		}
		tables[g], err = huffman.BuildTable(lengths)
		if err != nil {
			return err
		}
	}
	if len(tables) == 0 {
		return ErrorInvalidBlock.ErrorParent(nil)
	}

	var syms []int
	selIdx := -1
	count := 0
	for {
		if count == 0 {
			selIdx++
			count = 50
		}
		sel := 0
		if selIdx < len(selectors) {
			sel = selectors[selIdx]
		}
		if sel >= len(tables) {
			sel = 0
		}
		sym, err := tables[sel].Decode(z.br)
		if err != nil {
			return err
		}
		count--
		if sym == alphaSize-1 {
			break
		}
		syms = append(syms, sym)
	}

	mtf := decodeSymbols(syms, alphaSize)
	last := mtfDecode(mtf, symMap)
	rle := inverseBWT(last, origPtr)
	if randomised {
		for i := range rle {
			rle[i] ^= byte(randTable[i%512])
		}
	}
	out := rle1Decode(rle)

	if byteio.CRC32(out) != uint32(blkCRC) {
		return ErrorTrailerMismatch.ErrorParent(nil)
	}
	z.streamCRC = ((z.streamCRC << 1) | (z.streamCRC >> 31)) ^ uint32(blkCRC)

	z.pending = bytes.NewReader(out)
	return nil
}

func readSymMap(br *byteio.BitReader) ([]byte, error) {
	hi, err := br.ReadBits(16)
	if err != nil {
		return nil, err
	}
	var out []byte
	for i := 0; i < 16; i++ {
		if hi&(1<<uint(i)) == 0 {
			continue
		}
		bits, err := br.ReadBits(16)
		if err != nil {
			return nil, err
		}
		for j := 0; j < 16; j++ {
			if bits&(1<<uint(j)) != 0 {
				out = append(out, byte(i*16+j))
			}
		}
	}
	return out, nil
}

func readDeltaLengths(br *byteio.BitReader, alphaSize int) ([]byte, error) {
	cur, err := br.ReadBits(5)
	if err != nil {
		return nil, err
	}
	lengths := make([]byte, alphaSize)
	for s := 0; s < alphaSize; s++ {
		for {
			bit, err := br.ReadBit()
			if err != nil {
				return nil, err
			}
			if bit == 0 {
				break
			}
			bit2, err := br.ReadBit()
			if err != nil {
				return nil, err
			}
			if bit2 == 0 {
				cur++
			} else {
				cur--
			}
		}
		lengths[s] = byte(cur)
	}
	return lengths, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
