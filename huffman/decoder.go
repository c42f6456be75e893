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

// Package huffman is the canonical Huffman decoder BZip2 builds its block
// symbol tables on top of: given an array of code lengths it builds the
// limit/bias/sorted tables described by the classic bzip2 implementation and
// decodes one symbol at a time from a bit source.
package huffman

import "github.com/nabbar/archive/byteio"

const maxCodeLen = 30

// Table is a decode table built from an array of per-symbol code lengths
// (0 meaning "unused").
type Table struct {
	minLen int
	maxLen int
	limit  [maxCodeLen + 2]int32
	base   [maxCodeLen + 2]int32
	sorted []int32 // symbol order: by length, then by symbol value
}

// BuildTable constructs the canonical decode table for the given code
// lengths, following the classic limit/base/sorted scheme: limit[l] is the
// largest code of length l, base[l] lets the index into sorted of a code of
// length l be recovered as code-base[l], and sorted lists symbols ordered
// by (length, symbol).
func BuildTable(lengths []byte) (*Table, error) {
	t := &Table{}

	t.minLen = maxCodeLen
	t.maxLen = 0
	for _, l := range lengths {
		if l == 0 {
			continue
		}
		if int(l) < t.minLen {
			t.minLen = int(l)
		}
		if int(l) > t.maxLen {
			t.maxLen = int(l)
		}
	}
	if t.maxLen == 0 || t.maxLen > maxCodeLen {
		return nil, ErrorInvalidLengths.ErrorParent(nil)
	}

	t.sorted = make([]int32, 0, len(lengths))
	for l := t.minLen; l <= t.maxLen; l++ {
		for sym, sl := range lengths {
			if int(sl) == l {
				t.sorted = append(t.sorted, int32(sym))
			}
		}
	}

	var count [maxCodeLen + 2]int32
	for _, l := range lengths {
		if l > 0 {
			count[l]++
		}
	}
	var kraft uint64
	for l := 1; l <= t.maxLen; l++ {
		kraft += uint64(count[l]) << uint(t.maxLen-l)
	}
	if kraft > uint64(1)<<uint(t.maxLen) {
		return nil, ErrorInvalidLengths.ErrorParent(nil)
	}

	code := int32(0)
	idx := int32(0)
	for l := t.minLen; l <= t.maxLen; l++ {
		t.base[l] = code - idx
		code += count[l]
		idx += count[l]
		t.limit[l] = code - 1
		code <<= 1
	}

	return t, nil
}

// Decode reads one symbol from br, failing with ErrorInvalidCode if the
// bitstream reaches maxCodeLen without matching any code.
func (t *Table) Decode(br *byteio.BitReader) (int, error) {
	l := t.minLen
	code, err := br.ReadBits(uint(l))
	if err != nil {
		return 0, err
	}

	for {
		if l > t.maxLen {
			return 0, ErrorInvalidCode.ErrorParent(nil)
		}
		if int32(code) <= t.limit[l] {
			break
		}
		bit, err := br.ReadBit()
		if err != nil {
			return 0, err
		}
		code = code<<1 | uint64(bit)
		l++
	}

	idx := int32(code) - t.base[l]
	if idx < 0 || int(idx) >= len(t.sorted) {
		return 0, ErrorInvalidCode.ErrorParent(nil)
	}
	return int(t.sorted[idx]), nil
}
