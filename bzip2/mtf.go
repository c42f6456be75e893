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

// mtfEncode runs move-to-front over block restricted to the symbols present
// (symMap lists the distinct byte values that occur, ascending), returning
// the MTF index stream ready for run-length-of-zeros + Huffman coding.
func mtfEncode(block []byte, symMap []byte) []byte {
	table := append([]byte(nil), symMap...)
	out := make([]byte, len(block))

	for i, b := range block {
		pos := 0
		for table[pos] != b {
			pos++
		}
		out[i] = byte(pos)
		if pos > 0 {
			copy(table[1:pos+1], table[0:pos])
			table[0] = b
		}
	}
	return out
}

// mtfDecode inverts mtfEncode.
func mtfDecode(idx []byte, symMap []byte) []byte {
	table := append([]byte(nil), symMap...)
	out := make([]byte, len(idx))

	for i, p := range idx {
		b := table[p]
		out[i] = b
		if p > 0 {
			copy(table[1:int(p)+1], table[0:p])
			table[0] = b
		}
	}
	return out
}

// usedSymbols returns the distinct byte values in block, ascending.
func usedSymbols(block []byte) []byte {
	var present [256]bool
	for _, b := range block {
		present[b] = true
	}
	out := make([]byte, 0, 256)
	for i := 0; i < 256; i++ {
		if present[i] {
			out = append(out, byte(i))
		}
	}
	return out
}
