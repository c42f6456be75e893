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

// RUNA/RUNB are the two reserved symbols representing a run of zero MTF
// values in a bijective base-2 numeral system: a run length n (n >= 1) is
// written one digit per iteration (digit 0 -> RUNA, 1 -> RUNB), least
// significant digit first, with digit d at position i contributing
// (d+1) * 2^i to n. Any non-zero MTF value v is shifted to symbol v+1 to
// make room for these two reserved codes; the alphabet's final symbol is
// the end-of-block marker.
const (
	symRUNA = 0
	symRUNB = 1
)

// encodeSymbols turns an MTF index stream into the bzip2 symbol stream:
// runs of zero collapse into RUNA/RUNB digits, everything else shifts by
// one, and the stream is terminated by the EOB symbol (alphaSize-1).
func encodeSymbols(mtf []byte, alphaSize int) []int {
	eob := alphaSize - 1
	out := make([]int, 0, len(mtf)+1)

	flushRun := func(n int) {
		for n > 0 {
			if n%2 == 1 {
				out = append(out, symRUNA)
				n = (n - 1) / 2
			} else {
				out = append(out, symRUNB)
				n = (n - 2) / 2
			}
		}
	}

	run := 0
	for _, v := range mtf {
		if v == 0 {
			run++
			continue
		}
		flushRun(run)
		run = 0
		out = append(out, int(v)+1)
	}
	flushRun(run)
	out = append(out, eob)
	return out
}

// decodeSymbols inverts encodeSymbols, stopping at the EOB symbol.
func decodeSymbols(syms []int, alphaSize int) []byte {
	eob := alphaSize - 1
	out := make([]byte, 0, len(syms))

	run := 0
	bit := 0
	flush := func() {
		if run > 0 {
			for k := 0; k < run; k++ {
				out = append(out, 0)
			}
			run = 0
			bit = 0
		}
	}

	for _, s := range syms {
		switch {
		case s == eob:
			flush()
			return out
		case s == symRUNA:
			run += 1 << uint(bit)
			bit++
		case s == symRUNB:
			run += 2 << uint(bit)
			bit++
		default:
			flush()
			out = append(out, byte(s-1))
		}
	}
	flush()
	return out
}
