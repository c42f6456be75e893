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

package sevenzip

import (
	"bufio"
	"io"
)

// readNumber decodes 7z's variable-length integer: the first byte's leading
// 1-bits count how many extra little-endian bytes follow, and its remaining
// low bits contribute the top bits of the value.
func readNumber(r *bufio.Reader) (uint64, error) {
	first, err := r.ReadByte()
	if err != nil {
		return 0, ErrorTruncated.ErrorParent(err)
	}

	mask := byte(0x80)
	var value uint64

	for i := 0; i < 8; i++ {
		if first&mask == 0 {
			high := uint64(first & (mask - 1))
			value |= high << uint(8*i)
			return value, nil
		}
		b, err := r.ReadByte()
		if err != nil {
			return 0, ErrorTruncated.ErrorParent(err)
		}
		value |= uint64(b) << uint(8*i)
		mask >>= 1
	}
	return value, nil
}

// readNumberAsInt is readNumber narrowed to int, for counts and indices that
// can never realistically exceed the platform int range.
func readNumberAsInt(r *bufio.Reader) (int, error) {
	v, err := readNumber(r)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// readBoolVector reads n booleans packed MSB-first into ceil(n/8) bytes.
func readBoolVector(r *bufio.Reader, n int) ([]bool, error) {
	out := make([]bool, n)
	var b byte
	var mask byte
	for i := 0; i < n; i++ {
		if mask == 0 {
			var err error
			b, err = r.ReadByte()
			if err != nil {
				return nil, ErrorTruncated.ErrorParent(err)
			}
			mask = 0x80
		}
		out[i] = b&mask != 0
		mask >>= 1
	}
	return out, nil
}

// readBoolVector2 reads the "AllAreDefined" optimized encoding: a leading
// byte, non-zero meaning every item is true, zero meaning a full bit vector
// follows.
func readBoolVector2(r *bufio.Reader, n int) ([]bool, error) {
	allDefined, err := r.ReadByte()
	if err != nil {
		return nil, ErrorTruncated.ErrorParent(err)
	}
	if allDefined != 0 {
		out := make([]bool, n)
		for i := range out {
			out[i] = true
		}
		return out, nil
	}
	return readBoolVector(r, n)
}

func readByte(r *bufio.Reader) (byte, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, ErrorTruncated.ErrorParent(err)
	}
	return b, nil
}

func readFull(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, ErrorTruncated.ErrorParent(err)
	}
	return buf, nil
}
