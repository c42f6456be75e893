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

import "encoding/binary"

// The LZ4 frame format's content/block checksums are the *32-bit* xxHash,
// which none of the module's dependencies expose (cespare/xxhash/v2 and
// klauspost/compress both only ship the 64-bit variant), so this is a direct
// port of the reference algorithm's prime constants and mixing steps.
const (
	xxh32Prime1 uint32 = 2654435761
	xxh32Prime2 uint32 = 2246822519
	xxh32Prime3 uint32 = 3266489917
	xxh32Prime4 uint32 = 668265263
	xxh32Prime5 uint32 = 374761393
)

// XXHash32 computes the 32-bit xxHash of b with the given seed (LZ4 framed
// streams always seed with 0).
func XXHash32(seed uint32, b []byte) uint32 {
	n := len(b)
	var h uint32

	if n >= 16 {
		v1 := seed + xxh32Prime1 + xxh32Prime2
		v2 := seed + xxh32Prime2
		v3 := seed
		v4 := seed - xxh32Prime1

		for len(b) >= 16 {
			v1 = xxh32Round(v1, binary.LittleEndian.Uint32(b[0:4]))
			v2 = xxh32Round(v2, binary.LittleEndian.Uint32(b[4:8]))
			v3 = xxh32Round(v3, binary.LittleEndian.Uint32(b[8:12]))
			v4 = xxh32Round(v4, binary.LittleEndian.Uint32(b[12:16]))
			b = b[16:]
		}

		h = rotl32(v1, 1) + rotl32(v2, 7) + rotl32(v3, 12) + rotl32(v4, 18)
	} else {
		h = seed + xxh32Prime5
	}

	h += uint32(n)

	for len(b) >= 4 {
		h += binary.LittleEndian.Uint32(b[0:4]) * xxh32Prime3
		h = rotl32(h, 17) * xxh32Prime4
		b = b[4:]
	}

	for len(b) > 0 {
		h += uint32(b[0]) * xxh32Prime5
		h = rotl32(h, 11) * xxh32Prime1
		b = b[1:]
	}

	h ^= h >> 15
	h *= xxh32Prime2
	h ^= h >> 13
	h *= xxh32Prime3
	h ^= h >> 16

	return h
}

func xxh32Round(acc, input uint32) uint32 {
	acc += input * xxh32Prime2
	acc = rotl32(acc, 13)
	acc *= xxh32Prime1
	return acc
}

func rotl32(x uint32, r uint) uint32 {
	return (x << r) | (x >> (32 - r))
}
