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

import "hash/crc32"

// CRC32 is the zip/gzip/7z checksum: IEEE polynomial, hash/crc32 already
// ships a table-driven implementation so there is nothing to hand-roll here.
func CRC32(b []byte) uint32 {
	return crc32.ChecksumIEEE(b)
}

// crc32cTable is lazily-shared across every CRC32C call; Castagnoli is the
// polynomial Snappy's framed format embeds per-chunk.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the Castagnoli CRC-32 Snappy's framed format uses, with
// the additional "masking" rotation the framing spec requires so a stream
// of zero bytes does not produce an all-zero checksum.
func CRC32C(b []byte) uint32 {
	c := crc32.Checksum(b, crc32cTable)
	return ((c >> 15) | (c << 17)) + 0xa282ead8
}

// crc16Table is the CRC-16/ARC table (reflected polynomial 0xA001) LHA's
// header checksum uses.
var crc16Table = buildCRC16Table()

func buildCRC16Table() [256]uint16 {
	var t [256]uint16
	for i := 0; i < 256; i++ {
		c := uint16(i)
		for j := 0; j < 8; j++ {
			if c&1 != 0 {
				c = (c >> 1) ^ 0xa001
			} else {
				c >>= 1
			}
		}
		t[i] = c
	}
	return t
}

// CRC16 is the table-driven CRC-16/ARC checksum LHA headers and per-entry
// data use.
func CRC16(b []byte) uint16 {
	return UpdateCRC16(0, b)
}

// UpdateCRC16 folds b into a running CRC-16/ARC value, mirroring
// hash/crc32's Update for callers that need to checksum a stream
// incrementally instead of buffering it whole, such as an LHA entry's
// payload CRC computed across successive Read calls.
func UpdateCRC16(crc uint16, b []byte) uint16 {
	c := crc
	for _, v := range b {
		c = crc16Table[byte(c)^v] ^ (c >> 8)
	}
	return c
}
