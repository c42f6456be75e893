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

// Property IDs from the 7z header grammar (7zFormat.txt / 7zIn.cpp).
const (
	idEnd                = 0x00
	idHeader             = 0x01
	idArchiveProperties  = 0x02
	idAdditionalStreams  = 0x03
	idMainStreamsInfo    = 0x04
	idFilesInfo          = 0x05
	idPackInfo           = 0x06
	idUnpackInfo         = 0x07
	idSubStreamsInfo     = 0x08
	idSize               = 0x09
	idCRC                = 0x0A
	idFolder             = 0x0B
	idCodersUnpackSize   = 0x0C
	idNumUnpackStream    = 0x0D
	idEmptyStream        = 0x0E
	idEmptyFile          = 0x0F
	idAnti               = 0x10
	idName               = 0x11
	idCTime              = 0x12
	idATime              = 0x13
	idMTime              = 0x14
	idWinAttributes      = 0x15
	idComment            = 0x16
	idEncodedHeader      = 0x17
	idStartPos           = 0x18
	idDummy              = 0x19
)

// Codec (method) IDs this module dispatches by. 7z encodes the codec id as a
// 1-4 byte big-endian string; the constants below are that string's bytes.
var (
	methodCopy         = []byte{0x00}
	methodLZMA2        = []byte{0x21}
	methodLZMA         = []byte{0x03, 0x01, 0x01}
	methodBCJX86       = []byte{0x03, 0x03, 0x01, 0x03}
	methodDeflate      = []byte{0x04, 0x01, 0x08}
	methodBzip2        = []byte{0x04, 0x02, 0x02}
	methodAES256SHA256 = []byte{0x06, 0xF1, 0x07, 0x01}
)

func methodEq(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
