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

import (
	"strconv"
	"strings"
)

// ParseOctalField decodes a tar-style fixed-width numeric field: octal ASCII
// digits, terminated and/or padded with NUL and/or space bytes on either
// side. A field whose high bit is set on the first byte is a GNU base-256
// field instead (ParseBase256Field) and must not be routed here.
func ParseOctalField(b []byte) (int64, error) {
	s := strings.TrimFunc(string(b), func(r rune) bool {
		return r == 0 || r == ' '
	})
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 8, 64)
	if err != nil {
		return 0, ErrorMalformedField.ErrorParent(err)
	}
	return v, nil
}

// FormatOctalField encodes v as a NUL-terminated octal field of width bytes,
// left-padded with '0' and right-padded with NUL, matching the classic tar
// header layout used by v7/ustar/pax/gnu.
func FormatOctalField(v int64, width int) []byte {
	digits := strconv.FormatInt(v, 8)
	// one byte reserved for the trailing NUL
	pad := width - 1 - len(digits)
	b := make([]byte, width)
	if pad < 0 {
		// value does not fit: caller should have escalated to base-256.
		digits = digits[len(digits)-(width-1):]
		pad = 0
	}
	for i := 0; i < pad; i++ {
		b[i] = '0'
	}
	copy(b[pad:], digits)
	b[width-1] = 0
	return b
}

// FitsOctalField reports whether v can be encoded as a NUL-terminated octal
// field of the given width without truncation; negative values never fit,
// since the classic octal field has no sign.
func FitsOctalField(v int64, width int) bool {
	if v < 0 {
		return false
	}
	return len(strconv.FormatInt(v, 8)) <= width-1
}

// FormatBase256Field encodes v as a GNU tar base-256 field of width bytes:
// the first byte's high bit is set to mark the field as base-256 (and as
// the sign bit for negative values), the magnitude follows big-endian.
func FormatBase256Field(v int64, width int) []byte {
	b := make([]byte, width)
	neg := v < 0
	for i := width - 1; i >= 1; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	if neg {
		b[0] = 0xff
	} else {
		b[0] = 0x80
	}
	return b
}

// ParseBase256Field decodes a GNU tar base-256 field: the first byte has its
// high bit set (0x80 for positive, 0xff for negative in two's complement),
// with the magnitude stored in the remaining bytes, most significant first.
func ParseBase256Field(b []byte) (int64, error) {
	if len(b) == 0 || b[0]&0x80 == 0 {
		return 0, ErrorMalformedField.ErrorParent(nil)
	}
	// Accumulating into a two's-complement int64 byte by byte reproduces the
	// sign correctly as long as the field fits in 8 bytes; wider fields lose
	// their high bits the same way the reference GNU implementation does.
	var v int64
	for i, c := range b {
		if i == 0 {
			c &= 0x7f
		}
		v = v<<8 | int64(c)
	}
	return v, nil
}
