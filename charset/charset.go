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

// Package charset converts between raw header bytes and Go strings under a
// configurable encoding, the thin layer every archive format's filename,
// comment and extra-field handling is built on: ZIP's general-purpose bit 11
// (UTF-8 vs legacy codepage), LHA's OS-dependent filename charset, and the
// UTF-16LE passwords ZipCrypto/AES archives sometimes carry.
package charset

import (
	"bytes"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/nabbar/archive/errors"
)

// Encoding names the codepage used to decode/encode a byte slice.
type Encoding uint8

const (
	// UTF8 is ZIP's general-purpose bit 11 / the only sane default.
	UTF8 Encoding = iota
	// CP437 is the legacy DOS codepage most pre-UTF-8 ZIP/ARJ archives use.
	CP437
	// Latin1 (ISO-8859-1) covers the common fallback for LHA/7z OS regions.
	Latin1
)

func (e Encoding) codec() encoding.Encoding {
	switch e {
	case CP437:
		return charmap.CodePage437
	case Latin1:
		return charmap.ISO8859_1
	default:
		return encoding.Nop
	}
}

const (
	ErrorInvalidEncoding errors.CodeError = errors.MinPkgCharset + iota
)

func init() {
	errors.RegisterIdFctMessage(errors.MinPkgCharset, getMessage)
}

func getMessage(code errors.CodeError) string {
	if code == ErrorInvalidEncoding {
		return "byte sequence is not valid under the requested encoding"
	}
	return errors.NullMessage
}

// Decode turns raw header bytes into a string under the given encoding.
func Decode(b []byte, e Encoding) (string, error) {
	if e == UTF8 {
		if !utf8.Valid(b) {
			return "", ErrorInvalidEncoding.ErrorParent(nil)
		}
		return string(b), nil
	}
	s, err := e.codec().NewDecoder().String(string(b))
	if err != nil {
		return "", ErrorInvalidEncoding.ErrorParent(err)
	}
	return s, nil
}

// Encode turns a string back into raw bytes under the given encoding.
func Encode(s string, e Encoding) ([]byte, error) {
	if e == UTF8 {
		return []byte(s), nil
	}
	b, err := e.codec().NewEncoder().String(s)
	if err != nil {
		return nil, ErrorInvalidEncoding.ErrorParent(err)
	}
	return []byte(b), nil
}

// DecodeUTF16LE decodes a raw little-endian UTF-16 byte slice, the encoding
// AES/ZipCrypto archives sometimes require for password material.
func DecodeUTF16LE(b []byte) (string, error) {
	if len(b)%2 != 0 {
		return "", ErrorInvalidEncoding.ErrorParent(nil)
	}
	u := make([]uint16, len(b)/2)
	for i := range u {
		u[i] = uint16(b[2*i]) | uint16(b[2*i+1])<<8
	}
	return string(utf16.Decode(u)), nil
}

// EncodeUTF16LE encodes s into raw little-endian UTF-16 bytes.
func EncodeUTF16LE(s string) []byte {
	u := utf16.Encode([]rune(s))
	buf := &bytes.Buffer{}
	buf.Grow(len(u) * 2)
	for _, v := range u {
		buf.WriteByte(byte(v))
		buf.WriteByte(byte(v >> 8))
	}
	return buf.Bytes()
}
