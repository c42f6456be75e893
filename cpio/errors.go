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

package cpio

import "github.com/nabbar/archive/errors"

const (
	ErrorUnknownMagic errors.CodeError = errors.MinPkgCpio + iota
	ErrorTruncated
	ErrorMalformedField
	ErrorChecksumMismatch
	ErrorBinaryUnsupported
)

func init() {
	errors.RegisterIdFctMessage(errors.MinPkgCpio, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorUnknownMagic:
		return "stream does not begin with a recognized cpio magic"
	case ErrorTruncated:
		return "cpio stream ended before a full header or before the declared payload size"
	case ErrorMalformedField:
		return "a header field could not be decoded"
	case ErrorChecksumMismatch:
		return "NEW_CRC payload checksum does not match the header's declared checksum"
	case ErrorBinaryUnsupported:
		return "binary (pre-ASCII) cpio dialect is not supported for writing"
	}
	return errors.NullMessage
}
