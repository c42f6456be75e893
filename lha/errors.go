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

package lha

import "github.com/nabbar/archive/errors"

const (
	ErrorTruncated errors.CodeError = errors.MinPkgLha + iota
	ErrorMalformedHeader
	ErrorHeaderChecksum
	ErrorHeaderCRC
	ErrorUnsupportedLevel
	ErrorUnsupportedMethod
	ErrorChecksumMismatch
	ErrorNotInPayload
	ErrorClosed
)

func init() {
	errors.RegisterIdFctMessage(errors.MinPkgLha, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorTruncated:
		return "lha stream ended before a full header or before the declared payload size"
	case ErrorMalformedHeader:
		return "a header field could not be decoded"
	case ErrorHeaderChecksum:
		return "level 0/1 header byte-sum checksum does not match its declared value"
	case ErrorHeaderCRC:
		return "level 1+ header CRC-16 does not match the extension header's declared value"
	case ErrorUnsupportedLevel:
		return "header level byte is not one of the known values 0-3"
	case ErrorUnsupportedMethod:
		return "entry uses an lha compression method this module does not decode"
	case ErrorChecksumMismatch:
		return "decoded payload CRC-16 does not match the header's declared value"
	case ErrorNotInPayload:
		return "read called outside of an entry's payload"
	case ErrorClosed:
		return "operation attempted on a closed reader"
	}
	return errors.NullMessage
}
