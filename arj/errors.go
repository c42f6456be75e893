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

package arj

import "github.com/nabbar/archive/errors"

const (
	ErrorInvalidMagic errors.CodeError = errors.MinPkgArj + iota
	ErrorTruncated
	ErrorMalformedField
	ErrorHeaderCRC
	ErrorUnsupportedCodec
	ErrorChecksumMismatch
	ErrorNotInPayload
	ErrorClosed
)

func init() {
	errors.RegisterIdFctMessage(errors.MinPkgArj, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorInvalidMagic:
		return "stream does not begin with the ARJ 0x60 0xEA header magic"
	case ErrorTruncated:
		return "arj stream ended before a full header or before the declared payload size"
	case ErrorMalformedField:
		return "a header field could not be decoded"
	case ErrorHeaderCRC:
		return "basic header CRC-32 does not match its declared value"
	case ErrorUnsupportedCodec:
		return "entry uses an ARJ compression method this module does not decode"
	case ErrorChecksumMismatch:
		return "decoded payload CRC-32 does not match the header's original file CRC"
	case ErrorNotInPayload:
		return "read called outside of an entry's payload"
	case ErrorClosed:
		return "operation attempted on a closed reader"
	}
	return errors.NullMessage
}
