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

package ar

import "github.com/nabbar/archive/errors"

const (
	ErrorInvalidMagic errors.CodeError = errors.MinPkgAr + iota
	ErrorTruncated
	ErrorMalformedField
	ErrorInvalidTerminator
	ErrorNameTooLong
	ErrorNotAtEntryBoundary
	ErrorNotInPayload
	ErrorClosed
)

func init() {
	errors.RegisterIdFctMessage(errors.MinPkgAr, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorInvalidMagic:
		return "stream does not begin with the \"!<arch>\\n\" magic"
	case ErrorTruncated:
		return "ar stream ended before a full 60-byte header or before the declared payload size"
	case ErrorMalformedField:
		return "a header field could not be decoded"
	case ErrorInvalidTerminator:
		return "header is missing its trailing \"`\\n\" terminator"
	case ErrorNameTooLong:
		return "entry name exceeds 16 bytes and no long-name dialect was selected"
	case ErrorNotAtEntryBoundary:
		return "putEntry called before the previous entry's payload was fully written"
	case ErrorNotInPayload:
		return "read or write called outside of an entry's payload"
	case ErrorClosed:
		return "operation attempted on a closed reader or writer"
	}
	return errors.NullMessage
}
