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

package tar

import "github.com/nabbar/archive/errors"

const (
	ErrorTruncated errors.CodeError = errors.MinPkgTar + iota
	ErrorInvalidChecksum
	ErrorMalformedField
	ErrorNameTooLong
	ErrorSizeTooLarge
	ErrorInvalidPaxRecord
	ErrorInvalidSparseMap
	ErrorNotInPayload
	ErrorNotAtEntryBoundary
	ErrorClosed
)

func init() {
	errors.RegisterIdFctMessage(errors.MinPkgTar, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorTruncated:
		return "tar stream ended before a full 512-byte record or before the declared payload size"
	case ErrorInvalidChecksum:
		return "header checksum does not match the sum of header bytes"
	case ErrorMalformedField:
		return "a header field could not be decoded"
	case ErrorNameTooLong:
		return "entry name exceeds the format limit and strict mode forbids pax promotion"
	case ErrorSizeTooLarge:
		return "entry size exceeds the format limit and strict mode forbids pax promotion"
	case ErrorInvalidPaxRecord:
		return "pax extended header record is malformed"
	case ErrorInvalidSparseMap:
		return "GNU sparse map is malformed or inconsistent with the entry size"
	case ErrorNotInPayload:
		return "read called outside of an entry's payload"
	case ErrorNotAtEntryBoundary:
		return "writeHeader called before the previous entry's payload was fully written"
	case ErrorClosed:
		return "operation attempted on a closed reader or writer"
	}
	return errors.NullMessage
}
