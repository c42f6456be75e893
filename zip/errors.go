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

package zip

import "github.com/nabbar/archive/errors"

const (
	ErrorEOCDNotFound errors.CodeError = errors.MinPkgZip + iota
	ErrorTruncated
	ErrorInvalidFormat
	ErrorMalformedField
	ErrorSplitUnsupported
	ErrorUnknownMethod
	ErrorCRCMismatch
	ErrorTooManyEntries
	ErrorZip64Required
	ErrorNotAtEntryBoundary
	ErrorNotInPayload
	ErrorClosed
)

func init() {
	errors.RegisterIdFctMessage(errors.MinPkgZip, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorEOCDNotFound:
		return "end-of-central-directory signature not found in the trailing 64 KiB + 22 bytes"
	case ErrorTruncated:
		return "zip stream ended before a declared structure was fully read"
	case ErrorInvalidFormat:
		return "a zip structure failed a magic or invariant check"
	case ErrorMalformedField:
		return "a zip header field could not be decoded"
	case ErrorSplitUnsupported:
		return "split/spanned zip archives are not supported"
	case ErrorUnknownMethod:
		return "compression method has no registered codec"
	case ErrorCRCMismatch:
		return "decompressed payload CRC-32 does not match the central directory record"
	case ErrorTooManyEntries:
		return "archive would exceed 65535 entries and ZIP64 is forbidden by the writer mode"
	case ErrorZip64Required:
		return "archive would require a ZIP64 field and the writer mode forbids it"
	case ErrorNotAtEntryBoundary:
		return "putEntry called before the previous entry's payload was fully written"
	case ErrorNotInPayload:
		return "read or write called outside of an entry's payload"
	case ErrorClosed:
		return "operation attempted on a closed reader or writer"
	}
	return errors.NullMessage
}
