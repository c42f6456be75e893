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

package dump

import "github.com/nabbar/archive/errors"

const (
	ErrorBadMagic errors.CodeError = errors.MinPkgDump + iota
	ErrorBadChecksum
	ErrorTruncated
	ErrorUnexpectedRecordType
	ErrorNotInPayload
	ErrorClosed
)

func init() {
	errors.RegisterIdFctMessage(errors.MinPkgDump, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorBadMagic:
		return "tape segment header does not carry the NFS_MAGIC value"
	case ErrorBadChecksum:
		return "tape segment header's 256-word checksum does not sum to the sentinel value"
	case ErrorTruncated:
		return "dump stream ended before a full 1 KiB tape segment or before an inode's declared data"
	case ErrorUnexpectedRecordType:
		return "encountered a tape segment type out of the expected CLR/BITS/INODE/ADDR/END order"
	case ErrorNotInPayload:
		return "read called outside of an entry's payload"
	case ErrorClosed:
		return "operation attempted on a closed reader"
	}
	return errors.NullMessage
}
