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

// Package arj implements Robert K. Jung's ARJ archive format directly
// against its byte layout (main header + a sequence of local file headers,
// each {magic, basic-header, CRC-32, extended-header chain, payload}),
// independent of any external ARJ tool. Only the stored (method 0) entries
// are decoded; entries using ARJ's proprietary LZ77/Huffman-variant methods
// (1-4) are listed by Next, but Read refuses their payload, the same
// scope decision this module makes for 7z's LZMA2/BCJ2 coders. Reader-only:
// ARJ has no writer requirement in this module's scope.
package arj

import (
	"bufio"
	"hash/crc32"
	"io"
	"time"

	"github.com/nabbar/archive/entry"
)

// Entry is one file or directory listed in an ARJ archive.
type Entry struct {
	Info   entry.Info
	Method byte
}

// Reader is a streaming, forward-only ARJ reader.
type Reader struct {
	r       *bufio.Reader
	started bool
	closed  bool

	remain  int64
	sum     uint32
	verify  bool
	wantCRC uint32
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next advances past any unread payload of the current entry and parses the
// next local file header. It returns (nil, nil) at the end-of-archive
// marker (a local file header whose basic-header size is 0).
func (a *Reader) Next() (*Entry, error) {
	if a.closed {
		return nil, ErrorClosed.ErrorParent(nil)
	}
	if err := a.skipRemaining(); err != nil {
		return nil, err
	}

	if !a.started {
		if err := a.readMainHeader(); err != nil {
			return nil, err
		}
		a.started = true
	}

	block, size, err := readRawHeader(a.r)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, nil
	}

	lh, err := parseLocalFileHeader(block)
	if err != nil {
		return nil, err
	}
	if err := skipExtendedHeaders(a.r); err != nil {
		return nil, err
	}

	isDir := lh.fileType == fileTypeDirectory
	a.remain = int64(lh.compressedSize)
	a.sum = 0
	a.wantCRC = lh.originalCRC
	a.verify = lh.method == methodStored

	return &Entry{
		Method: lh.method,
		Info: entry.Info{
			Name:        lh.name,
			Size:        int64(lh.originalSize),
			IsDir:       isDir,
			ModTime:     time.Time{},
			Checksum:    lh.originalCRC,
			HasChecksum: true,
		},
	}, nil
}

// readMainHeader consumes the archive's single main header (global
// properties, archive name/comment): this module has no use for its
// fields beyond skipping past it to the first local file header.
func (a *Reader) readMainHeader() error {
	_, size, err := readRawHeader(a.r)
	if err != nil {
		return err
	}
	if size == 0 {
		return ErrorMalformedField.ErrorParent(nil)
	}
	return skipExtendedHeaders(a.r)
}

func (a *Reader) skipRemaining() error {
	if a.remain > 0 {
		if _, err := io.CopyN(io.Discard, a.r, a.remain); err != nil {
			return ErrorTruncated.ErrorParent(err)
		}
		a.remain = 0
	}
	return nil
}

// Read streams the current entry's payload. Only method-0 (stored) entries
// may be read; anything else fails with ErrorUnsupportedCodec.
func (a *Reader) Read(p []byte) (int, error) {
	if a.remain <= 0 {
		return 0, io.EOF
	}
	if !a.verify {
		return 0, ErrorUnsupportedCodec.ErrorParent(nil)
	}
	if int64(len(p)) > a.remain {
		p = p[:a.remain]
	}
	n, err := a.r.Read(p)
	a.sum = crc32.Update(a.sum, crc32.IEEETable, p[:n])
	a.remain -= int64(n)
	if a.remain == 0 && a.sum != a.wantCRC {
		return n, ErrorChecksumMismatch.ErrorParent(nil)
	}
	return n, err
}

func (a *Reader) Close() error {
	a.closed = true
	return nil
}
