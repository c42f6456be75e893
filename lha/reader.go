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

// Package lha reads LHA/LZH archives across header levels 0-3 directly
// against the format's published byte layout: a chain of
// {header, payload} records, each header either a level 0/1 fixed-size
// block carrying a byte-sum checksum, or a level 2/3 block that moves the
// filename and a CRC-16 header checksum into a chained extension-header
// list. Only the uncompressed "-lh0-" method is decoded; the Lempel-Ziv +
// Huffman variants ("-lh1-" through "-lh7-", "-lzs-", "-lz4-"/"-lz5-") are
// recognized by their method tag and rejected with ErrorUnsupportedMethod,
// the same scope decision already made for 7z's LZMA2/BCJ2 coders and
// ARJ's proprietary methods. Reader-only, no writer.
package lha

import (
	"bufio"
	"io"
	"time"

	"github.com/nabbar/archive/byteio"
	"github.com/nabbar/archive/entry"
)

// Entry is one archived member.
type Entry struct {
	Info   entry.Info
	Method string
	Level  uint8
}

// Reader is a streaming, forward-only LHA reader.
type Reader struct {
	r       *bufio.Reader
	closed  bool
	ended   bool
	remain  int64
	sum     uint16
	verify  bool
	wantCRC uint16
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next advances past any unread payload of the current entry and returns
// the next entry. It returns (nil, nil) at end of archive.
func (l *Reader) Next() (*Entry, error) {
	if l.closed {
		return nil, ErrorClosed.ErrorParent(nil)
	}
	if l.ended {
		return nil, nil
	}
	if err := l.skipRemaining(); err != nil {
		return nil, err
	}

	h, err := readHeader(l.r)
	if err != nil {
		return nil, err
	}
	if h == nil {
		l.ended = true
		return nil, nil
	}

	isDir := h.method == methodDir
	l.remain = int64(h.compressedSize)
	l.verify = h.method == methodStore && !isDir
	l.wantCRC = h.dataCRC
	l.sum = 0

	return &Entry{
		Method: h.method,
		Level:  h.level,
		Info: entry.Info{
			Name:        h.name,
			Size:        int64(h.originalSize),
			IsDir:       isDir,
			ModTime:     entryModTime(h),
			Checksum:    uint32(h.dataCRC),
			HasChecksum: true,
		},
	}, nil
}

// entryModTime decodes a header's timestamp: MS-DOS packed date/time for
// level 0/1, Unix seconds for level 2/3.
func entryModTime(h *header) time.Time {
	if h.level >= 2 {
		return time.Unix(int64(h.timestamp), 0).UTC()
	}
	date := uint16(h.timestamp >> 16)
	clock := uint16(h.timestamp & 0xFFFF)
	year := int(date>>9) + 1980
	month := time.Month(int((date >> 5) & 0xF))
	day := int(date & 0x1F)
	hour := int(clock >> 11)
	min := int((clock >> 5) & 0x3F)
	sec := int(clock&0x1F) * 2
	if month < 1 {
		month = 1
	}
	if day < 1 {
		day = 1
	}
	return time.Date(year, month, day, hour, min, sec, 0, time.UTC)
}

func (l *Reader) skipRemaining() error {
	if l.remain <= 0 {
		return nil
	}
	n, err := io.CopyN(io.Discard, l.r, l.remain)
	l.remain -= n
	if err != nil {
		return ErrorTruncated.ErrorParent(err)
	}
	return nil
}

// Read streams the current entry's payload. Only the stored method is
// decodable; any other recognized method fails with ErrorUnsupportedMethod.
func (l *Reader) Read(p []byte) (int, error) {
	if l.remain <= 0 {
		return 0, io.EOF
	}
	if !l.verify {
		return 0, ErrorUnsupportedMethod.ErrorParent(nil)
	}

	if int64(len(p)) > l.remain {
		p = p[:l.remain]
	}
	n, err := l.r.Read(p)
	if n > 0 {
		l.sum = byteio.UpdateCRC16(l.sum, p[:n])
		l.remain -= int64(n)
		if l.remain == 0 && l.sum != l.wantCRC {
			return n, ErrorChecksumMismatch.ErrorParent(nil)
		}
	}
	if err != nil && err != io.EOF {
		return n, ErrorTruncated.ErrorParent(err)
	}
	return n, nil
}

func (l *Reader) Close() error {
	l.closed = true
	return nil
}
