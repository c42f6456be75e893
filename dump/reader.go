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

// Package dump reads 4.4BSD ufs "dump" tape images directly against their
// 1 KiB tape-segment layout (the `s_spcl` header struct from dumprestore.h),
// independent of any external restore tool. A dump stream is a sequence of
// TS_TAPE/TS_BITS/TS_CLRI/TS_INODE/TS_ADDR/TS_END segments; this reader
// walks that order, surfacing one Entry per TS_INODE record and reassembling
// its data from the stored/hole bitmap the header (and any TS_ADDR
// continuations) carries. Reader-only: dump tapes are a sequential
// snapshot format with no writer requirement in this module's scope.
package dump

import (
	"bufio"
	"io"
	"time"

	"github.com/nabbar/archive/entry"
)

// Entry is one inode recorded in a dump tape.
type Entry struct {
	Info    entry.Info
	Inumber int32
}

// Reader is a streaming, forward-only dump reader.
type Reader struct {
	r       *bufio.Reader
	started bool
	closed  bool
	ended   bool

	addr    []byte // remaining block bitmap for the current entry
	pos     int    // index into addr of the next block to serve
	remain  int64  // bytes of payload still owed for the current entry
	pending []byte // bytes already fetched but not yet delivered to Read
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next advances past any unread payload of the current entry and returns
// the next TS_INODE entry. It returns (nil, nil) once TS_END is reached.
func (d *Reader) Next() (*Entry, error) {
	if d.closed {
		return nil, ErrorClosed.ErrorParent(nil)
	}
	if d.ended {
		return nil, nil
	}
	if err := d.skipRemaining(); err != nil {
		return nil, err
	}

	if !d.started {
		s, err := readSpcl(d.r)
		if err != nil {
			return nil, err
		}
		if s.cType != tsTape {
			return nil, ErrorUnexpectedRecordType.ErrorParent(nil)
		}
		d.started = true
	}

	for {
		s, err := readSpcl(d.r)
		if err != nil {
			return nil, err
		}
		switch s.cType {
		case tsBits, tsCLRI:
			if err := d.skipBlocks(int(s.cCount)); err != nil {
				return nil, err
			}
		case tsEnd:
			d.ended = true
			return nil, nil
		case tsInode:
			isDir := s.cMode&modeFmt == modeDir
			d.remain = int64(s.cSize)
			d.addr = s.cAddr
			d.pos = 0
			d.pending = nil
			return &Entry{
				Inumber: s.cInumber,
				Info: entry.Info{
					Size:    int64(s.cSize),
					IsDir:   isDir,
					ModTime: time.Unix(int64(s.cMtime), 0),
					Mode:    uint32(s.cMode),
					HasMode: true,
				},
			}, nil
		default:
			return nil, ErrorUnexpectedRecordType.ErrorParent(nil)
		}
	}
}

// skipBlocks discards n raw 1 KiB records following a bookkeeping segment
// this reader doesn't otherwise interpret.
func (d *Reader) skipBlocks(n int) error {
	for i := 0; i < n; i++ {
		if _, err := io.CopyN(io.Discard, d.r, recordSize); err != nil {
			return ErrorTruncated.ErrorParent(err)
		}
	}
	return nil
}

func (d *Reader) skipRemaining() error {
	d.pending = nil
	for d.remain > 0 {
		if _, err := d.fetchChunk(); err != nil {
			return err
		}
	}
	return nil
}

// fetchChunk reads up to one data block's worth of bytes: a stored block
// (addr[pos] == 1) is read from the stream, a hole (addr[pos] == 0) is
// synthesized as zeros, and running out of the current bitmap fetches a
// TS_ADDR continuation header for the next stretch of blocks. It advances
// d.remain by the number of bytes it accounts for.
func (d *Reader) fetchChunk() ([]byte, error) {
	if d.pos >= len(d.addr) {
		s, err := readSpcl(d.r)
		if err != nil {
			return nil, err
		}
		if s.cType != tsAddr {
			return nil, ErrorUnexpectedRecordType.ErrorParent(nil)
		}
		d.addr = s.cAddr
		d.pos = 0
		if len(d.addr) == 0 {
			return nil, ErrorTruncated.ErrorParent(nil)
		}
	}

	stored := d.addr[d.pos] != 0
	d.pos++

	want := int64(recordSize)
	if want > d.remain {
		want = d.remain
	}
	d.remain -= want

	if !stored {
		return make([]byte, want), nil
	}

	buf := make([]byte, recordSize)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return nil, ErrorTruncated.ErrorParent(err)
	}
	return buf[:want], nil
}

// Read streams the current entry's payload, buffering one dump block at a
// time so it can serve a caller-supplied slice of any size.
func (d *Reader) Read(p []byte) (int, error) {
	for len(d.pending) == 0 {
		if d.remain <= 0 {
			return 0, io.EOF
		}
		chunk, err := d.fetchChunk()
		if err != nil {
			return 0, err
		}
		d.pending = chunk
	}
	n := copy(p, d.pending)
	d.pending = d.pending[n:]
	return n, nil
}

func (d *Reader) Close() error {
	d.closed = true
	return nil
}
