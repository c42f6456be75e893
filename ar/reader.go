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

// Package ar implements the common Unix archive ("ar") container directly
// against its byte layout: the global "!<arch>\n" magic followed by a
// sequence of fixed 60-byte headers, each optionally preceded by a BSD or
// GNU long-name side channel.
package ar

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nabbar/archive/entry"
)

const (
	globalMagic = "!<arch>\n"
	headerLen   = 60
	terminator  = "`\n"
)

// Reader is a streaming, forward-only ar reader.
type Reader struct {
	r          *bufio.Reader
	started    bool
	remain     int64
	pad        bool
	closed     bool
	gnuNames   string
	lastWasHdr bool
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next advances past any unread payload of the current entry and parses the
// next header, resolving BSD (#1/N) and GNU (//, /offset) long names.
func (a *Reader) Next() (*entry.Info, error) {
	if a.closed {
		return nil, ErrorClosed.ErrorParent(nil)
	}
	if err := a.skipRemaining(); err != nil {
		return nil, err
	}
	if !a.started {
		magic := make([]byte, len(globalMagic))
		if _, err := io.ReadFull(a.r, magic); err != nil {
			return nil, ErrorTruncated.ErrorParent(err)
		}
		if string(magic) != globalMagic {
			return nil, ErrorInvalidMagic.ErrorParent(nil)
		}
		a.started = true
	}

	for {
		hdr := make([]byte, headerLen)
		n, err := io.ReadFull(a.r, hdr)
		if err == io.EOF && n == 0 {
			return nil, nil
		}
		if err != nil {
			return nil, ErrorTruncated.ErrorParent(err)
		}
		if string(hdr[58:60]) != terminator {
			return nil, ErrorInvalidTerminator.ErrorParent(nil)
		}

		name := strings.TrimRight(string(hdr[0:16]), " ")
		mtimeStr := strings.TrimSpace(string(hdr[16:28]))
		uidStr := strings.TrimSpace(string(hdr[28:34]))
		gidStr := strings.TrimSpace(string(hdr[34:40]))
		modeStr := strings.TrimSpace(string(hdr[40:48]))
		sizeStr := strings.TrimSpace(string(hdr[48:58]))

		size, err := strconv.ParseInt(sizeStr, 10, 64)
		if err != nil {
			return nil, ErrorMalformedField.ErrorParent(err)
		}

		if name == "//" {
			// GNU long-name table: its payload is itself, consumed now so
			// the next header sees the name table already resolved.
			buf := make([]byte, size)
			if _, err := io.ReadFull(a.r, buf); err != nil {
				return nil, ErrorTruncated.ErrorParent(err)
			}
			if size%2 != 0 {
				_, _ = a.r.Discard(1)
			}
			a.gnuNames = string(buf)
			continue
		}

		longBSD := int64(0)
		if strings.HasPrefix(name, "#1/") {
			l, err := strconv.ParseInt(strings.TrimPrefix(name, "#1/"), 10, 64)
			if err != nil {
				return nil, ErrorMalformedField.ErrorParent(err)
			}
			longBSD = l
		} else if strings.HasPrefix(name, "/") && name != "/" {
			off, err := strconv.ParseInt(strings.TrimPrefix(name, "/"), 10, 64)
			if err == nil && a.gnuNames != "" && int(off) < len(a.gnuNames) {
				rest := a.gnuNames[off:]
				if idx := strings.IndexByte(rest, '/'); idx >= 0 {
					name = rest[:idx]
				} else {
					name = strings.TrimRight(rest, "\n")
				}
			}
		} else {
			name = strings.TrimSuffix(name, "/")
		}

		if longBSD > 0 {
			buf := make([]byte, longBSD)
			if _, err := io.ReadFull(a.r, buf); err != nil {
				return nil, ErrorTruncated.ErrorParent(err)
			}
			name = string(buf)
			size -= longBSD
		}

		mtime, _ := strconv.ParseInt(mtimeStr, 10, 64)
		uid, _ := strconv.Atoi(uidStr)
		gid, _ := strconv.Atoi(gidStr)
		mode, _ := strconv.ParseUint(modeStr, 8, 32)

		a.remain = size
		a.pad = size%2 != 0

		return &entry.Info{
			Name:     name,
			Size:     size,
			ModTime:  time.Unix(mtime, 0),
			Mode:     uint32(mode),
			HasMode:  true,
			UID:      uid,
			GID:      gid,
			HasOwner: true,
		}, nil
	}
}

func (a *Reader) skipRemaining() error {
	if a.remain > 0 {
		if _, err := io.CopyN(io.Discard, a.r, a.remain); err != nil {
			return ErrorTruncated.ErrorParent(err)
		}
		a.remain = 0
	}
	if a.pad {
		_, _ = a.r.Discard(1)
		a.pad = false
	}
	return nil
}

// Read streams the current entry's payload, returning io.EOF once it is
// used up. Before the first Next it fails with ErrorNotInPayload.
func (a *Reader) Read(p []byte) (int, error) {
	if !a.started {
		return 0, ErrorNotInPayload.ErrorParent(nil)
	}
	if a.remain <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > a.remain {
		p = p[:a.remain]
	}
	n, err := a.r.Read(p)
	a.remain -= int64(n)
	return n, err
}

func (a *Reader) Close() error {
	a.closed = true
	return nil
}
