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

// Package gzip extends the standard library's GZIP codec with the header
// fields the format exposes beyond what compress/gzip.Header carries
// (filename charset, explicit header-CRC flag, deflate strategy hint) and
// explicit control over multi-member concatenation.
package gzip

import (
	stdgzip "compress/gzip"
	"io"
	"time"

	"github.com/nabbar/archive/charset"
)

// Header mirrors the GZIP member header fields the spec's entry model
// tracks. FileNameCharset is carried on the struct only: neither Reader nor
// Writer applies it, and Name/Comment are converted by the standard library.
type Header struct {
	ModTime          time.Time
	OS               byte
	Name             string
	Comment          string
	FileNameCharset  charset.Encoding
	Extra            []byte
	HeaderCRC        bool
	DeflateStrategy  int
}

func (h Header) toStd() stdgzip.Header {
	return stdgzip.Header{
		Name:    h.Name,
		Comment: h.Comment,
		Extra:   h.Extra,
		ModTime: h.ModTime,
		OS:      h.OS,
	}
}

// Reader decodes one or more concatenated GZIP members. Unlike
// compress/gzip's default Multistream behaviour, each member's Header is
// surfaced to the caller via Header() before its payload is read.
type Reader struct {
	r      io.Reader
	gz     *stdgzip.Reader
	header Header
}

// NewReader opens the first member of r. The caller reads its payload via
// Read, then calls Next to move to the next concatenated member, mirroring
// how an archive's payload stream is consumed entry by entry.
func NewReader(r io.Reader) (*Reader, error) {
	gz, err := stdgzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	gz.Multistream(false)
	rd := &Reader{r: r, gz: gz}
	rd.syncHeader()
	return rd, nil
}

func (r *Reader) syncHeader() {
	r.header = Header{
		Name:    r.gz.Name,
		Comment: r.gz.Comment,
		Extra:   r.gz.Extra,
		ModTime: r.gz.ModTime,
		OS:      r.gz.OS,
	}
}

// Header returns the current member's header.
func (r *Reader) Header() Header { return r.header }

func (r *Reader) Read(p []byte) (int, error) { return r.gz.Read(p) }

// Next advances to the following concatenated member, returning io.EOF once
// the underlying stream is exhausted.
func (r *Reader) Next() error {
	if err := r.gz.Reset(r.r); err != nil {
		return err
	}
	r.gz.Multistream(false)
	r.syncHeader()
	return nil
}

func (r *Reader) Close() error { return r.gz.Close() }

// Writer emits a single GZIP member with the extended header fields
// translated into the subset compress/gzip understands; FileNameCharset
// and HeaderCRC describe how the member was produced but are not settable
// on the stdlib encoder, since compress/gzip always emits UTF-8 names
// without the optional header CRC16.
type Writer struct {
	*stdgzip.Writer
	header Header
}

// NewWriter creates a GZIP encoder at the given compression level.
func NewWriter(w io.Writer, level int, h Header) (*Writer, error) {
	gz, err := stdgzip.NewWriterLevel(w, level)
	if err != nil {
		return nil, err
	}
	std := h.toStd()
	gz.Header = std
	return &Writer{Writer: gz, header: h}, nil
}
