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

package cpio

import (
	"fmt"
	"io"
	"time"

	"github.com/nabbar/archive/entry"
)

// Format selects the on-disk cpio dialect a Writer emits.
type Format uint8

const (
	FormatOldASCII Format = iota
	FormatNewASCII
	FormatNewCRC
)

type WriterOptions struct {
	Format Format
}

// Writer is a streaming cpio writer; Close emits the TRAILER!!! sentinel.
type Writer struct {
	w      io.Writer
	opt    WriterOptions
	remain int64
	pad    int
	closed bool
}

func NewWriter(w io.Writer) *Writer {
	return NewWriterOptions(w, WriterOptions{Format: FormatNewASCII})
}

func NewWriterOptions(w io.Writer, opt WriterOptions) *Writer {
	return &Writer{w: w, opt: opt}
}

// PutEntry writes info's header. In FormatNewCRC mode the header's checksum
// field carries info.Checksum as given (0 when HasChecksum is false); the
// writer does not compute it from the payload passed to Write.
func (c *Writer) PutEntry(info entry.Info) error {
	if err := c.finishPadding(); err != nil {
		return err
	}

	mode := info.Mode
	if info.IsDir {
		mode |= 0o040000
	} else if mode&0o170000 == 0 {
		mode |= 0o100000
	}

	switch c.opt.Format {
	case FormatOldASCII:
		return c.writeOdc(info, mode)
	default:
		return c.writeNewc(info, mode)
	}
}

func (c *Writer) writeOdc(info entry.Info, mode uint32) error {
	name := info.Name + "\x00"
	hdr := magicOdc +
		octalField(0, 6) + octalField(0, 6) + octalField(int64(mode), 6) +
		octalField(int64(info.UID), 6) + octalField(int64(info.GID), 6) +
		octalField(1, 6) + octalField(0, 6) +
		octalField(info.ModTime.Unix(), 11) +
		octalField(int64(len(name)), 6) +
		octalField(info.Size, 11)

	if _, err := io.WriteString(c.w, hdr); err != nil {
		return err
	}
	if _, err := io.WriteString(c.w, name); err != nil {
		return err
	}
	c.remain = info.Size
	c.pad = 0
	return nil
}

func (c *Writer) writeNewc(info entry.Info, mode uint32) error {
	name := info.Name + "\x00"
	check := int64(0)
	magic := magicNewc
	if c.opt.Format == FormatNewCRC {
		magic = magicNewcCRC
		// a streaming writer cannot retroactively patch the header once the
		// payload checksum is known, so NEW_CRC mode requires the caller to
		// have precomputed it on info (entry.Info.Checksum).
		if info.HasChecksum {
			check = int64(info.Checksum)
		}
	}

	hdr := magic +
		hexField(0, 8) + hexField(int64(mode), 8) +
		hexField(int64(info.UID), 8) + hexField(int64(info.GID), 8) +
		hexField(1, 8) + hexField(info.ModTime.Unix(), 8) +
		hexField(info.Size, 8) +
		hexField(0, 8) + hexField(0, 8) + hexField(0, 8) + hexField(0, 8) +
		hexField(int64(len(name)), 8) +
		hexField(check, 8)

	n, err := io.WriteString(c.w, hdr)
	if err != nil {
		return err
	}
	n2, err := io.WriteString(c.w, name)
	if err != nil {
		return err
	}
	if err := writeZeroPad(c.w, padTo4(n+n2)-(n+n2)); err != nil {
		return err
	}

	c.remain = info.Size
	c.pad = padTo4(int(info.Size)) - int(info.Size)
	return nil
}

// Write streams payload bytes for the current entry.
func (c *Writer) Write(p []byte) (int, error) {
	if c.remain < int64(len(p)) {
		return 0, ErrorMalformedField.ErrorParent(nil)
	}
	n, err := c.w.Write(p)
	c.remain -= int64(n)
	return n, err
}

func (c *Writer) finishPadding() error {
	if c.remain != 0 {
		return ErrorMalformedField.ErrorParent(nil)
	}
	if err := writeZeroPad(c.w, c.pad); err != nil {
		return err
	}
	c.pad = 0
	return nil
}

// Close emits the TRAILER!!! sentinel entry and finishes the stream.
func (c *Writer) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if err := c.finishPadding(); err != nil {
		return err
	}
	return c.PutEntry(entry.Info{Name: trailerName, ModTime: time.Unix(0, 0)})
}

func octalField(v int64, width int) string {
	return fmt.Sprintf("%0*o", width, v)
}

func hexField(v int64, width int) string {
	return fmt.Sprintf("%0*x", width, v)
}

func writeZeroPad(w io.Writer, n int) error {
	if n <= 0 {
		return nil
	}
	_, err := w.Write(make([]byte, n))
	return err
}
