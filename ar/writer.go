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

import (
	"fmt"
	"io"

	"github.com/nabbar/archive/entry"
)

// LongNameMode selects how the writer handles a name exceeding the 16-byte
// fixed field.
type LongNameMode uint8

const (
	LongNameError LongNameMode = iota
	LongNameBSD
	LongNameGNU
)

type WriterOptions struct {
	LongName LongNameMode
}

// Writer is a streaming ar writer.
type Writer struct {
	w       io.Writer
	opt     WriterOptions
	started bool
	remain  int64
	pad     bool
	closed  bool

	gnuOffset map[string]int
}

func NewWriter(w io.Writer) *Writer {
	return NewWriterOptions(w, WriterOptions{})
}

func NewWriterOptions(w io.Writer, opt WriterOptions) *Writer {
	return &Writer{w: w, opt: opt, gnuOffset: make(map[string]int)}
}

func (a *Writer) writeMagic() error {
	if a.started {
		return nil
	}
	a.started = true
	_, err := io.WriteString(a.w, globalMagic)
	return err
}

// PutEntry fixes info's header at the writer's current position. A name
// over 16 bytes is rejected unless a long-name dialect is selected.
func (a *Writer) PutEntry(info entry.Info) error {
	if a.closed {
		return ErrorClosed.ErrorParent(nil)
	}
	if a.remain > 0 {
		return ErrorNotAtEntryBoundary.ErrorParent(nil)
	}
	if err := a.writeMagic(); err != nil {
		return err
	}
	if a.pad {
		if _, err := io.WriteString(a.w, "\n"); err != nil {
			return err
		}
		a.pad = false
	}

	name := info.Name
	size := info.Size
	namePrefix := ""

	if len(name) > 16 {
		switch a.opt.LongName {
		case LongNameBSD:
			namePrefix = fmt.Sprintf("#1/%d", len(name))
			size += int64(len(name))
		case LongNameGNU:
			off, ok := a.gnuOffset[name]
			if !ok {
				return ErrorNameTooLong.ErrorParent(nil)
			}
			name = fmt.Sprintf("/%d", off)
		default:
			return ErrorNameTooLong.ErrorParent(nil)
		}
	} else {
		name += "/"
	}

	hdrName := namePrefix
	if hdrName == "" {
		hdrName = name
	}

	hdr := make([]byte, headerLen)
	copy(hdr, padField(hdrName, 16, false))
	copy(hdr[16:], padField(fmt.Sprintf("%d", info.ModTime.Unix()), 12, true))
	copy(hdr[28:], padField(fmt.Sprintf("%d", info.UID), 6, true))
	copy(hdr[34:], padField(fmt.Sprintf("%d", info.GID), 6, true))
	copy(hdr[40:], padField(fmt.Sprintf("%o", info.Mode), 8, true))
	copy(hdr[48:], padField(fmt.Sprintf("%d", size), 10, true))
	copy(hdr[58:], terminator)

	if _, err := a.w.Write(hdr); err != nil {
		return err
	}
	if namePrefix != "" {
		if _, err := io.WriteString(a.w, info.Name); err != nil {
			return err
		}
	}

	a.remain = info.Size
	a.pad = info.Size%2 != 0
	return nil
}

// PreloadGNUNames writes the GNU "//" name table as the archive's first
// member. A single-pass writer cannot retroactively insert this table once
// later members have been emitted, so every name needing the GNU long-name
// dialect must be known and declared before the first PutEntry call.
func (a *Writer) PreloadGNUNames(names []string) error {
	if a.closed {
		return ErrorClosed.ErrorParent(nil)
	}
	if err := a.writeMagic(); err != nil {
		return err
	}

	var table []byte
	for _, n := range names {
		if len(n) <= 16 {
			continue
		}
		a.gnuOffset[n] = len(table)
		table = append(table, []byte(n+"/\n")...)
	}
	if len(table) == 0 {
		return nil
	}

	hdr := make([]byte, headerLen)
	copy(hdr, padField("//", 16, false))
	copy(hdr[48:], padField(fmt.Sprintf("%d", len(table)), 10, true))
	copy(hdr[58:], terminator)
	if _, err := a.w.Write(hdr); err != nil {
		return err
	}
	if _, err := a.w.Write(table); err != nil {
		return err
	}
	if len(table)%2 != 0 {
		if _, err := io.WriteString(a.w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func padField(s string, width int, rightAlignNumeric bool) []byte {
	b := make([]byte, width)
	for i := range b {
		b[i] = ' '
	}
	if len(s) > width {
		s = s[:width]
	}
	if rightAlignNumeric {
		copy(b[width-len(s):], s)
	} else {
		copy(b, s)
	}
	return b
}

// Write streams payload bytes for the current entry.
func (a *Writer) Write(p []byte) (int, error) {
	if a.remain < int64(len(p)) {
		return 0, ErrorNotInPayload.ErrorParent(nil)
	}
	n, err := a.w.Write(p)
	a.remain -= int64(n)
	return n, err
}

// Close pads the last odd-sized payload and finishes the stream.
func (a *Writer) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	if a.pad {
		if _, err := io.WriteString(a.w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
