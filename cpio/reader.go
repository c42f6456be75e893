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

// Package cpio implements the odc, newc, and newc+CRC cpio dialects
// directly against their fixed ASCII header layouts. The pre-POSIX binary
// dialect is neither recognized nor parsed: a header that starts with its
// magic fails with ErrorUnknownMagic, and detect.Detect does not list it.
package cpio

import (
	"bufio"
	"io"
	"strconv"
	"time"

	"github.com/nabbar/archive/entry"
)

// Dialect identifies which cpio header layout a stream uses.
type Dialect uint8

const (
	DialectUnknown Dialect = iota
	DialectOdc
	DialectNewc
	DialectNewcCRC
)

const trailerName = "TRAILER!!!"

const (
	magicOdc    = "070707"
	magicNewc   = "070701"
	magicNewcCRC = "070702"
)

// Reader is a streaming, forward-only cpio reader. The dialect of each
// header is detected from that header's own magic.
type Reader struct {
	r       *bufio.Reader
	dialect Dialect
	remain  int64
	pad     int
	atEnd   bool
	wantCRC uint32
	sum     uint32
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next parses the next header. It returns (nil, nil) once the TRAILER!!!
// sentinel entry is consumed.
func (c *Reader) Next() (*entry.Info, error) {
	if c.atEnd {
		return nil, nil
	}
	if err := c.skipRemaining(); err != nil {
		return nil, err
	}

	magic := make([]byte, 6)
	if _, err := io.ReadFull(c.r, magic); err != nil {
		if err == io.EOF {
			c.atEnd = true
			return nil, nil
		}
		return nil, ErrorTruncated.ErrorParent(err)
	}

	switch string(magic) {
	case magicOdc:
		return c.readOdc()
	case magicNewc:
		c.dialect = DialectNewc
		return c.readNewc(false)
	case magicNewcCRC:
		c.dialect = DialectNewcCRC
		return c.readNewc(true)
	default:
		return nil, ErrorUnknownMagic.ErrorParent(nil)
	}
}

func (c *Reader) readOdc() (*entry.Info, error) {
	fields := make([]byte, 70)
	if _, err := io.ReadFull(c.r, fields); err != nil {
		return nil, ErrorTruncated.ErrorParent(err)
	}
	// dev(6) ino(6) mode(6) uid(6) gid(6) nlink(6) rdev(6) mtime(11) namesize(6) filesize(11)
	mode, err := parseOctal(fields[12:18])
	if err != nil {
		return nil, err
	}
	uid, _ := parseOctal(fields[18:24])
	gid, _ := parseOctal(fields[24:30])
	mtime, err := parseOctal(fields[42:53])
	if err != nil {
		return nil, err
	}
	namesize, err := parseOctal(fields[53:59])
	if err != nil {
		return nil, err
	}
	filesize, err := parseOctal(fields[59:70])
	if err != nil {
		return nil, err
	}

	name, err := c.readName(int(namesize))
	if err != nil {
		return nil, err
	}
	if name == trailerName {
		c.atEnd = true
		return nil, nil
	}

	c.remain = filesize
	c.pad = 0
	c.wantCRC = 0

	return &entry.Info{
		Name:     name,
		Size:     filesize,
		IsDir:    (mode & 0o170000) == 0o040000,
		ModTime:  time.Unix(mtime, 0),
		Mode:     uint32(mode),
		HasMode:  true,
		UID:      int(uid),
		GID:      int(gid),
		HasOwner: true,
	}, nil
}

func (c *Reader) readNewc(crc bool) (*entry.Info, error) {
	fields := make([]byte, 104)
	if _, err := io.ReadFull(c.r, fields); err != nil {
		return nil, ErrorTruncated.ErrorParent(err)
	}
	// ino(8) mode(8) uid(8) gid(8) nlink(8) mtime(8) filesize(8) devmajor(8)
	// devminor(8) rdevmajor(8) rdevminor(8) namesize(8) check(8)
	mode, err := parseHex(fields[8:16])
	if err != nil {
		return nil, err
	}
	uid, _ := parseHex(fields[16:24])
	gid, _ := parseHex(fields[24:32])
	mtime, err := parseHex(fields[40:48])
	if err != nil {
		return nil, err
	}
	filesize, err := parseHex(fields[48:56])
	if err != nil {
		return nil, err
	}
	namesize, err := parseHex(fields[88:96])
	if err != nil {
		return nil, err
	}
	check, err := parseHex(fields[96:104])
	if err != nil {
		return nil, err
	}

	// header (6 magic + 104 fields) + name, padded to a 4-byte boundary.
	nameAndPad := padTo4(6 + 104 + int(namesize))
	name, err := c.readName(int(namesize))
	if err != nil {
		return nil, err
	}
	if err := c.discard(nameAndPad - (6 + 104 + int(namesize))); err != nil {
		return nil, err
	}
	if name == trailerName {
		c.atEnd = true
		return nil, nil
	}

	c.remain = filesize
	c.pad = padTo4(int(filesize)) - int(filesize)
	if crc {
		c.wantCRC = uint32(check)
	} else {
		c.wantCRC = 0
	}
	c.sum = 0

	return &entry.Info{
		Name:     name,
		Size:     filesize,
		IsDir:    (mode & 0o170000) == 0o040000,
		ModTime:  time.Unix(mtime, 0),
		Mode:     uint32(mode),
		HasMode:  true,
		UID:      int(uid),
		GID:      int(gid),
		HasOwner: true,
	}, nil
}

func (c *Reader) readName(n int) (string, error) {
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(c.r, buf); err != nil {
		return "", ErrorTruncated.ErrorParent(err)
	}
	if buf[n-1] == 0 {
		buf = buf[:n-1]
	}
	return string(buf), nil
}

func (c *Reader) discard(n int) error {
	if n <= 0 {
		return nil
	}
	_, err := c.r.Discard(n)
	return err
}

func (c *Reader) skipRemaining() error {
	if c.remain > 0 {
		if _, err := io.CopyN(io.Discard, c.r, c.remain); err != nil {
			return ErrorTruncated.ErrorParent(err)
		}
		c.remain = 0
	}
	return c.discard(c.pad)
}

// Read streams the current entry's payload, accumulating the NEW_CRC
// byte-sum checksum as bytes are consumed.
func (c *Reader) Read(p []byte) (int, error) {
	if c.remain <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > c.remain {
		p = p[:c.remain]
	}
	n, err := c.r.Read(p)
	for _, b := range p[:n] {
		c.sum += uint32(b)
	}
	c.remain -= int64(n)
	if c.remain == 0 && c.dialect == DialectNewcCRC && c.sum != c.wantCRC {
		return n, ErrorChecksumMismatch.ErrorParent(nil)
	}
	return n, err
}

func padTo4(n int) int {
	if r := n % 4; r != 0 {
		return n + (4 - r)
	}
	return n
}

func parseOctal(b []byte) (int64, error) {
	v, err := strconv.ParseInt(string(b), 8, 64)
	if err != nil {
		return 0, ErrorMalformedField.ErrorParent(err)
	}
	return v, nil
}

func parseHex(b []byte) (int64, error) {
	v, err := strconv.ParseInt(string(b), 16, 64)
	if err != nil {
		return 0, ErrorMalformedField.ErrorParent(err)
	}
	return v, nil
}
