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

package arj

import (
	"bufio"
	"bytes"
	"hash/crc32"
	"io"

	"github.com/nabbar/archive/byteio"
)

var headerMagic = [2]byte{0x60, 0xEA}

const (
	fileTypeBinary       = 0
	fileTypeText         = 1
	fileTypeDirectory    = 3
	fileTypeVolumeLabel  = 4
	fileTypeChapterLabel = 5
)

// methodStored is the only ARJ compression method this module decodes; every
// other method value (1-4 compressed, 8/9 reserved variants) is listed by
// Next but its payload is refused by Read with ErrorUnsupportedCodec.
const methodStored = 0

// rawHeader is one basic-header block (main or local file), already CRC
// checked, with its fixed-field prefix separated from the name/comment
// tail. FIRST_HDR_SIZE counts the fixed block only, so the name/comment
// split point is always firstHdrSize+1 bytes into the raw block.
type rawHeader struct {
	fixed    []byte
	nameData []byte
}

// readRawHeader reads one {magic, size, block, crc} record. A basicHeaderSize
// of 0 signals the end-of-archive marker and both return values are zero.
func readRawHeader(r *bufio.Reader) (block []byte, size int, err error) {
	var magic [2]byte
	if _, err = io.ReadFull(r, magic[:]); err != nil {
		return nil, 0, ErrorTruncated.ErrorParent(err)
	}
	if magic != headerMagic {
		return nil, 0, ErrorInvalidMagic.ErrorParent(nil)
	}

	n, err := byteio.LE.ReadUint16(r)
	if err != nil {
		return nil, 0, err
	}
	if n == 0 {
		return nil, 0, nil
	}

	block = make([]byte, n)
	if _, err = io.ReadFull(r, block); err != nil {
		return nil, 0, ErrorTruncated.ErrorParent(err)
	}

	wantCRC, err := byteio.LE.ReadUint32(r)
	if err != nil {
		return nil, 0, err
	}
	if crc32.ChecksumIEEE(block) != wantCRC {
		return nil, 0, ErrorHeaderCRC.ErrorParent(nil)
	}
	return block, int(n), nil
}

func splitRawHeader(block []byte) (rawHeader, error) {
	if len(block) < 1 {
		return rawHeader{}, ErrorMalformedField.ErrorParent(nil)
	}
	firstHdrSize := int(block[0])
	if len(block) < 1+firstHdrSize {
		return rawHeader{}, ErrorMalformedField.ErrorParent(nil)
	}
	return rawHeader{
		fixed:    block[1 : 1+firstHdrSize],
		nameData: block[1+firstHdrSize:],
	}, nil
}

// readCString reads a single NUL-terminated string starting at off, returning
// the string and the offset of the byte following its terminator.
func readCString(b []byte, off int) (string, int, error) {
	idx := bytes.IndexByte(b[off:], 0)
	if idx < 0 {
		return "", 0, ErrorMalformedField.ErrorParent(nil)
	}
	return string(b[off : off+idx]), off + idx + 1, nil
}

// skipExtendedHeaders consumes the {size uint16 LE; data; crc uint32 LE}*
// chain every basic header is followed by, terminated by a zero size. The
// data itself is never interpreted (ARJ's extended headers carry optional,
// version-specific data this module has no use for).
func skipExtendedHeaders(r *bufio.Reader) error {
	for {
		n, err := byteio.LE.ReadUint16(r)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if _, err := r.Discard(int(n)); err != nil {
			return ErrorTruncated.ErrorParent(err)
		}
		if _, err := byteio.LE.ReadUint32(r); err != nil {
			return err
		}
	}
}

// localFileHeader is the subset of a local file header's fixed block this
// module acts on. Layout per ARJ's published TECHNICAL.TXT basic header:
// archiver_version, min_version, host_os, flags, method, file_type,
// reserved, time_modified(4), compressed_size(4), original_size(4),
// original_crc(4), filespec_pos(2), file_access_mode(2), first_chapter,
// last_chapter — any bytes beyond that (newer extended-timestamp fields)
// are present in fixed but unused here.
type localFileHeader struct {
	flags          byte
	method         byte
	fileType       byte
	compressedSize uint32
	originalSize   uint32
	originalCRC    uint32
	name           string
	comment        string
}

func parseLocalFileHeader(block []byte) (localFileHeader, error) {
	var h localFileHeader

	raw, err := splitRawHeader(block)
	if err != nil {
		return h, err
	}
	f := raw.fixed
	if len(f) < 23 {
		return h, ErrorMalformedField.ErrorParent(nil)
	}

	h.flags = f[3]
	h.method = f[4]
	h.fileType = f[5]
	h.compressedSize = byteio.LE.Uint32(f[11:15])
	h.originalSize = byteio.LE.Uint32(f[15:19])
	h.originalCRC = byteio.LE.Uint32(f[19:23])

	name, off, err := readCString(raw.nameData, 0)
	if err != nil {
		return h, err
	}
	h.name = name

	comment, _, err := readCString(raw.nameData, off)
	if err != nil {
		return h, err
	}
	h.comment = comment
	return h, nil
}
