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

// Package zip implements the PKWARE APPNOTE central-directory container
// directly against its binary layout: no dependency on the standard
// library's archive/zip, since the ZIP64 locator/EOCD walk and the
// AsNeeded-mode central-directory patch-back require owning the byte
// layout end to end.
package zip

import (
	"github.com/nabbar/archive/entry"
)

const (
	sigLocalHeader    = 0x04034b50
	sigDataDescriptor = 0x08074b50
	sigCentralHeader  = 0x02014b50
	sigEOCD64         = 0x06064b50
	sigEOCD64Locator  = 0x07064b50
	sigEOCD           = 0x06054b50

	localHeaderFixedLen   = 30
	centralHeaderFixedLen = 46
	eocdFixedLen          = 22
	eocd64FixedLen        = 56
	eocd64LocatorLen      = 20

	maxEOCDSearch = 64*1024 + eocdFixedLen

	tagZip64        uint16 = 0x0001
	tagUnicodePath  uint16 = 0x7075
	tagUnixExtra    uint16 = 0x7875

	u32Max = 0xFFFFFFFF
	u16Max = 0xFFFF
)

// Zip64Mode selects how the writer handles fields that might overflow the
// classic 32-bit ZIP limits.
type Zip64Mode uint8

const (
	Zip64AsNeeded Zip64Mode = iota
	Zip64Always
	Zip64Never
)

// localHeader is the fixed part of a local file header (APPNOTE 4.3.7),
// decoded in place; Name/Extra follow in the stream.
type localHeader struct {
	Version    uint16
	GPBits     uint16
	Method     uint16
	ModTime    uint16
	ModDate    uint16
	CRC32      uint32
	CompSize   uint32
	UncompSize uint32
	NameLen    uint16
	ExtraLen   uint16
}

// centralHeader is the fixed part of one central directory record
// (APPNOTE 4.3.12).
type centralHeader struct {
	VersionMadeBy  uint16
	VersionNeeded  uint16
	GPBits         uint16
	Method         uint16
	ModTime        uint16
	ModDate        uint16
	CRC32          uint32
	CompSize       uint32
	UncompSize     uint32
	NameLen        uint16
	ExtraLen       uint16
	CommentLen     uint16
	DiskStart      uint16
	InternalAttrs  uint16
	ExternalAttrs  uint32
	LocalHdrOffset uint32
}

// Entry is one central-directory record resolved against its ZIP64/Unicode
// extra fields: sizes and the local header offset are always the resolved
// 64-bit values regardless of whether the on-disk record used ZIP64.
type Entry struct {
	Info       entry.Info
	Extra      entry.ZipExtra
	hdrOffset  int64
	compSize   int64
	uncompSize int64
}

func dosToTime(date, t uint16) (year int, month int, day int, hour int, min int, sec int) {
	year = int(date>>9) + 1980
	month = int((date >> 5) & 0xF)
	day = int(date & 0x1F)
	hour = int(t >> 11)
	min = int((t >> 5) & 0x3F)
	sec = int((t & 0x1F) * 2)
	return
}

func timeToDos(hour, min, sec, year, month, day int) (date, t uint16) {
	if year < 1980 {
		year = 1980
	}
	date = uint16((year-1980)<<9 | month<<5 | day)
	t = uint16(hour<<11 | min<<5 | sec/2)
	return
}
