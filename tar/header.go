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

// Package tar is a from-scratch, bit-exact reader/writer for the v7, ustar,
// pax and GNU tar dialects (long-name/long-link and old-style sparse). It
// does not wrap the standard library's archive/tar: the header layout,
// checksum, and sparse/pax handling are decoded and encoded directly against
// the 512-byte record grammar, the same way this module's other format
// packages own their byte layouts instead of delegating them.
package tar

import (
	"time"

	"github.com/nabbar/archive/byteio"
	"github.com/nabbar/archive/entry"
)

const (
	blockSize = 512

	// field offsets and widths within a single header block.
	offName     = 0
	lenName     = 100
	offMode     = 100
	lenMode     = 8
	offUID      = 108
	lenUID      = 8
	offGID      = 116
	lenGID      = 8
	offSize     = 124
	lenSize     = 12
	offMtime    = 136
	lenMtime    = 12
	offChksum   = 148
	lenChksum   = 8
	offTypeflag = 156
	offLinkname = 157
	lenLinkname = 100
	offMagic    = 257
	lenMagic    = 6
	offVersion  = 263
	lenVersion  = 2
	offUname    = 265
	lenUname    = 32
	offGname    = 297
	lenGname    = 32
	offDevMajor = 329
	lenDevMajor = 8
	offDevMinor = 337
	lenDevMinor = 8
	offPrefix   = 345
	lenPrefix   = 155

	// GNU old-style sparse extension, overlapping the ustar prefix region.
	offGNURealSize    = 483
	offGNUSparse      = 386
	lenGNUSparseSlot  = 24
	numGNUSparseSlots = 4
	offGNUIsExtended  = 482
	numGNUExtraSlots  = 21
	lenGNUExtraSlot   = 24

	magicUstar   = "ustar\x00"
	versionUstar = "00"
	magicGNU     = "ustar "
)

// rawHeader decodes the raw 512-byte block into a format-agnostic set of
// fields; dialect-specific reinterpretation (prefix splicing, GNU sparse,
// pax overrides) happens in the reader on top of this.
type rawHeader struct {
	Name     string
	Mode     int64
	UID      int64
	GID      int64
	Size     int64
	Mtime    int64
	Chksum   int64
	Typeflag byte
	Linkname string
	Magic    string
	Version  string
	Uname    string
	Gname    string
	DevMajor int64
	DevMinor int64
	Prefix   string

	// GNU old-style sparse fields, only meaningful when Typeflag ==
	// entry.TypeGNUSparse.
	gnuSparse     []entry.Sparse
	gnuIsExtended bool
	gnuRealSize   int64
}

func isZeroBlock(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

// checksum sums every byte of the header with the 8-byte checksum field
// itself treated as ASCII spaces, per the common tar header contract.
func checksum(b [blockSize]byte) int64 {
	var sum int64
	for i, c := range b {
		if i >= offChksum && i < offChksum+lenChksum {
			sum += int64(' ')
		} else {
			sum += int64(c)
		}
	}
	return sum
}

func parseNumericField(b []byte) (int64, error) {
	if len(b) > 0 && b[0]&0x80 != 0 {
		return byteio.ParseBase256Field(b)
	}
	return byteio.ParseOctalField(b)
}

func cstr(b []byte) string {
	n := 0
	for n < len(b) && b[n] != 0 {
		n++
	}
	return string(b[:n])
}

func parseRawHeader(b [blockSize]byte) (rawHeader, error) {
	var h rawHeader

	want := checksum(b)
	got, err := byteio.ParseOctalField(b[offChksum : offChksum+lenChksum])
	if err != nil {
		return h, ErrorMalformedField.ErrorParent(err)
	}
	if got != want {
		return h, ErrorInvalidChecksum.ErrorParent(nil)
	}

	h.Name = cstr(b[offName : offName+lenName])
	h.Typeflag = b[offTypeflag]
	h.Linkname = cstr(b[offLinkname : offLinkname+lenLinkname])
	h.Magic = string(b[offMagic : offMagic+lenMagic])
	h.Version = string(b[offVersion : offVersion+lenVersion])
	h.Uname = cstr(b[offUname : offUname+lenUname])
	h.Gname = cstr(b[offGname : offGname+lenGname])
	h.Chksum = got

	if h.Mode, err = parseNumericField(b[offMode : offMode+lenMode]); err != nil {
		return h, ErrorMalformedField.ErrorParent(err)
	}
	if h.UID, err = parseNumericField(b[offUID : offUID+lenUID]); err != nil {
		return h, ErrorMalformedField.ErrorParent(err)
	}
	if h.GID, err = parseNumericField(b[offGID : offGID+lenGID]); err != nil {
		return h, ErrorMalformedField.ErrorParent(err)
	}
	if h.Size, err = parseNumericField(b[offSize : offSize+lenSize]); err != nil {
		return h, ErrorMalformedField.ErrorParent(err)
	}
	if h.Mtime, err = parseNumericField(b[offMtime : offMtime+lenMtime]); err != nil {
		return h, ErrorMalformedField.ErrorParent(err)
	}

	isUstar := h.Magic == magicUstar && h.Version == versionUstar
	isGNU := h.Magic == magicGNU

	if isUstar || isGNU {
		if h.DevMajor, err = parseNumericField(b[offDevMajor : offDevMajor+lenDevMajor]); err != nil {
			return h, ErrorMalformedField.ErrorParent(err)
		}
		if h.DevMinor, err = parseNumericField(b[offDevMinor : offDevMinor+lenDevMinor]); err != nil {
			return h, ErrorMalformedField.ErrorParent(err)
		}
	}

	if isUstar {
		if prefix := cstr(b[offPrefix : offPrefix+lenPrefix]); prefix != "" {
			h.Prefix = prefix
			h.Name = prefix + "/" + h.Name
		}
	}

	if isGNU && h.Typeflag == entry.TypeGNUSparse {
		h.gnuIsExtended = b[offGNUIsExtended] != 0
		if sz, e := parseNumericField(b[offGNURealSize : offGNURealSize+12]); e == nil {
			h.gnuRealSize = sz
		}
		h.gnuSparse = parseGNUSparseSlots(b[offGNUSparse:offGNUIsExtended], numGNUSparseSlots)
	}

	return h, nil
}

func parseGNUSparseSlots(b []byte, n int) []entry.Sparse {
	out := make([]entry.Sparse, 0, n)
	for i := 0; i < n; i++ {
		s := b[i*lenGNUSparseSlot : (i+1)*lenGNUSparseSlot]
		off, e1 := parseNumericField(s[0:12])
		ln, e2 := parseNumericField(s[12:24])
		if e1 != nil || e2 != nil || (off == 0 && ln == 0) {
			continue
		}
		out = append(out, entry.Sparse{Offset: off, Length: ln})
	}
	return out
}

func parseGNUSparseExtension(b [blockSize]byte) (slots []entry.Sparse, isExtended bool) {
	slots = parseGNUSparseSlots(b[:numGNUExtraSlots*lenGNUExtraSlot], numGNUExtraSlots)
	isExtended = b[numGNUExtraSlots*lenGNUExtraSlot] != 0
	return
}

func formatNumericField(b []byte, v int64) {
	if byteio.FitsOctalField(v, len(b)) {
		copy(b, byteio.FormatOctalField(v, len(b)))
	} else {
		copy(b, byteio.FormatBase256Field(v, len(b)))
	}
}

func modTimeToUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
