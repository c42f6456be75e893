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

package zip

import (
	"hash"
	"hash/crc32"
	"io"
	"time"

	"github.com/nabbar/archive/archive/compress"
	"github.com/nabbar/archive/byteio"
	"github.com/nabbar/archive/entry"
)

// Reader is a random-access ZIP reader: entries() walks the central
// directory in physical-on-disk order (the order records were appended),
// and inputStream seeks to the local header to open a fresh payload view.
type Reader struct {
	ra      io.ReaderAt
	size    int64
	entries []*Entry
}

// NewReader scans the EOCD (and ZIP64 locator/EOCD, if present) and walks
// the central directory once; entries are cached for repeated access.
func NewReader(ra io.ReaderAt, size int64) (*Reader, error) {
	z := &Reader{ra: ra, size: size}
	if err := z.load(); err != nil {
		return nil, err
	}
	return z, nil
}

func (z *Reader) load() error {
	eocdOff, count, cdOff, cdSize, err := z.findEOCD()
	if err != nil {
		return err
	}

	if locOff, ok := z.findEOCD64Locator(eocdOff); ok {
		c64, o64, s64, err := z.readEOCD64(locOff)
		if err != nil {
			return err
		}
		count = c64
		cdOff = o64
		cdSize = s64
	}

	buf := make([]byte, cdSize)
	if _, err := z.ra.ReadAt(buf, cdOff); err != nil {
		return ErrorTruncated.ErrorParent(err)
	}

	entries := make([]*Entry, 0, count)
	p := 0
	for p < len(buf) {
		if p+4 > len(buf) || byteio.LE.Uint32(buf[p:]) != sigCentralHeader {
			break
		}
		e, n, err := parseCentralRecord(buf[p:])
		if err != nil {
			return err
		}
		entries = append(entries, e)
		p += n
	}
	z.entries = entries
	return nil
}

// findEOCD scans backward from the end of the stream for the EOCD
// signature, per APPNOTE: it may be followed by a variable-length comment,
// so the search window is bounded to 64 KiB + the fixed record size.
func (z *Reader) findEOCD() (off int64, count uint64, cdOff uint64, cdSize uint64, err error) {
	window := int64(maxEOCDSearch)
	if window > z.size {
		window = z.size
	}
	buf := make([]byte, window)
	if _, e := z.ra.ReadAt(buf, z.size-window); e != nil && e != io.EOF {
		return 0, 0, 0, 0, ErrorTruncated.ErrorParent(e)
	}

	for i := len(buf) - eocdFixedLen; i >= 0; i-- {
		if byteio.LE.Uint32(buf[i:]) == sigEOCD {
			rec := buf[i:]
			diskEntries := byteio.LE.Uint16(rec[10:])
			size := byteio.LE.Uint32(rec[12:])
			offset := byteio.LE.Uint32(rec[16:])
			return z.size - window + int64(i), uint64(diskEntries), uint64(offset), uint64(size), nil
		}
	}
	return 0, 0, 0, 0, ErrorEOCDNotFound.ErrorParent(nil)
}

func (z *Reader) findEOCD64Locator(eocdOff int64) (int64, bool) {
	locOff := eocdOff - eocd64LocatorLen
	if locOff < 0 {
		return 0, false
	}
	buf := make([]byte, eocd64LocatorLen)
	if _, err := z.ra.ReadAt(buf, locOff); err != nil {
		return 0, false
	}
	if byteio.LE.Uint32(buf) != sigEOCD64Locator {
		return 0, false
	}
	if byteio.LE.Uint32(buf[4:]) != 0 {
		// locator points at a disk other than 0: a split archive.
		return 0, false
	}
	return int64(byteio.LE.Uint64(buf[8:])), true
}

func (z *Reader) readEOCD64(off int64) (count uint64, cdOff uint64, cdSize uint64, err error) {
	buf := make([]byte, eocd64FixedLen)
	if _, e := z.ra.ReadAt(buf, off); e != nil {
		return 0, 0, 0, ErrorTruncated.ErrorParent(e)
	}
	if byteio.LE.Uint32(buf) != sigEOCD64 {
		return 0, 0, 0, ErrorInvalidFormat.ErrorParent(nil)
	}
	count = byteio.LE.Uint64(buf[32:])
	cdSize = byteio.LE.Uint64(buf[40:])
	cdOff = byteio.LE.Uint64(buf[48:])
	return count, cdOff, cdSize, nil
}

func parseCentralRecord(buf []byte) (*Entry, int, error) {
	if len(buf) < centralHeaderFixedLen {
		return nil, 0, ErrorTruncated.ErrorParent(nil)
	}
	h := centralHeader{
		VersionMadeBy:  byteio.LE.Uint16(buf[4:]),
		VersionNeeded:  byteio.LE.Uint16(buf[6:]),
		GPBits:         byteio.LE.Uint16(buf[8:]),
		Method:         byteio.LE.Uint16(buf[10:]),
		ModTime:        byteio.LE.Uint16(buf[12:]),
		ModDate:        byteio.LE.Uint16(buf[14:]),
		CRC32:          byteio.LE.Uint32(buf[16:]),
		CompSize:       byteio.LE.Uint32(buf[20:]),
		UncompSize:     byteio.LE.Uint32(buf[24:]),
		NameLen:        byteio.LE.Uint16(buf[28:]),
		ExtraLen:       byteio.LE.Uint16(buf[30:]),
		CommentLen:     byteio.LE.Uint16(buf[32:]),
		DiskStart:      byteio.LE.Uint16(buf[34:]),
		InternalAttrs:  byteio.LE.Uint16(buf[36:]),
		ExternalAttrs:  byteio.LE.Uint32(buf[38:]),
		LocalHdrOffset: byteio.LE.Uint32(buf[42:]),
	}

	total := centralHeaderFixedLen + int(h.NameLen) + int(h.ExtraLen) + int(h.CommentLen)
	if len(buf) < total {
		return nil, 0, ErrorTruncated.ErrorParent(nil)
	}

	name := string(buf[centralHeaderFixedLen : centralHeaderFixedLen+int(h.NameLen)])
	extraRaw := buf[centralHeaderFixedLen+int(h.NameLen) : centralHeaderFixedLen+int(h.NameLen)+int(h.ExtraLen)]
	comment := string(buf[centralHeaderFixedLen+int(h.NameLen)+int(h.ExtraLen) : total])

	extras, err := parseExtraFields(extraRaw)
	if err != nil {
		return nil, 0, err
	}

	uncompSize := int64(h.UncompSize)
	compSize := int64(h.CompSize)
	hdrOffset := int64(h.LocalHdrOffset)

	if h.UncompSize == u32Max || h.CompSize == u32Max || h.LocalHdrOffset == u32Max {
		if z64, ok := findZip64Extra(extras); ok {
			rest := z64.Payload
			if h.UncompSize == u32Max && len(rest) >= 8 {
				uncompSize = int64(byteio.LE.Uint64(rest))
				rest = rest[8:]
			}
			if h.CompSize == u32Max && len(rest) >= 8 {
				compSize = int64(byteio.LE.Uint64(rest))
				rest = rest[8:]
			}
			if h.LocalHdrOffset == u32Max && len(rest) >= 8 {
				hdrOffset = int64(byteio.LE.Uint64(rest))
				rest = rest[8:]
			}
		} else {
			return nil, 0, ErrorMalformedField.ErrorParent(nil)
		}
	}

	unicodeName := ""
	if h.GPBits&entry.GPBitUTF8 == 0 {
		if up, ok := findUnicodePathExtra(extras, name); ok {
			unicodeName = up
		}
	}

	year, month, day, hour, min, sec := dosToTime(h.ModDate, h.ModTime)
	displayName := name
	if unicodeName != "" {
		displayName = unicodeName
	}

	e := &Entry{
		Info: entry.Info{
			Name:    displayName,
			Size:    uncompSize,
			IsDir:   len(displayName) > 0 && displayName[len(displayName)-1] == '/',
			ModTime: time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC),
		},
		Extra: entry.ZipExtra{
			Method:             entry.ZipMethod(h.Method),
			CRC32:              h.CRC32,
			CompressedSize:     compSize,
			GeneralPurposeBits: h.GPBits,
			VersionMadeBy:      h.VersionMadeBy,
			ExternalAttrs:      h.ExternalAttrs,
			Extra:              extras,
			Comment:            comment,
			UnicodePath:        unicodeName,
		},
		hdrOffset:  hdrOffset,
		compSize:   compSize,
		uncompSize: uncompSize,
	}
	return e, total, nil
}

func parseExtraFields(b []byte) ([]entry.ExtraField, error) {
	var out []entry.ExtraField
	for len(b) >= 4 {
		tag := byteio.LE.Uint16(b)
		l := byteio.LE.Uint16(b[2:])
		if int(l) > len(b)-4 {
			return nil, ErrorMalformedField.ErrorParent(nil)
		}
		out = append(out, entry.ExtraField{Tag: tag, Payload: append([]byte(nil), b[4:4+int(l)]...)})
		b = b[4+int(l):]
	}
	return out, nil
}

func findZip64Extra(extras []entry.ExtraField) (entry.ExtraField, bool) {
	for _, e := range extras {
		if e.Tag == tagZip64 {
			return e, true
		}
	}
	return entry.ExtraField{}, false
}

// findUnicodePathExtra resolves the info-zip Unicode Path extra (0x7075):
// version byte, CRC-32 of the raw (non-UTF8) name, then the UTF-8 name.
// Per spec it only applies when the record's CRC matches the raw name.
func findUnicodePathExtra(extras []entry.ExtraField, rawName string) (string, bool) {
	for _, e := range extras {
		if e.Tag != tagUnicodePath || len(e.Payload) < 5 {
			continue
		}
		crc := byteio.LE.Uint32(e.Payload[1:])
		if crc != byteio.CRC32([]byte(rawName)) {
			continue
		}
		return string(e.Payload[5:]), true
	}
	return "", false
}

// Entries returns the central-directory entries in physical-on-disk order
// (the order the records were appended to the central directory).
func (z *Reader) Entries() []*Entry {
	return z.entries
}

// InputStream seeks to e's local header, skips the local name/extra, and
// wraps the payload bytes in a decompressor chosen by e.Extra.Method.
func (z *Reader) InputStream(e *Entry) (io.ReadCloser, error) {
	hdr := make([]byte, localHeaderFixedLen)
	if _, err := z.ra.ReadAt(hdr, e.hdrOffset); err != nil {
		return nil, ErrorTruncated.ErrorParent(err)
	}
	if byteio.LE.Uint32(hdr) != sigLocalHeader {
		return nil, ErrorInvalidFormat.ErrorParent(nil)
	}
	nameLen := byteio.LE.Uint16(hdr[26:])
	extraLen := byteio.LE.Uint16(hdr[28:])

	dataOff := e.hdrOffset + int64(localHeaderFixedLen) + int64(nameLen) + int64(extraLen)
	raw := io.NewSectionReader(z.ra, dataOff, e.compSize)

	alg, ok := methodToAlgorithm(e.Extra.Method)
	if !ok {
		return nil, ErrorUnknownMethod.ErrorParent(nil)
	}
	rc, err := alg.Reader(raw)
	if err != nil {
		return nil, err
	}
	return &crcCheckedReader{inner: rc, want: e.Extra.CRC32, sum: crc32.NewIEEE()}, nil
}

func methodToAlgorithm(m entry.ZipMethod) (compress.Algorithm, bool) {
	switch m {
	case entry.ZipStore:
		return compress.None, true
	case entry.ZipDeflate:
		return compress.Deflate, true
	case entry.ZipBzip2:
		return compress.Bzip2, true
	case entry.ZipLZMA:
		return compress.LZMA, true
	case entry.ZipXZ:
		return compress.XZ, true
	case entry.ZipZstd:
		return compress.Zstd, true
	default:
		return compress.None, false
	}
}

// crcCheckedReader validates the running CRC-32 of the decompressed bytes
// against the central-directory record once the declared size is consumed.
type crcCheckedReader struct {
	inner io.ReadCloser
	want  uint32
	sum   hash.Hash32
	done  bool
}

func (c *crcCheckedReader) Read(p []byte) (int, error) {
	n, err := c.inner.Read(p)
	if n > 0 {
		c.sum.Write(p[:n])
	}
	if err == io.EOF && !c.done {
		c.done = true
		if got := c.sum.Sum32(); got != c.want {
			return n, ErrorCRCMismatch.ErrorParent(nil)
		}
	}
	return n, err
}

func (c *crcCheckedReader) Close() error {
	return c.inner.Close()
}
