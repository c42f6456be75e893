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

package tar

import (
	"io"
	"strconv"

	"github.com/nabbar/archive/byteio"
	"github.com/nabbar/archive/entry"
)

// LongFileMode selects how the writer handles a name/link exceeding the
// ustar 100+155 byte limit.
type LongFileMode uint8

const (
	LongFileError LongFileMode = iota
	LongFileTruncate
	LongFileGNU
	LongFilePax
)

// BigNumberMode selects how the writer handles a numeric field (size, uid,
// gid, mtime) that overflows its classic octal width.
type BigNumberMode uint8

const (
	BigNumberError BigNumberMode = iota
	BigNumberGNUBase256
	BigNumberPosix
)

// WriterOptions configures promotion behavior; the zero value (all Error)
// matches strict POSIX tar and rejects anything it cannot represent
// losslessly in a plain ustar header.
type WriterOptions struct {
	LongFile  LongFileMode
	BigNumber BigNumberMode
}

// Writer is a forward-only tar stream writer. WriteHeader fixes one entry's
// metadata; Write streams its payload; the payload must be fully written
// (exactly Size bytes) before the next WriteHeader or Close.
type Writer struct {
	w    io.Writer
	opt  WriterOptions
	st   state
	rem  int64
	pad  int64
	done bool
}

// NewWriter wraps w as a streaming tar writer using strict POSIX promotion
// rules (overflow fails instead of being rewritten).
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, st: stateBetweenEntries}
}

// NewWriterOptions wraps w with explicit long-name/big-number promotion
// behavior.
func NewWriterOptions(w io.Writer, opt WriterOptions) *Writer {
	return &Writer{w: w, opt: opt, st: stateBetweenEntries}
}

func (z *Writer) fail(err error) error {
	z.st = stateFailed
	return err
}

// WriteHeader emits the header block(s) for the next entry (promoting to
// pax or GNU long-name as configured/needed) and prepares the writer for
// Write.
func (z *Writer) WriteHeader(info entry.Info, tx entry.TarExtra) error {
	switch z.st {
	case stateFailed:
		return ErrorClosed.ErrorParent(nil)
	case stateHaveHeader, stateInPayload:
		return ErrorNotAtEntryBoundary.ErrorParent(nil)
	}
	if z.done {
		return ErrorClosed.ErrorParent(nil)
	}

	if err := z.writeHeaderEntry(info, tx); err != nil {
		return z.fail(err)
	}

	z.rem = info.Size
	z.pad = paddingFor(info.Size)
	z.st = stateHaveHeader
	return nil
}

func (z *Writer) writeHeaderEntry(info entry.Info, tx entry.TarExtra) error {
	name, prefix, fits := splitName(info.Name)

	pax := make(map[string]string)
	for k, v := range tx.PaxRecord {
		pax[k] = v
	}

	if !fits {
		switch z.opt.LongFile {
		case LongFileGNU:
			if err := z.writeGNULongRecord(entry.TypeGNULongName, info.Name); err != nil {
				return err
			}
			name, prefix = truncate(info.Name, 100), ""
		case LongFilePax:
			pax[paxPath] = info.Name
			name, prefix = "", ""
		case LongFileTruncate:
			name, prefix = truncate(info.Name, 100), ""
		default:
			return ErrorNameTooLong.ErrorParent(nil)
		}
	}

	linkname := tx.LinkName
	if len(linkname) > 100 {
		switch z.opt.LongFile {
		case LongFileGNU:
			if err := z.writeGNULongRecord(entry.TypeGNULongLink, linkname); err != nil {
				return err
			}
			linkname = linkname[:100]
		case LongFilePax:
			pax[paxLinkpath] = linkname
			linkname = ""
		case LongFileTruncate:
			linkname = linkname[:100]
		default:
			return ErrorNameTooLong.ErrorParent(nil)
		}
	}

	if !byteio.FitsOctalField(info.Size, lenSize) {
		switch z.opt.BigNumber {
		case BigNumberGNUBase256:
			// formatNumericField escalates automatically below.
		case BigNumberPosix:
			pax[paxSize] = strconv.FormatInt(info.Size, 10)
		default:
			return ErrorSizeTooLarge.ErrorParent(nil)
		}
	}

	if len(pax) > 0 {
		if err := z.writePaxRecord(pax); err != nil {
			return err
		}
	}

	return z.writeRawBlock(name, prefix, info, tx, linkname)
}

// splitName attempts the ustar name/prefix split (name <= 100, prefix <=
// 155); fits is false when no such split exists (total > 255, or no '/'
// falls in the required window), in which case the caller must promote via
// whichever LongFileMode it is configured with.
func splitName(name string) (short, prefix string, fits bool) {
	if len(name) <= 100 {
		return name, "", true
	}
	if len(name) > 255 {
		return "", "", false
	}

	// find the rightmost '/' at or before position len(name)-100 so the
	// suffix fits in 100 bytes and the prefix fits in 155.
	cut := -1
	for i := len(name) - 100; i >= 0 && i < len(name); i++ {
		if name[i] == '/' {
			cut = i
		}
	}
	if cut < 0 || cut > 155 {
		return "", "", false
	}

	return name[cut+1:], name[:cut], true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func (z *Writer) writeGNULongRecord(typeflag byte, value string) error {
	var b [blockSize]byte
	copy(b[offName:], "././@LongLink")
	b[offTypeflag] = typeflag
	copy(b[offMagic:], magicGNU)
	formatNumericField(b[offSize:offSize+lenSize], int64(len(value)+1))
	formatNumericField(b[offMode:offMode+lenMode], 0)
	formatNumericField(b[offUID:offUID+lenUID], 0)
	formatNumericField(b[offGID:offGID+lenGID], 0)
	formatNumericField(b[offMtime:offMtime+lenMtime], 0)
	z.stampChecksum(&b)

	if err := z.writeFull(b[:]); err != nil {
		return err
	}
	payload := append([]byte(value), 0)
	if err := z.writeFull(payload); err != nil {
		return err
	}
	return z.writePadding(int64(len(payload)))
}

func (z *Writer) writePaxRecord(pax map[string]string) error {
	payload := []byte(formatPaxRecords(pax))

	var b [blockSize]byte
	copy(b[offName:], "PaxHeader")
	b[offTypeflag] = entry.TypePaxLocalHdr
	copy(b[offMagic:], magicUstar)
	copy(b[offVersion:], versionUstar)
	formatNumericField(b[offSize:offSize+lenSize], int64(len(payload)))
	formatNumericField(b[offMode:offMode+lenMode], 0o644)
	z.stampChecksum(&b)

	if err := z.writeFull(b[:]); err != nil {
		return err
	}
	if err := z.writeFull(payload); err != nil {
		return err
	}
	return z.writePadding(int64(len(payload)))
}

func (z *Writer) writeRawBlock(name, prefix string, info entry.Info, tx entry.TarExtra, linkname string) error {
	var b [blockSize]byte

	copy(b[offName:offName+lenName], name)
	copy(b[offPrefix:offPrefix+lenPrefix], prefix)
	copy(b[offLinkname:offLinkname+lenLinkname], linkname)
	copy(b[offMagic:offMagic+lenMagic], magicUstar)
	copy(b[offVersion:offVersion+lenVersion], versionUstar)

	typeflag := tx.TypeFlag
	if typeflag == 0 {
		if info.IsDir {
			typeflag = entry.TypeDirectory
		} else {
			typeflag = entry.TypeFile
		}
	}
	b[offTypeflag] = typeflag

	formatNumericField(b[offMode:offMode+lenMode], int64(info.Mode)&0o7777)
	formatNumericField(b[offUID:offUID+lenUID], int64(info.UID))
	formatNumericField(b[offGID:offGID+lenGID], int64(info.GID))
	formatNumericField(b[offSize:offSize+lenSize], info.Size)
	formatNumericField(b[offMtime:offMtime+lenMtime], modTimeToUnix(info.ModTime))
	formatNumericField(b[offDevMajor:offDevMajor+lenDevMajor], tx.DevMajor)
	formatNumericField(b[offDevMinor:offDevMinor+lenDevMinor], tx.DevMinor)

	z.stampChecksum(&b)
	return z.writeFull(b[:])
}

// stampChecksum computes the header checksum (checksum already treats the
// field's bytes as spaces regardless of their current content) and writes
// it back into the block.
func (z *Writer) stampChecksum(b *[blockSize]byte) {
	sum := checksum(*b)
	copy(b[offChksum:offChksum+lenChksum], formatChecksumField(sum))
}

func formatChecksumField(sum int64) []byte {
	b := make([]byte, lenChksum)
	digits := []byte(octalDigits(sum, 6))
	copy(b, digits)
	b[6] = 0
	b[7] = ' '
	return b
}

func octalDigits(v int64, width int) string {
	buf := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		buf[i] = byte('0' + v%8)
		v /= 8
	}
	return string(buf)
}

func (z *Writer) writeFull(b []byte) error {
	_, err := z.w.Write(b)
	if err != nil {
		return ErrorTruncated.ErrorParent(err)
	}
	return nil
}

func (z *Writer) writePadding(size int64) error {
	pad := paddingFor(size)
	if pad == 0 {
		return nil
	}
	var zero [blockSize]byte
	return z.writeFull(zero[:pad])
}

// Write streams the current entry's payload; the caller must write exactly
// the Size declared to WriteHeader.
func (z *Writer) Write(p []byte) (int, error) {
	switch z.st {
	case stateHaveHeader:
		z.st = stateInPayload
	case stateInPayload:
	default:
		return 0, ErrorNotInPayload.ErrorParent(nil)
	}

	if int64(len(p)) > z.rem {
		return 0, z.fail(ErrorSizeTooLarge.ErrorParent(nil))
	}

	n, err := z.w.Write(p)
	z.rem -= int64(n)
	if err != nil {
		return n, z.fail(ErrorTruncated.ErrorParent(err))
	}

	if z.rem == 0 {
		if z.pad > 0 {
			var zero [blockSize]byte
			if err := z.writeFull(zero[:z.pad]); err != nil {
				return n, z.fail(err)
			}
		}
		z.st = stateBetweenEntries
	}
	return n, nil
}

// Close finishes the archive by emitting the two zero-block terminator. It
// does not close the underlying writer.
func (z *Writer) Close() error {
	if z.st == stateFailed {
		return ErrorClosed.ErrorParent(nil)
	}
	if z.st != stateBetweenEntries && z.st != stateHaveHeader {
		return z.fail(ErrorNotAtEntryBoundary.ErrorParent(nil))
	}

	var zero [blockSize]byte
	if err := z.writeFull(zero[:]); err != nil {
		return z.fail(err)
	}
	if err := z.writeFull(zero[:]); err != nil {
		return z.fail(err)
	}
	z.done = true
	z.st = stateEnded
	return nil
}
