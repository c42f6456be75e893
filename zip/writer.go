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

	"github.com/nabbar/archive/byteio"
	"github.com/nabbar/archive/entry"
)

// WriterOptions configures the ZIP64 policy and default compression method;
// mirrors the per-entry/per-archive knobs listed for ZIP output.
type WriterOptions struct {
	Zip64  Zip64Mode
	Method entry.ZipMethod
}

type pendingEntry struct {
	info      entry.Info
	method    entry.ZipMethod
	hdrOffset int64
	gpBits    uint16
}

// Writer is a streaming ZIP writer: entries are appended sequentially and
// the central directory is buffered in memory, then emitted by Close.
type Writer struct {
	w       io.Writer
	opt     WriterOptions
	offset  int64
	records []centralRecord
	cur     *pendingEntry
	comp    io.WriteCloser
	sum     hash.Hash32
	size    int64
	closed  bool
}

type centralRecord struct {
	info      entry.Info
	method    entry.ZipMethod
	crc       uint32
	compSize  int64
	size      int64
	hdrOffset int64
	gpBits    uint16
}

func NewWriter(w io.Writer) *Writer {
	return NewWriterOptions(w, WriterOptions{})
}

func NewWriterOptions(w io.Writer, opt WriterOptions) *Writer {
	return &Writer{w: w, opt: opt}
}

// PutEntry fixes a new entry's header at the writer's current offset; the
// previous entry (if any) must have been closed with CloseEntry first.
func (z *Writer) PutEntry(info entry.Info, method entry.ZipMethod) error {
	if z.closed {
		return ErrorClosed.ErrorParent(nil)
	}
	if z.cur != nil {
		return ErrorNotAtEntryBoundary.ErrorParent(nil)
	}

	gpBits := uint16(0)
	if needsUTF8Flag(info.Name) {
		gpBits |= entry.GPBitUTF8
	}

	hdrOffset := z.offset
	if err := z.writeLocalHeader(info, method, gpBits); err != nil {
		return err
	}

	alg, ok := methodToAlgorithm(method)
	if !ok {
		return ErrorUnknownMethod.ErrorParent(nil)
	}
	wc, err := alg.Writer(nopWriteCloser{&offsetWriter{z}})
	if err != nil {
		return err
	}

	z.cur = &pendingEntry{info: info, method: method, hdrOffset: hdrOffset, gpBits: gpBits}
	z.comp = wc
	z.sum = crc32.NewIEEE()
	z.size = 0
	return nil
}

// offsetWriter tracks how many compressed bytes were actually emitted for
// the current entry, independent of how much uncompressed data came in.
type offsetWriter struct{ z *Writer }

func (o *offsetWriter) Write(p []byte) (int, error) {
	n, err := o.z.w.Write(p)
	o.z.offset += int64(n)
	return n, err
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func needsUTF8Flag(name string) bool {
	for _, r := range name {
		if r > 0x7F {
			return true
		}
	}
	return false
}

func (z *Writer) writeLocalHeader(info entry.Info, method entry.ZipMethod, gpBits uint16) error {
	name := info.Name
	buf := make([]byte, localHeaderFixedLen+len(name))
	byteio.LE.PutUint32(buf, sigLocalHeader)
	byteio.LE.PutUint16(buf[4:], 20)
	byteio.LE.PutUint16(buf[6:], gpBits)
	byteio.LE.PutUint16(buf[8:], uint16(method))
	date, tm := timeToDos(info.ModTime.Hour(), info.ModTime.Minute(), info.ModTime.Second(),
		info.ModTime.Year(), int(info.ModTime.Month()), info.ModTime.Day())
	byteio.LE.PutUint16(buf[10:], tm)
	byteio.LE.PutUint16(buf[12:], date)
	// CRC/sizes are zero here: this writer always uses a trailing data
	// descriptor (GPBit 3) rather than pre-computing sizes, which would
	// require buffering the whole entry before the first byte is flushed.
	byteio.LE.PutUint16(buf[26:], uint16(len(name)))
	byteio.LE.PutUint16(buf[28:], 0)
	copy(buf[30:], name)

	buf[7] |= byte(entry.GPBitDataDescriptor)
	n, err := z.w.Write(buf)
	z.offset += int64(n)
	if err != nil {
		return ErrorTruncated.ErrorParent(err)
	}
	return nil
}

// Write streams payload bytes through the entry's compressor.
func (z *Writer) Write(p []byte) (int, error) {
	if z.cur == nil {
		return 0, ErrorNotInPayload.ErrorParent(nil)
	}
	z.sum.Write(p)
	z.size += int64(len(p))
	return z.comp.Write(p)
}

// CloseEntry flushes the compressor and appends a data descriptor plus the
// entry's resolved central-directory record.
func (z *Writer) CloseEntry() error {
	if z.cur == nil {
		return ErrorNotInPayload.ErrorParent(nil)
	}
	if err := z.comp.Close(); err != nil {
		return err
	}

	compSize := z.offset - z.cur.hdrOffset - localHeaderFixedLen - int64(len(z.cur.info.Name))
	crc := z.sum.Sum32()

	if err := z.writeDataDescriptor(crc, compSize, z.size); err != nil {
		return err
	}

	z.records = append(z.records, centralRecord{
		info: z.cur.info, method: z.cur.method, crc: crc,
		compSize: compSize, size: z.size, hdrOffset: z.cur.hdrOffset, gpBits: z.cur.gpBits,
	})
	z.cur = nil
	z.comp = nil
	return nil
}

func (z *Writer) writeDataDescriptor(crc uint32, compSize, size int64) error {
	need64 := z.opt.Zip64 == Zip64Always || (z.opt.Zip64 == Zip64AsNeeded && (compSize > u32Max || size > u32Max))
	if need64 && z.opt.Zip64 == Zip64Never {
		return ErrorZip64Required.ErrorParent(nil)
	}

	var buf []byte
	if need64 {
		buf = make([]byte, 24)
		byteio.LE.PutUint32(buf, sigDataDescriptor)
		byteio.LE.PutUint32(buf[4:], crc)
		byteio.LE.PutUint64(buf[8:], uint64(compSize))
		byteio.LE.PutUint64(buf[16:], uint64(size))
	} else {
		if compSize > u32Max || size > u32Max {
			return ErrorZip64Required.ErrorParent(nil)
		}
		buf = make([]byte, 16)
		byteio.LE.PutUint32(buf, sigDataDescriptor)
		byteio.LE.PutUint32(buf[4:], crc)
		byteio.LE.PutUint32(buf[8:], uint32(compSize))
		byteio.LE.PutUint32(buf[12:], uint32(size))
	}
	n, err := z.w.Write(buf)
	z.offset += int64(n)
	return err
}

// Close emits the central directory, the ZIP64 EOCD/locator when needed,
// and the classic EOCD record.
func (z *Writer) Close() error {
	if z.closed {
		return nil
	}
	if z.cur != nil {
		return ErrorNotAtEntryBoundary.ErrorParent(nil)
	}
	z.closed = true

	if len(z.records) > u16Max && z.opt.Zip64 == Zip64Never {
		return ErrorTooManyEntries.ErrorParent(nil)
	}

	cdStart := z.offset
	for _, r := range z.records {
		if err := z.writeCentralRecord(r); err != nil {
			return err
		}
	}
	cdSize := z.offset - cdStart

	need64 := z.opt.Zip64 == Zip64Always ||
		(z.opt.Zip64 == Zip64AsNeeded && (len(z.records) > u16Max || cdStart > u32Max || cdSize > u32Max))
	if need64 && z.opt.Zip64 == Zip64Never {
		return ErrorZip64Required.ErrorParent(nil)
	}

	if need64 {
		eocd64Off := z.offset
		if err := z.writeEOCD64(uint64(len(z.records)), uint64(cdStart), uint64(cdSize)); err != nil {
			return err
		}
		if err := z.writeEOCD64Locator(eocd64Off); err != nil {
			return err
		}
	}

	return z.writeEOCD(len(z.records), cdStart, cdSize, need64)
}

func (z *Writer) writeCentralRecord(r centralRecord) error {
	name := r.info.Name
	buf := make([]byte, centralHeaderFixedLen+len(name))
	byteio.LE.PutUint32(buf, sigCentralHeader)
	byteio.LE.PutUint16(buf[4:], 0x031E)
	byteio.LE.PutUint16(buf[6:], 20)
	byteio.LE.PutUint16(buf[8:], r.gpBits)
	byteio.LE.PutUint16(buf[10:], uint16(r.method))
	date, tm := timeToDos(r.info.ModTime.Hour(), r.info.ModTime.Minute(), r.info.ModTime.Second(),
		r.info.ModTime.Year(), int(r.info.ModTime.Month()), r.info.ModTime.Day())
	byteio.LE.PutUint16(buf[12:], tm)
	byteio.LE.PutUint16(buf[14:], date)
	byteio.LE.PutUint32(buf[16:], r.crc)

	compSize, size, hdrOffset := uint32(r.compSize), uint32(r.size), uint32(r.hdrOffset)
	var zip64Extra []byte
	if r.compSize > u32Max || r.size > u32Max || r.hdrOffset > u32Max {
		compSize, size, hdrOffset = u32Max, u32Max, u32Max
		zip64Extra = make([]byte, 4+24)
		byteio.LE.PutUint16(zip64Extra, tagZip64)
		byteio.LE.PutUint16(zip64Extra[2:], 24)
		byteio.LE.PutUint64(zip64Extra[4:], uint64(r.size))
		byteio.LE.PutUint64(zip64Extra[12:], uint64(r.compSize))
		byteio.LE.PutUint64(zip64Extra[20:], uint64(r.hdrOffset))
	}

	byteio.LE.PutUint32(buf[20:], compSize)
	byteio.LE.PutUint32(buf[24:], size)
	byteio.LE.PutUint16(buf[28:], uint16(len(name)))
	byteio.LE.PutUint16(buf[30:], uint16(len(zip64Extra)))
	byteio.LE.PutUint16(buf[32:], 0)
	byteio.LE.PutUint16(buf[34:], 0)
	byteio.LE.PutUint16(buf[36:], 0)
	mode := r.info.Mode
	if mode == 0 {
		mode = 0o644
	}
	byteio.LE.PutUint32(buf[38:], uint32(mode)<<16)
	byteio.LE.PutUint32(buf[42:], hdrOffset)
	copy(buf[centralHeaderFixedLen:], name)

	n, err := z.w.Write(buf)
	z.offset += int64(n)
	if err != nil {
		return err
	}
	if len(zip64Extra) > 0 {
		n, err = z.w.Write(zip64Extra)
		z.offset += int64(n)
		return err
	}
	return nil
}

func (z *Writer) writeEOCD64(count, cdOff, cdSize uint64) error {
	buf := make([]byte, eocd64FixedLen)
	byteio.LE.PutUint32(buf, sigEOCD64)
	byteio.LE.PutUint64(buf[4:], eocd64FixedLen-12)
	byteio.LE.PutUint16(buf[12:], 45)
	byteio.LE.PutUint16(buf[14:], 45)
	byteio.LE.PutUint64(buf[24:], count)
	byteio.LE.PutUint64(buf[32:], count)
	byteio.LE.PutUint64(buf[40:], cdSize)
	byteio.LE.PutUint64(buf[48:], cdOff)
	n, err := z.w.Write(buf)
	z.offset += int64(n)
	return err
}

func (z *Writer) writeEOCD64Locator(eocd64Off int64) error {
	buf := make([]byte, eocd64LocatorLen)
	byteio.LE.PutUint32(buf, sigEOCD64Locator)
	byteio.LE.PutUint64(buf[8:], uint64(eocd64Off))
	byteio.LE.PutUint32(buf[16:], 1)
	n, err := z.w.Write(buf)
	z.offset += int64(n)
	return err
}

func (z *Writer) writeEOCD(count int, cdOff, cdSize int64, need64 bool) error {
	n16 := uint16(count)
	off32, size32 := uint32(cdOff), uint32(cdSize)
	if need64 {
		n16, off32, size32 = u16Max, u32Max, u32Max
	}
	buf := make([]byte, eocdFixedLen)
	byteio.LE.PutUint32(buf, sigEOCD)
	byteio.LE.PutUint16(buf[8:], n16)
	byteio.LE.PutUint16(buf[10:], n16)
	byteio.LE.PutUint32(buf[12:], size32)
	byteio.LE.PutUint32(buf[16:], off32)
	n, err := z.w.Write(buf)
	z.offset += int64(n)
	return err
}
