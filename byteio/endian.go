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

package byteio

import (
	"encoding/binary"
	"io"

	"github.com/nabbar/archive/errors"
)

// LE exposes little-endian scalar codecs (zip, 7z, lz4, xz headers, ...).
var LE = endian{order: binary.LittleEndian}

// BE exposes big-endian scalar codecs (tar checksums are octal, but ar and
// some 7z/pack200 fields are big-endian).
var BE = endian{order: binary.BigEndian}

type endian struct {
	order binary.ByteOrder
}

func (e endian) Uint16(b []byte) uint16 { return e.order.Uint16(b) }
func (e endian) Uint32(b []byte) uint32 { return e.order.Uint32(b) }
func (e endian) Uint64(b []byte) uint64 { return e.order.Uint64(b) }

func (e endian) PutUint16(b []byte, v uint16) { e.order.PutUint16(b, v) }
func (e endian) PutUint32(b []byte, v uint32) { e.order.PutUint32(b, v) }
func (e endian) PutUint64(b []byte, v uint64) { e.order.PutUint64(b, v) }

// ReadUint16 reads a fixed-width scalar from r, wrapping a short read as
// ErrorTruncated with the underlying error attached.
func (e endian) ReadUint16(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, ErrorTruncated.ErrorParent(err)
	}
	return e.Uint16(b[:]), nil
}

func (e endian) ReadUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, ErrorTruncated.ErrorParent(err)
	}
	return e.Uint32(b[:]), nil
}

func (e endian) ReadUint64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, ErrorTruncated.ErrorParent(err)
	}
	return e.Uint64(b[:]), nil
}

func (e endian) WriteUint16(w io.Writer, v uint16) error {
	var b [2]byte
	e.PutUint16(b[:], v)
	_, err := w.Write(b[:])
	return errors.IfError(ErrorTruncated, "", err)
}

func (e endian) WriteUint32(w io.Writer, v uint32) error {
	var b [4]byte
	e.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return errors.IfError(ErrorTruncated, "", err)
}

func (e endian) WriteUint64(w io.Writer, v uint64) error {
	var b [8]byte
	e.PutUint64(b[:], v)
	_, err := w.Write(b[:])
	return errors.IfError(ErrorTruncated, "", err)
}
