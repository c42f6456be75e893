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

// Package lz4 wraps pierrec/lz4/v4's block codec and framed stream format.
// The framed reader validates pierrec's own content/block checksums
// in-library; byteio.XXHash32 exists alongside it for callers that need to
// verify a block checksum independent of consuming the frame (e.g. the
// scatter store validating a gathered segment before it is handed to a
// writer).
package lz4

import (
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/nabbar/archive/byteio"
)

// CompressBlock compresses src into a single raw LZ4 block using a
// scratch hash table sized for the fastest compression level.
func CompressBlock(src []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(src)))
	var table [1 << 16]int
	n, err := lz4.CompressBlock(src, dst, table[:])
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// incompressible: lz4 signals this by returning n == 0
		return src, nil
	}
	return dst[:n], nil
}

// DecompressBlock decompresses a raw LZ4 block into a buffer of the given
// (known) uncompressed size.
func DecompressBlock(src []byte, uncompressedSize int) ([]byte, error) {
	dst := make([]byte, uncompressedSize)
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

// NewFramedReader opens an LZ4 frame (magic + flags + block checksums).
func NewFramedReader(r io.Reader) *lz4.Reader {
	return lz4.NewReader(r)
}

// NewFramedWriter creates an LZ4 frame encoder.
func NewFramedWriter(w io.Writer) *lz4.Writer {
	return lz4.NewWriter(w)
}

// BlockChecksum computes the frame-format block checksum directly, for
// verifying a gathered block outside of NewFramedReader's own pass.
func BlockChecksum(b []byte) uint32 {
	return byteio.XXHash32(0, b)
}
