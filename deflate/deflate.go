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

// Package deflate wraps the standard library's DEFLATE implementation in
// both its raw and zlib-wrapped shapes. The format itself (LZ77 + canonical
// Huffman over a fixed bit-packed block structure) has no maintained
// from-scratch alternative in the example corpus worth displacing stdlib
// compress/flate for — most other codec packages in this module reach
// for a third-party engine (pierrec, ulikunitz, klauspost, andybalholm,
// golang/snappy), gzip wraps the standard library too, and bzip2 is
// implemented from scratch; flate is one place upstream Go's own
// implementation is already the ecosystem's reference.
package deflate

import (
	"compress/flate"
	"compress/zlib"
	"io"
)

// NewRawReader decompresses a raw (headerless) DEFLATE stream, as used
// inside ZIP entries.
func NewRawReader(r io.Reader) io.ReadCloser {
	return flate.NewReader(r)
}

// NewRawWriter compresses into a raw DEFLATE stream at the given level
// (flate.DefaultCompression selects the library default).
func NewRawWriter(w io.Writer, level int) (*flate.Writer, error) {
	return flate.NewWriter(w, level)
}

// NewZlibReader decompresses a zlib-wrapped DEFLATE stream (2-byte header +
// Adler-32 trailer), the shape 7z's LZMA-adjacent "raw deflate" sibling and
// some PAX archivers embed.
func NewZlibReader(r io.Reader) (io.ReadCloser, error) {
	return zlib.NewReader(r)
}

// NewZlibWriter compresses into a zlib-wrapped DEFLATE stream.
func NewZlibWriter(w io.Writer, level int) (*zlib.Writer, error) {
	return zlib.NewWriterLevel(w, level)
}
