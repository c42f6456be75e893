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

// Package snappy wraps golang/snappy's block codec (raw, no framing) and
// its framed stream format (length-prefixed chunks, each masked
// CRC-32C-checked per byteio.CRC32C).
package snappy

import (
	"io"

	"github.com/golang/snappy"
)

// EncodeBlock compresses src as a single raw Snappy block (no framing).
func EncodeBlock(src []byte) []byte {
	return snappy.Encode(nil, src)
}

// DecodeBlock decompresses a single raw Snappy block.
func DecodeBlock(src []byte) ([]byte, error) {
	return snappy.Decode(nil, src)
}

// NewFramedReader opens a framed Snappy stream (the format 7z/archive
// payloads use when they want per-chunk checksums without a full container).
func NewFramedReader(r io.Reader) io.Reader {
	return snappy.NewReader(r)
}

// NewFramedWriter creates a framed Snappy encoder.
func NewFramedWriter(w io.Writer) *snappy.Writer {
	return snappy.NewBufferedWriter(w)
}
