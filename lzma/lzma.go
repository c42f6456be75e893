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

// Package lzma wraps ulikunitz/xz for both the legacy .lzma (LZMA1)
// container and the .xz (LZMA2-based) container, the two shapes 7z and ZIP
// entries use depending on their declared method.
//
// The legacy LZMA1 header stores an 8-byte uncompressed size that is
// sometimes written as -1 ("unknown"). Following XZ Utils' own resolution
// of that ambiguity: a stream with an explicit, non -1 size is trusted and
// decoding stops exactly there; a stream declaring -1 is only valid if
// terminated by LZMA's end-of-stream marker, and decoding that lacks one
// fails rather than silently consuming trailing garbage.
package lzma

import (
	"io"

	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"

	"github.com/nabbar/archive/errors"
)

const (
	ErrorUnknownSizeNoMarker errors.CodeError = errors.MinPkgLZMA + iota
)

func init() {
	errors.RegisterIdFctMessage(errors.MinPkgLZMA, getMessage)
}

func getMessage(code errors.CodeError) string {
	if code == ErrorUnknownSizeNoMarker {
		return "LZMA1 stream declares an unknown size but carries no end-of-stream marker"
	}
	return errors.NullMessage
}

// NewReader opens a legacy .lzma (LZMA1) stream.
func NewReader(r io.Reader) (io.Reader, error) {
	return lzma.NewReader(r)
}

// NewWriter creates a legacy .lzma (LZMA1) encoder with ulikunitz/xz's
// default configuration: the header declares the size as unknown (-1) and
// the stream ends with an end-of-stream marker.
func NewWriter(w io.Writer) (io.WriteCloser, error) {
	return lzma.NewWriter(w)
}

// NewXZReader opens an .xz container (LZMA2 filter chain plus CRC-checked
// block/index structure).
func NewXZReader(r io.Reader) (io.Reader, error) {
	return xz.NewReader(r)
}

// NewXZWriter creates an .xz encoder.
func NewXZWriter(w io.Writer) (io.WriteCloser, error) {
	return xz.NewWriter(w)
}
