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

package compress

import (
	"io"

	kzstd "github.com/klauspost/compress/zstd"

	"github.com/nabbar/archive/bzip2"
	"github.com/nabbar/archive/brotli"
	"github.com/nabbar/archive/deflate"
	"github.com/nabbar/archive/errors"
	"github.com/nabbar/archive/gzip"
	"github.com/nabbar/archive/lz4"
	"github.com/nabbar/archive/lzma"
	"github.com/nabbar/archive/snappy"
	nzstd "github.com/nabbar/archive/zstd"
)

const (
	ErrorBridgeRequired errors.CodeError = errors.MinAvailable + iota
)

func init() {
	errors.RegisterIdFctMessage(errors.MinAvailable, getIOMessage)
}

func getIOMessage(code errors.CodeError) string {
	if code == ErrorBridgeRequired {
		return "algorithm requires an external bridge, not a plain stream Reader/Writer"
	}
	return errors.NullMessage
}

// Reader opens a decompressing io.ReadCloser for the algorithm, dispatching
// to whichever codec package carries it. None passes r through unchanged.
func (a Algorithm) Reader(r io.Reader) (io.ReadCloser, error) {
	switch a {
	case Bzip2:
		return bzip2.NewReader(r)
	case Gzip:
		z, e := gzip.NewReader(r)
		if e != nil {
			return nil, e
		}
		return z, nil
	case LZ4:
		return io.NopCloser(lz4.NewFramedReader(r)), nil
	case XZ:
		c, e := lzma.NewXZReader(r)
		if e != nil {
			return nil, e
		}
		return io.NopCloser(c), nil
	case Deflate:
		return deflate.NewRawReader(r), nil
	case DeflateZlib:
		return deflate.NewZlibReader(r)
	case LZMA:
		c, e := lzma.NewReader(r)
		if e != nil {
			return nil, e
		}
		return io.NopCloser(c), nil
	case Snappy:
		return io.NopCloser(snappy.NewFramedReader(r)), nil
	case Zstd:
		d, e := nzstd.NewReader(r)
		if e != nil {
			return nil, e
		}
		return readCloserFunc{Reader: d, close: func() error { d.Close(); return nil }}, nil
	case Brotli:
		return io.NopCloser(brotli.NewReader(r)), nil
	case Pack200:
		return nil, ErrorBridgeRequired.ErrorParent(nil)
	default:
		return io.NopCloser(r), nil
	}
}

// Writer opens a compressing io.WriteCloser for the algorithm, writing its
// compressed output to w. None returns w unchanged.
func (a Algorithm) Writer(w io.WriteCloser) (io.WriteCloser, error) {
	switch a {
	case Bzip2:
		return bzip2.NewWriter(w, 9)
	case Gzip:
		return gzip.NewWriter(w, -1, gzip.Header{})
	case LZ4:
		return lz4.NewFramedWriter(w), nil
	case XZ:
		return lzma.NewXZWriter(w)
	case Deflate:
		return deflate.NewRawWriter(w, -1)
	case DeflateZlib:
		return deflate.NewZlibWriter(w, -1)
	case LZMA:
		return lzma.NewWriter(w)
	case Snappy:
		return snappy.NewFramedWriter(w), nil
	case Zstd:
		return nzstd.NewWriter(w, kzstd.SpeedDefault)
	case Brotli:
		return brotli.NewWriter(w, 7), nil
	case Pack200:
		return nil, ErrorBridgeRequired.ErrorParent(nil)
	default:
		return w, nil
	}
}

// readCloserFunc adapts an io.Reader plus a standalone close callback
// (klauspost/compress's zstd.Decoder.Close returns nothing) to io.ReadCloser.
type readCloserFunc struct {
	io.Reader
	close func() error
}

func (r readCloserFunc) Close() error {
	return r.close()
}
