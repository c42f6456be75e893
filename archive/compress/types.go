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

import "bytes"

type Algorithm uint8

const (
	None Algorithm = iota
	Bzip2
	Gzip
	LZ4
	XZ
	Deflate
	DeflateZlib
	LZMA
	Snappy
	Zstd
	Brotli
	Pack200
)

func List() []Algorithm {
	return []Algorithm{
		None,
		Bzip2,
		Gzip,
		LZ4,
		XZ,
		Deflate,
		DeflateZlib,
		LZMA,
		Snappy,
		Zstd,
		Brotli,
		Pack200,
	}
}

func ListString() []string {
	var (
		lst = List()
		res = make([]string, len(lst))
	)
	for i := range lst {
		res[i] = lst[i].String()
	}
	return res
}

func (a Algorithm) IsNone() bool {
	return a == None
}

// RequiresBridge reports whether the algorithm cannot be wrapped as a plain
// io.Reader/io.WriteCloser and instead needs an external bridge (pack200's
// packer/unpacker).
func (a Algorithm) RequiresBridge() bool {
	return a == Pack200
}

func (a Algorithm) String() string {
	switch a {
	case Gzip:
		return "gzip"
	case Bzip2:
		return "bzip2"
	case LZ4:
		return "lz4"
	case XZ:
		return "xz"
	case Deflate:
		return "deflate"
	case DeflateZlib:
		return "zlib"
	case LZMA:
		return "lzma"
	case Snappy:
		return "snappy"
	case Zstd:
		return "zstd"
	case Brotli:
		return "brotli"
	case Pack200:
		return "pack200"
	default:
		return "none"
	}
}

func (a Algorithm) Extension() string {
	switch a {
	case Gzip:
		return ".gz"
	case Bzip2:
		return ".bz2"
	case LZ4:
		return ".lz4"
	case XZ:
		return ".xz"
	case Deflate:
		return ".deflate"
	case DeflateZlib:
		return ".zz"
	case LZMA:
		return ".lzma"
	case Snappy:
		return ".sz"
	case Zstd:
		return ".zst"
	case Brotli:
		return ".br"
	case Pack200:
		return ".pack"
	default:
		return ""
	}
}

func (a Algorithm) DetectHeader(h []byte) bool {
	switch a {
	case Gzip:
		return len(h) >= 2 && bytes.Equal(h[0:2], []byte{31, 139})
	case Bzip2:
		return len(h) >= 4 && bytes.Equal(h[0:3], []byte{'B', 'Z', 'h'}) && h[3] >= '0' && h[3] <= '9'
	case LZ4:
		return len(h) >= 4 && bytes.Equal(h[0:4], []byte{0x04, 0x22, 0x4D, 0x18})
	case XZ:
		if len(h) < 6 {
			return false
		}
		exp := []byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}
		alt := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
		return bytes.Equal(h[0:6], exp) || bytes.Equal(h[0:6], alt)
	case LZMA:
		// legacy .lzma stream: properties byte (< 9*5*5) followed by a
		// little-endian dictionary size; no fixed magic exists, so this
		// only rejects a first byte of 0xE1 or above, which is never a
		// valid properties byte.
		return len(h) >= 1 && h[0] < 0xE1
	case Zstd:
		return len(h) >= 4 && bytes.Equal(h[0:4], []byte{0x28, 0xB5, 0x2F, 0xFD})
	case Snappy:
		return len(h) >= 1 && h[0] == 0xff
	case Brotli:
		// brotli has no magic number; never auto-detected by header.
		return false
	case Pack200:
		return len(h) >= 4 && bytes.Equal(h[0:4], []byte{0xCA, 0xFE, 0xD0, 0x0D})
	default:
		return false
	}
}
