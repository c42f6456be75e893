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

package sevenzip

import (
	"bytes"
	"io"

	"github.com/nabbar/archive/archive/compress"
	"github.com/nabbar/archive/entry"
	"github.com/nabbar/archive/lzma"
)

// decodeFolder resolves a folder's single unbound output stream, walking
// its coder graph and bind pairs. packStreams holds one buffered slice per
// entry in folder.PackedIndices, in the same order.
func decodeFolder(folder entry.Folder, packStreams [][]byte, outSizes []int64, password string) ([]byte, error) {
	inStart := make([]int, len(folder.Coders))
	outStart := make([]int, len(folder.Coders))
	in, out := 0, 0
	for i, c := range folder.Coders {
		inStart[i] = in
		outStart[i] = out
		in += c.NumInStreams
		out += c.NumOutStreams
	}

	packOf := make(map[int]int, len(folder.PackedIndices))
	for pos, idx := range folder.PackedIndices {
		packOf[idx] = pos
	}

	memo := make(map[int][]byte)

	var resolve func(outIdx int) ([]byte, error)
	resolve = func(outIdx int) ([]byte, error) {
		if b, ok := memo[outIdx]; ok {
			return b, nil
		}

		ci := -1
		for i, c := range folder.Coders {
			if outIdx >= outStart[i] && outIdx < outStart[i]+c.NumOutStreams {
				ci = i
				break
			}
		}
		if ci == -1 {
			return nil, ErrorMalformedField.ErrorParent(nil)
		}
		coder := folder.Coders[ci]
		if coder.NumOutStreams != 1 {
			return nil, ErrorUnsupportedCodec.ErrorParent(nil)
		}

		inputs := make([][]byte, coder.NumInStreams)
		for k := 0; k < coder.NumInStreams; k++ {
			globalIn := inStart[ci] + k
			if pos, ok := packOf[globalIn]; ok {
				inputs[k] = packStreams[pos]
				continue
			}
			resolved := false
			for _, bp := range folder.BindPairs {
				if bp.InIndex == globalIn {
					b, err := resolve(bp.OutIndex)
					if err != nil {
						return nil, err
					}
					inputs[k] = b
					resolved = true
					break
				}
			}
			if !resolved {
				return nil, ErrorMalformedField.ErrorParent(nil)
			}
		}

		out, err := decodeCoder(coder, inputs, outSizes[outIdx], password)
		if err != nil {
			return nil, err
		}
		memo[outIdx] = out
		return out, nil
	}

	finalOut, err := folder.FinalOutputIndex()
	if err != nil {
		return nil, err
	}
	return resolve(finalOut)
}

func decodeCoder(coder entry.Coder, inputs [][]byte, unpackSize int64, password string) ([]byte, error) {
	switch {
	case methodEq(coder.MethodID, methodCopy):
		return truncOrPad(inputs[0], unpackSize), nil

	case methodEq(coder.MethodID, methodLZMA):
		return decodeLZMA1(inputs[0], coder.Properties, unpackSize)

	case methodEq(coder.MethodID, methodDeflate):
		return decodeViaAlgorithm(compress.Deflate, inputs[0], unpackSize)

	case methodEq(coder.MethodID, methodBzip2):
		return decodeViaAlgorithm(compress.Bzip2, inputs[0], unpackSize)

	case methodEq(coder.MethodID, methodAES256SHA256):
		out, err := decodeAES256SHA256(inputs[0], coder.Properties, password)
		if err != nil {
			return nil, err
		}
		return truncOrPad(out, unpackSize), nil

	default:
		return nil, ErrorUnsupportedCodec.ErrorParent(nil)
	}
}

// decodeLZMA1 prepends the classic .lzma header (5-byte properties, already
// carried verbatim on the folder coder, plus the unpack size this module
// already knows from CodersUnpackSize) so the shared lzma package's reader
// can be reused unmodified instead of re-implementing a raw-stream variant.
func decodeLZMA1(packed []byte, props []byte, unpackSize int64) ([]byte, error) {
	if len(props) != 5 {
		return nil, ErrorMalformedField.ErrorParent(nil)
	}
	header := make([]byte, 13)
	copy(header, props)
	for i := 0; i < 8; i++ {
		header[5+i] = byte(unpackSize >> uint(8*i))
	}

	r, err := lzma.NewReader(io.MultiReader(bytes.NewReader(header), bytes.NewReader(packed)))
	if err != nil {
		return nil, err
	}
	out := make([]byte, unpackSize)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, ErrorTruncated.ErrorParent(err)
	}
	return out, nil
}

func decodeViaAlgorithm(a compress.Algorithm, packed []byte, unpackSize int64) ([]byte, error) {
	rc, err := a.Reader(bytes.NewReader(packed))
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	out := make([]byte, unpackSize)
	if _, err := io.ReadFull(rc, out); err != nil {
		return nil, ErrorTruncated.ErrorParent(err)
	}
	return out, nil
}

func truncOrPad(b []byte, size int64) []byte {
	if int64(len(b)) == size {
		return b
	}
	if int64(len(b)) > size {
		return b[:size]
	}
	out := make([]byte, size)
	copy(out, b)
	return out
}
