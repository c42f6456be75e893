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
	"bufio"

	"github.com/nabbar/archive/entry"
)

// readFolder decodes one Folder coder graph: the coders, their bind pairs,
// and which input streams are fed directly from pack streams rather than
// another coder's output.
func readFolder(r *bufio.Reader) (entry.Folder, error) {
	var f entry.Folder

	numCoders, err := readNumberAsInt(r)
	if err != nil {
		return f, err
	}

	for i := 0; i < numCoders; i++ {
		flags, err := readByte(r)
		if err != nil {
			return f, err
		}

		idSize := int(flags & 0x0F)
		isComplex := flags&0x10 != 0
		hasAttrs := flags&0x20 != 0

		methodID, err := readFull(r, idSize)
		if err != nil {
			return f, err
		}

		c := entry.Coder{MethodID: methodID, NumInStreams: 1, NumOutStreams: 1}
		if isComplex {
			c.NumInStreams, err = readNumberAsInt(r)
			if err != nil {
				return f, err
			}
			c.NumOutStreams, err = readNumberAsInt(r)
			if err != nil {
				return f, err
			}
		}
		if hasAttrs {
			propSize, err := readNumberAsInt(r)
			if err != nil {
				return f, err
			}
			c.Properties, err = readFull(r, propSize)
			if err != nil {
				return f, err
			}
		}
		f.Coders = append(f.Coders, c)
	}

	totalOut := folderTotalOut(f)
	totalIn := folderTotalIn(f)
	numBindPairs := totalOut - 1

	for i := 0; i < numBindPairs; i++ {
		in, err := readNumberAsInt(r)
		if err != nil {
			return f, err
		}
		out, err := readNumberAsInt(r)
		if err != nil {
			return f, err
		}
		f.BindPairs = append(f.BindPairs, entry.BindPair{InIndex: in, OutIndex: out})
	}

	numPacked := totalIn - numBindPairs
	if numPacked == 1 {
		bound := make(map[int]bool, len(f.BindPairs))
		for _, bp := range f.BindPairs {
			bound[bp.InIndex] = true
		}
		for i := 0; i < totalIn; i++ {
			if !bound[i] {
				f.PackedIndices = append(f.PackedIndices, i)
				break
			}
		}
	} else {
		for i := 0; i < numPacked; i++ {
			idx, err := readNumberAsInt(r)
			if err != nil {
				return f, err
			}
			f.PackedIndices = append(f.PackedIndices, idx)
		}
	}

	return f, nil
}

func folderTotalIn(f entry.Folder) int {
	n := 0
	for _, c := range f.Coders {
		n += c.NumInStreams
	}
	return n
}

func folderTotalOut(f entry.Folder) int {
	n := 0
	for _, c := range f.Coders {
		n += c.NumOutStreams
	}
	return n
}
