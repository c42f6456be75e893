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

package entry

// Coder is one node of a 7z folder's coder graph: a codec id plus its
// encoded properties (e.g. the LZMA2 dictionary-size byte).
type Coder struct {
	MethodID   []byte
	NumInStreams  int
	NumOutStreams int
	Properties []byte
}

// BindPair joins the output of one coder to the input of another, forming
// the folder's internal edges.
type BindPair struct {
	InIndex  int
	OutIndex int
}

// Folder is the 7z coder graph for one entry (or group of solid-packed
// entries): packed streams feed unbound inputs, bind pairs chain coder
// outputs to other coders' inputs, and exactly one output stream is left
// unbound — the folder's final output.
type Folder struct {
	Coders        []Coder
	BindPairs     []BindPair
	PackedIndices []int
}

func (f Folder) totalIn() int {
	n := 0
	for _, c := range f.Coders {
		n += c.NumInStreams
	}
	return n
}

func (f Folder) totalOut() int {
	n := 0
	for _, c := range f.Coders {
		n += c.NumOutStreams
	}
	return n
}

// findBoundOut reports whether some bind pair binds output index outIdx
// to an input.
func (f Folder) findBoundOut(outIdx int) bool {
	for _, bp := range f.BindPairs {
		if bp.OutIndex == outIdx {
			return true
		}
	}
	return false
}

// FinalOutputIndex returns the index of the folder's single unbound output
// stream, failing if zero or more than one qualifies.
func (f Folder) FinalOutputIndex() (int, error) {
	unbound := -1
	for i := 0; i < f.totalOut(); i++ {
		if !f.findBoundOut(i) {
			if unbound != -1 {
				return 0, ErrorInvalidFolder.ErrorParent(nil)
			}
			unbound = i
		}
	}
	if unbound == -1 {
		return 0, ErrorInvalidFolder.ErrorParent(nil)
	}
	return unbound, nil
}

// Validate enforces the folder invariants: every non-packed input bound
// exactly once, and output count = input count + 1 - bind pairs.
func (f Folder) Validate() error {
	if f.totalOut() != f.totalIn()+1-len(f.BindPairs) {
		return ErrorInvalidFolder.ErrorParent(nil)
	}

	bound := make(map[int]int)
	for _, bp := range f.BindPairs {
		bound[bp.InIndex]++
	}
	packed := make(map[int]bool, len(f.PackedIndices))
	for _, p := range f.PackedIndices {
		packed[p] = true
	}

	for i := 0; i < f.totalIn(); i++ {
		if packed[i] {
			continue
		}
		if bound[i] != 1 {
			return ErrorInvalidFolder.ErrorParent(nil)
		}
	}

	if _, err := f.FinalOutputIndex(); err != nil {
		return err
	}
	return nil
}
