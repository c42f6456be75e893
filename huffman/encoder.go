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

package huffman

import "sort"

// symFreq pairs a symbol with its observed frequency, used while building
// code lengths greedily.
type symFreq struct {
	sym  int
	freq int64
}

// BuildLengths assigns a canonical code length to every symbol in freqs
// (symbol -> frequency), capped at maxLen, using the package-merge style
// greedy construction bzip2 performs iteratively when the Kraft sum
// overflows: repeatedly halve every frequency (f/2+1) until the length
// constraint is met. The result satisfies the Kraft inequality by
// construction.
func BuildLengths(freqs map[int]int64, maxLen int) []byte {
	if len(freqs) == 0 {
		return nil
	}

	maxSym := 0
	for s := range freqs {
		if s > maxSym {
			maxSym = s
		}
	}
	lengths := make([]byte, maxSym+1)

	items := make([]symFreq, 0, len(freqs))
	for s, f := range freqs {
		if f <= 0 {
			f = 1
		}
		items = append(items, symFreq{sym: s, freq: f})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].freq < items[j].freq })

	var depth []int
	for {
		depth = huffmanDepths(items)
		deepest := 0
		for _, d := range depth {
			if d > deepest {
				deepest = d
			}
		}
		changed := false
		for i := range items {
			if nf := items[i].freq/2 + 1; deepest > maxLen && nf != items[i].freq {
				items[i].freq, changed = nf, true
			}
		}
		if !changed {
			break
		}
	}
	for i, it := range items {
		l := depth[i]
		if l == 0 {
			l = 1
		}
		for l > maxLen {
			l = maxLen
		}
		lengths[it.sym] = byte(l)
	}
	return lengths
}

// huffmanDepths runs the classic two-queue Huffman length assignment over
// items already sorted by ascending frequency, returning the code length
// for each input index in the same order.
func huffmanDepths(items []symFreq) []int {
	n := len(items)
	if n == 1 {
		return []int{1}
	}

	freq := make([]int64, 0, 2*n)
	left := make([]int, 0, 2*n)
	right := make([]int, 0, 2*n)
	for _, it := range items {
		freq = append(freq, it.freq)
		left = append(left, -1)
		right = append(right, -1)
	}

	// two-queue merge: queue1 holds raw leaves (already sorted), queue2
	// holds merged internal nodes (kept sorted by append order since each
	// merge produces a weight >= any prior merge when inputs are sorted).
	q1 := make([]int, n)
	for i := range q1 {
		q1[i] = i
	}
	var q2 []int

	pop := func() int {
		if len(q1) > 0 && (len(q2) == 0 || freq[q1[0]] <= freq[q2[0]]) {
			v := q1[0]
			q1 = q1[1:]
			return v
		}
		v := q2[0]
		q2 = q2[1:]
		return v
	}

	for len(q1)+len(q2) > 1 {
		a := pop()
		b := pop()
		idx := len(freq)
		freq = append(freq, freq[a]+freq[b])
		left = append(left, a)
		right = append(right, b)
		q2 = append(q2, idx)
	}

	root := len(freq) - 1
	depth := make([]int, len(freq))
	var walk func(node, d int)
	walk = func(node, d int) {
		if node < 0 {
			return
		}
		if left[node] == -1 && right[node] == -1 {
			depth[node] = d
			return
		}
		walk(left[node], d+1)
		walk(right[node], d+1)
	}
	if len(freq) > 0 {
		walk(root, 0)
	}

	return depth[:n]
}
