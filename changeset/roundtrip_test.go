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

package changeset_test

import (
	"bytes"
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/archive/ar"
	"github.com/nabbar/archive/changeset"
	"github.com/nabbar/archive/entry"
)

func buildAr(files map[string]string, order []string) []byte {
	var buf bytes.Buffer
	w := ar.NewWriter(&buf)
	for _, name := range order {
		content := files[name]
		Expect(w.PutEntry(entry.Info{Name: name, Size: int64(len(content))})).To(Succeed())
		_, err := io.Copy(w, strings.NewReader(content))
		Expect(err).ToNot(HaveOccurred())
	}
	Expect(w.Close()).To(Succeed())
	return buf.Bytes()
}

func readAr(data []byte) map[string]string {
	out := map[string]string{}
	r := ar.NewReader(bytes.NewReader(data))
	for {
		info, err := r.Next()
		Expect(err).ToNot(HaveOccurred())
		if info == nil {
			break
		}
		got, err := io.ReadAll(r)
		Expect(err).ToNot(HaveOccurred())
		out[info.Name] = string(got)
	}
	return out
}

var _ = Describe("Changeset Apply", func() {
	It("replaces, deletes and appends in a single pass", func() {
		src := buildAr(map[string]string{
			"a.txt": "original a",
			"b.txt": "original b",
			"c.txt": "original c",
		}, []string{"a.txt", "b.txt", "c.txt"})

		cs := changeset.New()
		Expect(cs.Delete("b.txt")).To(Succeed())
		Expect(cs.Add(entry.Info{Name: "a.txt"}, strings.NewReader("replaced a"), true, changeset.InMemory)).To(Succeed())
		Expect(cs.Add(entry.Info{Name: "d.txt"}, strings.NewReader("new d"), false, changeset.InMemory)).To(Succeed())

		var dst bytes.Buffer
		w := ar.NewWriter(&dst)
		res, err := changeset.Apply(cs, ar.NewReader(bytes.NewReader(src)), w)
		Expect(err).ToNot(HaveOccurred())
		Expect(w.Close()).To(Succeed())

		Expect(res.AddedFromChangeSet).To(ConsistOf("a.txt", "d.txt"))
		Expect(res.AddedFromStream).To(ConsistOf("c.txt"))
		Expect(res.Deleted).To(ConsistOf("b.txt"))

		got := readAr(dst.Bytes())
		Expect(got).To(HaveLen(3))
		Expect(got["a.txt"]).To(Equal("replaced a"))
		Expect(got["c.txt"]).To(Equal("original c"))
		Expect(got["d.txt"]).To(Equal("new d"))
		Expect(got).ToNot(HaveKey("b.txt"))
	})

	It("deletes every entry under a directory prefix", func() {
		src := buildAr(map[string]string{
			"dir/x.txt": "x",
			"dir/y.txt": "y",
			"keep.txt":  "keep",
		}, []string{"dir/x.txt", "dir/y.txt", "keep.txt"})

		cs := changeset.New()
		Expect(cs.DeleteDir("dir")).To(Succeed())

		var dst bytes.Buffer
		w := ar.NewWriter(&dst)
		res, err := changeset.Apply(cs, ar.NewReader(bytes.NewReader(src)), w)
		Expect(err).ToNot(HaveOccurred())
		Expect(w.Close()).To(Succeed())

		Expect(res.Deleted).To(ConsistOf("dir/x.txt", "dir/y.txt"))

		got := readAr(dst.Bytes())
		Expect(got).To(HaveLen(1))
		Expect(got["keep.txt"]).To(Equal("keep"))
	})

	It("never emits the same name twice even when an add duplicates a stream entry", func() {
		src := buildAr(map[string]string{"a.txt": "one"}, []string{"a.txt"})

		cs := changeset.New()
		Expect(cs.Add(entry.Info{Name: "a.txt"}, strings.NewReader("two"), false, changeset.InMemory)).To(Succeed())

		var dst bytes.Buffer
		w := ar.NewWriter(&dst)
		res, err := changeset.Apply(cs, ar.NewReader(bytes.NewReader(src)), w)
		Expect(err).ToNot(HaveOccurred())
		Expect(w.Close()).To(Succeed())

		got := readAr(dst.Bytes())
		Expect(got).To(HaveLen(1))
		Expect(got["a.txt"]).To(Equal("one"))
		Expect(res.AddedFromStream).To(ConsistOf("a.txt"))
		Expect(res.AddedFromChangeSet).To(BeEmpty())
	})

	It("stages a TempFile-strategy add and replays it correctly", func() {
		empty := buildAr(nil, nil)

		cs := changeset.New()
		payload := strings.Repeat("z", 4096)
		Expect(cs.Add(entry.Info{Name: "big.bin"}, strings.NewReader(payload), false, changeset.TempFile)).To(Succeed())

		var dst bytes.Buffer
		w := ar.NewWriter(&dst)
		_, err := changeset.Apply(cs, ar.NewReader(bytes.NewReader(empty)), w)
		Expect(err).ToNot(HaveOccurred())
		Expect(w.Close()).To(Succeed())

		got := readAr(dst.Bytes())
		Expect(got["big.bin"]).To(Equal(payload))
	})

	It("rejects a nil source or destination", func() {
		empty := buildAr(nil, nil)
		cs := changeset.New()
		_, err := changeset.Apply(cs, nil, ar.NewWriter(&bytes.Buffer{}))
		Expect(err).To(HaveOccurred())

		_, err = changeset.Apply(cs, ar.NewReader(bytes.NewReader(empty)), nil)
		Expect(err).To(HaveOccurred())
	})
})
