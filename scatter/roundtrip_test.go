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

package scatter_test

import (
	"bytes"
	"hash/crc32"
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/archive/ar"
	"github.com/nabbar/archive/entry"
	"github.com/nabbar/archive/scatter"
)

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

var _ = Describe("Scatter store", func() {
	It("gathers backing stores in Begin order, not write-completion order", func() {
		st := scatter.New(false)

		wa, err := st.Begin(entry.Info{Name: "a.txt"}, scatter.InMemory)
		Expect(err).ToNot(HaveOccurred())
		wb, err := st.Begin(entry.Info{Name: "b.txt"}, scatter.InMemory)
		Expect(err).ToNot(HaveOccurred())
		wc, err := st.Begin(entry.Info{Name: "c.txt"}, scatter.FileBacked)
		Expect(err).ToNot(HaveOccurred())

		// simulate workers finishing out of order: c, then a, then b.
		_, err = wc.Write([]byte("payload c"))
		Expect(err).ToNot(HaveOccurred())
		Expect(wc.CloseForWriting()).To(Succeed())

		_, err = wa.Write([]byte("payload a"))
		Expect(err).ToNot(HaveOccurred())
		Expect(wa.CloseForWriting()).To(Succeed())

		_, err = wb.Write([]byte("payload b"))
		Expect(err).ToNot(HaveOccurred())
		Expect(wb.CloseForWriting()).To(Succeed())

		var dst bytes.Buffer
		w := ar.NewWriter(&dst)
		res, err := st.Gather(w)
		Expect(err).ToNot(HaveOccurred())
		Expect(w.Close()).To(Succeed())

		Expect(res.Names).To(Equal([]string{"a.txt", "b.txt", "c.txt"}))
		Expect(res.Checksums[0]).To(Equal(crc32.ChecksumIEEE([]byte("payload a"))))
		Expect(res.Checksums[1]).To(Equal(crc32.ChecksumIEEE([]byte("payload b"))))
		Expect(res.Checksums[2]).To(Equal(crc32.ChecksumIEEE([]byte("payload c"))))

		got := readAr(dst.Bytes())
		Expect(got["a.txt"]).To(Equal("payload a"))
		Expect(got["b.txt"]).To(Equal("payload b"))
		Expect(got["c.txt"]).To(Equal("payload c"))
	})

	It("round-trips a FileBacked store through InputStream", func() {
		st := scatter.New(true)

		w, err := st.Begin(entry.Info{Name: "big.bin"}, scatter.FileBacked)
		Expect(err).ToNot(HaveOccurred())

		payload := strings.Repeat("q", 8192)
		_, err = io.Copy(w, strings.NewReader(payload))
		Expect(err).ToNot(HaveOccurred())
		Expect(w.CloseForWriting()).To(Succeed())

		var dst bytes.Buffer
		aw := ar.NewWriter(&dst)
		_, err = st.Gather(aw)
		Expect(err).ToNot(HaveOccurred())
		Expect(aw.Close()).To(Succeed())

		got := readAr(dst.Bytes())
		Expect(got["big.bin"]).To(Equal(payload))
	})

	It("rejects InputStream before CloseForWriting", func() {
		st := scatter.New(false)
		w, err := st.Begin(entry.Info{Name: "x"}, scatter.InMemory)
		Expect(err).ToNot(HaveOccurred())

		_, err = w.InputStream()
		Expect(err).To(HaveOccurred())
	})

	It("rejects a Write after CloseForWriting", func() {
		st := scatter.New(false)
		w, err := st.Begin(entry.Info{Name: "x"}, scatter.InMemory)
		Expect(err).ToNot(HaveOccurred())

		Expect(w.CloseForWriting()).To(Succeed())
		_, err = w.Write([]byte("too late"))
		Expect(err).To(HaveOccurred())
	})

	It("rejects Gather with a nil destination", func() {
		st := scatter.New(false)
		_, err := st.Gather(nil)
		Expect(err).To(HaveOccurred())
	})
})
