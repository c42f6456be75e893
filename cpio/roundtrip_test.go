/*
 *  MIT License
 *
 *  Copyright (c) 2025 Nicolas JUHEL
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

package cpio_test

import (
	"bytes"
	"io"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/archive/cpio"
	"github.com/nabbar/archive/entry"
)

var _ = Describe("Cpio round-trip", func() {
	It("writes and reads back a newc-dialect entry", func() {
		var buf bytes.Buffer
		w := cpio.NewWriter(&buf)

		Expect(w.PutEntry(entry.Info{Name: "hello.txt", Size: 5, ModTime: time.Unix(1700000000, 0)})).To(Succeed())
		_, err := w.Write([]byte("world"))
		Expect(err).ToNot(HaveOccurred())
		Expect(w.Close()).To(Succeed())

		r := cpio.NewReader(&buf)
		h, err := r.Next()
		Expect(err).ToNot(HaveOccurred())
		Expect(h.Name).To(Equal("hello.txt"))
		data, err := io.ReadAll(r)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(Equal("world"))

		end, err := r.Next()
		Expect(err).ToNot(HaveOccurred())
		Expect(end).To(BeNil())
	})

	It("writes and reads back an old-ASCII (odc) dialect entry", func() {
		var buf bytes.Buffer
		w := cpio.NewWriterOptions(&buf, cpio.WriterOptions{Format: cpio.FormatOldASCII})

		Expect(w.PutEntry(entry.Info{Name: "a", Size: 3, ModTime: time.Unix(1700000000, 0)})).To(Succeed())
		_, err := w.Write([]byte("abc"))
		Expect(err).ToNot(HaveOccurred())
		Expect(w.Close()).To(Succeed())

		r := cpio.NewReader(&buf)
		h, err := r.Next()
		Expect(err).ToNot(HaveOccurred())
		Expect(h.Name).To(Equal("a"))
		data, err := io.ReadAll(r)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(Equal("abc"))
	})

	It("validates the NEW_CRC checksum against a precomputed value", func() {
		var buf bytes.Buffer
		w := cpio.NewWriterOptions(&buf, cpio.WriterOptions{Format: cpio.FormatNewCRC})

		payload := []byte("crcme")
		var sum uint32
		for _, b := range payload {
			sum += uint32(b)
		}

		Expect(w.PutEntry(entry.Info{
			Name: "c", Size: int64(len(payload)), ModTime: time.Unix(1700000000, 0),
			Checksum: sum, HasChecksum: true,
		})).To(Succeed())
		_, err := w.Write(payload)
		Expect(err).ToNot(HaveOccurred())
		Expect(w.Close()).To(Succeed())

		r := cpio.NewReader(&buf)
		h, err := r.Next()
		Expect(err).ToNot(HaveOccurred())
		Expect(h.Name).To(Equal("c"))
		data, err := io.ReadAll(r)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(Equal("crcme"))
	})
})
