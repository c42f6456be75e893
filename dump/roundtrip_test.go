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

package dump_test

import (
	"bytes"
	"encoding/binary"
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/archive/dump"
)

const (
	testNfsMagic     = 60011
	testChecksumWant = 84446
	testRecordSize   = 1024

	testTsTape  = 1
	testTsInode = 2
	testTsEnd   = 5

	testModeDir = 0x4000
	testModeReg = 0x8000
)

// buildSpcl assembles one valid 1 KiB tape segment header, computing the
// checksum field so the 256-word sum lands on the sentinel value.
func buildSpcl(cType, inumber int32, mode, nlink uint16, size uint64, mtime, count int32, addr []byte) []byte {
	buf := make([]byte, testRecordSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(cType))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(inumber))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(testNfsMagic))
	binary.LittleEndian.PutUint16(buf[16:18], mode)
	binary.LittleEndian.PutUint16(buf[18:20], nlink)
	binary.LittleEndian.PutUint64(buf[20:28], size)
	binary.LittleEndian.PutUint32(buf[28:32], uint32(mtime))
	binary.LittleEndian.PutUint32(buf[32:36], uint32(count))
	copy(buf[36:], addr)

	var sum uint32
	for i := 0; i+4 <= testRecordSize; i += 4 {
		sum += binary.LittleEndian.Uint32(buf[i : i+4])
	}
	checksum := uint32(testChecksumWant) - sum
	binary.LittleEndian.PutUint32(buf[12:16], checksum)
	return buf
}

func dataBlock(fill byte) []byte {
	b := make([]byte, testRecordSize)
	for i := range b {
		b[i] = fill
	}
	return b
}

func buildMinimalTape() []byte {
	var out bytes.Buffer

	out.Write(buildSpcl(testTsTape, 0, 0, 0, 0, 0, 0, nil))

	// Regular file, inode 7, spans two blocks (1536 bytes, both stored).
	out.Write(buildSpcl(testTsInode, 7, testModeReg, 1, 1536, 111, 2, []byte{1, 1}))
	out.Write(dataBlock('A'))
	out.Write(dataBlock('B'))

	// Directory, inode 8, no data blocks.
	out.Write(buildSpcl(testTsInode, 8, testModeDir, 2, 0, 222, 0, nil))

	out.Write(buildSpcl(testTsEnd, 0, 0, 0, 0, 0, 0, nil))

	return out.Bytes()
}

var _ = Describe("Dump reader", func() {
	It("walks inode and directory segments and reconstructs payload", func() {
		r := dump.NewReader(bytes.NewReader(buildMinimalTape()))

		e, err := r.Next()
		Expect(err).ToNot(HaveOccurred())
		Expect(e).ToNot(BeNil())
		Expect(e.Inumber).To(Equal(int32(7)))
		Expect(e.Info.Size).To(Equal(int64(1536)))
		Expect(e.Info.IsDir).To(BeFalse())

		got, err := io.ReadAll(r)
		Expect(err).ToNot(HaveOccurred())
		Expect(len(got)).To(Equal(1536))
		Expect(got[:1024]).To(Equal(dataBlock('A')))
		Expect(got[1024:]).To(Equal(dataBlock('B')[:512]))

		d, err := r.Next()
		Expect(err).ToNot(HaveOccurred())
		Expect(d).ToNot(BeNil())
		Expect(d.Inumber).To(Equal(int32(8)))
		Expect(d.Info.IsDir).To(BeTrue())
		Expect(d.Info.Size).To(Equal(int64(0)))

		end, err := r.Next()
		Expect(err).ToNot(HaveOccurred())
		Expect(end).To(BeNil())
	})

	It("rejects a header with a corrupted checksum", func() {
		data := buildMinimalTape()
		data[testRecordSize+40] ^= 0xFF // corrupt a byte inside the first inode header

		r := dump.NewReader(bytes.NewReader(data))
		_, err := r.Next()
		Expect(err).ToNot(HaveOccurred()) // TS_TAPE header itself is untouched

		_, err = r.Next()
		Expect(err).To(HaveOccurred())
	})

	It("rejects a stream without the NFS magic", func() {
		r := dump.NewReader(bytes.NewReader(make([]byte, testRecordSize)))
		_, err := r.Next()
		Expect(err).To(HaveOccurred())
	})
})
