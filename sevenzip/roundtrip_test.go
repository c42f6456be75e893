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

package sevenzip_test

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/archive/sevenzip"
)

// buildMinimalArchive hand-assembles a one-file, Copy-coded (uncompressed)
// 7z archive: a single folder with a single Copy coder, no bind pairs, no
// SubStreamsInfo (so the folder's one substream equals its one file), and a
// FilesInfo carrying just a name. This exercises the signature/start-header
// CRC checks, streams-info/folder parsing, and file/substream association
// without needing a compressed payload.
func buildMinimalArchive(name string, payload []byte) []byte {
	header := []byte{
		0x01,       // kHeader
		0x04,       // kMainStreamsInfo
		0x06,       // kPackInfo
		0x00,       // PackPos = 0
		0x01,       // NumPackStreams = 1
		0x09,       // kSize
		byte(len(payload)),
		0x00, // kEnd (PackInfo)
		0x07, // kUnpackInfo
		0x0B, // kFolder
		0x01, // NumFolders = 1
		0x00, // External = 0
		0x01, // NumCoders = 1
		0x01, // flags: IDSize=1
		0x00, // CodecId = Copy
		0x0C, // kCodersUnpackSize
		byte(len(payload)),
		0x00, // kEnd (UnpackInfo)
		0x00, // kEnd (StreamsInfo)
		0x05, // kFilesInfo
		0x01, // NumFiles = 1
	}
	header = append(header, nameProperty(name)...)
	header = append(header, 0x00) // kEnd (FilesInfo)
	header = append(header, 0x00) // kEnd (Header)

	sigHeader := make([]byte, 32)
	copy(sigHeader[0:6], []byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C})
	sigHeader[6] = 0
	sigHeader[7] = 4

	startHeader := make([]byte, 20)
	binary.LittleEndian.PutUint64(startHeader[0:8], uint64(len(payload)))
	binary.LittleEndian.PutUint64(startHeader[8:16], uint64(len(header)))
	binary.LittleEndian.PutUint32(startHeader[16:20], crc32.ChecksumIEEE(header))
	binary.LittleEndian.PutUint32(sigHeader[8:12], crc32.ChecksumIEEE(startHeader))
	copy(sigHeader[12:32], startHeader)

	out := append([]byte{}, sigHeader...)
	out = append(out, payload...)
	out = append(out, header...)
	return out
}

func nameProperty(name string) []byte {
	var body bytes.Buffer
	body.WriteByte(0) // external = 0
	for _, r := range name {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(r))
		body.Write(b[:])
	}
	body.Write([]byte{0x00, 0x00})

	out := []byte{0x11, byte(body.Len())} // kName, size
	out = append(out, body.Bytes()...)
	return out
}

var _ = Describe("SevenZip reader", func() {
	It("parses the signature header and lists a Copy-coded entry", func() {
		data := buildMinimalArchive("a.txt", []byte("hello world"))

		r, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
		Expect(err).ToNot(HaveOccurred())

		entries := r.Entries()
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Info.Name).To(Equal("a.txt"))
		Expect(entries[0].Info.Size).To(Equal(int64(11)))

		rc, err := r.Open(entries[0])
		Expect(err).ToNot(HaveOccurred())
		defer rc.Close()

		got, err := io.ReadAll(rc)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(got)).To(Equal("hello world"))
	})

	It("rejects a stream with a corrupted start header CRC", func() {
		data := buildMinimalArchive("a.txt", []byte("hello world"))
		data[8] ^= 0xFF // flip a byte inside StartHeaderCRC

		_, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
		Expect(err).To(HaveOccurred())
	})

	It("rejects a stream missing the 7z signature", func() {
		data := make([]byte, 32)
		_, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
		Expect(err).To(HaveOccurred())
	})
})
