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

type packInfo struct {
	packPos   int64
	packSizes []int64
}

type unpackInfo struct {
	folders          []entry.Folder
	folderHasCRC     []bool
	folderCRC        []uint32
	coderUnpackSizes [][]int64 // per folder, one size per output stream
}

type subStreamsInfo struct {
	numUnpackStreams []int
	sizes            [][]int64
	hasCRC           [][]bool
	crc              [][]uint32
}

type streamsInfo struct {
	pack    packInfo
	unpack  unpackInfo
	sub     subStreamsInfo
	hasSub  bool
}

// folderOutputSize returns the unpack size of a folder's single unbound
// output stream.
func (u unpackInfo) folderOutputSize(i int) (int64, error) {
	idx, err := u.folders[i].FinalOutputIndex()
	if err != nil {
		return 0, err
	}
	return u.coderUnpackSizes[i][idx], nil
}

func readPackInfo(r *bufio.Reader) (packInfo, error) {
	var p packInfo

	pos, err := readNumber(r)
	if err != nil {
		return p, err
	}
	p.packPos = int64(pos)

	numStreams, err := readNumberAsInt(r)
	if err != nil {
		return p, err
	}

	for {
		id, err := readByte(r)
		if err != nil {
			return p, err
		}
		switch id {
		case idSize:
			p.packSizes = make([]int64, numStreams)
			for i := 0; i < numStreams; i++ {
				v, err := readNumber(r)
				if err != nil {
					return p, err
				}
				p.packSizes[i] = int64(v)
			}
		case idCRC:
			if _, err := readDigests(r, numStreams); err != nil {
				return p, err
			}
		case idEnd:
			return p, nil
		default:
			return p, ErrorUnexpectedPropertyID.ErrorParent(nil)
		}
	}
}

// readDigests reads the CRC "Digests" structure: an AllAreDefined-style bit
// vector followed by one uint32 per defined entry.
func readDigests(r *bufio.Reader, n int) ([]uint32, error) {
	defined, err := readBoolVector2(r, n)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		if !defined[i] {
			continue
		}
		b, err := readFull(r, 4)
		if err != nil {
			return nil, err
		}
		out[i] = uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	}
	return out, nil
}

func readUnpackInfo(r *bufio.Reader) (unpackInfo, error) {
	var u unpackInfo

	id, err := readByte(r)
	if err != nil {
		return u, err
	}
	if id != idFolder {
		return u, ErrorUnexpectedPropertyID.ErrorParent(nil)
	}

	numFolders, err := readNumberAsInt(r)
	if err != nil {
		return u, err
	}
	external, err := readByte(r)
	if err != nil {
		return u, err
	}
	if external != 0 {
		return u, ErrorUnsupportedFeature.ErrorParent(nil)
	}

	u.folders = make([]entry.Folder, numFolders)
	for i := 0; i < numFolders; i++ {
		f, err := readFolder(r)
		if err != nil {
			return u, err
		}
		u.folders[i] = f
	}

	id, err = readByte(r)
	if err != nil {
		return u, err
	}
	if id != idCodersUnpackSize {
		return u, ErrorUnexpectedPropertyID.ErrorParent(nil)
	}

	u.coderUnpackSizes = make([][]int64, numFolders)
	for i := 0; i < numFolders; i++ {
		n := folderTotalOut(u.folders[i])
		sizes := make([]int64, n)
		for j := 0; j < n; j++ {
			v, err := readNumber(r)
			if err != nil {
				return u, err
			}
			sizes[j] = int64(v)
		}
		u.coderUnpackSizes[i] = sizes
	}

	u.folderHasCRC = make([]bool, numFolders)
	u.folderCRC = make([]uint32, numFolders)

	for {
		id, err := readByte(r)
		if err != nil {
			return u, err
		}
		switch id {
		case idCRC:
			defined, err := readBoolVector2(r, numFolders)
			if err != nil {
				return u, err
			}
			for i := 0; i < numFolders; i++ {
				if !defined[i] {
					continue
				}
				b, err := readFull(r, 4)
				if err != nil {
					return u, err
				}
				u.folderHasCRC[i] = true
				u.folderCRC[i] = uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
			}
		case idEnd:
			return u, nil
		default:
			return u, ErrorUnexpectedPropertyID.ErrorParent(nil)
		}
	}
}

func readSubStreamsInfo(r *bufio.Reader, u unpackInfo) (subStreamsInfo, error) {
	var s subStreamsInfo
	numFolders := len(u.folders)

	s.numUnpackStreams = make([]int, numFolders)
	for i := range s.numUnpackStreams {
		s.numUnpackStreams[i] = 1
	}

	id, err := readByte(r)
	if err != nil {
		return s, err
	}

	if id == idNumUnpackStream {
		for i := 0; i < numFolders; i++ {
			n, err := readNumberAsInt(r)
			if err != nil {
				return s, err
			}
			s.numUnpackStreams[i] = n
		}
		id, err = readByte(r)
		if err != nil {
			return s, err
		}
	}

	s.sizes = make([][]int64, numFolders)
	for i := 0; i < numFolders; i++ {
		n := s.numUnpackStreams[i]
		if n == 0 {
			continue
		}
		sizes := make([]int64, n)
		if n == 1 {
			total, err := u.folderOutputSize(i)
			if err != nil {
				return s, err
			}
			sizes[0] = total
			s.sizes[i] = sizes
			continue
		}

		var sum int64
		for j := 0; j < n-1; j++ {
			if id != idSize {
				return s, ErrorUnexpectedPropertyID.ErrorParent(nil)
			}
			v, err := readNumber(r)
			if err != nil {
				return s, err
			}
			sizes[j] = int64(v)
			sum += int64(v)
		}
		total, err := u.folderOutputSize(i)
		if err != nil {
			return s, err
		}
		sizes[n-1] = total - sum
		s.sizes[i] = sizes
	}
	if id == idSize {
		id, err = readByte(r)
		if err != nil {
			return s, err
		}
	}

	// number of substreams lacking a known CRC: folders whose folder-level
	// CRC already covers their single substream don't need one here.
	numDigestsNeeded := 0
	for i := 0; i < numFolders; i++ {
		if s.numUnpackStreams[i] == 1 && u.folderHasCRC[i] {
			continue
		}
		numDigestsNeeded += s.numUnpackStreams[i]
	}

	s.hasCRC = make([][]bool, numFolders)
	s.crc = make([][]uint32, numFolders)
	for i := range s.hasCRC {
		s.hasCRC[i] = make([]bool, s.numUnpackStreams[i])
		s.crc[i] = make([]uint32, s.numUnpackStreams[i])
		if s.numUnpackStreams[i] == 1 && u.folderHasCRC[i] {
			s.hasCRC[i][0] = true
			s.crc[i][0] = u.folderCRC[i]
		}
	}

	if id == idCRC {
		defined, err := readBoolVector2(r, numDigestsNeeded)
		if err != nil {
			return s, err
		}
		digests := make([]uint32, numDigestsNeeded)
		for i, d := range defined {
			if !d {
				continue
			}
			b, err := readFull(r, 4)
			if err != nil {
				return s, err
			}
			digests[i] = uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
		}

		k := 0
		for i := 0; i < numFolders; i++ {
			if s.numUnpackStreams[i] == 1 && u.folderHasCRC[i] {
				continue
			}
			for j := 0; j < s.numUnpackStreams[i]; j++ {
				s.hasCRC[i][j] = defined[k]
				s.crc[i][j] = digests[k]
				k++
			}
		}

		id, err = readByte(r)
		if err != nil {
			return s, err
		}
	}

	if id != idEnd {
		return s, ErrorUnexpectedPropertyID.ErrorParent(nil)
	}
	return s, nil
}

func readStreamsInfo(r *bufio.Reader) (streamsInfo, error) {
	var si streamsInfo

	id, err := readByte(r)
	if err != nil {
		return si, err
	}

	if id == idPackInfo {
		si.pack, err = readPackInfo(r)
		if err != nil {
			return si, err
		}
		id, err = readByte(r)
		if err != nil {
			return si, err
		}
	}

	if id == idUnpackInfo {
		si.unpack, err = readUnpackInfo(r)
		if err != nil {
			return si, err
		}
		id, err = readByte(r)
		if err != nil {
			return si, err
		}
	}

	if id == idSubStreamsInfo {
		si.sub, err = readSubStreamsInfo(r, si.unpack)
		if err != nil {
			return si, err
		}
		si.hasSub = true
		id, err = readByte(r)
		if err != nil {
			return si, err
		}
	} else {
		// no SubStreamsInfo: each folder is exactly one substream.
		si.sub.numUnpackStreams = make([]int, len(si.unpack.folders))
		si.sub.sizes = make([][]int64, len(si.unpack.folders))
		si.sub.hasCRC = make([][]bool, len(si.unpack.folders))
		si.sub.crc = make([][]uint32, len(si.unpack.folders))
		for i := range si.unpack.folders {
			si.sub.numUnpackStreams[i] = 1
			total, err := si.unpack.folderOutputSize(i)
			if err != nil {
				return si, err
			}
			si.sub.sizes[i] = []int64{total}
			si.sub.hasCRC[i] = []bool{si.unpack.folderHasCRC[i]}
			si.sub.crc[i] = []uint32{si.unpack.folderCRC[i]}
		}
	}

	if id != idEnd {
		return si, ErrorUnexpectedPropertyID.ErrorParent(nil)
	}
	return si, nil
}
