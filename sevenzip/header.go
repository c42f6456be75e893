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
	"bytes"
	"time"
	"unicode/utf16"
)

// fileRecord is one entry from FilesInfo, still unresolved against its
// folder's decoded substreams.
type fileRecord struct {
	name        string
	isDir       bool
	isEmptyFile bool
	hasStream   bool
	mtime       time.Time
	hasMTime    bool
	attributes  uint32
	hasAttrs    bool
}

type parsedHeader struct {
	streams streamsInfo
	files   []fileRecord
}

func readHeader(r *bufio.Reader) (parsedHeader, error) {
	var h parsedHeader

	id, err := readByte(r)
	if err != nil {
		return h, err
	}

	switch id {
	case idArchiveProperties:
		if err := skipArchiveProperties(r); err != nil {
			return h, err
		}
		id, err = readByte(r)
		if err != nil {
			return h, err
		}
	}

	if id == idAdditionalStreams {
		if _, err := readStreamsInfo(r); err != nil {
			return h, err
		}
		id, err = readByte(r)
		if err != nil {
			return h, err
		}
	}

	if id == idMainStreamsInfo {
		h.streams, err = readStreamsInfo(r)
		if err != nil {
			return h, err
		}
		id, err = readByte(r)
		if err != nil {
			return h, err
		}
	}

	if id == idFilesInfo {
		h.files, err = readFilesInfo(r)
		if err != nil {
			return h, err
		}
		id, err = readByte(r)
		if err != nil {
			return h, err
		}
	}

	if id != idEnd {
		return h, ErrorUnexpectedPropertyID.ErrorParent(nil)
	}
	return h, nil
}

func skipArchiveProperties(r *bufio.Reader) error {
	for {
		id, err := readByte(r)
		if err != nil {
			return err
		}
		if id == idEnd {
			return nil
		}
		size, err := readNumberAsInt(r)
		if err != nil {
			return err
		}
		if _, err := readFull(r, size); err != nil {
			return err
		}
	}
}

func readFilesInfo(r *bufio.Reader) ([]fileRecord, error) {
	numFiles, err := readNumberAsInt(r)
	if err != nil {
		return nil, err
	}

	files := make([]fileRecord, numFiles)
	for i := range files {
		files[i].hasStream = true
	}

	var emptyStream []bool
	numEmptyStreams := 0

	for {
		id, err := readByte(r)
		if err != nil {
			return nil, err
		}
		if id == idEnd {
			break
		}
		size, err := readNumberAsInt(r)
		if err != nil {
			return nil, err
		}
		body, err := readFull(r, size)
		if err != nil {
			return nil, err
		}
		br := bufio.NewReader(bytes.NewReader(body))

		switch id {
		case idEmptyStream:
			emptyStream, err = readBoolVector(br, numFiles)
			if err != nil {
				return nil, err
			}
			for i, empty := range emptyStream {
				files[i].hasStream = !empty
				if empty {
					numEmptyStreams++
				}
			}

		case idEmptyFile:
			emptyFile, err := readBoolVector(br, numEmptyStreams)
			if err != nil {
				return nil, err
			}
			k := 0
			for i, empty := range emptyStream {
				if !empty {
					continue
				}
				if emptyFile[k] {
					files[i].isEmptyFile = true
				} else {
					files[i].isDir = true
				}
				k++
			}

		case idName:
			if err := parseNames(br, files); err != nil {
				return nil, err
			}

		case idWinAttributes:
			defined, err := readBoolVector2(br, numFiles)
			if err != nil {
				return nil, err
			}
			for i := range files {
				if !defined[i] {
					continue
				}
				b, err := readFull(br, 4)
				if err != nil {
					return nil, err
				}
				files[i].attributes = uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
				files[i].hasAttrs = true
			}

		case idMTime:
			defined, err := readBoolVector2(br, numFiles)
			if err != nil {
				return nil, err
			}
			for i := range files {
				if !defined[i] {
					continue
				}
				b, err := readFull(br, 8)
				if err != nil {
					return nil, err
				}
				files[i].mtime = filetimeToTime(b)
				files[i].hasMTime = true
			}

		default:
			// kCTime, kATime, kDummy, kStartPos, and anything unrecognized:
			// the bounded body buffer already consumed exactly `size` bytes.
		}
	}

	return files, nil
}

// parseNames reads NUL-terminated UTF-16LE names for every file, in order,
// from the (already size-bounded) body reader.
func parseNames(br *bufio.Reader, files []fileRecord) error {
	external, err := readByte(br)
	if err != nil {
		return err
	}
	if external != 0 {
		return ErrorUnsupportedFeature.ErrorParent(nil)
	}

	for i := range files {
		var units []uint16
		for {
			lo, err := readByte(br)
			if err != nil {
				return err
			}
			hi, err := readByte(br)
			if err != nil {
				return err
			}
			u := uint16(lo) | uint16(hi)<<8
			if u == 0 {
				break
			}
			units = append(units, u)
		}
		files[i].name = string(utf16.Decode(units))
	}
	return nil
}

// filetimeToTime converts a Windows FILETIME (100ns ticks since 1601-01-01)
// to a time.Time.
func filetimeToTime(b []byte) time.Time {
	ticks := uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
	const epochDiff = 116444736000000000 // 1601-01-01 to 1970-01-01, in 100ns ticks
	if ticks < epochDiff {
		return time.Unix(0, 0).UTC()
	}
	unixNano := (ticks - epochDiff) * 100
	return time.Unix(0, int64(unixNano)).UTC()
}
