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

package tar

import (
	"sort"
	"strconv"
	"strings"
)

// parsePaxRecords decodes a pax extended-header payload: a sequence of
// "len key=value\n" records where len is the decimal length of the whole
// record, itself included.
func parsePaxRecords(b []byte) (map[string]string, error) {
	out := make(map[string]string)

	for len(b) > 0 {
		sp := indexByte(b, ' ')
		if sp < 0 {
			return nil, ErrorInvalidPaxRecord.ErrorParent(nil)
		}

		n, err := strconv.Atoi(string(b[:sp]))
		if err != nil || n <= sp || n > len(b) {
			return nil, ErrorInvalidPaxRecord.ErrorParent(err)
		}

		record := b[sp+1 : n]
		if len(record) == 0 || record[len(record)-1] != '\n' {
			return nil, ErrorInvalidPaxRecord.ErrorParent(nil)
		}
		record = record[:len(record)-1]

		eq := indexByte(record, '=')
		if eq < 0 {
			return nil, ErrorInvalidPaxRecord.ErrorParent(nil)
		}

		out[string(record[:eq])] = string(record[eq+1:])
		b = b[n:]
	}

	return out, nil
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// formatPaxRecord encodes a single "len key=value\n" record, where len is
// the smallest integer such that len(strconv.Itoa(len)) + 1 + len(key) + 1 +
// len(value) + 1 == len, resolved by fixed-point iteration since the
// length's own digit count can push it across a power-of-ten boundary.
func formatPaxRecord(key, value string) string {
	base := 1 + len(key) + 1 + len(value) + 1 // space + "key=value\n"
	n := base + len(strconv.Itoa(base))
	for {
		width := len(strconv.Itoa(n))
		candidate := width + base
		if candidate == n {
			break
		}
		n = candidate
	}
	return strconv.Itoa(n) + " " + key + "=" + value + "\n"
}

// formatPaxRecords concatenates the pax records for the given key/value map
// in a stable (sorted) order, so writer output is deterministic.
func formatPaxRecords(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(formatPaxRecord(k, m[k]))
	}
	return sb.String()
}

const (
	paxPath     = "path"
	paxLinkpath = "linkpath"
	paxSize     = "size"
	paxUID      = "uid"
	paxGID      = "gid"
	paxUname    = "uname"
	paxGname    = "gname"
	paxMtime    = "mtime"
)
