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
	"io"
	"time"

	"github.com/nabbar/archive/entry"
)

// state is the streaming reader's state machine, matched one-to-one against
// the contract every format package in this module follows: Next is legal
// from Init/HaveHeader/BetweenEntries/Ended, Read only from InPayload, and
// Failed is terminal.
type state uint8

const (
	stateInit state = iota
	stateHaveHeader
	stateInPayload
	stateBetweenEntries
	stateEnded
	stateFailed
)

// Reader is a forward-only tar stream reader covering v7, ustar, pax, and
// GNU long-name/long-link/old-sparse dialects.
type Reader struct {
	r   io.Reader
	st  state
	cur entry.Info
	tx  entry.TarExtra

	remaining int64 // payload bytes not yet read
	padding   int64 // NUL padding bytes left after the payload

	pendingLongName string
	pendingLongLink string
	pendingPax      map[string]string

	sparse      []entry.Sparse
	sparseIndex int
	sparseAt    int64 // logical offset into the sparse-expanded payload
}

// NewReader wraps r as a streaming tar reader. r is not closed by the
// reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, st: stateInit}
}

func (z *Reader) fail(err error) error {
	z.st = stateFailed
	return err
}

func (z *Reader) readBlock() ([blockSize]byte, bool, error) {
	var b [blockSize]byte
	n, err := io.ReadFull(z.r, b[:])
	if err == io.EOF && n == 0 {
		return b, true, nil
	}
	if err != nil {
		return b, false, ErrorTruncated.ErrorParent(err)
	}
	return b, false, nil
}

// Next advances to the next entry header, discarding any unread payload and
// padding from the current entry. It returns (nil, nil) at a clean end of
// archive (two consecutive zero blocks).
func (z *Reader) Next() (*entry.Info, error) {
	switch z.st {
	case stateFailed:
		return nil, ErrorClosed.ErrorParent(nil)
	case stateEnded:
		return nil, nil
	case stateInPayload, stateHaveHeader:
		if err := z.skipRemaining(); err != nil {
			return nil, z.fail(err)
		}
	}

	for {
		b, eof, err := z.readBlock()
		if err != nil {
			return nil, z.fail(err)
		}
		if eof || isZeroBlock(b) {
			// a lone zero block at true EOF is tolerated; a second
			// confirms the canonical two-zero-block terminator.
			b2, eof2, err2 := z.readBlock()
			if err2 != nil {
				return nil, z.fail(err2)
			}
			if eof || eof2 || isZeroBlock(b2) {
				z.st = stateEnded
				return nil, nil
			}
			// non-conforming archive: treat b2 as the real header.
			b = b2
		}

		h, err := parseRawHeader(b)
		if err != nil {
			return nil, z.fail(err)
		}

		switch h.Typeflag {
		case entry.TypeGNULongName, entry.TypeGNULongLink:
			payload, err := z.readFullPayload(h.Size)
			if err != nil {
				return nil, z.fail(err)
			}
			name := cstr(payload)
			if h.Typeflag == entry.TypeGNULongName {
				z.pendingLongName = name
			} else {
				z.pendingLongLink = name
			}
			continue

		case entry.TypePaxLocalHdr, entry.TypePaxGlobalHdr:
			payload, err := z.readFullPayload(h.Size)
			if err != nil {
				return nil, z.fail(err)
			}
			records, err := parsePaxRecords(payload)
			if err != nil {
				return nil, z.fail(err)
			}
			if z.pendingPax == nil {
				z.pendingPax = make(map[string]string)
			}
			for k, v := range records {
				z.pendingPax[k] = v
			}
			continue
		}

		z.applyOverrides(&h)

		z.cur = entry.Info{
			Name:    h.Name,
			Size:    h.Size,
			IsDir:   h.Typeflag == entry.TypeDirectory || (len(h.Name) > 0 && h.Name[len(h.Name)-1] == '/'),
			ModTime: time.Unix(h.Mtime, 0).UTC(),
			Mode:    uint32(h.Mode),
			HasMode: true,
			UID:     int(h.UID),
			GID:     int(h.GID),
			HasOwner: true,
		}
		z.tx = entry.TarExtra{
			TypeFlag:  h.Typeflag,
			LinkName:  h.Linkname,
			DevMajor:  h.DevMajor,
			DevMinor:  h.DevMinor,
			Sparse:    h.gnuSparse,
			PaxRecord: z.pendingPax,
		}

		if h.Typeflag == entry.TypeGNUSparse {
			if err := z.readGNUSparseExtensions(&h); err != nil {
				return nil, z.fail(err)
			}
			z.tx.Sparse = h.gnuSparse
			z.cur.Size = h.gnuRealSize
		}

		z.pendingLongName = ""
		z.pendingLongLink = ""
		z.pendingPax = nil

		z.sparse = z.tx.Sparse
		z.sparseIndex = 0
		z.sparseAt = 0
		z.remaining = h.Size
		z.padding = paddingFor(h.Size)
		z.st = stateHaveHeader

		info := z.cur
		return &info, nil
	}
}

// Extra returns the TAR-specific fields of the entry most recently returned
// by Next.
func (z *Reader) Extra() entry.TarExtra {
	return z.tx
}

func paddingFor(size int64) int64 {
	rem := size % blockSize
	if rem == 0 {
		return 0
	}
	return blockSize - rem
}

func (z *Reader) applyOverrides(h *rawHeader) {
	if z.pendingLongName != "" {
		h.Name = z.pendingLongName
	}
	if z.pendingLongLink != "" {
		h.Linkname = z.pendingLongLink
	}
	if z.pendingPax != nil {
		if v, ok := z.pendingPax[paxPath]; ok {
			h.Name = v
		}
		if v, ok := z.pendingPax[paxLinkpath]; ok {
			h.Linkname = v
		}
		if v, ok := z.pendingPax[paxSize]; ok {
			if n, err := parsePaxInt(v); err == nil {
				h.Size = n
			}
		}
		if v, ok := z.pendingPax[paxUID]; ok {
			if n, err := parsePaxInt(v); err == nil {
				h.UID = n
			}
		}
		if v, ok := z.pendingPax[paxGID]; ok {
			if n, err := parsePaxInt(v); err == nil {
				h.GID = n
			}
		}
		if v, ok := z.pendingPax[paxMtime]; ok {
			if n, err := parsePaxFloat(v); err == nil {
				h.Mtime = n
			}
		}
	}
}

func parsePaxInt(s string) (int64, error) {
	var n int64
	var neg bool
	for i, c := range s {
		if i == 0 && c == '-' {
			neg = true
			continue
		}
		if c < '0' || c > '9' {
			return 0, ErrorInvalidPaxRecord.ErrorParent(nil)
		}
		n = n*10 + int64(c-'0')
	}
	if neg {
		n = -n
	}
	return n, nil
}

func parsePaxFloat(s string) (int64, error) {
	for i, c := range s {
		if c == '.' {
			return parsePaxInt(s[:i])
		}
	}
	return parsePaxInt(s)
}

// readFullPayload consumes exactly size bytes plus padding, used for the
// GNU long-name/long-link and pax header payloads which precede the real
// entry header and are always read to completion.
func (z *Reader) readFullPayload(size int64) ([]byte, error) {
	buf := make([]byte, size)
	if _, err := io.ReadFull(z.r, buf); err != nil {
		return nil, ErrorTruncated.ErrorParent(err)
	}
	if pad := paddingFor(size); pad > 0 {
		if _, err := io.CopyN(io.Discard, z.r, pad); err != nil {
			return nil, ErrorTruncated.ErrorParent(err)
		}
	}
	return buf, nil
}

func (z *Reader) readGNUSparseExtensions(h *rawHeader) error {
	isExtended := h.gnuIsExtended
	for isExtended {
		b, _, err := z.readBlock()
		if err != nil {
			return err
		}
		slots, more := parseGNUSparseExtension(b)
		h.gnuSparse = append(h.gnuSparse, slots...)
		isExtended = more
	}
	return nil
}

func (z *Reader) skipRemaining() error {
	if z.remaining > 0 {
		if _, err := io.CopyN(io.Discard, z.r, z.remaining); err != nil {
			return ErrorTruncated.ErrorParent(err)
		}
		z.remaining = 0
	}
	if z.padding > 0 {
		if _, err := io.CopyN(io.Discard, z.r, z.padding); err != nil {
			return ErrorTruncated.ErrorParent(err)
		}
		z.padding = 0
	}
	z.st = stateBetweenEntries
	return nil
}

// Read streams the current entry's payload. When the entry carries a GNU
// sparse map, holes are synthesized as zero bytes so callers always see the
// entry's logical (expanded) size.
func (z *Reader) Read(p []byte) (int, error) {
	switch z.st {
	case stateHaveHeader:
		z.st = stateInPayload
	case stateInPayload:
	default:
		return 0, ErrorNotInPayload.ErrorParent(nil)
	}

	if len(z.sparse) > 0 {
		return z.readSparse(p)
	}

	if z.remaining == 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > z.remaining {
		p = p[:z.remaining]
	}
	n, err := z.r.Read(p)
	z.remaining -= int64(n)
	if z.remaining == 0 && err == nil {
		err = io.EOF
	}
	if err != nil && err != io.EOF {
		return n, z.fail(ErrorTruncated.ErrorParent(err))
	}
	return n, err
}

// readSparse expands the GNU sparse map on the fly: data segments are read
// from the underlying stream in order, and the gaps between them (and
// before/after) are synthesized as zero bytes, so Read always reflects the
// entry's logical, pre-sparse size.
func (z *Reader) readSparse(p []byte) (int, error) {
	if z.sparseAt >= z.cur.Size {
		return 0, io.EOF
	}

	var next entry.Sparse
	if z.sparseIndex < len(z.sparse) {
		next = z.sparse[z.sparseIndex]
	} else {
		next = entry.Sparse{Offset: z.cur.Size, Length: 0}
	}

	if z.sparseAt < next.Offset {
		n := next.Offset - z.sparseAt
		if int64(len(p)) > n {
			p = p[:n]
		}
		for i := range p {
			p[i] = 0
		}
		z.sparseAt += int64(len(p))
		return len(p), nil
	}

	want := next.Offset + next.Length - z.sparseAt
	if want <= 0 {
		z.sparseIndex++
		return z.readSparse(p)
	}
	if int64(len(p)) > want {
		p = p[:want]
	}
	if int64(len(p)) > z.remaining {
		p = p[:z.remaining]
	}
	n, err := z.r.Read(p)
	z.sparseAt += int64(n)
	z.remaining -= int64(n)
	if err != nil && err != io.EOF {
		return n, z.fail(ErrorTruncated.ErrorParent(err))
	}
	return n, nil
}
