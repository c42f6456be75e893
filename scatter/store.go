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

package scatter

import (
	"bytes"
	"io"
	"os"

	"github.com/nabbar/archive/ioutils"
	"github.com/nabbar/archive/ioutils/bufferReadCloser"
	"github.com/nabbar/archive/ioutils/nopwritecloser"
)

// Backend selects where a BackingStore holds its payload before gather.
type Backend uint8

const (
	// InMemory holds the payload in a bytes.Buffer; cheapest for small
	// entries, but every concurrent writer using it holds its bytes in
	// process memory until gathered.
	InMemory Backend = iota
	// FileBacked spills the payload to a temp file, so many concurrent
	// writers can run without holding their combined output in memory at
	// once; the temp file is unlinked when the store is released.
	FileBacked
)

// BackingStore is the per-worker accumulator a scatter writer obtains: write
// sequentially via Write, call CloseForWriting exactly once when done, after
// which InputStream is legal. The returned io.ReadCloser is owned by the
// store; a caller reads from it but Release, not the reader's own Close, is
// what actually frees the store's resources (for FileBacked, this deletes
// the temp file).
type BackingStore interface {
	io.Writer
	CloseForWriting() error
	InputStream() (io.ReadCloser, error)
	Size() int64
	Release() error
}

func newBackingStore(backend Backend) (BackingStore, error) {
	if backend == FileBacked {
		f, e := ioutils.NewTempFile()
		if e != nil {
			return nil, ErrorBackingStoreCreate.ErrorParent(e)
		}
		return &fileStore{f: f}, nil
	}
	return newMemStore(), nil
}

type memStore struct {
	buf    *bytes.Buffer
	w      io.WriteCloser
	closed bool
}

func newMemStore() *memStore {
	buf := &bytes.Buffer{}
	return &memStore{buf: buf, w: nopwritecloser.New(buf)}
}

func (m *memStore) Write(p []byte) (int, error) {
	if m.closed {
		return 0, ErrorAlreadyClosedForWriting.ErrorParent(nil)
	}
	return m.w.Write(p)
}

func (m *memStore) CloseForWriting() error {
	m.closed = true
	return m.w.Close()
}

func (m *memStore) Size() int64 {
	return int64(m.buf.Len())
}

func (m *memStore) InputStream() (io.ReadCloser, error) {
	if !m.closed {
		return nil, ErrorNotClosedForWriting.ErrorParent(nil)
	}
	return bufferReadCloser.New(m.buf), nil
}

func (m *memStore) Release() error {
	m.buf.Reset()
	return nil
}

type fileStore struct {
	f      *os.File
	closed bool
}

func (s *fileStore) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrorAlreadyClosedForWriting.ErrorParent(nil)
	}
	return s.f.Write(p)
}

func (s *fileStore) CloseForWriting() error {
	s.closed = true
	_, err := s.f.Seek(0, io.SeekStart)
	return err
}

func (s *fileStore) Size() int64 {
	i, err := s.f.Stat()
	if err != nil {
		return 0
	}
	return i.Size()
}

func (s *fileStore) InputStream() (io.ReadCloser, error) {
	if !s.closed {
		return nil, ErrorNotClosedForWriting.ErrorParent(nil)
	}
	return s.f, nil
}

func (s *fileStore) Release() error {
	return ioutils.DelTempFile(s.f)
}
