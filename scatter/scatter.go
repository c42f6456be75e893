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

// Package scatter is the parallel scatter/gather store: each concurrent
// entry writer obtains its own backing store (in-memory or file-backed),
// writes its payload independently, and a single-threaded gather phase
// replays every payload into the destination archive writer in the order
// add was called, not the order workers finished. Workers share no mutable
// state; the only coordination point is Store.Begin registering a worker's
// position in that order.
package scatter

import (
	"hash/crc32"
	"sync"

	"github.com/nabbar/archive/entry"
	"github.com/nabbar/archive/ioutils/fileDescriptor"
	"github.com/nabbar/archive/ioutils/multi"
)

// Destination is the write side a gather phase replays into: a format
// writer that fixes one entry's header and accepts its payload.
type Destination interface {
	PutEntry(info entry.Info) error
	Write(p []byte) (int, error)
}

type worker struct {
	info  entry.Info
	store BackingStore
}

// Store accumulates one backing store per Begin call, in call order.
// The zero value is not ready to use; build one with New.
type Store struct {
	mu      sync.Mutex
	workers []*worker
	fdRaise bool
}

// New returns an empty Store. raiseFdLimit, when true, asks the OS to raise
// the process's open-file-descriptor rlimit the first time a FileBacked
// store is requested, giving headroom for many concurrent file-backed
// workers before the OS itself refuses new file handles.
func New(raiseFdLimit bool) *Store {
	return &Store{fdRaise: raiseFdLimit}
}

// Begin opens a new backing store for one entry and records it at the next
// position in gather order. The caller writes to the returned BackingStore
// (directly, or from its own goroutine) and must call CloseForWriting
// exactly once before Gather is invoked.
func (s *Store) Begin(info entry.Info, backend Backend) (BackingStore, error) {
	if backend == FileBacked && s.fdRaise {
		// best-effort: a failure here just means Gather proceeds with
		// whatever descriptor headroom the process already had.
		_, _, _ = fileDescriptor.SystemFileDescriptor(256)
	}

	store, err := newBackingStore(backend)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.workers = append(s.workers, &worker{info: info, store: store})
	s.mu.Unlock()

	return store, nil
}

// Result reports what Gather actually replayed, in replay order.
type Result struct {
	Names     []string
	Checksums []uint32
}

// Gather replays every registered worker's payload into dst, in the order
// Begin was called, updating each entry's size from its backing store
// before the header is written (spec requires size to be known at
// put_entry time) and fanning the payload out to both dst and a running
// CRC-32 via ioutils/multi so a caller can cross-check the written bytes
// without a second pass over the destination. Every store is released
// (and, for FileBacked, its temp file unlinked) once replayed, even if a
// later worker's replay fails.
func (s *Store) Gather(dst Destination) (*Result, error) {
	if dst == nil {
		return nil, ErrorNilDestination.ErrorParent(nil)
	}

	res := &Result{}

	for _, w := range s.workers {
		info := w.info
		info.Size = w.store.Size()

		rc, err := w.store.InputStream()
		if err != nil {
			_ = w.store.Release()
			return nil, err
		}

		if err := dst.PutEntry(info); err != nil {
			_ = w.store.Release()
			return nil, err
		}

		sum := crc32.NewIEEE()
		m := multi.New()
		m.AddWriter(dst, sum)
		m.SetInput(rc)

		_, err = m.Copy()
		_ = w.store.Release()
		if err != nil {
			return nil, err
		}

		res.Names = append(res.Names, info.Name)
		res.Checksums = append(res.Checksums, sum.Sum32())
	}

	return res, nil
}
