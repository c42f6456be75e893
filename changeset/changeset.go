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

// Package changeset rewrites one archive into another of the same format
// class without a full extract/repack round trip: entries can be deleted by
// exact path or by directory prefix, and new entries can be added either as
// a replacement for (or a supplement to) whatever the source stream already
// holds. Apply walks the source exactly once, in three phases, so the
// destination never sees the same name twice.
package changeset

import (
	"io"
	"strings"

	"github.com/nabbar/archive/entry"
	"github.com/nabbar/archive/ioutils"
	"github.com/nabbar/archive/ioutils/bufferReadCloser"
)

// Strategy selects how an Add()'d payload is staged before Apply replays
// it, mirroring the pack200 bridge's InMemory/TempFile split: small
// additions are cheapest to hold in a buffer, large ones are better spilled
// to disk so Apply never has to hold every pending Add in memory at once.
type Strategy uint8

const (
	InMemory Strategy = iota
	TempFile
)

// Source is the read side of a rewrite: a format reader that advances entry
// by entry and streams the current entry's payload through Read.
type Source interface {
	io.Reader
	// Next advances to the next entry, returning (nil, nil) at end of
	// archive. Any unread payload of the previous entry must already have
	// been consumed or will be silently skipped by the next Next call,
	// exactly as ar/cpio/arj/dump/lha readers behave.
	Next() (*entry.Info, error)
}

// Destination is the write side: a format writer that fixes one entry's
// header and accepts its payload through Write. Callers are responsible
// for the archive-level Close once Apply returns.
type Destination interface {
	io.Writer
	PutEntry(info entry.Info) error
}

// entryCloser is implemented by writers (ZIP) that need an explicit
// per-entry finalization; ar/cpio/TAR-style writers close the previous
// entry implicitly on the next PutEntry (or on the final archive Close)
// and simply don't implement it.
type entryCloser interface {
	CloseEntry() error
}

func closeEntry(dst Destination) error {
	if ec, ok := dst.(entryCloser); ok {
		return ec.CloseEntry()
	}
	return nil
}

type stagedAdd struct {
	info    entry.Info
	replace bool
	data    io.Reader
	cleanup func() error
}

// ChangeSet accumulates deletes and adds to apply to a source archive in a
// single pass. Build one with New.
type ChangeSet struct {
	deletes    map[string]struct{}
	deleteDirs map[string]struct{}
	adds       []*stagedAdd
}

// New returns an empty ChangeSet.
func New() *ChangeSet {
	return &ChangeSet{
		deletes:    make(map[string]struct{}),
		deleteDirs: make(map[string]struct{}),
	}
}

// Delete removes the single entry at path.
func (c *ChangeSet) Delete(path string) error {
	if path == "" {
		return ErrorEmptyName.ErrorParent(nil)
	}
	c.deletes[path] = struct{}{}
	return nil
}

// DeleteDir removes path and every entry nested under it.
func (c *ChangeSet) DeleteDir(path string) error {
	if path == "" {
		return ErrorEmptyName.ErrorParent(nil)
	}
	c.deleteDirs[strings.TrimSuffix(path, "/")] = struct{}{}
	return nil
}

// Add stages data as a new entry named by info.Name. When replace is true
// the entry supersedes any source entry of the same name (phase 1); when
// false it is only emitted if the source stream never supplies that name
// (phase 3). data is fully staged (and info.Size recomputed from what was
// actually read) before Add returns, under the given Strategy.
func (c *ChangeSet) Add(info entry.Info, data io.Reader, replace bool, strategy Strategy) error {
	if info.Name == "" {
		return ErrorEmptyName.ErrorParent(nil)
	}

	staged, err := stage(info, data, strategy)
	if err != nil {
		return err
	}
	staged.replace = replace
	c.adds = append(c.adds, staged)
	return nil
}

func stage(info entry.Info, r io.Reader, strategy Strategy) (*stagedAdd, error) {
	if strategy == TempFile {
		f, e := ioutils.NewTempFile()
		if e != nil {
			return nil, ErrorStageFailed.ErrorParent(e)
		}
		n, err := io.Copy(f, r)
		if err != nil {
			_ = ioutils.DelTempFile(f)
			return nil, ErrorStageFailed.ErrorParent(err)
		}
		if _, err = f.Seek(0, io.SeekStart); err != nil {
			_ = ioutils.DelTempFile(f)
			return nil, ErrorStageFailed.ErrorParent(err)
		}
		info.Size = n
		return &stagedAdd{
			info: info,
			data: f,
			cleanup: func() error {
				return ioutils.DelTempFile(f)
			},
		}, nil
	}

	buf := bufferReadCloser.New(nil)
	n, err := buf.ReadFrom(r)
	if err != nil {
		return nil, ErrorStageFailed.ErrorParent(err)
	}
	info.Size = n
	return &stagedAdd{info: info, data: buf, cleanup: buf.Close}, nil
}

// isDeleted reports whether name is removed by an exact Delete or falls
// under a DeleteDir'd prefix.
func (c *ChangeSet) isDeleted(name string) bool {
	if _, ok := c.deletes[name]; ok {
		return true
	}
	for dir := range c.deleteDirs {
		if name == dir || strings.HasPrefix(name, dir+"/") {
			return true
		}
	}
	return false
}

// Result reports what Apply actually did, by entry name.
type Result struct {
	AddedFromChangeSet []string
	AddedFromStream    []string
	Deleted            []string
}

// Apply executes the three-phase rewrite: every replace Add first, then the
// source stream (dropping deleted or already-superseded entries), then
// every non-replace Add not already supplied by the source. No name is ever
// written to dst twice. Staged Add payloads are released as they are
// consumed; any not consumed (e.g. because Apply returns early on error)
// are released before Apply returns.
func Apply(cs *ChangeSet, src Source, dst Destination) (*Result, error) {
	if src == nil {
		return nil, ErrorNilSource.ErrorParent(nil)
	}
	if dst == nil {
		return nil, ErrorNilDestination.ErrorParent(nil)
	}

	res := &Result{}
	written := make(map[string]bool)

	defer func() {
		for _, a := range cs.adds {
			if a.cleanup != nil {
				_ = a.cleanup()
			}
		}
	}()

	for _, a := range cs.adds {
		if !a.replace {
			continue
		}
		if err := writeStaged(dst, a); err != nil {
			return nil, err
		}
		written[a.info.Name] = true
		res.AddedFromChangeSet = append(res.AddedFromChangeSet, a.info.Name)
	}

	for {
		info, err := src.Next()
		if err != nil {
			return nil, err
		}
		if info == nil {
			break
		}

		name := info.Name
		if written[name] || cs.isDeleted(name) {
			if cs.isDeleted(name) && !written[name] {
				res.Deleted = append(res.Deleted, name)
			}
			if _, err := io.Copy(io.Discard, src); err != nil {
				return nil, err
			}
			continue
		}

		if err := dst.PutEntry(*info); err != nil {
			return nil, err
		}
		if _, err := io.Copy(dst, src); err != nil {
			return nil, err
		}
		if err := closeEntry(dst); err != nil {
			return nil, err
		}
		written[name] = true
		res.AddedFromStream = append(res.AddedFromStream, name)
	}

	for _, a := range cs.adds {
		if a.replace || written[a.info.Name] {
			continue
		}
		if err := writeStaged(dst, a); err != nil {
			return nil, err
		}
		written[a.info.Name] = true
		res.AddedFromChangeSet = append(res.AddedFromChangeSet, a.info.Name)
	}

	return res, nil
}

func writeStaged(dst Destination, a *stagedAdd) error {
	if err := dst.PutEntry(a.info); err != nil {
		return err
	}
	if !a.info.IsDir {
		if _, err := io.Copy(dst, a.data); err != nil {
			return err
		}
	}
	return closeEntry(dst)
}
