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

package detect

import (
	"io"
	"os"
	"path/filepath"

	"github.com/nabbar/archive/file/perm"
	"github.com/nabbar/archive/tar"
	"github.com/nabbar/archive/zip"
)

// ExtractTar walks a streaming TAR reader, sanitizing every entry name
// against destination before writing it. The first PathEscape aborts the
// whole extraction without touching the filesystem for that entry.
func ExtractTar(r *tar.Reader, destination string) error {
	for {
		info, err := r.Next()
		if err != nil {
			return err
		}
		if info == nil {
			return nil
		}

		dst, err := SanitizeEntryPath(destination, info.Name)
		if err != nil {
			return err
		}

		if info.IsDir {
			if err := os.MkdirAll(dst, 0o750); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
			return err
		}
		if err := writeRegularFile(dst, r, info.Mode); err != nil {
			return err
		}
	}
}

// ExtractZip walks every central-directory entry of a random-access ZIP
// reader, sanitizing each name before opening its input stream.
func ExtractZip(r *zip.Reader, destination string) error {
	for _, e := range r.Entries() {
		dst, err := SanitizeEntryPath(destination, e.Info.Name)
		if err != nil {
			return err
		}

		if e.Info.IsDir {
			if err := os.MkdirAll(dst, 0o750); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
			return err
		}

		rc, err := r.InputStream(e)
		if err != nil {
			return err
		}
		err = writeRegularFile(dst, rc, e.Info.Mode)
		_ = rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func writeRegularFile(dst string, r io.Reader, mode uint32) error {
	p := perm.ParseFileMode(0o640)
	if mode != 0 {
		if parsed, err := perm.ParseInt64(int64(mode)); err == nil {
			p = parsed
		}
	}
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, p.FileMode())
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	_, err = io.Copy(f, r)
	return err
}
