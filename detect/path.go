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
	"path/filepath"
	"strings"
)

// SanitizeEntryPath joins entryName under targetDir and verifies the result
// does not escape targetDir, per the extraction-time safety check: the
// normalized destination MUST start with the normalized target directory
// (or be that directory itself). An entry like "../evil" or an absolute
// path that resolves outside targetDir is rejected before anything is
// written.
func SanitizeEntryPath(targetDir, entryName string) (string, error) {
	targetDir = filepath.Clean(targetDir)
	dest := filepath.Clean(filepath.Join(targetDir, entryName))
	if filepath.IsAbs(entryName) {
		dest = filepath.Clean(entryName)
	}

	if dest == targetDir {
		return dest, nil
	}
	if !strings.HasPrefix(dest, targetDir+string(filepath.Separator)) {
		return "", ErrorPathEscape.ErrorParent(nil)
	}
	return dest, nil
}
