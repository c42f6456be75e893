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

package changeset

import "github.com/nabbar/archive/errors"

const (
	ErrorStageFailed errors.CodeError = errors.MinPkgChangeSet + iota
	ErrorNilSource
	ErrorNilDestination
	ErrorEmptyName
)

func init() {
	errors.RegisterIdFctMessage(errors.MinPkgChangeSet, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorStageFailed:
		return "an Add()'d entry's payload could not be staged for later replay"
	case ErrorNilSource:
		return "apply called with a nil source"
	case ErrorNilDestination:
		return "apply called with a nil destination"
	case ErrorEmptyName:
		return "delete, deleteDir or add called with an empty path"
	}
	return errors.NullMessage
}
