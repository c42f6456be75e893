/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package errors provides the error taxonomy shared by every codec and archive
// format package: a numeric CodeError classification (one range per package,
// see modules.go), parent-chaining so a low-level I/O error can be wrapped by
// the format-specific failure that triggered it, and a message registry so
// each package can describe its own codes without a central switch statement.
package errors

import (
	"sort"
	"strconv"
)

// CodeError is a numeric error classification, one contiguous range per package.
type CodeError uint16

const (
	// UnknownError is returned when no code was set.
	UnknownError CodeError = 0

	UnknownMessage = "unknown error"
	NullMessage    = ""
)

// Message renders a CodeError into a human-readable string.
type Message func(code CodeError) (message string)

var idMsgFct = make(map[CodeError]Message)

// RegisterIdFctMessage registers the message function for every code starting
// at minCode. Called once from each package's init().
func RegisterIdFctMessage(minCode CodeError, fct Message) {
	idMsgFct[minCode] = fct
}

// ExistInMapMessage reports whether code resolves to a non-empty message,
// used by package init() to detect a code-range collision.
func ExistInMapMessage(code CodeError) bool {
	if f, ok := idMsgFct[findRangeStart(code)]; ok {
		return f(code) != NullMessage
	}
	return false
}

func (c CodeError) Uint16() uint16 {
	return uint16(c)
}

func (c CodeError) String() string {
	return strconv.Itoa(int(c))
}

// Message returns the registered message for this code, or UnknownMessage.
func (c CodeError) Message() string {
	if c == UnknownError {
		return UnknownMessage
	}
	if f, ok := idMsgFct[findRangeStart(c)]; ok {
		if m := f(c); m != NullMessage {
			return m
		}
	}
	return UnknownMessage
}

// Error builds a new Error carrying this code, optionally wrapping parents.
func (c CodeError) Error(parent ...error) Error {
	return New(c, c.Message(), parent...)
}

// ErrorParent is an alias of Error kept for readability at call sites that
// exist purely to attach a lower-level cause (os.Open failing, a short read, ...).
func (c CodeError) ErrorParent(parent ...error) Error {
	return New(c, c.Message(), parent...)
}

func rangeStarts() []CodeError {
	keys := make([]int, 0, len(idMsgFct))
	for k := range idMsgFct {
		keys = append(keys, int(k))
	}
	sort.Ints(keys)

	res := make([]CodeError, 0, len(keys))
	for _, k := range keys {
		res = append(res, CodeError(k))
	}
	return res
}

func findRangeStart(code CodeError) CodeError {
	var res CodeError
	for _, k := range rangeStarts() {
		if k <= code && k > res {
			res = k
		}
	}
	return res
}
