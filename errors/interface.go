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

package errors

import (
	"errors"
	"strings"
)

// Error extends the standard error with a numeric code and a parent chain,
// so a reader/writer left in the Failed state can report both "what format
// invariant broke" and "what underlying I/O error triggered it".
type Error interface {
	error

	// IsCode reports whether this error's own code equals code.
	IsCode(code CodeError) bool
	// HasCode reports whether this error or any parent carries code.
	HasCode(code CodeError) bool
	// GetCode returns this error's own code.
	GetCode() CodeError

	// HasParent reports whether any parent error was attached.
	HasParent() bool
	// GetParent returns the parent errors, optionally including the receiver.
	GetParent(withMainError bool) []error
	// AddParent appends further parents (e.g. attaching an I/O cause later).
	AddParent(parent ...error)

	// Unwrap gives errors.Is/errors.As access to the parent chain.
	Unwrap() []error
}

type ers struct {
	c CodeError
	m string
	p []error
}

// New builds an Error with the given code, message and parents.
func New(code CodeError, message string, parent ...error) Error {
	p := make([]error, 0, len(parent))
	for _, e := range parent {
		if e != nil {
			p = append(p, e)
		}
	}
	return &ers{c: code, m: message, p: p}
}

// IfError returns nil unless at least one non-nil parent is given, in which
// case it returns a New error wrapping them. Handy for "only fail if err != nil".
func IfError(code CodeError, message string, parent ...error) Error {
	has := false
	for _, e := range parent {
		if e != nil {
			has = true
			break
		}
	}
	if !has {
		return nil
	}
	return New(code, message, parent...)
}

func (e *ers) Error() string {
	if e == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(e.m)

	for _, p := range e.p {
		if p == nil {
			continue
		}
		b.WriteString(": ")
		b.WriteString(p.Error())
	}

	return b.String()
}

func (e *ers) IsCode(code CodeError) bool {
	return e != nil && e.c == code
}

func (e *ers) HasCode(code CodeError) bool {
	if e == nil {
		return false
	}
	if e.c == code {
		return true
	}
	for _, p := range e.p {
		if Has(p, code) {
			return true
		}
	}
	return false
}

func (e *ers) GetCode() CodeError {
	if e == nil {
		return UnknownError
	}
	return e.c
}

func (e *ers) HasParent() bool {
	return e != nil && len(e.p) > 0
}

func (e *ers) GetParent(withMainError bool) []error {
	if e == nil {
		return nil
	}
	if !withMainError {
		return e.p
	}
	res := make([]error, 0, len(e.p)+1)
	res = append(res, e)
	res = append(res, e.p...)
	return res
}

func (e *ers) AddParent(parent ...error) {
	if e == nil {
		return
	}
	for _, p := range parent {
		if p != nil {
			e.p = append(e.p, p)
		}
	}
}

func (e *ers) Unwrap() []error {
	if e == nil {
		return nil
	}
	return e.p
}

// Is reports whether e is (or wraps) an Error.
func Is(e error) bool {
	var err Error
	return errors.As(e, &err)
}

// Get returns e as an Error, or nil if it is not one.
func Get(e error) Error {
	var err Error
	if errors.As(e, &err) {
		return err
	}
	return nil
}

// Has reports whether e, or any of its parents, carries code.
func Has(e error, code CodeError) bool {
	if err := Get(e); err != nil {
		return err.HasCode(code)
	}
	return false
}
