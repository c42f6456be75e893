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

// Package pack200 is a bridge, not a codec: Pack200 packs a JAR's constant
// pool and bytecode into its own transform, a format this module does not
// reimplement. Instead it buffers the JAR (in memory or to a temp file,
// selected by Strategy) and hands it to an external Packer/Unpacker the
// caller registers, exactly as the format's own reference tooling treats
// pack200 as an out-of-process collaborator rather than an inline codec.
package pack200

import (
	"bytes"
	"io"
	"os"

	"github.com/nabbar/archive/errors"
)

const (
	ErrorNoBridge errors.CodeError = errors.MinPkgPack200 + iota
)

func init() {
	errors.RegisterIdFctMessage(errors.MinPkgPack200, getMessage)
}

func getMessage(code errors.CodeError) string {
	if code == ErrorNoBridge {
		return "no Pack200 packer/unpacker bridge registered"
	}
	return errors.NullMessage
}

// Strategy selects how the intermediate JAR is buffered before it is
// handed to the bridge.
type Strategy uint8

const (
	// InMemory buffers the whole JAR in a bytes.Buffer.
	InMemory Strategy = iota
	// TempFile spills the JAR to a temporary file, for archives too large
	// to hold comfortably in memory.
	TempFile
)

// Bridge is the external Pack200 packer/unpacker this package buffers
// input for; callers supply a concrete implementation (e.g. shelling out
// to a JDK's pack200/unpack200, or a pure-Go implementation from outside
// this module's scope).
type Bridge interface {
	Pack(jar io.Reader, out io.Writer) error
	Unpack(packed io.Reader, jar io.Writer) error
}

// Pack buffers jar under the given strategy and runs it through bridge,
// writing the packed stream to out.
func Pack(bridge Bridge, jar io.Reader, out io.Writer, strategy Strategy) error {
	if bridge == nil {
		return ErrorNoBridge.ErrorParent(nil)
	}
	buffered, cleanup, err := buffer(jar, strategy)
	if err != nil {
		return err
	}
	defer cleanup()
	return bridge.Pack(buffered, out)
}

// Unpack runs packed through bridge, writing the reconstructed JAR to out.
func Unpack(bridge Bridge, packed io.Reader, out io.Writer) error {
	if bridge == nil {
		return ErrorNoBridge.ErrorParent(nil)
	}
	return bridge.Unpack(packed, out)
}

func buffer(r io.Reader, strategy Strategy) (io.Reader, func(), error) {
	if strategy == InMemory {
		buf := &bytes.Buffer{}
		if _, err := io.Copy(buf, r); err != nil {
			return nil, nil, err
		}
		return buf, func() {}, nil
	}

	f, err := os.CreateTemp(os.TempDir(), "pack200-*.jar")
	if err != nil {
		return nil, nil, err
	}
	if _, err = io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, nil, err
	}
	if _, err = f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, nil, err
	}
	cleanup := func() {
		_ = f.Close()
		_ = os.Remove(f.Name())
	}
	return f, cleanup, nil
}
