/*
 * MIT License
 *
 * Copyright (c) 2023 Nicolas JUHEL
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
 *
 */

package aes

import (
	"crypto/aes"
	"crypto/cipher"
	"io"

	libenc "github.com/nabbar/archive/encoding"
)

// NewCBC creates an AES coder using CBC mode with no padding, the mode 7z's
// AES256SHA256 folder coder uses (the container already tracks the exact
// unpacked size, so no PKCS#7 padding is added or stripped here).
//
// The key must be 16 or 32 bytes (AES-128 or AES-256); the iv must be 16
// bytes. Encode/Decode operate on whole block-aligned buffers; the streaming
// EncodeReader/DecodeReader variants are not block-boundary-safe and are left
// unimplemented on this coder since 7z decryption always runs over a single
// in-memory packed stream.
func NewCBC(key []byte, iv [16]byte) (libenc.Coder, error) {
	blk, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &cbc{blk: blk, iv: iv}, nil
}

type cbc struct {
	blk cipher.Block
	iv  [16]byte
}

func (o *cbc) Encode(p []byte) []byte {
	if len(p) == 0 || len(p)%aes.BlockSize != 0 {
		return make([]byte, 0)
	}
	out := make([]byte, len(p))
	cipher.NewCBCEncrypter(o.blk, o.iv[:]).CryptBlocks(out, p)
	return out
}

func (o *cbc) Decode(p []byte) ([]byte, error) {
	if len(p) == 0 {
		return make([]byte, 0), nil
	}
	if len(p)%aes.BlockSize != 0 {
		return nil, ErrInvalidBufferSize
	}
	out := make([]byte, len(p))
	cipher.NewCBCDecrypter(o.blk, o.iv[:]).CryptBlocks(out, p)
	return out, nil
}

func (o *cbc) EncodeReader(r io.Reader) io.ReadCloser {
	return nil
}

func (o *cbc) DecodeReader(r io.Reader) io.ReadCloser {
	return nil
}

func (o *cbc) EncodeWriter(w io.Writer) io.WriteCloser {
	return nil
}

func (o *cbc) DecodeWriter(w io.Writer) io.WriteCloser {
	return nil
}

// Reset is a no-op: cipher.Block carries no mutable state beyond the key
// captured at NewCBC, and the iv is fixed for the coder's lifetime.
func (o *cbc) Reset() {}
