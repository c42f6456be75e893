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

// AES256SHA256 is 7z's password-based folder coder: properties encode a
// cost parameter plus a salt/IV, and the key is derived by iterating SHA-256
// over the salt, the UTF-16LE password, and an 8-byte little-endian counter.
// Key derivation is wired onto encoding/sha256's Coder (its Encode writes
// into a running hash.Hash without resetting between calls, which is exactly
// the accumulation this scheme needs), and the block cipher itself onto
// encoding/aes's CBC coder.
package sevenzip

import (
	"unicode/utf16"

	encaes "github.com/nabbar/archive/encoding/aes"
	encsha "github.com/nabbar/archive/encoding/sha256"
)

const maxCyclesPower = 24

type aesProperties struct {
	rawKeyMode     bool
	numCyclesPower int
	salt           []byte
	iv             [16]byte
}

func parseAES256SHA256Properties(props []byte) (aesProperties, error) {
	var p aesProperties

	if len(props) < 2 {
		return p, ErrorMalformedField.ErrorParent(nil)
	}

	b0 := props[0]
	p.numCyclesPower = int(b0 & 0x3F)
	p.rawKeyMode = p.numCyclesPower == 0x3F

	b1 := props[1]
	saltSize := int(b1>>4) & 0x0F
	ivSize := int(b1) & 0x0F

	off := 2
	if len(props) < off+saltSize+ivSize {
		return p, ErrorMalformedField.ErrorParent(nil)
	}
	p.salt = append([]byte(nil), props[off:off+saltSize]...)
	off += saltSize
	copy(p.iv[:], props[off:off+ivSize])

	return p, nil
}

// deriveKey computes the 32-byte AES-256 key for the given password.
func deriveKey(p aesProperties, password string) ([]byte, error) {
	if p.rawKeyMode {
		key := make([]byte, 32)
		copy(key, append(append([]byte(nil), p.salt...), []byte(password)...))
		return key, nil
	}
	if p.numCyclesPower > maxCyclesPower {
		return nil, ErrorUnsupportedFeature.ErrorParent(nil)
	}

	pw := utf16le(password)
	hsh := encsha.New()

	rounds := uint64(1) << uint(p.numCyclesPower)
	chunk := make([]byte, len(p.salt)+len(pw)+8)
	copy(chunk, p.salt)
	copy(chunk[len(p.salt):], pw)

	var sum []byte
	for counter := uint64(0); counter < rounds; counter++ {
		putUint64LE(chunk[len(p.salt)+len(pw):], counter)
		sum = hsh.Encode(chunk)
	}
	return sum, nil
}

// decodeAES256SHA256 decrypts a whole packed stream. The stream is always a
// multiple of the AES block size since 7z pads it at encode time; the
// caller truncates the result to the folder's declared unpack size.
func decodeAES256SHA256(packed []byte, props []byte, password string) ([]byte, error) {
	p, err := parseAES256SHA256Properties(props)
	if err != nil {
		return nil, err
	}
	if password == "" && !p.rawKeyMode {
		return nil, ErrorPasswordRequired.ErrorParent(nil)
	}

	key, err := deriveKey(p, password)
	if err != nil {
		return nil, err
	}

	coder, err := encaes.NewCBC(key, p.iv)
	if err != nil {
		return nil, err
	}

	out, err := coder.Decode(packed)
	if err != nil {
		return nil, ErrorWrongPassword.ErrorParent(err)
	}
	return out, nil
}

func utf16le(s string) []byte {
	r := utf16.Encode([]rune(s))
	out := make([]byte, len(r)*2)
	for i, u := range r {
		out[i*2] = byte(u)
		out[i*2+1] = byte(u >> 8)
	}
	return out
}

func putUint64LE(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> uint(8*i))
	}
}
