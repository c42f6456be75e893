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

package sevenzip

import "github.com/nabbar/archive/errors"

const (
	ErrorBadSignature errors.CodeError = errors.MinPkgSevenZ + iota
	ErrorStartHeaderCRC
	ErrorNextHeaderCRC
	ErrorTruncated
	ErrorMalformedField
	ErrorUnexpectedPropertyID
	ErrorUnsupportedCodec
	ErrorPasswordRequired
	ErrorWrongPassword
	ErrorUnsupportedFeature
)

func init() {
	errors.RegisterIdFctMessage(errors.MinPkgSevenZ, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorBadSignature:
		return "stream does not begin with the 7z signature"
	case ErrorStartHeaderCRC:
		return "start header CRC does not match the signature header"
	case ErrorNextHeaderCRC:
		return "next header CRC does not match its declared checksum"
	case ErrorTruncated:
		return "7z stream ended before a full header or before a declared stream size"
	case ErrorMalformedField:
		return "a header field could not be decoded"
	case ErrorUnexpectedPropertyID:
		return "header property sequence did not match the expected grammar"
	case ErrorUnsupportedCodec:
		return "folder coder uses a codec this module does not implement"
	case ErrorPasswordRequired:
		return "folder is AES256SHA256-encrypted and no password was supplied"
	case ErrorWrongPassword:
		return "folder could not be decrypted with the supplied password"
	case ErrorUnsupportedFeature:
		return "archive feature is recognized but not implemented"
	}
	return errors.NullMessage
}
