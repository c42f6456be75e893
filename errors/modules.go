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

// Every package that registers error codes owns a contiguous range of 100
// codes starting at its MinPkg constant, so two packages can never collide
// and a code's owner can be recovered from the code alone.
const (
	MinPkgByteIO     = 100
	MinPkgCharset    = 200
	MinPkgHuffman    = 300
	MinPkgDeflate    = 400
	MinPkgGzip       = 500
	MinPkgBzip2      = 600
	MinPkgLZMA       = 700
	MinPkgSnappy     = 800
	MinPkgLZ4        = 900
	MinPkgZstd       = 1000
	MinPkgBrotli     = 1100
	MinPkgPack200    = 1200
	MinPkgEntry      = 1300
	MinPkgTar        = 1400
	MinPkgZip        = 1500
	MinPkgSevenZ     = 1600
	MinPkgAr         = 1700
	MinPkgCpio       = 1800
	MinPkgLha        = 1900
	MinPkgArj        = 2000
	MinPkgDump       = 2100
	MinPkgChangeSet  = 2200
	MinPkgScatter    = 2300
	MinPkgDetect     = 2400
	MinPkgExtract    = 2500
	MinPkgIOUtils    = 2600

	MinAvailable = 3000
)
