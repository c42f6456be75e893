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

// Package tar implements the v7, ustar, pax, and GNU tar dialects directly
// against the 512-byte record grammar:
//
//   - Header checksum: sum of all header bytes with the checksum field
//     itself treated as eight ASCII spaces.
//   - ustar: name+prefix split (100 + 155 bytes), magic "ustar\x00" version
//     "00".
//   - GNU long-name/long-link: a "././@LongLink" entry whose payload
//     overrides the following real entry's name or link target.
//   - GNU old-style sparse: 4 (offset, length) slots in the header plus an
//     "isextended" flag; when set, 512-byte continuation blocks each carry
//     21 more slots and their own isextended flag.
//   - pax local/global extended headers: "len key=value\n" records, where
//     len is the record's own total byte length including itself.
//
// Numeric fields (mode, uid, gid, size, mtime, device major/minor) are
// classic NUL-terminated octal by default; GNU base-256 (high bit set on
// the first byte) is used when a value overflows its field and the writer
// is configured for it, matching byteio's ParseBase256Field/
// FormatBase256Field.
//
// Entries are padded with NUL bytes to the next 512-byte boundary; the
// archive ends with two consecutive zero blocks.
package tar
