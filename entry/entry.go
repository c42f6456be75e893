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

// Package entry holds the archive entry model every format reader/writer
// shares: a common Info plus the per-format extension each container needs
// (TAR type flags and sparse maps, ZIP extra fields, 7z folder references,
// ...). Readers build entries lazily as the stream advances; once handed to
// a writer's PutEntry an entry is immutable.
package entry

import "time"

// Info is the abstract archive entry every format maps onto.
type Info struct {
	Name         string
	Size         int64
	IsDir        bool
	ModTime      time.Time
	Mode         uint32
	HasMode      bool
	UID, GID     int
	HasOwner     bool
	Checksum     uint32
	HasChecksum  bool
}

// Validate enforces the invariants every entry must satisfy regardless of
// the owning format: non-empty name (sentinel entries aside), non-negative
// size, and directories always reporting zero size.
func (i Info) Validate(allowEmptyName bool) error {
	if i.Name == "" && !allowEmptyName {
		return ErrorInvalidEntry.ErrorParent(nil)
	}
	if i.Size < 0 {
		return ErrorInvalidEntry.ErrorParent(nil)
	}
	if i.IsDir && i.Size != 0 {
		return ErrorInvalidEntry.ErrorParent(nil)
	}
	return nil
}

// Sparse is a single hole/data segment in a TAR GNU sparse entry.
type Sparse struct {
	Offset int64
	Length int64
}

// TarExtra carries the TAR-specific fields Info does not generalize.
type TarExtra struct {
	TypeFlag  byte
	LinkName  string
	DevMajor  int64
	DevMinor  int64
	Sparse    []Sparse
	PaxRecord map[string]string
}

// TAR type flags, reused verbatim from the POSIX ustar header byte.
const (
	TypeFile          = '0'
	TypeHardLink      = '1'
	TypeSymLink       = '2'
	TypeCharDevice    = '3'
	TypeBlockDevice   = '4'
	TypeDirectory     = '5'
	TypeFIFO          = '6'
	TypePaxLocalHdr   = 'x'
	TypePaxGlobalHdr  = 'g'
	TypeGNULongName   = 'L'
	TypeGNULongLink   = 'K'
	TypeGNUSparse     = 'S'
)

// ExtraField is one ZIP "extra" record: a tag, its declared length, and the
// raw payload (ZIP64, Unicode path, Unix owner, ...).
type ExtraField struct {
	Tag     uint16
	Payload []byte
}

// ZipMethod is the ZIP compression method id stored in the local/central
// header, not to be confused with the codec package Algorithm types: ZIP
// multiplexes several, some long obsolete.
type ZipMethod uint16

const (
	ZipStore      ZipMethod = 0
	ZipShrunk     ZipMethod = 1
	ZipImplode    ZipMethod = 6
	ZipDeflate    ZipMethod = 8
	ZipDeflate64  ZipMethod = 9
	ZipBzip2      ZipMethod = 12
	ZipLZMA       ZipMethod = 14
	ZipXZ         ZipMethod = 95
	ZipZstd       ZipMethod = 93
	ZipPPMd       ZipMethod = 98
)

// ZipExtra carries the ZIP-specific fields Info does not generalize.
type ZipExtra struct {
	Method             ZipMethod
	CRC32              uint32
	CompressedSize     int64
	GeneralPurposeBits uint16
	VersionMadeBy      uint16
	ExternalAttrs      uint32
	Extra              []ExtraField
	Comment             string
	UnicodePath         string
}

const (
	// GPBitDataDescriptor marks a local header whose sizes/CRC follow the
	// entry's payload instead of preceding it.
	GPBitDataDescriptor uint16 = 1 << 3
	// GPBitUTF8 is "language encoding flag" (EFS), general purpose bit 11.
	GPBitUTF8 uint16 = 1 << 11
	// GPBitEncrypted marks a ZipCrypto or AES-encrypted entry.
	GPBitEncrypted uint16 = 1 << 0
)
