// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package sector encodes and decodes the fixed-size records of a segmented
// store: the sectors of the data file and the entries of the index files.
//
// The data file is divided into 520 byte sectors. A blob is stored as a
// singly linked chain of sectors, each holding one fragment of the blob's
// bytes. Sector 0 is never allocated, so a next-sector pointer of 0 marks the
// end of a chain. The normal sector format:
//
//	+--------------+--------------+-----------------+----------------+--- ... ---+
//	| Blob id (2B) | Position (2B)| Next sector (3B)| Partition (1B) | Data 512B |
//	+--------------+--------------+-----------------+----------------+--- ... ---+
//
// Blob ids that do not fit in 16 bits use the extended format, whose header
// grows by two bytes at the expense of the data area so that the sector keeps
// its size:
//
//	+--------------+--------------+-----------------+----------------+--- ... ---+
//	| Blob id (4B) | Position (2B)| Next sector (3B)| Partition (1B) | Data 510B |
//	+--------------+--------------+-----------------+----------------+--- ... ---+
//
// The format of a blob is a pure function of its id; nothing on disk records
// which format a chain uses.
//
// Each partition has an index file holding one 6 byte entry per blob id, at
// offset id*6:
//
//	+------------------+-------------------+
//	| Blob length (3B) | First sector (3B) |
//	+------------------+-------------------+
//
// All integers are big-endian.
package sector

import (
	"encoding/binary"
	"math"

	"github.com/Guthix/Jagex-Store-5-sub001/internal/base"
	"github.com/cockroachdb/errors"
)

// These constants are part of the wire format and should not be changed.
const (
	// Size is the size of every sector in the data file.
	Size = 520

	// HeaderSize and DataSize describe the normal sector format.
	HeaderSize = 8
	DataSize   = Size - HeaderSize

	// ExtendedHeaderSize and ExtendedDataSize describe the extended sector
	// format used by blob ids above MaxNormalBlobID.
	ExtendedHeaderSize = 10
	ExtendedDataSize   = Size - ExtendedHeaderSize

	// MaxNormalBlobID is the largest blob id stored in the normal format.
	MaxNormalBlobID = math.MaxUint16

	// IndexEntrySize is the size of an index file entry.
	IndexEntrySize = 6

	// MaxSector is the largest addressable sector number.
	MaxSector = 1<<24 - 1

	// MaxBlobLen is the largest blob an index entry can describe.
	MaxBlobLen = 1<<24 - 1

	// MaxPosition is the largest position counter of a sector in a chain.
	MaxPosition = math.MaxUint16
)

// Extended reports whether blobs with the given id use the extended sector
// format.
func Extended(blobID uint32) bool {
	return blobID > MaxNormalBlobID
}

// HeaderLen returns the header size of sectors holding the given blob.
func HeaderLen(blobID uint32) int {
	if Extended(blobID) {
		return ExtendedHeaderSize
	}
	return HeaderSize
}

// DataLen returns the payload width of sectors holding the given blob.
func DataLen(blobID uint32) int {
	return Size - HeaderLen(blobID)
}

// Count returns the number of sectors needed for a blob of n bytes. An empty
// blob still occupies one sector so that its index entry points somewhere.
func Count(blobID uint32, n int) int {
	if n == 0 {
		return 1
	}
	w := DataLen(blobID)
	return (n + w - 1) / w
}

// Header is the chain metadata at the start of a sector.
type Header struct {
	// BlobID is the id of the blob owning the sector.
	BlobID uint32
	// Position is the index of the sector within its blob's chain.
	Position uint16
	// Next is the sector holding the following fragment, or 0 for the last.
	Next uint32
	// Partition is the id of the partition owning the blob.
	Partition uint8
}

// Encode writes h to the start of dst and returns the number of bytes
// written. dst must hold at least HeaderLen(h.BlobID) bytes.
func (h Header) Encode(dst []byte) int {
	n := 0
	if Extended(h.BlobID) {
		binary.BigEndian.PutUint32(dst, h.BlobID)
		n = 4
	} else {
		binary.BigEndian.PutUint16(dst, uint16(h.BlobID))
		n = 2
	}
	binary.BigEndian.PutUint16(dst[n:], h.Position)
	putUint24(dst[n+2:], h.Next)
	dst[n+5] = h.Partition
	return n + 6
}

// DecodeHeader reads the header of a sector belonging to a blob stored in the
// extended format if extended is set.
func DecodeHeader(src []byte, extended bool) (Header, error) {
	var h Header
	n := 2
	if extended {
		n = 4
	}
	if len(src) < n+6 {
		return h, base.CorruptionErrorf("js5: sector header truncated to %d bytes", errors.Safe(len(src)))
	}
	if extended {
		h.BlobID = binary.BigEndian.Uint32(src)
	} else {
		h.BlobID = uint32(binary.BigEndian.Uint16(src))
	}
	h.Position = binary.BigEndian.Uint16(src[n:])
	h.Next = uint24(src[n+2:])
	h.Partition = src[n+5]
	return h, nil
}

// IndexEntry is the directory record locating a blob in the data file.
type IndexEntry struct {
	// Length is the length of the blob in bytes.
	Length uint32
	// Sector is the first sector of the blob's chain. A zero sector marks a
	// removed or never written entry.
	Sector uint32
}

// Present reports whether the entry locates a blob.
func (e IndexEntry) Present() bool {
	return e.Sector != 0
}

// Encode writes e to the start of dst, which must hold IndexEntrySize bytes.
func (e IndexEntry) Encode(dst []byte) {
	putUint24(dst, e.Length)
	putUint24(dst[3:], e.Sector)
}

// DecodeIndexEntry reads an index entry from the start of src, which must
// hold IndexEntrySize bytes.
func DecodeIndexEntry(src []byte) IndexEntry {
	return IndexEntry{
		Length: uint24(src),
		Sector: uint24(src[3:]),
	}
}

// IndexOffset returns the offset of a blob's entry within its index file.
func IndexOffset(blobID uint32) int64 {
	return int64(blobID) * IndexEntrySize
}

// Offset returns the offset of a sector within the data file.
func Offset(sector uint32) int64 {
	return int64(sector) * Size
}

func putUint24(b []byte, v uint32) {
	_ = b[2] // bounds check hint to compiler; see golang.org/issue/14808
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

func uint24(b []byte) uint32 {
	_ = b[2] // bounds check hint to compiler; see golang.org/issue/14808
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}
