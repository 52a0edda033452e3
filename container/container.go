// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package container implements the envelope every stored blob is wrapped in.
//
// A container is laid out as:
//
//	+--------+-----------------+-------------------+------------+-----------+
//	| op(1B) | compressed (4B) | uncompressed (4B) | compressed | version   |
//	|        |                 | op != none only   | bytes      | (2B, opt) |
//	+--------+-----------------+-------------------+------------+-----------+
//
// All integers are big-endian. When a key is used, the region starting at the
// uncompressed length (or at the data for uncompressed containers) and ending
// before the version is XTEA encrypted in 8 byte quads; a trailing partial
// quad stays in plaintext.
package container

import (
	"encoding/binary"
	"math"

	"github.com/Guthix/Jagex-Store-5-sub001/internal/base"
	"github.com/Guthix/Jagex-Store-5-sub001/internal/compression"
	"github.com/cockroachdb/errors"
)

// Compression selects the codec a container payload is compressed with. Its
// value is the opcode written in the first byte of the container.
type Compression = compression.Algorithm

// The compression opcodes.
const (
	None  = compression.NoCompression
	Bzip2 = compression.Bzip2
	Gzip  = compression.Gzip
	LZMA  = compression.LZMA
)

// ParseCompression parses a compression name (none, bzip2, gzip or lzma).
func ParseCompression(name string) (Compression, error) {
	return compression.ParseAlgorithm(name)
}

const (
	outerHeaderLen = 5
	innerHeaderLen = 4
	versionLen     = 2

	// maxUncompressedLen bounds the allocation a declared uncompressed length
	// may cause. Containers larger than this do not occur in practice; a
	// larger value almost always comes from a missing or wrong key.
	maxUncompressedLen = 64 << 20
)

// HeaderLen returns the length of the header preceding the compressed bytes
// of a container compressed with c.
func HeaderLen(c Compression) int {
	if c == None {
		return outerHeaderLen
	}
	return outerHeaderLen + innerHeaderLen
}

// Version is the optional 2 byte version trailing a container.
type Version int32

// NoVersion marks a container without a version trailer.
const NoVersion Version = -1

// MaxVersion is the largest version a container can carry.
const MaxVersion Version = math.MaxUint16

// Present reports whether v is a real version.
func (v Version) Present() bool {
	return v >= 0
}

// Header describes a container without decompressing it.
type Header struct {
	Compression Compression
	// CompressedLen is the declared length of the compressed bytes.
	CompressedLen int
	// End is the offset just past the compressed bytes; a version, if any,
	// starts here.
	End int
	// Version is the trailing version or NoVersion.
	Version Version
}

// ParseHeader reads the outer header and trailer of buf. The inner header is
// not interpreted so buf may be encrypted.
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < outerHeaderLen {
		return Header{}, base.DecodeErrorf("container: %d bytes is shorter than the header", len(buf))
	}
	c := Compression(buf[0])
	if !c.Valid() {
		return Header{}, errors.Mark(
			base.DecodeErrorf("container: unknown compression opcode %d", errors.Safe(buf[0])),
			base.ErrUnsupportedCodec)
	}
	n := binary.BigEndian.Uint32(buf[1:outerHeaderLen])
	if n > math.MaxInt32 {
		return Header{}, base.DecodeErrorf("container: compressed length %d out of range", n)
	}
	h := Header{
		Compression:   c,
		CompressedLen: int(n),
		End:           HeaderLen(c) + int(n),
		Version:       NoVersion,
	}
	if h.End > len(buf) {
		return Header{}, base.DecodeErrorf("container: truncated, need %d bytes, have %d", h.End, len(buf))
	}
	switch rem := len(buf) - h.End; {
	case rem == 0:
	case rem == 1:
		return Header{}, base.DecodeErrorf("container: malformed version trailer of 1 byte")
	default:
		h.Version = Version(binary.BigEndian.Uint16(buf[h.End:]))
	}
	return h, nil
}

// PeekVersion returns the version trailing buf, or NoVersion, without
// decrypting or decompressing.
func PeekVersion(buf []byte) (Version, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return NoVersion, err
	}
	return h.Version, nil
}

// StripVersion returns buf without its version trailer. The result aliases
// buf.
func StripVersion(buf []byte) ([]byte, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return nil, err
	}
	return buf[:h.End], nil
}

// Encode compresses payload with c, encrypts it with key unless key is zero
// and appends v unless it is NoVersion.
func Encode(payload []byte, c Compression, key Key, v Version) ([]byte, error) {
	if !c.Valid() {
		return nil, errors.Mark(
			errors.Newf("container: unknown compression opcode %d", errors.Safe(uint8(c))),
			base.ErrUnsupportedCodec)
	}
	if v > MaxVersion || (v < 0 && v != NoVersion) {
		return nil, errors.Newf("container: version %d out of range", v)
	}
	if len(payload) > math.MaxInt32 {
		return nil, errors.Newf("container: payload of %d bytes is too large", len(payload))
	}
	compressed, err := compression.Compress(c, payload)
	if err != nil {
		return nil, errors.Wrap(err, "container")
	}

	size := HeaderLen(c) + len(compressed)
	if v.Present() {
		size += versionLen
	}
	buf := make([]byte, 0, size)
	buf = append(buf, byte(c))
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(compressed)))
	if c != None {
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(payload)))
	}
	buf = append(buf, compressed...)
	key.Encrypt(buf[outerHeaderLen:])
	if v.Present() {
		buf = binary.BigEndian.AppendUint16(buf, uint16(v))
	}
	return buf, nil
}

// Decode reverses Encode. buf is not modified.
//
// A container that was encrypted cannot be told apart from one that was not.
// When key is zero and decompression fails the error is marked ErrMissingKey.
func Decode(buf []byte, key Key) ([]byte, Version, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return nil, NoVersion, err
	}
	region := append([]byte(nil), buf[outerHeaderLen:h.End]...)
	key.Decrypt(region)
	if h.Compression == None {
		return region, h.Version, nil
	}

	n := binary.BigEndian.Uint32(region)
	if n > maxUncompressedLen {
		return nil, NoVersion, decodeFailed(key,
			errors.Newf("uncompressed length %d exceeds %d", n, maxUncompressedLen), h.Compression)
	}
	payload, err := compression.Decompress(h.Compression, region[innerHeaderLen:], int(n))
	if err != nil {
		return nil, NoVersion, decodeFailed(key, err, h.Compression)
	}
	return payload, h.Version, nil
}

func decodeFailed(key Key, err error, c Compression) error {
	err = base.MarkDecode(err, "container: %s", c)
	if key.IsZero() {
		err = errors.Mark(err, base.ErrMissingKey)
	}
	return err
}
