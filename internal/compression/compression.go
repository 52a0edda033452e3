// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package compression implements the fixed set of codecs a container may be
// compressed with. Codecs are selected by a one byte algorithm id that is part
// of the container wire format.
package compression

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
)

// Algorithm identifies a compression codec. The numeric values are written
// to disk and must not change.
type Algorithm uint8

// The available compression algorithms.
const (
	NoCompression Algorithm = 0
	Bzip2         Algorithm = 1
	Gzip          Algorithm = 2
	LZMA          Algorithm = 3

	numAlgorithms = 4
)

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	switch a {
	case NoCompression:
		return "none"
	case Bzip2:
		return "bzip2"
	case Gzip:
		return "gzip"
	case LZMA:
		return "lzma"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(a))
	}
}

// Valid reports whether a names a known codec.
func (a Algorithm) Valid() bool {
	return a < numAlgorithms
}

// ParseAlgorithm parses an algorithm from its String form.
func ParseAlgorithm(name string) (Algorithm, error) {
	for a := Algorithm(0); a < numAlgorithms; a++ {
		if a.String() == name {
			return a, nil
		}
	}
	return 0, errors.Newf("unknown compression algorithm %q", name)
}

// Compressor compresses a whole payload at once.
type Compressor interface {
	// Compress appends the compressed form of src to dst[:0] and returns the
	// result.
	Compress(dst, src []byte) ([]byte, error)
}

// Decompressor reverses a Compressor.
type Decompressor interface {
	// DecompressInto decompresses compressed into buf. The caller learns the
	// decompressed length out of band and sizes buf exactly; producing fewer
	// bytes is an error.
	DecompressInto(buf, compressed []byte) error
}

var compressors = [numAlgorithms]Compressor{
	NoCompression: noopCompressor{},
	Bzip2:         bzip2Compressor{},
	Gzip:          gzipCompressor{},
	LZMA:          lzmaCompressor{},
}

var decompressors = [numAlgorithms]Decompressor{
	NoCompression: noopDecompressor{},
	Bzip2:         bzip2Decompressor{},
	Gzip:          gzipDecompressor{},
	LZMA:          lzmaDecompressor{},
}

// GetCompressor returns the Compressor for a. a must be valid.
func GetCompressor(a Algorithm) Compressor {
	if !a.Valid() {
		panic(errors.AssertionFailedf("invalid compression algorithm %d", errors.Safe(uint8(a))))
	}
	return compressors[a]
}

// GetDecompressor returns the Decompressor for a. a must be valid.
func GetDecompressor(a Algorithm) Decompressor {
	if !a.Valid() {
		panic(errors.AssertionFailedf("invalid compression algorithm %d", errors.Safe(uint8(a))))
	}
	return decompressors[a]
}

// Compress compresses src with a.
func Compress(a Algorithm, src []byte) ([]byte, error) {
	return GetCompressor(a).Compress(nil, src)
}

// Decompress decompresses src with a into a new buffer of exactly n bytes.
func Decompress(a Algorithm, src []byte, n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := GetDecompressor(a).DecompressInto(buf, src); err != nil {
		return nil, err
	}
	return buf, nil
}

// readFull fills buf from a decompressing reader. Running out of input before
// buf is full means the declared length was wrong.
func readFull(a Algorithm, r io.Reader, buf []byte) error {
	n, err := io.ReadFull(r, buf)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF):
		return errors.Newf("%s: decompressed %d bytes, expected %d", a, n, len(buf))
	default:
		return errors.Wrapf(err, "%s", a)
	}
}
