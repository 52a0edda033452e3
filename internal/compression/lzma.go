// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package compression

import (
	"bytes"
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/ulikunitz/xz/lzma"
)

// Containers carry raw LZMA streams: the properties, dictionary size and
// uncompressed size that normally precede the stream are fixed by the format
// and left out to save space across many small blobs.
const (
	lzmaLC      = 3
	lzmaLP      = 0
	lzmaPB      = 2
	lzmaDictCap = 8 << 20

	// lzmaHeaderLen is the length of the classic .lzma header: one
	// properties byte, a 4 byte dictionary size and an 8 byte uncompressed
	// size, all little-endian.
	lzmaHeaderLen = 13
)

// lzmaHeader synthesizes the header the decoder expects in front of a raw
// stream that decompresses to n bytes.
func lzmaHeader(n int) []byte {
	h := make([]byte, lzmaHeaderLen)
	h[0] = byte((lzmaPB*5+lzmaLP)*9 + lzmaLC)
	binary.LittleEndian.PutUint32(h[1:], lzmaDictCap)
	binary.LittleEndian.PutUint64(h[5:], uint64(n))
	return h
}

type lzmaCompressor struct{}

var _ Compressor = lzmaCompressor{}

func (lzmaCompressor) Compress(dst, src []byte) ([]byte, error) {
	buf := bytes.NewBuffer(dst[:0])
	cfg := lzma.WriterConfig{
		Properties:   &lzma.Properties{LC: lzmaLC, LP: lzmaLP, PB: lzmaPB},
		DictCap:      lzmaDictCap,
		SizeInHeader: true,
		Size:         int64(len(src)),
	}
	w, err := cfg.NewWriter(buf)
	if err != nil {
		return nil, errors.Wrap(err, "lzma")
	}
	if _, err := w.Write(src); err != nil {
		return nil, errors.Wrap(err, "lzma")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "lzma")
	}
	out := buf.Bytes()
	if len(out) < lzmaHeaderLen {
		return nil, errors.AssertionFailedf("lzma: output shorter than its header")
	}
	return out[lzmaHeaderLen:], nil
}

type lzmaDecompressor struct{}

var _ Decompressor = lzmaDecompressor{}

func (lzmaDecompressor) DecompressInto(buf, compressed []byte) error {
	stream := make([]byte, 0, lzmaHeaderLen+len(compressed))
	stream = append(append(stream, lzmaHeader(len(buf))...), compressed...)
	r, err := lzma.ReaderConfig{DictCap: lzmaDictCap}.NewReader(bytes.NewReader(stream))
	if err != nil {
		return errors.Wrap(err, "lzma")
	}
	return readFull(LZMA, r, buf)
}
