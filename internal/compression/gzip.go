// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package compression

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"
)

type gzipCompressor struct{}

var _ Compressor = gzipCompressor{}

func (gzipCompressor) Compress(dst, src []byte) ([]byte, error) {
	buf := bytes.NewBuffer(dst[:0])
	w, err := gzip.NewWriterLevel(buf, gzip.BestCompression)
	if err != nil {
		return nil, errors.Wrap(err, "gzip")
	}
	if _, err := w.Write(src); err != nil {
		return nil, errors.Wrap(err, "gzip")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "gzip")
	}
	return buf.Bytes(), nil
}

type gzipDecompressor struct{}

var _ Decompressor = gzipDecompressor{}

func (gzipDecompressor) DecompressInto(buf, compressed []byte) error {
	r, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return errors.Wrap(err, "gzip")
	}
	defer r.Close()
	return readFull(Gzip, r, buf)
}
