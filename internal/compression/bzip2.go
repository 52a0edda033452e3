// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package compression

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"github.com/dsnet/compress/bzip2"
)

// bzip2Magic is the stream header written by a level 1 (100k block) bzip2
// encoder. Containers omit it; it is stripped after compression and put back
// before decompression.
var bzip2Magic = []byte("BZh1")

type bzip2Compressor struct{}

var _ Compressor = bzip2Compressor{}

func (bzip2Compressor) Compress(dst, src []byte) ([]byte, error) {
	buf := bytes.NewBuffer(dst[:0])
	w, err := bzip2.NewWriter(buf, &bzip2.WriterConfig{Level: 1})
	if err != nil {
		return nil, errors.Wrap(err, "bzip2")
	}
	if _, err := w.Write(src); err != nil {
		return nil, errors.Wrap(err, "bzip2")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "bzip2")
	}
	out := buf.Bytes()
	if !bytes.HasPrefix(out, bzip2Magic) {
		return nil, errors.AssertionFailedf("bzip2: unexpected stream header %q", out[:min(len(out), 4)])
	}
	return out[len(bzip2Magic):], nil
}

type bzip2Decompressor struct{}

var _ Decompressor = bzip2Decompressor{}

func (bzip2Decompressor) DecompressInto(buf, compressed []byte) error {
	stream := make([]byte, 0, len(bzip2Magic)+len(compressed))
	stream = append(append(stream, bzip2Magic...), compressed...)
	r, err := bzip2.NewReader(bytes.NewReader(stream), nil)
	if err != nil {
		return errors.Wrap(err, "bzip2")
	}
	defer r.Close()
	return readFull(Bzip2, r, buf)
}
