// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package group implements the payload layout of a group holding several
// files.
//
// A single file group is the file's bytes verbatim. With more files each file
// is cut into the same number of chunks and the chunks are stored chunk major:
//
//	chunk 0 of file 0 .. chunk 0 of file F-1, chunk 1 of file 0, ...
//	trailer: chunks x F big-endian int32 lengths, row major
//	         1 byte chunk count
//
// The first row of the trailer holds literal chunk lengths. Each later row
// holds, per file, the difference from that file's length in the row above.
package group

import (
	"encoding/binary"
	"math"

	"github.com/Guthix/Jagex-Store-5-sub001/internal/base"
	"github.com/cockroachdb/errors"
)

// MaxChunks is the largest chunk count the trailer can record.
const MaxChunks = math.MaxUint8

const lenSize = 4

// TrailerLen returns the trailer length of a multi-file payload.
func TrailerLen(files, chunks int) int {
	return chunks*files*lenSize + 1
}

// Split lays out files as one group payload with the given number of
// chunks per file. chunks is ignored for a single file.
func Split(files [][]byte, chunks int) ([]byte, error) {
	switch {
	case len(files) == 0:
		return nil, errors.New("group: no files")
	case len(files) == 1:
		return append([]byte(nil), files[0]...), nil
	case chunks < 1 || chunks > MaxChunks:
		return nil, errors.Newf("group: chunk count %d out of range [1, %d]", chunks, MaxChunks)
	}

	sizes := make([][]int, chunks)
	total := TrailerLen(len(files), chunks)
	for c := range sizes {
		sizes[c] = make([]int, len(files))
		for f, b := range files {
			if len(b) > math.MaxInt32 {
				return nil, errors.Newf("group: file %d of %d bytes is too large", f, len(b))
			}
			sizes[c][f] = chunkLen(len(b), c, chunks)
			total += sizes[c][f]
		}
	}

	buf := make([]byte, 0, total)
	offsets := make([]int, len(files))
	for c := range sizes {
		for f, b := range files {
			buf = append(buf, b[offsets[f]:offsets[f]+sizes[c][f]]...)
			offsets[f] += sizes[c][f]
		}
	}
	for c := range sizes {
		for f := range files {
			n := sizes[c][f]
			if c > 0 {
				n -= sizes[c-1][f]
			}
			buf = binary.BigEndian.AppendUint32(buf, uint32(int32(n)))
		}
	}
	return append(buf, byte(chunks)), nil
}

// chunkLen returns the length of chunk c when n bytes are cut into chunks
// pieces. Chunks are even; the last also takes the remainder.
func chunkLen(n, c, chunks int) int {
	l := n / chunks
	if c == chunks-1 {
		l += n % chunks
	}
	return l
}

// Join splits a group payload back into its files. fileCount is the number
// of files the group's settings list. The trailer must account for every
// byte of buf.
func Join(buf []byte, fileCount int) ([][]byte, error) {
	switch {
	case fileCount < 1:
		return nil, errors.Newf("group: file count %d", fileCount)
	case fileCount == 1:
		return [][]byte{append([]byte(nil), buf...)}, nil
	case len(buf) == 0:
		return nil, base.DecodeErrorf("group: empty payload")
	}

	chunks := int(buf[len(buf)-1])
	if chunks == 0 {
		return nil, base.DecodeErrorf("group: zero chunk count")
	}
	trailerLen := TrailerLen(fileCount, chunks)
	if trailerLen > len(buf) {
		return nil, base.DecodeErrorf("group: trailer of %d bytes exceeds payload of %d", trailerLen, len(buf))
	}
	dataLen := len(buf) - trailerLen
	trailer := buf[dataLen : len(buf)-1]

	sizes := make([][]int, chunks)
	fileLens := make([]int, fileCount)
	running := make([]int64, fileCount)
	var total int64
	for c := range sizes {
		sizes[c] = make([]int, fileCount)
		for f := range fileCount {
			running[f] += int64(int32(binary.BigEndian.Uint32(trailer)))
			trailer = trailer[lenSize:]
			if running[f] < 0 || running[f] > int64(dataLen) {
				return nil, base.DecodeErrorf("group: chunk %d of file %d has length %d", c, f, running[f])
			}
			sizes[c][f] = int(running[f])
			fileLens[f] += sizes[c][f]
			total += running[f]
		}
	}
	if total != int64(dataLen) {
		return nil, base.DecodeErrorf("group: chunks cover %d bytes, payload has %d", total, dataLen)
	}

	files := make([][]byte, fileCount)
	for f := range files {
		files[f] = make([]byte, 0, fileLens[f])
	}
	data := buf[:dataLen]
	for c := range sizes {
		for f := range files {
			files[f] = append(files[f], data[:sizes[c][f]]...)
			data = data[sizes[c][f]:]
		}
	}
	return files, nil
}
