// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import "github.com/cockroachdb/errors"

// ErrNotFound means that a read or lookup did not find the requested blob,
// partition or directory.
var ErrNotFound = errors.New("js5: not found")

// ErrCorruption is a marker to indicate that a sector chain or an index entry
// failed validation: mismatched owner ids, out of order positions or a chain
// that ends before the declared blob length.
var ErrCorruption = errors.New("js5: corruption")

// ErrDecode is a marker for malformed encoded input: a container, an archive
// settings table or a group trailer. Such input is rejected as a whole.
var ErrDecode = errors.New("js5: malformed input")

// ErrUnsupportedCodec marks a container whose compression opcode is unknown.
// Errors carrying it are also marked ErrDecode.
var ErrUnsupportedCodec = errors.New("js5: unsupported compression")

// ErrMissingKey marks a container that failed to decompress while no cipher
// key was supplied. A wrong key cannot be told apart from a missing one, so
// the marker only appears for keyless decodes. Errors carrying it are also
// marked ErrDecode.
var ErrMissingKey = errors.New("js5: missing cipher key")

// CorruptionErrorf formats according to a format specifier and returns
// the string as an error value that is marked as a corruption error.
func CorruptionErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrCorruption)
}

// DecodeErrorf formats according to a format specifier and returns the string
// as an error value that is marked as a decode error.
func DecodeErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrDecode)
}

// MarkDecode wraps err with context and marks it as a decode error.
func MarkDecode(err error, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrDecode)
}

// NotFoundErrorf formats according to a format specifier and returns the
// string as an error value that is marked as ErrNotFound.
func NotFoundErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrNotFound)
}

// ErrReadOnly is returned when mutating a store opened read-only.
var ErrReadOnly = errors.New("js5: store is read-only")
