// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package js5

import (
	"github.com/Guthix/Jagex-Store-5-sub001/container"
	"github.com/Guthix/Jagex-Store-5-sub001/internal/base"
)

// ErrNotFound is returned when a blob, partition, archive, group or file
// does not exist.
var ErrNotFound = base.ErrNotFound

// ErrCorruption is a marker for sector chains, index entries and groups that
// fail validation.
var ErrCorruption = base.ErrCorruption

// ErrDecode is a marker for malformed containers, settings tables and group
// payloads.
var ErrDecode = base.ErrDecode

// ErrUnsupportedCodec marks containers with an unknown compression opcode.
var ErrUnsupportedCodec = base.ErrUnsupportedCodec

// ErrMissingKey marks containers that failed to decode without a key.
var ErrMissingKey = base.ErrMissingKey

// ErrReadOnly is returned by mutations of a store opened read-only.
var ErrReadOnly = base.ErrReadOnly

// Logger defines an interface for writing log messages.
type Logger = base.Logger

// DefaultLogger logs to the Go stdlib logs.
type DefaultLogger = base.DefaultLogger

// Compression exports the container.Compression type.
type Compression = container.Compression

// The container compressions.
const (
	NoCompression = container.None
	Bzip2         = container.Bzip2
	Gzip          = container.Gzip
	LZMA          = container.LZMA
)

// SettingsPartition is the partition holding archive settings, one blob per
// archive.
const SettingsPartition = base.SettingsPartition
