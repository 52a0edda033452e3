// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package js5

import (
	"github.com/Guthix/Jagex-Store-5-sub001/container"
	"github.com/Guthix/Jagex-Store-5-sub001/internal/checksum"
	"github.com/Guthix/Jagex-Store-5-sub001/settings"
	"github.com/Guthix/Jagex-Store-5-sub001/vfs"
)

// Options holds the optional parameters for configuring a store and a cache.
// These options apply to a Store or Cache; they are not persisted.
type Options struct {
	// FS provides the interface for persistent file storage.
	//
	// The default value uses the underlying operating system's file system.
	FS vfs.FS

	// Logger used to write log messages.
	//
	// The default logger uses the Go standard library log package.
	Logger Logger

	// ReadOnly opens every file read-only. Write and Remove return
	// ErrReadOnly.
	ReadOnly bool

	// Keys supplies the XTEA keys of encrypted groups. Groups without a key
	// are read and written unencrypted.
	Keys KeyProvider

	// Checksum computes the group CRCs recorded in archive settings.
	//
	// The default is the IEEE CRC-32.
	Checksum checksum.CRC32Func

	// Digest computes the group digests recorded in archive settings when
	// the archive carries digests.
	//
	// The default is Whirlpool.
	Digest checksum.DigestFunc

	// SettingsCompression compresses archive settings when a cache flushes
	// them. The zero value stores them uncompressed.
	SettingsCompression Compression

	// SettingsProtocol and SettingsFlags describe the settings table created
	// for an archive that does not have one yet.
	//
	// The default protocol is settings.ProtocolSmart.
	SettingsProtocol settings.Protocol
	SettingsFlags    settings.Flags
}

// EnsureDefaults ensures that the default values for all options are set if a
// valid value was not already specified. Returns the new options.
func (o *Options) EnsureDefaults() *Options {
	if o == nil {
		o = &Options{}
	}
	if o.FS == nil {
		o.FS = vfs.Default
	}
	if o.Logger == nil {
		o.Logger = DefaultLogger{}
	}
	if o.Keys == nil {
		o.Keys = KeySet{}
	}
	if o.Checksum == nil {
		o.Checksum = checksum.CRC32
	}
	if o.Digest == nil {
		o.Digest = checksum.Whirlpool
	}
	if o.SettingsProtocol == 0 {
		o.SettingsProtocol = settings.ProtocolSmart
	}
	return o
}

// Clone creates a shallow copy of the supplied options.
func (o *Options) Clone() *Options {
	n := &Options{}
	if o != nil {
		*n = *o
	}
	return n
}

// key returns the key of a group, or the zero key.
func (o *Options) key(archive uint8, group uint32) container.Key {
	k, _ := o.Keys.Key(archive, group)
	return k
}
