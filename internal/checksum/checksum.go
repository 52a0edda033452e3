// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package checksum provides the two integrity functions recorded in archive
// settings: a CRC-32 over the stored container bytes and a 512-bit Whirlpool
// digest.
package checksum

import (
	"hash/crc32"

	"github.com/jzelinskie/whirlpool"
)

// DigestSize is the length of a Whirlpool digest in bytes.
const DigestSize = 64

// CRC32Func computes a 32-bit checksum.
type CRC32Func func(b []byte) uint32

// DigestFunc computes a 64 byte digest.
type DigestFunc func(b []byte) [DigestSize]byte

// CRC32 returns the IEEE CRC-32 of b.
func CRC32(b []byte) uint32 {
	return crc32.ChecksumIEEE(b)
}

// Whirlpool returns the Whirlpool digest of b.
func Whirlpool(b []byte) [DigestSize]byte {
	h := whirlpool.New()
	h.Write(b)
	var d [DigestSize]byte
	h.Sum(d[:0])
	return d
}

var _ CRC32Func = CRC32
var _ DigestFunc = Whirlpool
