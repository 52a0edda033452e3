// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package container

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/xtea"
)

// QuadSize is the XTEA block size. Encryption works on whole quads only.
const QuadSize = xtea.BlockSize

// Key is a 128-bit XTEA key as four big-endian words. The zero Key means
// "not encrypted".
type Key [4]uint32

// IsZero reports whether k is the zero key.
func (k Key) IsZero() bool {
	return k == Key{}
}

func (k Key) cipher() *xtea.Cipher {
	var b [16]byte
	for i, w := range k {
		binary.BigEndian.PutUint32(b[i*4:], w)
	}
	c, err := xtea.NewCipher(b[:])
	if err != nil {
		panic(errors.AssertionFailedf("xtea: %v", err))
	}
	return c
}

// Encrypt encrypts b in place one quad at a time. A trailing partial quad is
// left as is. Encrypting with the zero key is a no-op.
func (k Key) Encrypt(b []byte) {
	if k.IsZero() {
		return
	}
	c := k.cipher()
	for len(b) >= QuadSize {
		c.Encrypt(b[:QuadSize], b[:QuadSize])
		b = b[QuadSize:]
	}
}

// Decrypt reverses Encrypt.
func (k Key) Decrypt(b []byte) {
	if k.IsZero() {
		return
	}
	c := k.cipher()
	for len(b) >= QuadSize {
		c.Decrypt(b[:QuadSize], b[:QuadSize])
		b = b[QuadSize:]
	}
}

// String formats k as four comma separated signed words, the form keys are
// usually published in.
func (k Key) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", int32(k[0]), int32(k[1]), int32(k[2]), int32(k[3]))
}

// ParseKey parses four comma separated words. Each word may be written signed
// or unsigned.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, ",")
	if len(parts) != len(Key{}) {
		return Key{}, errors.Newf("key %q: expected 4 words, found %d", s, len(parts))
	}
	var k Key
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return Key{}, errors.Wrapf(err, "key %q", s)
		}
		if v < -1<<31 || v > 1<<32-1 {
			return Key{}, errors.Newf("key %q: word %d out of range", s, v)
		}
		k[i] = uint32(v)
	}
	return k, nil
}
