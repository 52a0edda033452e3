// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package settings

import (
	"encoding/binary"
	"math"

	"github.com/Guthix/Jagex-Store-5-sub001/internal/base"
	"github.com/cockroachdb/errors"
)

// MaxSmart is the largest value a smart int can hold.
const MaxSmart = math.MaxInt32

// smartShortLimit is the first value that needs the 4 byte form.
const smartShortLimit = 1 << 15

// SmartLen returns the encoded length of v.
func SmartLen(v uint32) int {
	if v < smartShortLimit {
		return 2
	}
	return 4
}

// AppendSmart appends the smart int encoding of v to dst. Values below 2^15
// take 2 bytes; larger ones take 4 bytes with the top bit set. v must not
// exceed MaxSmart.
func AppendSmart(dst []byte, v uint32) []byte {
	if v > MaxSmart {
		panic(errors.AssertionFailedf("smart int %d out of range", v))
	}
	if v < smartShortLimit {
		return binary.BigEndian.AppendUint16(dst, uint16(v))
	}
	return binary.BigEndian.AppendUint32(dst, v|1<<31)
}

// ReadSmart decodes a smart int from the front of src and returns it along
// with the number of bytes consumed.
func ReadSmart(src []byte) (uint32, int, error) {
	if len(src) == 0 {
		return 0, 0, base.DecodeErrorf("smart int: empty input")
	}
	if src[0]&0x80 == 0 {
		if len(src) < 2 {
			return 0, 0, base.DecodeErrorf("smart int: truncated")
		}
		return uint32(binary.BigEndian.Uint16(src)), 2, nil
	}
	if len(src) < 4 {
		return 0, 0, base.DecodeErrorf("smart int: truncated")
	}
	return binary.BigEndian.Uint32(src) &^ (1 << 31), 4, nil
}
