// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package settings

import (
	"testing"

	"github.com/Guthix/Jagex-Store-5-sub001/internal/base"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestSmart(t *testing.T) {
	testCases := []struct {
		v   uint32
		enc []byte
	}{
		{0, []byte{0x00, 0x00}},
		{1, []byte{0x00, 0x01}},
		{32767, []byte{0x7f, 0xff}},
		{32768, []byte{0x80, 0x00, 0x80, 0x00}},
		{65536, []byte{0x80, 0x01, 0x00, 0x00}},
		{MaxSmart, []byte{0xff, 0xff, 0xff, 0xff}},
	}
	for _, tc := range testCases {
		enc := AppendSmart(nil, tc.v)
		require.Equal(t, tc.enc, enc, "%d", tc.v)
		require.Equal(t, len(tc.enc), SmartLen(tc.v))
		v, n, err := ReadSmart(append(enc, 0xaa))
		require.NoError(t, err)
		require.Equal(t, tc.v, v)
		require.Equal(t, len(tc.enc), n)
	}
	require.Panics(t, func() { AppendSmart(nil, MaxSmart+1) })

	for _, b := range [][]byte{nil, {0x00}, {0x80}, {0x80, 0x00, 0x00}} {
		_, _, err := ReadSmart(b)
		require.True(t, errors.Is(err, base.ErrDecode), "%x", b)
	}
}

func TestEncodeBytes(t *testing.T) {
	a := NewArchive(ProtocolOriginal, 0)
	g := a.AddGroup(3)
	g.CompressedCRC = 0x01020304
	g.Version = 7
	g.Files[0] = &File{ID: 0}
	g.Files[2] = &File{ID: 2}

	buf, err := Encode(a)
	require.NoError(t, err)
	require.Equal(t, []byte{
		5, 0, // protocol, flags
		0, 1, 0, 3, // group count, id delta
		1, 2, 3, 4, // crc
		0, 0, 0, 7, // version
		0, 2, // file count
		0, 0, 0, 2, // file id deltas
	}, buf)

	a.Protocol = ProtocolVersioned
	a.Version = 0x0a0b0c0d
	buf, err = Encode(a)
	require.NoError(t, err)
	require.Equal(t, []byte{6, 0x0a, 0x0b, 0x0c, 0x0d, 0}, buf[:6])

	a.Protocol = ProtocolSmart
	a.AddGroup(40000)
	buf, err = Encode(a)
	require.NoError(t, err)
	// Group id deltas 3 and 39997, the second in the 4 byte form.
	require.Equal(t, []byte{0, 2, 0, 3, 0x80, 0, 0x9c, 0x3d}, buf[6:14])
}

// exampleArchive has three groups with two or three files each and every
// optional column enabled.
func exampleArchive() *Archive {
	a := NewArchive(ProtocolSmart, FlagNames|FlagDigests|FlagSizes|FlagUncompressedCRC)
	a.Version = 1234
	for i, spec := range []struct {
		id    uint32
		files []uint32
	}{
		{0, []uint32{0, 1}},
		{1, []uint32{0, 1, 2}},
		{3, []uint32{0, 5, 40000}},
	} {
		g := a.AddGroup(spec.id)
		g.NameHash = NameHash("group" + string(rune('a'+i)))
		g.CompressedCRC = 0xdead0000 + spec.id
		g.UncompressedCRC = 0xbeef0000 + spec.id
		for j := range g.Digest {
			g.Digest[j] = byte(int(spec.id) + j)
		}
		g.CompressedSize = 100 + spec.id
		g.UncompressedSize = 1000 + spec.id
		g.Version = int32(spec.id) * 10
		for _, f := range spec.files {
			g.Files[f] = &File{ID: f, NameHash: int32(f)*7 - 3}
		}
	}
	return a
}

func TestRoundTrip(t *testing.T) {
	a := exampleArchive()
	buf, err := Encode(a)
	require.NoError(t, err)
	got, err := Decode(buf)
	require.NoError(t, err)
	require.Equal(t, a, got)

	again, err := Encode(got)
	require.NoError(t, err)
	require.Equal(t, buf, again)

	for _, p := range []Protocol{ProtocolOriginal, ProtocolVersioned} {
		a := exampleArchive()
		a.Protocol = p
		if p == ProtocolOriginal {
			a.Version = 0
		}
		// 40000 is a valid 16 bit delta too.
		buf, err := Encode(a)
		require.NoError(t, err)
		got, err := Decode(buf)
		require.NoError(t, err)
		require.Equal(t, a, got)
	}
}

func TestRoundTripNoFlags(t *testing.T) {
	a := NewArchive(ProtocolSmart, 0)
	a.AddGroup(0)
	g := a.AddGroup(7)
	g.CompressedCRC = 99
	g.Files[4] = &File{ID: 4}
	buf, err := Encode(a)
	require.NoError(t, err)
	got, err := Decode(buf)
	require.NoError(t, err)
	require.Equal(t, a, got)
}

func TestDecodeTruncated(t *testing.T) {
	buf, err := Encode(exampleArchive())
	require.NoError(t, err)
	for i := 0; i < len(buf); i++ {
		_, err := Decode(buf[:i])
		require.True(t, errors.Is(err, base.ErrDecode), "prefix %d: %v", i, err)
	}
	_, err = Decode(append(buf, 0))
	require.True(t, errors.Is(err, base.ErrDecode))
}

func TestDecodeErrors(t *testing.T) {
	testCases := []struct {
		name string
		buf  []byte
	}{
		{"protocol", []byte{4, 0, 0, 0}},
		{"flags", []byte{5, 0x10, 0, 0}},
		{"duplicate group", []byte{5, 0, 0, 2, 0, 1, 0, 0}},
		{"count beyond input", []byte{5, 0, 0xff, 0xff}},
		{"duplicate file", []byte{
			5, 0, 0, 1, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 2, 0, 1, 0, 0,
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.buf)
			require.True(t, errors.Is(err, base.ErrDecode), "%v", err)
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	a := NewArchive(ProtocolOriginal, 0)
	a.AddGroup(70000)
	_, err := Encode(a)
	require.Error(t, err)

	a = NewArchive(ProtocolSmart, 0x20)
	_, err = Encode(a)
	require.Error(t, err)

	a = NewArchive(9, 0)
	_, err = Encode(a)
	require.Error(t, err)
}

func TestLookups(t *testing.T) {
	a := exampleArchive()
	require.Equal(t, []uint32{0, 1, 3}, a.GroupIDs())

	g, ok := a.GroupByName("groupc")
	require.True(t, ok)
	require.Equal(t, uint32(3), g.ID)
	_, ok = a.GroupByName("nope")
	require.False(t, ok)

	g.Files[9] = &File{ID: 9, NameHash: NameHash("model")}
	f, ok := g.FileByName("model")
	require.True(t, ok)
	require.Equal(t, uint32(9), f.ID)

	idx, ok := g.FileIndex(40000)
	require.True(t, ok)
	require.Equal(t, 3, idx)
	_, ok = g.FileIndex(6)
	require.False(t, ok)
}

func TestNameHash(t *testing.T) {
	require.Equal(t, int32(0), NameHash(""))
	require.Equal(t, int32(97), NameHash("a"))
	require.Equal(t, int32(97*31+98), NameHash("ab"))
	require.Equal(t, int32(0xe9), NameHash("é"))
	require.Equal(t, int32(0x80), NameHash("€"))
	require.Equal(t, int32('?'), NameHash("日"))
	// Overflow wraps like 32 bit arithmetic.
	var want int32
	for _, c := range []byte("a_rather_long_name") {
		want = 31*want + int32(c)
	}
	require.Equal(t, want, NameHash("a_rather_long_name"))
}

func TestFlagsString(t *testing.T) {
	require.Equal(t, "none", Flags(0).String())
	require.Equal(t, "names|sizes", (FlagNames | FlagSizes).String())
	require.Equal(t, "digests|0x40", (FlagDigests | 0x40).String())
}
