// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package container

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/Guthix/Jagex-Store-5-sub001/internal/base"
	"github.com/cockroachdb/crlib/testutils/leaktest"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

var compressions = []Compression{None, Bzip2, Gzip, LZMA}

func randomPayload(rng *rand.Rand, n int) []byte {
	p := make([]byte, n)
	for i := range p {
		// Keep some redundancy so every codec actually compresses.
		p[i] = byte(rng.IntN(16))
	}
	return p
}

func TestRoundTrip(t *testing.T) {
	defer leaktest.AfterTest(t)()

	seed := uint64(time.Now().UnixNano())
	t.Logf("seed %d", seed)
	rng := rand.New(rand.NewPCG(0, seed))

	keys := []Key{{}, {1, 2, 3, 4}, {0xdeadbeef, 0, 0x7fffffff, 0xffffffff}}
	versions := []Version{NoVersion, 0, 1, 17, MaxVersion}
	for _, c := range compressions {
		for _, n := range []int{0, 1, 7, 8, 9, 100, 4096 + rng.IntN(4096)} {
			for _, key := range keys {
				v := versions[rng.IntN(len(versions))]
				t.Run(fmt.Sprintf("%s/%d/%s/%d", c, n, key, v), func(t *testing.T) {
					p := randomPayload(rng, n)
					buf, err := Encode(p, c, key, v)
					require.NoError(t, err)
					require.Equal(t, byte(c), buf[0])

					got, gotV, err := Decode(buf, key)
					require.NoError(t, err)
					require.Equal(t, v, gotV)
					require.True(t, bytes.Equal(p, got))

					peeked, err := PeekVersion(buf)
					require.NoError(t, err)
					require.Equal(t, v, peeked)
				})
			}
		}
	}
}

func TestEncodeLayout(t *testing.T) {
	buf, err := Encode([]byte("abc"), None, Key{}, 258)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 0, 3, 'a', 'b', 'c', 1, 2}, buf)

	buf, err = Encode([]byte("abc"), Gzip, Key{}, NoVersion)
	require.NoError(t, err)
	require.Equal(t, byte(Gzip), buf[0])
	// The inner header carries the uncompressed length.
	require.Equal(t, []byte{0, 0, 0, 3}, buf[5:9])
	h, err := ParseHeader(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), h.End)
	require.Equal(t, len(buf)-9, h.CompressedLen)
	require.Equal(t, NoVersion, h.Version)
}

func TestWrongKey(t *testing.T) {
	rng := rand.New(rand.NewPCG(0, 1))
	p := randomPayload(rng, 64)
	key := Key{1, 2, 3, 4}
	other := Key{1, 2, 3, 5}

	buf, err := Encode(p, None, key, NoVersion)
	require.NoError(t, err)
	got, _, err := Decode(buf, other)
	require.NoError(t, err)
	require.NotEqual(t, p, got)

	for _, c := range []Compression{Bzip2, Gzip} {
		buf, err := Encode(p, c, key, NoVersion)
		require.NoError(t, err)
		_, _, err = Decode(buf, other)
		require.True(t, errors.Is(err, base.ErrDecode), "%v", err)
		require.False(t, errors.Is(err, base.ErrMissingKey))
	}
}

func TestMissingKey(t *testing.T) {
	p := bytes.Repeat([]byte("missing key "), 20)
	for _, c := range []Compression{Bzip2, Gzip} {
		buf, err := Encode(p, c, Key{9, 9, 9, 9}, 3)
		require.NoError(t, err)
		_, _, err = Decode(buf, Key{})
		require.True(t, errors.Is(err, base.ErrMissingKey), "%s: %v", c, err)
		require.True(t, errors.Is(err, base.ErrDecode))

		v, err := PeekVersion(buf)
		require.NoError(t, err)
		require.Equal(t, Version(3), v)
	}
}

func TestPartialQuadInPlaintext(t *testing.T) {
	p := []byte("0123456789abc")
	buf, err := Encode(p, None, Key{1, 2, 3, 4}, NoVersion)
	require.NoError(t, err)
	require.NotEqual(t, p[:8], buf[5:13])
	require.Equal(t, p[8:], buf[13:])
}

func TestDecodeErrors(t *testing.T) {
	valid, err := Encode([]byte("payload"), Gzip, Key{}, NoVersion)
	require.NoError(t, err)

	testCases := []struct {
		name string
		buf  []byte
		mark error
	}{
		{"empty", nil, base.ErrDecode},
		{"short header", []byte{0, 0, 0}, base.ErrDecode},
		{"unknown opcode", []byte{4, 0, 0, 0, 0}, base.ErrUnsupportedCodec},
		{"truncated", valid[:len(valid)-1], base.ErrDecode},
		{"one byte trailer", append(append([]byte(nil), valid...), 7), base.ErrDecode},
		{"missing data", []byte{byte(None), 0, 0, 0, 1}, base.ErrDecode},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Decode(tc.buf, Key{})
			require.Error(t, err)
			require.True(t, errors.Is(err, tc.mark), "%v", err)
		})
	}

	_, _, err = Decode([]byte{9, 0, 0, 0, 0}, Key{})
	require.True(t, errors.Is(err, base.ErrDecode))
}

func TestDecompressedLengthMismatch(t *testing.T) {
	buf, err := Encode([]byte("some payload"), Gzip, Key{}, NoVersion)
	require.NoError(t, err)
	// Claim two more bytes than the stream holds.
	buf[8] += 2
	_, _, err = Decode(buf, Key{})
	require.True(t, errors.Is(err, base.ErrDecode), "%v", err)
}

func TestVersionTrailer(t *testing.T) {
	for _, v := range []Version{0, 1, 255, 256, MaxVersion} {
		buf, err := Encode([]byte("x"), LZMA, Key{}, v)
		require.NoError(t, err)
		got, err := PeekVersion(buf)
		require.NoError(t, err)
		require.Equal(t, v, got)

		stripped, err := StripVersion(buf)
		require.NoError(t, err)
		require.Len(t, stripped, len(buf)-2)
		got, err = PeekVersion(stripped)
		require.NoError(t, err)
		require.Equal(t, NoVersion, got)
	}

	// Bytes beyond the version are ignored.
	buf, err := Encode([]byte("x"), None, Key{}, 5)
	require.NoError(t, err)
	got, err := PeekVersion(append(buf, 0xff))
	require.NoError(t, err)
	require.Equal(t, Version(5), got)

	_, err = Encode(nil, None, Key{}, MaxVersion+1)
	require.Error(t, err)
	_, err = Encode(nil, None, Key{}, -2)
	require.Error(t, err)
}

func TestKey(t *testing.T) {
	k, err := ParseKey("1, -2,3,4294967295")
	require.NoError(t, err)
	require.Equal(t, Key{1, 0xfffffffe, 3, 0xffffffff}, k)
	require.Equal(t, "1,-2,3,-1", k.String())

	again, err := ParseKey(k.String())
	require.NoError(t, err)
	require.Equal(t, k, again)

	for _, s := range []string{"", "1,2,3", "1,2,3,x", "1,2,3,4294967296"} {
		_, err := ParseKey(s)
		require.Error(t, err, s)
	}

	b := []byte("0123456789abcdef!")
	orig := append([]byte(nil), b...)
	k.Encrypt(b)
	require.NotEqual(t, orig[:16], b[:16])
	require.Equal(t, orig[16:], b[16:])
	k.Decrypt(b)
	require.Equal(t, orig, b)

	Key{}.Encrypt(b)
	require.Equal(t, orig, b)
}
