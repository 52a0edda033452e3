// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package js5

import (
	"strings"
	"testing"

	"github.com/Guthix/Jagex-Store-5-sub001/internal/checksum"
	"github.com/Guthix/Jagex-Store-5-sub001/settings"
	"github.com/Guthix/Jagex-Store-5-sub001/vfs"
	"github.com/stretchr/testify/require"
)

func TestOptionsEnsureDefaults(t *testing.T) {
	var nilOpts *Options
	o := nilOpts.EnsureDefaults()
	require.Equal(t, vfs.Default, o.FS)
	require.Equal(t, DefaultLogger{}, o.Logger)
	require.Equal(t, settings.ProtocolSmart, o.SettingsProtocol)
	require.Equal(t, NoCompression, o.SettingsCompression)
	require.Equal(t, checksum.CRC32([]byte("x")), o.Checksum([]byte("x")))
	require.Equal(t, checksum.Whirlpool([]byte("x")), o.Digest([]byte("x")))
	_, ok := o.Keys.Key(0, 0)
	require.False(t, ok)

	mem := vfs.NewMem()
	o = (&Options{FS: mem, SettingsProtocol: settings.ProtocolOriginal}).EnsureDefaults()
	require.Equal(t, mem, o.FS)
	require.Equal(t, settings.ProtocolOriginal, o.SettingsProtocol)
}

func TestOptionsClone(t *testing.T) {
	o := &Options{ReadOnly: true}
	c := o.Clone()
	c.ReadOnly = false
	require.True(t, o.ReadOnly)
	require.NotNil(t, (*Options)(nil).Clone())
}

func TestMetricsString(t *testing.T) {
	s, _ := openTestStore(t)
	defer s.Close()
	require.NoError(t, s.Write(0, 1, make([]byte, 2000)))
	_, err := s.Read(0, 1)
	require.NoError(t, err)

	str := s.Metrics().String()
	for _, want := range []string{"read  |", "write |", "sectors: 4 allocated, 0 reused, 0 orphaned", "partitions: 2"} {
		require.True(t, strings.Contains(str, want), "%q missing from\n%s", want, str)
	}
}
