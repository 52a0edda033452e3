// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import (
	"testing"

	"github.com/Guthix/Jagex-Store-5-sub001/vfs"
	"github.com/stretchr/testify/require"
)

func TestParseFilename(t *testing.T) {
	testCases := map[string]struct {
		fileType  FileType
		partition uint8
		ok        bool
	}{
		"main_file_cache.dat2":   {FileTypeData, 0, true},
		"main_file_cache.idx0":   {FileTypeIndex, 0, true},
		"main_file_cache.idx17":  {FileTypeIndex, 17, true},
		"main_file_cache.idx255": {FileTypeIndex, 255, true},
		"main_file_cache.idx256": {0, 0, false},
		"main_file_cache.idx01":  {0, 0, false},
		"main_file_cache.idx":    {0, 0, false},
		"main_file_cache.idxa":   {0, 0, false},
		"main_file_cache.dat":    {0, 0, false},
		"LOCK":                   {0, 0, false},
	}
	fs := vfs.NewMem()
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			fileType, partition, ok := ParseFilename(fs, fs.PathJoin("foo", name))
			require.Equal(t, tc.ok, ok)
			if !ok {
				return
			}
			require.Equal(t, tc.fileType, fileType)
			require.Equal(t, tc.partition, partition)
		})
	}
}

func TestFilenameRoundTrip(t *testing.T) {
	fs := vfs.NewMem()
	for _, partition := range []uint8{0, 1, 9, 10, 200, SettingsPartition} {
		path := MakeFilepath(fs, "dir", FileTypeIndex, partition)
		fileType, p, ok := ParseFilename(fs, path)
		require.True(t, ok, path)
		require.Equal(t, FileTypeIndex, fileType)
		require.Equal(t, partition, p)
	}
	fileType, _, ok := ParseFilename(fs, MakeFilepath(fs, "dir", FileTypeData, 0))
	require.True(t, ok)
	require.Equal(t, FileTypeData, fileType)
}
