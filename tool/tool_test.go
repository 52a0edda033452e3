// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"bytes"
	"testing"

	js5 "github.com/Guthix/Jagex-Store-5-sub001"
	"github.com/Guthix/Jagex-Store-5-sub001/internal/base"
	"github.com/Guthix/Jagex-Store-5-sub001/settings"
	"github.com/Guthix/Jagex-Store-5-sub001/vfs"
	"github.com/cockroachdb/crlib/testutils/leaktest"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const testDir = "cache"

// buildTestCache writes archive 0 with a plain group 1 (version 3) and a
// group 2 encrypted with the key in keys.yaml.
func buildTestCache(t *testing.T) vfs.FS {
	fs := vfs.NewMem()
	keys := js5.KeySet{{Archive: 0, Group: 2}: {1, 2, 3, 4}}
	opts := &js5.Options{
		FS:            fs,
		Logger:        base.NoopLogger{},
		Keys:          keys,
		SettingsFlags: settings.FlagNames | settings.FlagDigests | settings.FlagSizes,
	}
	s, err := js5.Create(testDir, opts)
	require.NoError(t, err)
	c := js5.NewCache(s, opts)
	require.NoError(t, c.WriteGroup(0, js5.GroupWrite{
		ID: 1, Name: "one", Version: 3, Compression: js5.Gzip,
		Files: []js5.FileWrite{{ID: 0, Data: []byte("hello")}},
	}))
	require.NoError(t, c.WriteGroup(0, js5.GroupWrite{
		ID: 2, Compression: js5.Bzip2,
		Files: []js5.FileWrite{{ID: 0, Data: []byte("secret")}, {ID: 3, Data: []byte("more")}},
	}))
	require.NoError(t, c.Flush())
	require.NoError(t, s.Close())

	f, err := fs.Create("keys.yaml")
	require.NoError(t, err)
	_, err = f.WriteAt([]byte("- archive: 0\n  group: 2\n  key: [1, 2, 3, 4]\n"), 0)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return fs
}

func runTool(t *testing.T, fs vfs.FS, args ...string) (string, error) {
	root := &cobra.Command{
		Use:           "js5",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(New(FS(fs), Logger(base.NoopLogger{})).Commands...)
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestStoreCommands(t *testing.T) {
	defer leaktest.AfterTest(t)()
	fs := buildTestCache(t)

	out, err := runTool(t, fs, "store", "info", testDir)
	require.NoError(t, err)
	require.Contains(t, out, "PARTITION")
	require.Contains(t, out, "255")

	out, err = runTool(t, fs, "store", "list", testDir, "0")
	require.NoError(t, err)
	require.Equal(t, "1\n2\n", out)

	out, err = runTool(t, fs, "store", "list", testDir, "0", "--sizes")
	require.NoError(t, err)
	require.Contains(t, out, "1: ")
	require.Contains(t, out, " bytes\n")

	out, err = runTool(t, fs, "store", "cat", testDir, "0", "1", "--decode", "--format", "quoted")
	require.NoError(t, err)
	require.Equal(t, "version: 3\n\"hello\"\n", out)

	// The encrypted group needs its key.
	_, err = runTool(t, fs, "store", "cat", testDir, "0", "2", "--decode")
	require.True(t, errors.Is(err, js5.ErrMissingKey), "%v", err)
	out, err = runTool(t, fs, "store", "cat", testDir, "0", "2", "--decode", "--format", "size", "--keys", "keys.yaml")
	require.NoError(t, err)
	// Two files of 6 and 4 bytes, one chunk: 10 bytes plus an 8 byte row and
	// the chunk count.
	require.Equal(t, "version: 0\n<19>\n", out)

	_, err = runTool(t, fs, "store", "list", testDir, "256")
	require.Error(t, err)
	_, err = runTool(t, fs, "store", "info", "missing")
	require.True(t, errors.Is(err, js5.ErrNotFound), "%v", err)
}

func TestSettingsDump(t *testing.T) {
	defer leaktest.AfterTest(t)()
	fs := buildTestCache(t)

	out, err := runTool(t, fs, "settings", "dump", testDir, "0", "--files")
	require.NoError(t, err)
	require.Contains(t, out, "protocol: 7\n")
	require.Contains(t, out, "flags: names|digests|sizes\n")
	require.Contains(t, out, "groups: 2\n")
	require.Contains(t, out, "group 2: 0 3\n")
	require.Contains(t, out, "NAME")

	_, err = runTool(t, fs, "settings", "dump", testDir, "255")
	require.Error(t, err)
	_, err = runTool(t, fs, "settings", "dump", testDir, "4")
	require.True(t, errors.Is(err, js5.ErrNotFound), "%v", err)
}

func TestVerify(t *testing.T) {
	defer leaktest.AfterTest(t)()
	fs := buildTestCache(t)

	out, err := runTool(t, fs, "verify", testDir)
	require.NoError(t, err)
	require.Equal(t, "archive 0: 2 groups, 0 failed\n", out)

	// Replace group 1 with a container the settings do not describe.
	s, err := js5.Open(testDir, &js5.Options{FS: fs, Logger: base.NoopLogger{}})
	require.NoError(t, err)
	b, err := s.Read(0, 2)
	require.NoError(t, err)
	require.NoError(t, s.Write(0, 1, b))
	require.NoError(t, s.Close())

	out, err = runTool(t, fs, "verify", testDir, "0", "-c", "1")
	require.Error(t, err)
	require.Contains(t, out, "archive 0: 2 groups, 1 failed\n")
	require.Contains(t, out, "  group 1: ")
}

func TestVersionCommands(t *testing.T) {
	defer leaktest.AfterTest(t)()
	fs := buildTestCache(t)

	out, err := runTool(t, fs, "version", "peek", testDir, "0")
	require.NoError(t, err)
	require.Equal(t, "1: 3\n2: 0\n", out)

	out, err = runTool(t, fs, "version", "strip", testDir, "0", "1")
	require.NoError(t, err)
	require.Equal(t, "stripped 1 of 1 blobs\n", out)

	out, err = runTool(t, fs, "version", "peek", testDir, "0", "1")
	require.NoError(t, err)
	require.Equal(t, "1: none\n", out)

	// Checksums do not cover the version trailer.
	_, err = runTool(t, fs, "verify", testDir)
	require.NoError(t, err)

	_, err = runTool(t, fs, "version", "peek", testDir, "0", "9")
	require.True(t, errors.Is(err, js5.ErrNotFound), "%v", err)
}
