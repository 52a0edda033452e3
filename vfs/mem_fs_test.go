// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vfs

import (
	"io"
	"sort"
	"testing"

	"github.com/cockroachdb/errors/oserror"
	"github.com/stretchr/testify/require"
)

func TestMemFSBasics(t *testing.T) {
	fs := NewMem()
	require.NoError(t, fs.MkdirAll("cache/sub", 0755))

	f, err := fs.Create("cache/a")
	require.NoError(t, err)
	_, err = f.WriteAt([]byte("hello"), 0)
	require.NoError(t, err)
	// Writing past the end zero-fills the gap.
	_, err = f.WriteAt([]byte("!"), 8)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	finfo, err := fs.Stat("cache/a")
	require.NoError(t, err)
	require.EqualValues(t, 9, finfo.Size())
	require.Equal(t, "a", finfo.Name())
	require.False(t, finfo.IsDir())

	f, err = fs.Open("cache/a")
	require.NoError(t, err)
	buf := make([]byte, 9)
	n, err := f.ReadAt(buf, 0)
	require.NoError(t, err)
	require.Equal(t, 9, n)
	require.Equal(t, []byte("hello\x00\x00\x00!"), buf)

	// Short reads report io.EOF.
	n, err = f.ReadAt(buf, 5)
	require.Equal(t, io.EOF, err)
	require.Equal(t, 4, n)

	// Files opened with Open are read-only.
	_, err = f.WriteAt([]byte("x"), 0)
	require.Error(t, err)
	require.NoError(t, f.Close())

	f, err = fs.OpenReadWrite("cache/a")
	require.NoError(t, err)
	_, err = f.WriteAt([]byte("J"), 0)
	require.NoError(t, err)
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())

	names, err := fs.List("cache")
	require.NoError(t, err)
	sort.Strings(names)
	require.Equal(t, []string{"a", "sub"}, names)

	require.NoError(t, fs.Remove("cache/a"))
	_, err = fs.Stat("cache/a")
	require.True(t, oserror.IsNotExist(err), "%v", err)
	_, err = fs.OpenReadWrite("cache/a")
	require.True(t, oserror.IsNotExist(err), "%v", err)
}

func TestMemFSMissingParent(t *testing.T) {
	fs := NewMem()
	_, err := fs.Create("missing/file")
	require.True(t, oserror.IsNotExist(err), "%v", err)
	_, err = fs.List("missing")
	require.True(t, oserror.IsNotExist(err), "%v", err)
}

func TestMemFSCreateTruncates(t *testing.T) {
	fs := NewMem()
	f, err := fs.Create("x")
	require.NoError(t, err)
	_, err = f.WriteAt([]byte("abc"), 0)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	f, err = fs.Create("x")
	require.NoError(t, err)
	size, err := Size(f)
	require.NoError(t, err)
	require.EqualValues(t, 0, size)
	require.NoError(t, f.Close())
}

func TestMemFSNested(t *testing.T) {
	fs := NewMem()
	require.NoError(t, fs.MkdirAll("d", 0755))
	f, err := fs.Create("d/f")
	require.NoError(t, err)
	_, err = f.WriteAt([]byte("abcd"), 0)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	names, err := fs.List("d")
	require.NoError(t, err)
	require.Equal(t, []string{"f"}, names)
	finfo, err := fs.Stat("d")
	require.NoError(t, err)
	require.True(t, finfo.IsDir())
	finfo, err = fs.Stat("d/f")
	require.NoError(t, err)
	require.False(t, finfo.IsDir())
	require.EqualValues(t, 4, finfo.Size())
}
