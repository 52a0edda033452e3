// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package js5

import (
	"testing"

	"github.com/Guthix/Jagex-Store-5-sub001/container"
	"github.com/Guthix/Jagex-Store-5-sub001/vfs"
	"github.com/stretchr/testify/require"
)

func TestParseKeySet(t *testing.T) {
	set, err := ParseKeySet([]byte(`
- archive: 5
  group: 1
  key: [-1920480496, 1423914612, -1582478528, 1507154560]
- archive: 5
  group: 2
  key: [0, 0, 0, 0]
`))
	require.NoError(t, err)
	require.Len(t, set, 1)
	k, ok := set.Key(5, 1)
	require.True(t, ok)
	require.Equal(t, "-1920480496,1423914612,-1582478528,1507154560", k.String())
	_, ok = set.Key(5, 2)
	require.False(t, ok)

	// JSON key dumps parse too; extra fields are ignored.
	set, err = ParseKeySet([]byte(`[{"archive": 7, "group": 300, "name": "l50_50", "key": [1, 2, 3, 4294967295]}]`))
	require.NoError(t, err)
	k, ok = set.Key(7, 300)
	require.True(t, ok)
	require.Equal(t, container.Key{1, 2, 3, 0xffffffff}, k)
}

func TestParseKeySetErrors(t *testing.T) {
	for _, src := range []string{
		`{not a list}`,
		`[{"archive": 255, "group": 0, "key": [1, 2, 3, 4]}]`,
		`[{"archive": 1, "group": -1, "key": [1, 2, 3, 4]}]`,
		`[{"archive": 1, "group": 0, "key": [1, 2, 3]}]`,
		`[{"archive": 1, "group": 0, "key": [1, 2, 3, 4294967296]}]`,
	} {
		_, err := ParseKeySet([]byte(src))
		require.Error(t, err, src)
	}
}

func TestLoadKeySet(t *testing.T) {
	fs := vfs.NewMem()
	f, err := fs.Create("keys.json")
	require.NoError(t, err)
	_, err = f.WriteAt([]byte(`[{"archive": 1, "group": 2, "key": [5, 6, 7, 8]}]`), 0)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	set, err := LoadKeySet(fs, "keys.json")
	require.NoError(t, err)
	require.Equal(t, KeySet{{Archive: 1, Group: 2}: {5, 6, 7, 8}}, set)

	_, err = LoadKeySet(fs, "missing.json")
	require.Error(t, err)
}
