// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package js5

import (
	"fmt"
	"math"

	"github.com/Guthix/Jagex-Store-5-sub001/container"
	"github.com/Guthix/Jagex-Store-5-sub001/vfs"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// KeyProvider supplies the XTEA key of encrypted groups.
type KeyProvider interface {
	// Key returns the key of a group and whether the group has one.
	Key(archive uint8, group uint32) (container.Key, bool)
}

// GroupRef names a group within an archive.
type GroupRef struct {
	Archive uint8
	Group   uint32
}

// String implements fmt.Stringer.
func (r GroupRef) String() string {
	return fmt.Sprintf("%d/%d", r.Archive, r.Group)
}

// KeySet is a KeyProvider backed by a map.
type KeySet map[GroupRef]container.Key

var _ KeyProvider = KeySet(nil)

// Key implements KeyProvider.
func (s KeySet) Key(archive uint8, group uint32) (container.Key, bool) {
	k, ok := s[GroupRef{Archive: archive, Group: group}]
	return k, ok
}

// keyEntry is one element of a key file.
type keyEntry struct {
	Archive int     `yaml:"archive"`
	Group   int64   `yaml:"group"`
	Key     []int64 `yaml:"key"`
}

// ParseKeySet parses a key file: a YAML (or JSON) list of entries with an
// archive, a group and a key of four signed or unsigned 32 bit words. Other
// fields are ignored. Zero keys are skipped.
//
//	- archive: 5
//	  group: 1
//	  key: [-1920480496, 1423914612, -1582478528, 1507154560]
func ParseKeySet(data []byte) (KeySet, error) {
	var entries []keyEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrap(err, "js5: parsing key set")
	}
	set := make(KeySet, len(entries))
	for i, e := range entries {
		if e.Archive < 0 || e.Archive >= SettingsPartition {
			return nil, errors.Newf("js5: key %d: archive %d out of range", i, e.Archive)
		}
		if e.Group < 0 || e.Group > math.MaxUint32 {
			return nil, errors.Newf("js5: key %d: group %d out of range", i, e.Group)
		}
		if len(e.Key) != len(container.Key{}) {
			return nil, errors.Newf("js5: key %d: expected 4 words, found %d", i, len(e.Key))
		}
		var k container.Key
		for j, w := range e.Key {
			if w < math.MinInt32 || w > math.MaxUint32 {
				return nil, errors.Newf("js5: key %d: word %d out of range", i, w)
			}
			k[j] = uint32(w)
		}
		if k.IsZero() {
			continue
		}
		set[GroupRef{Archive: uint8(e.Archive), Group: uint32(e.Group)}] = k
	}
	return set, nil
}

// LoadKeySet reads and parses a key file.
func LoadKeySet(fs vfs.FS, path string) (KeySet, error) {
	data, err := vfs.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	return ParseKeySet(data)
}
