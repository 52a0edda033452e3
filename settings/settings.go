// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package settings implements the archive settings table: the metadata stored
// for each archive in the reserved settings partition. It lists the archive's
// groups with their checksums, versions and file tables.
//
// The encoded table is laid out as:
//
//	protocol        1 byte (5, 6 or 7)
//	version         4 bytes, protocol >= 6 only
//	flags           1 byte
//	group count     count
//	group ids       count deltas, ascending
//	name hashes     4 bytes per group, FlagNames only
//	crcs            4 bytes per group
//	uncompressed    4 bytes per group, FlagUncompressedCRC only
//	digests         64 bytes per group, FlagDigests only
//	sizes           4+4 bytes per group, FlagSizes only
//	versions        4 bytes per group
//	file counts     count per group
//	file ids        count deltas per file, group by group
//	file names      4 bytes per file, FlagNames only
//
// A count is a smart int under protocol 7 and an unsigned 16 bit integer
// otherwise. All fixed width integers are big-endian.
//
// This is the layout found in reference caches. It carries the archive
// version between the protocol and flag bytes, stores sizes as two 4 byte
// integers and writes the file tables column by column across all groups
// rather than as one self-contained table per group.
package settings

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/Guthix/Jagex-Store-5-sub001/internal/checksum"
)

// Protocol is the settings format revision.
type Protocol uint8

// The supported protocols.
const (
	// ProtocolOriginal has 16 bit counts and no archive version.
	ProtocolOriginal Protocol = 5
	// ProtocolVersioned adds the archive version.
	ProtocolVersioned Protocol = 6
	// ProtocolSmart switches counts and id deltas to smart ints.
	ProtocolSmart Protocol = 7
)

func (p Protocol) valid() bool {
	return p >= ProtocolOriginal && p <= ProtocolSmart
}

func (p Protocol) hasVersion() bool { return p >= ProtocolVersioned }

func (p Protocol) maxCount() uint32 {
	if p >= ProtocolSmart {
		return MaxSmart
	}
	return 1<<16 - 1
}

// Flags records which optional columns a settings table carries.
type Flags uint8

// The flag bits.
const (
	FlagNames Flags = 1 << iota
	FlagDigests
	FlagSizes
	FlagUncompressedCRC

	allFlags = FlagNames | FlagDigests | FlagSizes | FlagUncompressedCRC
)

// String implements fmt.Stringer.
func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	names := []string{"names", "digests", "sizes", "uncompressed-crc"}
	var s string
	for i, n := range names {
		if f&(1<<i) != 0 {
			if s != "" {
				s += "|"
			}
			s += n
		}
	}
	if rest := f &^ allFlags; rest != 0 {
		if s != "" {
			s += "|"
		}
		s += fmt.Sprintf("0x%02x", uint8(rest))
	}
	return s
}

// Archive is the settings table of one archive.
type Archive struct {
	Protocol Protocol
	// Version is only encoded for protocol 6 and above.
	Version int32
	Flags   Flags
	Groups  map[uint32]*Group
}

// Group describes one group of an archive. Fields whose column is disabled
// by the archive's flags are ignored by Encode and zero after Decode.
type Group struct {
	ID               uint32
	NameHash         int32
	CompressedCRC    uint32
	UncompressedCRC  uint32
	Digest           [checksum.DigestSize]byte
	CompressedSize   uint32
	UncompressedSize uint32
	Version          int32
	Files            map[uint32]*File
}

// File describes one file of a group.
type File struct {
	ID       uint32
	NameHash int32
}

// NewArchive returns an empty archive table.
func NewArchive(p Protocol, flags Flags) *Archive {
	return &Archive{Protocol: p, Flags: flags, Groups: make(map[uint32]*Group)}
}

// GroupIDs returns the group ids in ascending order.
func (a *Archive) GroupIDs() []uint32 {
	return slices.Sorted(maps.Keys(a.Groups))
}

// SortedGroups returns the groups in ascending id order.
func (a *Archive) SortedGroups() []*Group {
	groups := slices.Collect(maps.Values(a.Groups))
	slices.SortFunc(groups, func(x, y *Group) int { return cmp.Compare(x.ID, y.ID) })
	return groups
}

// GroupByName returns the group whose name hashes like name.
func (a *Archive) GroupByName(name string) (*Group, bool) {
	if a.Flags&FlagNames == 0 {
		return nil, false
	}
	h := NameHash(name)
	for _, g := range a.SortedGroups() {
		if g.NameHash == h {
			return g, true
		}
	}
	return nil, false
}

// AddGroup inserts an empty group with the given id, replacing any existing
// one, and returns it.
func (a *Archive) AddGroup(id uint32) *Group {
	if a.Groups == nil {
		a.Groups = make(map[uint32]*Group)
	}
	g := &Group{ID: id, Files: make(map[uint32]*File)}
	a.Groups[id] = g
	return g
}

// FileIDs returns the file ids in ascending order.
func (g *Group) FileIDs() []uint32 {
	return slices.Sorted(maps.Keys(g.Files))
}

// FileByName returns the file whose name hashes like name.
func (g *Group) FileByName(name string) (*File, bool) {
	h := NameHash(name)
	for _, id := range g.FileIDs() {
		if f := g.Files[id]; f.NameHash == h {
			return f, true
		}
	}
	return nil, false
}

// FileIndex returns the position of the file within the group's ascending
// file order, which is the order its payload takes in the group.
func (g *Group) FileIndex(id uint32) (int, bool) {
	return slices.BinarySearch(g.FileIDs(), id)
}
