// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package settings

import (
	"encoding/binary"

	"github.com/Guthix/Jagex-Store-5-sub001/internal/base"
	"github.com/Guthix/Jagex-Store-5-sub001/internal/checksum"
	"github.com/cockroachdb/errors"
)

// Encode encodes a. Counts and id deltas are derived from the maps; a stored
// count never exists.
func Encode(a *Archive) ([]byte, error) {
	if !a.Protocol.valid() {
		return nil, errors.Newf("settings: unsupported protocol %d", errors.Safe(a.Protocol))
	}
	if a.Flags&^allFlags != 0 {
		return nil, errors.Newf("settings: unknown flags %s", a.Flags)
	}
	e := encoder{protocol: a.Protocol}
	e.buf = append(e.buf, byte(a.Protocol))
	if a.Protocol.hasVersion() {
		e.buf = binary.BigEndian.AppendUint32(e.buf, uint32(a.Version))
	}
	e.buf = append(e.buf, byte(a.Flags))

	groups := a.SortedGroups()
	ids := make([]uint32, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
	}
	if err := e.ids("group", ids); err != nil {
		return nil, err
	}

	if a.Flags&FlagNames != 0 {
		for _, g := range groups {
			e.u32(uint32(g.NameHash))
		}
	}
	for _, g := range groups {
		e.u32(g.CompressedCRC)
	}
	if a.Flags&FlagUncompressedCRC != 0 {
		for _, g := range groups {
			e.u32(g.UncompressedCRC)
		}
	}
	if a.Flags&FlagDigests != 0 {
		for _, g := range groups {
			e.buf = append(e.buf, g.Digest[:]...)
		}
	}
	if a.Flags&FlagSizes != 0 {
		for _, g := range groups {
			e.u32(g.CompressedSize)
			e.u32(g.UncompressedSize)
		}
	}
	for _, g := range groups {
		e.u32(uint32(g.Version))
	}

	fileIDs := make([][]uint32, len(groups))
	for i, g := range groups {
		fileIDs[i] = g.FileIDs()
		if err := e.count("file", len(fileIDs[i])); err != nil {
			return nil, err
		}
	}
	for i := range groups {
		if err := e.deltas("file", fileIDs[i]); err != nil {
			return nil, err
		}
	}
	if a.Flags&FlagNames != 0 {
		for i, g := range groups {
			for _, id := range fileIDs[i] {
				e.u32(uint32(g.Files[id].NameHash))
			}
		}
	}
	return e.buf, nil
}

type encoder struct {
	buf      []byte
	protocol Protocol
}

func (e *encoder) u32(v uint32) {
	e.buf = binary.BigEndian.AppendUint32(e.buf, v)
}

func (e *encoder) varint(what string, v uint64) error {
	if v > uint64(e.protocol.maxCount()) {
		return errors.Newf("settings: %s value %d does not fit protocol %d", errors.Safe(what), v, errors.Safe(e.protocol))
	}
	if e.protocol >= ProtocolSmart {
		e.buf = AppendSmart(e.buf, uint32(v))
	} else {
		e.buf = binary.BigEndian.AppendUint16(e.buf, uint16(v))
	}
	return nil
}

func (e *encoder) count(what string, n int) error {
	return e.varint(what+" count", uint64(n))
}

// deltas writes ascending ids as differences from their predecessor, the
// first one from 0.
func (e *encoder) deltas(what string, ids []uint32) error {
	var prev uint32
	for i, id := range ids {
		if i > 0 && id <= prev {
			return errors.Newf("settings: %s ids not strictly ascending at %d", errors.Safe(what), id)
		}
		if err := e.varint(what+" id delta", uint64(id-prev)); err != nil {
			return err
		}
		prev = id
	}
	return nil
}

func (e *encoder) ids(what string, ids []uint32) error {
	if err := e.count(what, len(ids)); err != nil {
		return err
	}
	return e.deltas(what, ids)
}

// Decode decodes an encoded settings table. Truncated input, trailing bytes,
// unknown flags and repeated ids are all rejected with ErrDecode.
func Decode(buf []byte) (*Archive, error) {
	d := decoder{buf: buf}
	a := &Archive{Protocol: Protocol(d.u8())}
	if d.err == nil && !a.Protocol.valid() {
		return nil, base.DecodeErrorf("settings: unsupported protocol %d", errors.Safe(a.Protocol))
	}
	d.protocol = a.Protocol
	if a.Protocol.hasVersion() {
		a.Version = int32(d.u32())
	}
	a.Flags = Flags(d.u8())
	if d.err == nil && a.Flags&^allFlags != 0 {
		return nil, base.DecodeErrorf("settings: unknown flags %s", a.Flags)
	}

	ids := d.ids("group")
	if d.err != nil {
		return nil, d.err
	}
	groups := make([]*Group, len(ids))
	a.Groups = make(map[uint32]*Group, len(ids))
	for i, id := range ids {
		groups[i] = &Group{ID: id}
		a.Groups[id] = groups[i]
	}

	if a.Flags&FlagNames != 0 {
		for _, g := range groups {
			g.NameHash = int32(d.u32())
		}
	}
	for _, g := range groups {
		g.CompressedCRC = d.u32()
	}
	if a.Flags&FlagUncompressedCRC != 0 {
		for _, g := range groups {
			g.UncompressedCRC = d.u32()
		}
	}
	if a.Flags&FlagDigests != 0 {
		for _, g := range groups {
			copy(g.Digest[:], d.take(checksum.DigestSize))
		}
	}
	if a.Flags&FlagSizes != 0 {
		for _, g := range groups {
			g.CompressedSize = d.u32()
			g.UncompressedSize = d.u32()
		}
	}
	for _, g := range groups {
		g.Version = int32(d.u32())
	}

	counts := make([]int, len(groups))
	for i := range groups {
		counts[i] = d.count()
	}
	if d.err != nil {
		return nil, d.err
	}
	fileIDs := make([][]uint32, len(groups))
	for i, g := range groups {
		fileIDs[i] = d.deltas("file", counts[i])
		if d.err != nil {
			return nil, d.err
		}
		g.Files = make(map[uint32]*File, len(fileIDs[i]))
		for _, id := range fileIDs[i] {
			g.Files[id] = &File{ID: id}
		}
	}
	if a.Flags&FlagNames != 0 {
		for i, g := range groups {
			for _, id := range fileIDs[i] {
				g.Files[id].NameHash = int32(d.u32())
			}
		}
	}
	if d.err != nil {
		return nil, d.err
	}
	if d.off != len(d.buf) {
		return nil, base.DecodeErrorf("settings: %d trailing bytes", len(d.buf)-d.off)
	}
	return a, nil
}

// decoder reads from buf. The first error sticks; later reads return zero
// values.
type decoder struct {
	buf      []byte
	off      int
	protocol Protocol
	err      error
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if len(d.buf)-d.off < n {
		d.err = base.DecodeErrorf("settings: truncated at offset %d, need %d more bytes", d.off, n)
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) u8() uint8 {
	if b := d.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (d *decoder) u32() uint32 {
	if b := d.take(4); b != nil {
		return binary.BigEndian.Uint32(b)
	}
	return 0
}

func (d *decoder) varint() uint32 {
	if d.err != nil {
		return 0
	}
	if d.protocol < ProtocolSmart {
		if b := d.take(2); b != nil {
			return uint32(binary.BigEndian.Uint16(b))
		}
		return 0
	}
	v, n, err := ReadSmart(d.buf[d.off:])
	if err != nil {
		d.err = errors.Wrapf(err, "settings: offset %d", d.off)
		return 0
	}
	d.off += n
	return v
}

func (d *decoder) count() int {
	n := int(d.varint())
	// Every entry takes at least one byte, which bounds allocations on
	// corrupt input.
	if d.err == nil && n > len(d.buf)-d.off {
		d.err = base.DecodeErrorf("settings: count %d exceeds remaining input", n)
		return 0
	}
	return n
}

func (d *decoder) deltas(what string, n int) []uint32 {
	ids := make([]uint32, 0, n)
	var id uint64
	for i := 0; i < n && d.err == nil; i++ {
		delta := d.varint()
		if d.err != nil {
			break
		}
		if i > 0 && delta == 0 {
			d.err = base.DecodeErrorf("settings: duplicate %s id %d", errors.Safe(what), id)
			break
		}
		id += uint64(delta)
		if id > MaxSmart {
			d.err = base.DecodeErrorf("settings: %s id %d out of range", errors.Safe(what), id)
			break
		}
		ids = append(ids, uint32(id))
	}
	return ids
}

func (d *decoder) ids(what string) []uint32 {
	n := d.count()
	if d.err != nil {
		return nil
	}
	return d.deltas(what, n)
}
