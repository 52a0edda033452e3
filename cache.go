// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package js5

import (
	"cmp"
	"slices"

	"github.com/Guthix/Jagex-Store-5-sub001/container"
	"github.com/Guthix/Jagex-Store-5-sub001/group"
	"github.com/Guthix/Jagex-Store-5-sub001/internal/base"
	"github.com/Guthix/Jagex-Store-5-sub001/settings"
	"github.com/cockroachdb/errors"
)

// Cache reads and writes groups of files through the archive settings kept
// in the settings partition of a BlobStore. Archive id N is stored in
// partition N; its settings are blob N of the settings partition.
//
// Settings are loaded on first use and kept in memory. Changes made by
// WriteGroup and RemoveGroup reach the store when Flush is called.
//
// Like Store, a Cache performs no locking.
type Cache struct {
	store    BlobStore
	opts     *Options
	archives map[uint8]*archiveState
}

type archiveState struct {
	settings *settings.Archive
	dirty    bool
}

// NewCache returns a Cache over store.
func NewCache(store BlobStore, opts *Options) *Cache {
	return &Cache{
		store:    store,
		opts:     opts.Clone().EnsureDefaults(),
		archives: make(map[uint8]*archiveState),
	}
}

func checkArchive(id uint8) error {
	if id == SettingsPartition {
		return errors.Newf("js5: %d is the settings partition, not an archive", errors.Safe(id))
	}
	return nil
}

// Archive returns the settings of an archive. The returned value is shared
// with the cache; changes to it are written by the next Flush only after
// SetArchive.
func (c *Cache) Archive(id uint8) (*settings.Archive, error) {
	if err := checkArchive(id); err != nil {
		return nil, err
	}
	if st, ok := c.archives[id]; ok {
		return st.settings, nil
	}
	raw, err := c.store.Read(SettingsPartition, uint32(id))
	if err != nil {
		return nil, errors.Wrapf(err, "js5: settings of archive %d", errors.Safe(id))
	}
	payload, _, err := container.Decode(raw, container.Key{})
	if err != nil {
		return nil, errors.Wrapf(err, "js5: settings of archive %d", errors.Safe(id))
	}
	a, err := settings.Decode(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "js5: settings of archive %d", errors.Safe(id))
	}
	c.archives[id] = &archiveState{settings: a}
	return a, nil
}

// SetArchive replaces the settings of an archive. They are written by the
// next Flush.
func (c *Cache) SetArchive(id uint8, a *settings.Archive) error {
	if err := checkArchive(id); err != nil {
		return err
	}
	c.archives[id] = &archiveState{settings: a, dirty: true}
	return nil
}

// archiveForWrite returns the settings of an archive for modification,
// creating empty settings if the archive has none.
func (c *Cache) archiveForWrite(id uint8) (*archiveState, error) {
	if _, err := c.Archive(id); err != nil {
		if !errors.Is(err, base.ErrNotFound) || checkArchive(id) != nil {
			return nil, err
		}
		c.opts.Logger.Infof("js5: creating settings for archive %d", id)
		c.archives[id] = &archiveState{settings: settings.NewArchive(c.opts.SettingsProtocol, c.opts.SettingsFlags)}
	}
	st := c.archives[id]
	st.dirty = true
	return st, nil
}

func (c *Cache) group(archive uint8, id uint32) (*settings.Group, error) {
	a, err := c.Archive(archive)
	if err != nil {
		return nil, err
	}
	g, ok := a.Groups[id]
	if !ok {
		return nil, base.NotFoundErrorf("js5: group %d/%d not found", errors.Safe(archive), errors.Safe(id))
	}
	return g, nil
}

// ReadGroup returns the files of a group keyed by file id. The group is
// decrypted with the key supplied by Options.Keys, if any.
func (c *Cache) ReadGroup(archive uint8, groupID uint32) (map[uint32][]byte, error) {
	g, err := c.group(archive, groupID)
	if err != nil {
		return nil, err
	}
	raw, err := c.store.Read(archive, groupID)
	if err != nil {
		return nil, err
	}
	payload, _, err := container.Decode(raw, c.opts.key(archive, groupID))
	if err != nil {
		return nil, errors.Wrapf(err, "js5: group %d/%d", errors.Safe(archive), errors.Safe(groupID))
	}
	ids := g.FileIDs()
	files := make(map[uint32][]byte, len(ids))
	if len(ids) == 0 {
		return files, nil
	}
	data, err := group.Join(payload, len(ids))
	if err != nil {
		return nil, errors.Wrapf(err, "js5: group %d/%d", errors.Safe(archive), errors.Safe(groupID))
	}
	for i, id := range ids {
		files[id] = data[i]
	}
	return files, nil
}

// ReadFile returns one file of a group.
func (c *Cache) ReadFile(archive uint8, groupID, fileID uint32) ([]byte, error) {
	files, err := c.ReadGroup(archive, groupID)
	if err != nil {
		return nil, err
	}
	f, ok := files[fileID]
	if !ok {
		return nil, base.NotFoundErrorf("js5: file %d/%d/%d not found",
			errors.Safe(archive), errors.Safe(groupID), errors.Safe(fileID))
	}
	return f, nil
}

// GroupWrite describes a group to be written by WriteGroup.
type GroupWrite struct {
	ID uint32
	// Name is hashed into the settings when the archive records names.
	Name    string
	Version int32
	// Compression of the group's container.
	Compression Compression
	// Chunks is the number of chunks each file is cut into when the group
	// holds several files. Zero means one.
	Chunks int
	Files  []FileWrite
}

// FileWrite is one file of a GroupWrite.
type FileWrite struct {
	ID   uint32
	Name string
	Data []byte
}

// WriteGroup stores a group and records it in its archive's settings,
// replacing any previous group with the same id. The container carries the
// low 16 bits of the group version and is encrypted with the key supplied by
// Options.Keys, if any.
func (c *Cache) WriteGroup(archive uint8, w GroupWrite) error {
	if len(w.Files) == 0 {
		return errors.Newf("js5: group %d/%d has no files", errors.Safe(archive), errors.Safe(w.ID))
	}
	files := slices.Clone(w.Files)
	slices.SortFunc(files, func(a, b FileWrite) int { return cmp.Compare(a.ID, b.ID) })
	for i := 1; i < len(files); i++ {
		if files[i].ID == files[i-1].ID {
			return errors.Newf("js5: group %d/%d: duplicate file %d",
				errors.Safe(archive), errors.Safe(w.ID), errors.Safe(files[i].ID))
		}
	}
	st, err := c.archiveForWrite(archive)
	if err != nil {
		return err
	}

	data := make([][]byte, len(files))
	for i := range files {
		data[i] = files[i].Data
	}
	payload, err := group.Split(data, max(w.Chunks, 1))
	if err != nil {
		return err
	}
	version := container.Version(uint16(w.Version))
	buf, err := container.Encode(payload, w.Compression, c.opts.key(archive, w.ID), version)
	if err != nil {
		return err
	}
	if err := c.store.Write(archive, w.ID, buf); err != nil {
		return err
	}

	a := st.settings
	stored := buf[:len(buf)-2]
	g := a.AddGroup(w.ID)
	g.Version = w.Version
	g.CompressedCRC = c.opts.Checksum(stored)
	if a.Flags&settings.FlagUncompressedCRC != 0 {
		g.UncompressedCRC = c.opts.Checksum(payload)
	}
	if a.Flags&settings.FlagDigests != 0 {
		g.Digest = c.opts.Digest(stored)
	}
	if a.Flags&settings.FlagSizes != 0 {
		g.CompressedSize = uint32(len(stored))
		g.UncompressedSize = uint32(len(payload))
	}
	names := a.Flags&settings.FlagNames != 0
	if names && w.Name != "" {
		g.NameHash = settings.NameHash(w.Name)
	}
	for _, f := range files {
		sf := &settings.File{ID: f.ID}
		if names && f.Name != "" {
			sf.NameHash = settings.NameHash(f.Name)
		}
		g.Files[f.ID] = sf
	}
	return nil
}

// RemoveGroup removes a group from the store and from its archive's
// settings.
func (c *Cache) RemoveGroup(archive uint8, groupID uint32) error {
	a, err := c.Archive(archive)
	if err != nil {
		return err
	}
	if err := c.store.Remove(archive, groupID); err != nil {
		return err
	}
	if _, ok := a.Groups[groupID]; ok {
		delete(a.Groups, groupID)
		c.archives[archive].dirty = true
	}
	return nil
}

// Flush writes the settings of every archive changed since the last Flush.
func (c *Cache) Flush() error {
	ids := make([]uint8, 0, len(c.archives))
	for id, st := range c.archives {
		if st.dirty {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	for _, id := range ids {
		st := c.archives[id]
		payload, err := settings.Encode(st.settings)
		if err != nil {
			return errors.Wrapf(err, "js5: settings of archive %d", errors.Safe(id))
		}
		buf, err := container.Encode(payload, c.opts.SettingsCompression, container.Key{}, container.NoVersion)
		if err != nil {
			return err
		}
		if err := c.store.Write(SettingsPartition, uint32(id), buf); err != nil {
			return err
		}
		st.dirty = false
		c.opts.Logger.Infof("js5: flushed settings of archive %d, %d groups", id, len(st.settings.Groups))
	}
	return nil
}

// VerifyGroup checks the stored container of a group against the CRC, and
// the digest and size when recorded, in its archive's settings. A mismatch
// is marked ErrCorruption. The version trailer is not covered.
func (c *Cache) VerifyGroup(archive uint8, groupID uint32) error {
	g, err := c.group(archive, groupID)
	if err != nil {
		return err
	}
	a := c.archives[archive].settings
	raw, err := c.store.Read(archive, groupID)
	if err != nil {
		return err
	}
	stored, err := container.StripVersion(raw)
	if err != nil {
		return errors.Wrapf(err, "js5: group %d/%d", errors.Safe(archive), errors.Safe(groupID))
	}
	if crc := c.opts.Checksum(stored); crc != g.CompressedCRC {
		return base.CorruptionErrorf("js5: group %d/%d: crc %08x, expected %08x",
			errors.Safe(archive), errors.Safe(groupID), crc, g.CompressedCRC)
	}
	if a.Flags&settings.FlagDigests != 0 && c.opts.Digest(stored) != g.Digest {
		return base.CorruptionErrorf("js5: group %d/%d: digest mismatch", errors.Safe(archive), errors.Safe(groupID))
	}
	if a.Flags&settings.FlagSizes != 0 && uint32(len(stored)) != g.CompressedSize {
		return base.CorruptionErrorf("js5: group %d/%d: size %d, expected %d",
			errors.Safe(archive), errors.Safe(groupID), len(stored), g.CompressedSize)
	}
	return nil
}
