// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package js5 implements a sector based asset store and the archive layer
// built on it.
//
// A store directory holds one data file of fixed size sectors and one index
// file per partition. A blob is addressed by partition and blob id; its index
// entry holds its length and first sector, and every sector links to the
// next. Partitions 0..N-1 hold archives, partition 255 holds the settings
// table of each archive. See the sector package for the on-disk formats.
//
// A Store performs no internal locking. Calls mutating a store must be
// serialized by the caller; reads of distinct blobs may run concurrently with
// each other but not with a write.
package js5

import (
	"io"

	"github.com/Guthix/Jagex-Store-5-sub001/internal/base"
	"github.com/Guthix/Jagex-Store-5-sub001/sector"
	"github.com/Guthix/Jagex-Store-5-sub001/vfs"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/oserror"
)

// BlobStore is the blob level contract shared by a Store and any other
// backing a Cache.
type BlobStore interface {
	// Read returns the blob with the given id. It returns an error marked
	// ErrNotFound if the partition or blob does not exist.
	Read(partition uint8, blobID uint32) ([]byte, error)
	// Write creates or replaces the blob with the given id.
	Write(partition uint8, blobID uint32, data []byte) error
	// Remove deletes the blob with the given id. Removing a blob that does
	// not exist is a no-op.
	Remove(partition uint8, blobID uint32) error
}

// Store is an open store directory.
type Store struct {
	dirname string
	opts    *Options
	data    vfs.File
	// indexes holds the index file of each partition, nil if the partition
	// does not exist.
	indexes [256]vfs.File
	// numPartitions is the number of consecutive archive partitions starting
	// at 0. A write may create partition numPartitions.
	numPartitions int
	alloc         sectorAllocator
	metrics       storeMetrics
	closed        bool
}

var _ BlobStore = (*Store)(nil)

// Open opens the store in dirname. The directory, the data file and the
// settings index file must exist; otherwise an error marked ErrNotFound is
// returned. Archive partitions are the index files numbered consecutively
// from 0.
func Open(dirname string, opts *Options) (_ *Store, err error) {
	opts = opts.Clone().EnsureDefaults()
	s := &Store{dirname: dirname, opts: opts}
	defer func() {
		if err != nil {
			_ = s.closeFiles()
		}
	}()

	names, err := opts.FS.List(dirname)
	if err != nil {
		if oserror.IsNotExist(err) {
			return nil, errors.Mark(errors.Wrapf(err, "js5: directory %q", dirname), base.ErrNotFound)
		}
		return nil, err
	}
	var present [256]bool
	haveData := false
	for _, name := range names {
		fileType, partition, ok := base.ParseFilename(opts.FS, name)
		if !ok {
			continue
		}
		switch fileType {
		case base.FileTypeData:
			haveData = true
		case base.FileTypeIndex:
			present[partition] = true
		}
	}
	if !haveData {
		return nil, base.NotFoundErrorf("js5: %q has no %s file", dirname,
			errors.Safe(base.MakeFilename(base.FileTypeData, 0)))
	}
	if !present[base.SettingsPartition] {
		return nil, base.NotFoundErrorf("js5: %q has no %s file", dirname,
			errors.Safe(base.MakeFilename(base.FileTypeIndex, base.SettingsPartition)))
	}
	for s.numPartitions < base.SettingsPartition && present[s.numPartitions] {
		s.numPartitions++
	}
	for p := s.numPartitions + 1; p < base.SettingsPartition; p++ {
		if present[p] {
			opts.Logger.Infof("js5: ignoring index file of partition %d, partition %d is missing", p, s.numPartitions)
		}
	}

	if s.data, err = s.openFile(base.FileTypeData, 0); err != nil {
		return nil, err
	}
	for p := 0; p < s.numPartitions; p++ {
		if s.indexes[p], err = s.openFile(base.FileTypeIndex, uint8(p)); err != nil {
			return nil, err
		}
	}
	if s.indexes[base.SettingsPartition], err = s.openFile(base.FileTypeIndex, base.SettingsPartition); err != nil {
		return nil, err
	}

	size, err := vfs.Size(s.data)
	if err != nil {
		return nil, err
	}
	s.alloc = makeSectorAllocator(size)
	opts.Logger.Infof("js5: opened %s with %d partitions and %d sectors", dirname, s.numPartitions, s.alloc.next)
	return s, nil
}

// Create initializes an empty store in dirname, creating the directory if
// needed, and opens it. It fails if dirname already holds a data file.
func Create(dirname string, opts *Options) (*Store, error) {
	opts = opts.Clone().EnsureDefaults()
	if opts.ReadOnly {
		return nil, base.ErrReadOnly
	}
	fs := opts.FS
	if err := fs.MkdirAll(dirname, 0755); err != nil {
		return nil, err
	}
	dataPath := base.MakeFilepath(fs, dirname, base.FileTypeData, 0)
	if _, err := fs.Stat(dataPath); err == nil {
		return nil, errors.Newf("js5: %q already holds a store", dirname)
	} else if !oserror.IsNotExist(err) {
		return nil, err
	}
	for _, path := range []string{
		dataPath,
		base.MakeFilepath(fs, dirname, base.FileTypeIndex, base.SettingsPartition),
	} {
		f, err := fs.Create(path)
		if err != nil {
			return nil, err
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
	}
	return Open(dirname, opts)
}

func (s *Store) openFile(fileType base.FileType, partition uint8) (vfs.File, error) {
	path := base.MakeFilepath(s.opts.FS, s.dirname, fileType, partition)
	if s.opts.ReadOnly {
		return s.opts.FS.Open(path, vfs.RandomReadsOption)
	}
	return s.opts.FS.OpenReadWrite(path, vfs.RandomReadsOption)
}

// Partitions returns the ids of the existing partitions in ascending order,
// the settings partition last.
func (s *Store) Partitions() []uint8 {
	ps := make([]uint8, 0, s.numPartitions+1)
	for p := 0; p < s.numPartitions; p++ {
		ps = append(ps, uint8(p))
	}
	return append(ps, base.SettingsPartition)
}

// Read implements BlobStore.
func (s *Store) Read(partition uint8, blobID uint32) ([]byte, error) {
	entry, err := s.entry(partition, blobID)
	if err != nil {
		return nil, err
	}
	if !entry.Present() {
		return nil, base.NotFoundErrorf("js5: blob %d/%d not found", errors.Safe(partition), errors.Safe(blobID))
	}
	buf := make([]byte, 0, entry.Length)
	err = s.walk(partition, blobID, entry, func(_ uint32, data []byte) error {
		buf = append(buf, data...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.blobsRead.Add(1)
	s.metrics.bytesRead.Add(uint64(len(buf)))
	return buf, nil
}

// Exists reports whether a blob exists.
func (s *Store) Exists(partition uint8, blobID uint32) (bool, error) {
	entry, err := s.entry(partition, blobID)
	if errors.Is(err, base.ErrNotFound) {
		return false, nil
	}
	return entry.Present(), err
}

// List returns the ids of the blobs present in a partition in ascending
// order.
func (s *Store) List(partition uint8) ([]uint32, error) {
	if s.closed {
		return nil, errors.New("js5: store is closed")
	}
	idx := s.indexes[partition]
	if idx == nil {
		return nil, base.NotFoundErrorf("js5: partition %d not found", errors.Safe(partition))
	}
	size, err := vfs.Size(idx)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, size-size%sector.IndexEntrySize)
	if _, err := idx.ReadAt(buf, 0); err != nil && err != io.EOF {
		return nil, err
	}
	var ids []uint32
	for i := 0; i < len(buf); i += sector.IndexEntrySize {
		if sector.DecodeIndexEntry(buf[i:]).Present() {
			ids = append(ids, uint32(i/sector.IndexEntrySize))
		}
	}
	return ids, nil
}

// entry reads the index entry of a blob. An entry beyond the end of the
// index file is not found. The returned entry may still be absent.
func (s *Store) entry(partition uint8, blobID uint32) (sector.IndexEntry, error) {
	if s.closed {
		return sector.IndexEntry{}, errors.New("js5: store is closed")
	}
	idx := s.indexes[partition]
	if idx == nil {
		return sector.IndexEntry{}, base.NotFoundErrorf("js5: partition %d not found", errors.Safe(partition))
	}
	var buf [sector.IndexEntrySize]byte
	n, err := idx.ReadAt(buf[:], sector.IndexOffset(blobID))
	if n < len(buf) {
		if err == nil || err == io.EOF {
			return sector.IndexEntry{}, base.NotFoundErrorf("js5: blob %d/%d not found", errors.Safe(partition), errors.Safe(blobID))
		}
		return sector.IndexEntry{}, errors.Wrapf(err, "js5: reading index of partition %d", errors.Safe(partition))
	}
	return sector.DecodeIndexEntry(buf[:]), nil
}

// walk visits the sector chain of a blob, calling fn with each sector number
// and the blob bytes it holds. Every hop is validated against the blob's
// identity and the chain must cover the declared length.
func (s *Store) walk(
	partition uint8, blobID uint32, entry sector.IndexEntry, fn func(sec uint32, data []byte) error,
) error {
	extended := sector.Extended(blobID)
	hdrLen := sector.HeaderLen(blobID)
	var buf [sector.Size]byte
	remaining := int(entry.Length)
	next := entry.Sector
	count := sector.Count(blobID, remaining)
	for pos := 0; pos < count; pos++ {
		if !s.alloc.valid(next) {
			if next == 0 {
				return base.CorruptionErrorf("js5: blob %d/%d: chain ends after %d sectors, %d bytes missing",
					errors.Safe(partition), errors.Safe(blobID), errors.Safe(pos), errors.Safe(remaining))
			}
			return base.CorruptionErrorf("js5: blob %d/%d: sector %d out of bounds",
				errors.Safe(partition), errors.Safe(blobID), errors.Safe(next))
		}
		n := min(remaining, sector.Size-hdrLen)
		want := buf[:hdrLen+n]
		if n, err := s.data.ReadAt(want, sector.Offset(next)); n < len(want) {
			if err == nil || err == io.EOF {
				return base.CorruptionErrorf("js5: blob %d/%d: sector %d truncated",
					errors.Safe(partition), errors.Safe(blobID), errors.Safe(next))
			}
			return errors.Wrapf(err, "js5: reading sector %d", errors.Safe(next))
		}
		h, err := sector.DecodeHeader(want, extended)
		if err != nil {
			return err
		}
		if h.BlobID != blobID || h.Partition != partition || int(h.Position) != pos {
			return base.CorruptionErrorf("js5: blob %d/%d: sector %d belongs to blob %d/%d at position %d, expected position %d",
				errors.Safe(partition), errors.Safe(blobID), errors.Safe(next),
				errors.Safe(h.Partition), errors.Safe(h.BlobID), errors.Safe(h.Position), errors.Safe(pos))
		}
		if err := fn(next, want[hdrLen:]); err != nil {
			return err
		}
		remaining -= n
		next = h.Next
	}
	return nil
}

// oldChain returns the sectors of a blob's current chain, stopping at the
// first link that fails validation.
func (s *Store) oldChain(partition uint8, blobID uint32, entry sector.IndexEntry) []uint32 {
	if !entry.Present() {
		return nil
	}
	var sectors []uint32
	_ = s.walk(partition, blobID, entry, func(sec uint32, _ []byte) error {
		sectors = append(sectors, sec)
		return nil
	})
	return sectors
}

// Write implements BlobStore. Replacing a blob writes the new chain over the
// sectors of the old one before appending sectors at the end of the data
// file; sectors of the old chain beyond the new length are orphaned. Write
// may create the next archive partition. The write is not atomic: a failure
// part way leaves the blob unreadable or holding its previous value.
func (s *Store) Write(partition uint8, blobID uint32, data []byte) error {
	if s.opts.ReadOnly {
		return base.ErrReadOnly
	}
	if len(data) > sector.MaxBlobLen {
		return errors.Newf("js5: blob of %d bytes exceeds the maximum of %d", len(data), sector.MaxBlobLen)
	}
	if err := s.ensurePartition(partition); err != nil {
		return err
	}
	entry, err := s.entry(partition, blobID)
	if err != nil && !errors.Is(err, base.ErrNotFound) {
		return err
	}
	old := s.oldChain(partition, blobID, entry)

	sectors, reused, err := s.alloc.plan(sector.Count(blobID, len(data)), old)
	if err != nil {
		return err
	}
	s.metrics.sectorsReused.Add(uint64(reused))
	s.metrics.sectorsOrphaned.Add(uint64(len(old) - reused))
	s.metrics.sectorsAllocated.Add(uint64(len(sectors) - reused))

	var buf [sector.Size]byte
	width := sector.DataLen(blobID)
	for i, sec := range sectors {
		h := sector.Header{BlobID: blobID, Position: uint16(i), Partition: partition}
		if i+1 < len(sectors) {
			h.Next = sectors[i+1]
		}
		n := h.Encode(buf[:])
		chunk := data[min(i*width, len(data)):min((i+1)*width, len(data))]
		n += copy(buf[n:], chunk)
		clear(buf[n:])
		if _, err := s.data.WriteAt(buf[:], sector.Offset(sec)); err != nil {
			return errors.Wrapf(err, "js5: writing sector %d", errors.Safe(sec))
		}
	}

	var ebuf [sector.IndexEntrySize]byte
	sector.IndexEntry{Length: uint32(len(data)), Sector: sectors[0]}.Encode(ebuf[:])
	if _, err := s.indexes[partition].WriteAt(ebuf[:], sector.IndexOffset(blobID)); err != nil {
		return errors.Wrapf(err, "js5: writing index of partition %d", errors.Safe(partition))
	}
	s.metrics.blobsWritten.Add(1)
	s.metrics.bytesWritten.Add(uint64(len(data)))
	return nil
}

// ensurePartition creates the index file of partition if it is the next
// archive partition. Any other missing partition is an error.
func (s *Store) ensurePartition(partition uint8) error {
	if s.closed {
		return errors.New("js5: store is closed")
	}
	if s.indexes[partition] != nil {
		return nil
	}
	if int(partition) != s.numPartitions {
		return errors.Newf("js5: partition %d does not exist and partition %d is next",
			errors.Safe(partition), errors.Safe(s.numPartitions))
	}
	path := base.MakeFilepath(s.opts.FS, s.dirname, base.FileTypeIndex, partition)
	f, err := s.opts.FS.Create(path)
	if err != nil {
		return err
	}
	s.indexes[partition] = f
	s.numPartitions++
	s.opts.Logger.Infof("js5: created partition %d", partition)
	return nil
}

// Remove implements BlobStore. Only the index entry is cleared; the blob's
// sectors stay in the data file, unreferenced.
func (s *Store) Remove(partition uint8, blobID uint32) error {
	if s.opts.ReadOnly {
		return base.ErrReadOnly
	}
	entry, err := s.entry(partition, blobID)
	if errors.Is(err, base.ErrNotFound) || (err == nil && !entry.Present()) {
		return nil
	} else if err != nil {
		return err
	}
	var zero [sector.IndexEntrySize]byte
	if _, err := s.indexes[partition].WriteAt(zero[:], sector.IndexOffset(blobID)); err != nil {
		return errors.Wrapf(err, "js5: writing index of partition %d", errors.Safe(partition))
	}
	s.metrics.blobsRemoved.Add(1)
	s.metrics.sectorsOrphaned.Add(uint64(sector.Count(blobID, int(entry.Length))))
	return nil
}

// Sync flushes the data file and every index file to stable storage.
func (s *Store) Sync() error {
	if s.closed {
		return errors.New("js5: store is closed")
	}
	if s.opts.ReadOnly {
		return nil
	}
	if err := s.data.Sync(); err != nil {
		return err
	}
	for _, f := range s.indexes {
		if f == nil {
			continue
		}
		if err := f.Sync(); err != nil {
			return err
		}
	}
	return nil
}

// Metrics returns the store's counters.
func (s *Store) Metrics() Metrics {
	m := s.metrics.snapshot()
	m.Partitions = s.numPartitions + 1
	m.DataSize = sector.Offset(s.alloc.next)
	return m
}

// Dirname returns the directory the store was opened in.
func (s *Store) Dirname() string {
	return s.dirname
}

// Close releases the store's files. Writes are not synced; call Sync first
// if they must be durable.
func (s *Store) Close() error {
	if s.closed {
		return errors.New("js5: store is already closed")
	}
	s.closed = true
	err := s.closeFiles()
	s.opts.Logger.Infof("js5: closed %s", s.dirname)
	return err
}

func (s *Store) closeFiles() error {
	var err error
	if s.data != nil {
		err = errors.CombineErrors(err, s.data.Close())
		s.data = nil
	}
	for i, f := range s.indexes {
		if f != nil {
			err = errors.CombineErrors(err, f.Close())
			s.indexes[i] = nil
		}
	}
	return err
}
