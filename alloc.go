// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package js5

import (
	"github.com/Guthix/Jagex-Store-5-sub001/sector"
	"github.com/cockroachdb/errors"
)

// sectorAllocator hands out sector numbers for new chain links. Sectors are
// only ever appended at the end of the data file; a chain being overwritten
// passes its old sectors back through reuse.
type sectorAllocator struct {
	// next is the first sector past the end of the data file.
	next uint32
}

// makeSectorAllocator returns an allocator for a data file of the given
// size. A partially written final sector is skipped, and sector 0 is never
// handed out since a zero sector number terminates chains.
func makeSectorAllocator(dataSize int64) sectorAllocator {
	n := (dataSize + sector.Size - 1) / sector.Size
	return sectorAllocator{next: uint32(max(n, 1))}
}

// valid reports whether s may be the target of a chain pointer.
func (a *sectorAllocator) valid(s uint32) bool {
	return s != 0 && s < a.next
}

// plan returns the n sectors a chain of n links should occupy. The chain
// keeps the sectors of reuse in order and extends past them with freshly
// allocated sectors. It returns how many entries of reuse were taken.
func (a *sectorAllocator) plan(n int, reuse []uint32) (sectors []uint32, reused int, err error) {
	reused = min(n, len(reuse))
	fresh := n - reused
	if int64(a.next)+int64(fresh) > sector.MaxSector+1 {
		return nil, 0, errors.Newf("js5: data file is full, %d sectors in use", a.next)
	}
	sectors = make([]uint32, 0, n)
	sectors = append(sectors, reuse[:reused]...)
	for range fresh {
		sectors = append(sectors, a.next)
		a.next++
	}
	return sectors, reused, nil
}
