// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package js5

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/cockroachdb/crlib/crhumanize"
)

// Metrics holds counters for the operations of an open store. The counters
// start at zero when the store is opened.
type Metrics struct {
	// BlobsRead and BytesRead count successful reads.
	BlobsRead uint64
	BytesRead uint64
	// BlobsWritten and BytesWritten count successful writes.
	BlobsWritten uint64
	BytesWritten uint64
	// BlobsRemoved counts removals of existing blobs.
	BlobsRemoved uint64
	// SectorsAllocated counts sectors appended to the data file.
	SectorsAllocated uint64
	// SectorsReused counts sectors of an overwritten blob that were written
	// again by its replacement.
	SectorsReused uint64
	// SectorsOrphaned counts sectors no index entry reaches anymore: the
	// tail of a chain overwritten by a shorter blob and the chains of removed
	// blobs. Orphaned sectors are never reclaimed.
	SectorsOrphaned uint64
	// Partitions is the number of open index files, the settings partition
	// included.
	Partitions int
	// DataSize is the size of the data file.
	DataSize int64
}

// String pretty-prints the metrics.
func (m Metrics) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "      |  count |  bytes\n")
	fmt.Fprintf(&b, "read  | %6s | %6s\n",
		crhumanize.Count(m.BlobsRead, crhumanize.Compact),
		crhumanize.Bytes(m.BytesRead, crhumanize.Compact, crhumanize.OmitI))
	fmt.Fprintf(&b, "write | %6s | %6s\n",
		crhumanize.Count(m.BlobsWritten, crhumanize.Compact),
		crhumanize.Bytes(m.BytesWritten, crhumanize.Compact, crhumanize.OmitI))
	fmt.Fprintf(&b, "remove| %6s |\n", crhumanize.Count(m.BlobsRemoved, crhumanize.Compact))
	fmt.Fprintf(&b, "sectors: %s allocated, %s reused, %s orphaned\n",
		crhumanize.Count(m.SectorsAllocated, crhumanize.Compact),
		crhumanize.Count(m.SectorsReused, crhumanize.Compact),
		crhumanize.Count(m.SectorsOrphaned, crhumanize.Compact))
	fmt.Fprintf(&b, "partitions: %d, data: %s\n", m.Partitions,
		crhumanize.Bytes(m.DataSize, crhumanize.Compact, crhumanize.OmitI))
	return b.String()
}

// storeMetrics is the concurrently updated form of Metrics. Reads of
// different blobs may run in parallel, so every counter is atomic.
type storeMetrics struct {
	blobsRead        atomic.Uint64
	bytesRead        atomic.Uint64
	blobsWritten     atomic.Uint64
	bytesWritten     atomic.Uint64
	blobsRemoved     atomic.Uint64
	sectorsAllocated atomic.Uint64
	sectorsReused    atomic.Uint64
	sectorsOrphaned  atomic.Uint64
}

func (m *storeMetrics) snapshot() Metrics {
	return Metrics{
		BlobsRead:        m.blobsRead.Load(),
		BytesRead:        m.bytesRead.Load(),
		BlobsWritten:     m.blobsWritten.Load(),
		BytesWritten:     m.bytesWritten.Load(),
		BlobsRemoved:     m.blobsRemoved.Load(),
		SectorsAllocated: m.sectorsAllocated.Load(),
		SectorsReused:    m.sectorsReused.Load(),
		SectorsOrphaned:  m.sectorsOrphaned.Load(),
	}
}
