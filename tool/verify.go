// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"fmt"
	"runtime"
	"slices"
	"sync"

	js5 "github.com/Guthix/Jagex-Store-5-sub001"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// verifyT implements the verify command.
type verifyT struct {
	Root *cobra.Command

	t           *T
	concurrency int
}

func newVerify(t *T) *verifyT {
	v := &verifyT{t: t}
	v.Root = &cobra.Command{
		Use:   "verify <dir> [archives...]",
		Short: "check stored groups against their archive settings",
		Long: `
Check the CRC, and the digest and size where recorded, of every group of
the given archives, or of every archive, against the archive settings.
`,
		Args: cobra.MinimumNArgs(1),
		RunE: v.run,
	}
	v.Root.Flags().IntVarP(&v.concurrency, "concurrency", "c", runtime.GOMAXPROCS(0),
		"number of groups verified in parallel")
	return v
}

func (v *verifyT) run(cmd *cobra.Command, args []string) error {
	st, opts, err := v.t.openStore(args[0], true)
	if err != nil {
		return err
	}
	defer st.Close()

	var archives []uint8
	for _, arg := range args[1:] {
		a, err := parseArchive(arg)
		if err != nil {
			return err
		}
		archives = append(archives, a)
	}
	if len(archives) == 0 {
		for _, p := range st.Partitions() {
			if p != js5.SettingsPartition {
				archives = append(archives, p)
			}
		}
	}

	out := cmd.OutOrStdout()
	c := js5.NewCache(st, opts)
	failed := 0
	for _, archive := range archives {
		a, err := c.Archive(archive)
		if errors.Is(err, js5.ErrNotFound) {
			fmt.Fprintf(out, "archive %d: no settings\n", archive)
			continue
		} else if err != nil {
			return err
		}

		// Settings are loaded, so the cache is only read from here on and
		// groups can be checked concurrently.
		var mu sync.Mutex
		var bad []string
		g := errgroup.Group{}
		g.SetLimit(max(v.concurrency, 1))
		for _, id := range a.GroupIDs() {
			g.Go(func() error {
				if err := c.VerifyGroup(archive, id); err != nil {
					mu.Lock()
					defer mu.Unlock()
					bad = append(bad, fmt.Sprintf("  group %d: %v", id, err))
				}
				return nil
			})
		}
		_ = g.Wait()
		slices.Sort(bad)
		fmt.Fprintf(out, "archive %d: %d groups, %d failed\n", archive, len(a.Groups), len(bad))
		for _, line := range bad {
			fmt.Fprintln(out, line)
		}
		failed += len(bad)
	}
	if failed > 0 {
		return errors.Newf("%d groups failed verification", failed)
	}
	return nil
}
