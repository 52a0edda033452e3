// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"fmt"

	"github.com/Guthix/Jagex-Store-5-sub001/container"
	"github.com/spf13/cobra"
)

// versionT implements tools for the version trailer of stored containers.
type versionT struct {
	Root  *cobra.Command
	Peek  *cobra.Command
	Strip *cobra.Command

	t *T
}

func newVersion(t *T) *versionT {
	v := &versionT{t: t}
	v.Root = &cobra.Command{
		Use:   "version",
		Short: "container version trailer tools",
	}
	v.Peek = &cobra.Command{
		Use:   "peek <dir> <partition> [blobs...]",
		Short: "print the version trailer of blobs",
		Long: `
Print the version trailing each container without decoding it. Without
blob ids every blob of the partition is printed.
`,
		Args: cobra.MinimumNArgs(2),
		RunE: v.runPeek,
	}
	v.Strip = &cobra.Command{
		Use:   "strip <dir> <partition> [blobs...]",
		Short: "remove the version trailer of blobs",
		Long: `
Rewrite containers without their version trailer. Without blob ids every
blob of the partition is rewritten. Blobs without a version are left
untouched.
`,
		Args: cobra.MinimumNArgs(2),
		RunE: v.runStrip,
	}
	v.Root.AddCommand(v.Peek, v.Strip)
	return v
}

// blobIDs parses the partition and blob ids arguments, listing the partition
// if no ids are given.
func blobIDs(list func(uint8) ([]uint32, error), args []string) (uint8, []uint32, error) {
	p, err := parsePartition(args[0])
	if err != nil {
		return 0, nil, err
	}
	if len(args) == 1 {
		ids, err := list(p)
		return p, ids, err
	}
	ids := make([]uint32, 0, len(args)-1)
	for _, arg := range args[1:] {
		id, err := parseID(arg)
		if err != nil {
			return 0, nil, err
		}
		ids = append(ids, id)
	}
	return p, ids, nil
}

func (v *versionT) runPeek(cmd *cobra.Command, args []string) error {
	st, _, err := v.t.openStore(args[0], true)
	if err != nil {
		return err
	}
	defer st.Close()
	p, ids, err := blobIDs(st.List, args[1:])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, id := range ids {
		b, err := st.Read(p, id)
		if err != nil {
			return err
		}
		ver, err := container.PeekVersion(b)
		switch {
		case err != nil:
			fmt.Fprintf(out, "%d: %v\n", id, err)
		case ver.Present():
			fmt.Fprintf(out, "%d: %d\n", id, ver)
		default:
			fmt.Fprintf(out, "%d: none\n", id)
		}
	}
	return nil
}

func (v *versionT) runStrip(cmd *cobra.Command, args []string) error {
	st, _, err := v.t.openStore(args[0], false)
	if err != nil {
		return err
	}
	defer st.Close()
	p, ids, err := blobIDs(st.List, args[1:])
	if err != nil {
		return err
	}
	stripped := 0
	for _, id := range ids {
		b, err := st.Read(p, id)
		if err != nil {
			return err
		}
		h, err := container.ParseHeader(b)
		if err != nil {
			return err
		}
		if !h.Version.Present() {
			continue
		}
		if err := st.Write(p, id, b[:h.End]); err != nil {
			return err
		}
		stripped++
	}
	if err := st.Sync(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "stripped %d of %d blobs\n", stripped, len(ids))
	return nil
}
