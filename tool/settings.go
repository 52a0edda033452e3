// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"fmt"

	js5 "github.com/Guthix/Jagex-Store-5-sub001"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// settingsT implements archive settings tools.
type settingsT struct {
	Root *cobra.Command
	Dump *cobra.Command

	t     *T
	files bool
}

func newSettings(t *T) *settingsT {
	s := &settingsT{t: t}
	s.Root = &cobra.Command{
		Use:   "settings",
		Short: "archive settings introspection tools",
	}
	s.Dump = &cobra.Command{
		Use:   "dump <dir> <archive>",
		Short: "print the settings of an archive",
		Args:  cobra.ExactArgs(2),
		RunE:  s.runDump,
	}
	s.Root.AddCommand(s.Dump)
	s.Dump.Flags().BoolVar(&s.files, "files", false, "also print the file table of each group")
	return s
}

func (s *settingsT) runDump(cmd *cobra.Command, args []string) error {
	archive, err := parseArchive(args[1])
	if err != nil {
		return err
	}
	st, opts, err := s.t.openStore(args[0], true)
	if err != nil {
		return err
	}
	defer st.Close()

	a, err := js5.NewCache(st, opts).Archive(archive)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "protocol: %d\nversion: %d\nflags: %s\ngroups: %d\n",
		a.Protocol, a.Version, a.Flags, len(a.Groups))

	tbl := tablewriter.NewWriter(out)
	tbl.SetHeader([]string{"Group", "Version", "CRC", "Name", "Sizes", "Files"})
	for _, g := range a.SortedGroups() {
		tbl.Append([]string{
			fmt.Sprint(g.ID),
			fmt.Sprint(g.Version),
			fmt.Sprintf("%08x", g.CompressedCRC),
			fmt.Sprint(g.NameHash),
			fmt.Sprintf("%d/%d", g.CompressedSize, g.UncompressedSize),
			fmt.Sprint(len(g.Files)),
		})
	}
	tbl.Render()

	if s.files {
		for _, g := range a.SortedGroups() {
			fmt.Fprintf(out, "group %d:", g.ID)
			for _, id := range g.FileIDs() {
				fmt.Fprintf(out, " %d", id)
				if h := g.Files[id].NameHash; h != 0 {
					fmt.Fprintf(out, "(%d)", h)
				}
			}
			fmt.Fprintln(out)
		}
	}
	return nil
}
