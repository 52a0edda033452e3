// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"fmt"

	"github.com/Guthix/Jagex-Store-5-sub001/container"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// storeT implements blob-level tools.
type storeT struct {
	Root *cobra.Command
	Info *cobra.Command
	List *cobra.Command
	Cat  *cobra.Command

	t         *T
	fmtValue  formatter
	decode    bool
	showSizes bool
}

func newStore(t *T) *storeT {
	s := &storeT{t: t}
	s.fmtValue.mustSet("dump")

	s.Root = &cobra.Command{
		Use:   "store",
		Short: "blob store introspection tools",
	}
	s.Info = &cobra.Command{
		Use:   "info <dir>",
		Short: "print partitions and sector usage",
		Args:  cobra.ExactArgs(1),
		RunE:  s.runInfo,
	}
	s.List = &cobra.Command{
		Use:   "list <dir> <partition>",
		Short: "list the blobs of a partition",
		Args:  cobra.ExactArgs(2),
		RunE:  s.runList,
	}
	s.Cat = &cobra.Command{
		Use:   "cat <dir> <partition> <blob>",
		Short: "print a blob",
		Long: `
Print the contents of a blob. With --decode the blob is decoded as a
container, decrypting it with a key from --keys if one is known.
`,
		Args: cobra.ExactArgs(3),
		RunE: s.runCat,
	}
	s.Root.AddCommand(s.Info, s.List, s.Cat)

	s.List.Flags().BoolVar(&s.showSizes, "sizes", false, "print the length of each blob")
	s.Cat.Flags().Var(&s.fmtValue, "format", "output format: dump, hex, quoted, raw or size")
	s.Cat.Flags().BoolVar(&s.decode, "decode", false, "decode the blob as a container")
	return s
}

func (s *storeT) runInfo(cmd *cobra.Command, args []string) error {
	st, _, err := s.t.openStore(args[0], true)
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	tbl := tablewriter.NewWriter(out)
	tbl.SetHeader([]string{"Partition", "Blobs"})
	for _, p := range st.Partitions() {
		ids, err := st.List(p)
		if err != nil {
			return err
		}
		tbl.Append([]string{fmt.Sprint(p), fmt.Sprint(len(ids))})
	}
	tbl.Render()
	m := st.Metrics()
	fmt.Fprintf(out, "data: %d bytes\n", m.DataSize)
	return nil
}

func (s *storeT) runList(cmd *cobra.Command, args []string) error {
	p, err := parsePartition(args[1])
	if err != nil {
		return err
	}
	st, _, err := s.t.openStore(args[0], true)
	if err != nil {
		return err
	}
	defer st.Close()

	ids, err := st.List(p)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, id := range ids {
		if !s.showSizes {
			fmt.Fprintln(out, id)
			continue
		}
		b, err := st.Read(p, id)
		if err != nil {
			fmt.Fprintf(out, "%d: %v\n", id, err)
			continue
		}
		fmt.Fprintf(out, "%d: %d bytes\n", id, len(b))
	}
	return nil
}

func (s *storeT) runCat(cmd *cobra.Command, args []string) error {
	p, err := parsePartition(args[1])
	if err != nil {
		return err
	}
	id, err := parseID(args[2])
	if err != nil {
		return err
	}
	st, opts, err := s.t.openStore(args[0], true)
	if err != nil {
		return err
	}
	defer st.Close()

	b, err := st.Read(p, id)
	if err != nil {
		return err
	}
	if s.decode {
		key, _ := opts.Keys.Key(p, id)
		payload, v, err := container.Decode(b, key)
		if err != nil {
			return err
		}
		if v.Present() {
			fmt.Fprintf(cmd.OutOrStdout(), "version: %d\n", v)
		}
		b = payload
	}
	s.fmtValue.fn(cmd.OutOrStdout(), b)
	return nil
}
