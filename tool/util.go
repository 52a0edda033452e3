// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// formatter prints blob contents. It implements pflag.Value.
type formatter struct {
	spec string
	fn   func(w io.Writer, v []byte)
}

func (f *formatter) String() string {
	return f.spec
}

func (f *formatter) Type() string {
	return "formatter"
}

func (f *formatter) Set(spec string) error {
	f.spec = spec
	switch spec {
	case "hex":
		f.fn = formatHex
	case "dump":
		f.fn = formatDump
	case "quoted":
		f.fn = formatQuoted
	case "raw":
		f.fn = formatRaw
	case "size":
		f.fn = formatSize
	default:
		return errors.Newf("unknown formatter: %q", spec)
	}
	return nil
}

func (f *formatter) mustSet(spec string) {
	if err := f.Set(spec); err != nil {
		panic(err)
	}
}

func formatHex(w io.Writer, v []byte) {
	fmt.Fprintf(w, "%x\n", v)
}

func formatDump(w io.Writer, v []byte) {
	d := hex.Dumper(w)
	_, _ = d.Write(v)
	_ = d.Close()
}

func formatQuoted(w io.Writer, v []byte) {
	q := strconv.AppendQuote(make([]byte, 0, len(v)), string(v))
	_, _ = w.Write(append(q, '\n'))
}

func formatRaw(w io.Writer, v []byte) {
	_, _ = w.Write(v)
}

func formatSize(w io.Writer, v []byte) {
	fmt.Fprintf(w, "<%d>\n", len(v))
}

func parseUint(s string, bits int, what string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, bits)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s %q", what, s)
	}
	return v, nil
}

func parsePartition(s string) (uint8, error) {
	v, err := parseUint(s, 8, "partition")
	return uint8(v), err
}

func parseArchive(s string) (uint8, error) {
	v, err := parseUint(s, 8, "archive")
	if err == nil && v == 255 {
		err = errors.New("archive 255 is the settings partition")
	}
	return uint8(v), err
}

func parseID(s string) (uint32, error) {
	v, err := parseUint(s, 32, "id")
	return uint32(v), err
}
