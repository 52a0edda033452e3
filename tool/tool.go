// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package tool implements the js5 introspection commands.
package tool

import (
	js5 "github.com/Guthix/Jagex-Store-5-sub001"
	"github.com/Guthix/Jagex-Store-5-sub001/vfs"
	"github.com/spf13/cobra"
)

// T is the container for all of the introspection tools.
type T struct {
	Commands []*cobra.Command
	store    *storeT
	settings *settingsT
	verify   *verifyT
	version  *versionT
	opts     js5.Options
	keysPath string
}

// Option configures the tools.
type Option func(*T)

// FS sets the filesystem stores are opened with.
func FS(fs vfs.FS) Option {
	return func(t *T) { t.opts.FS = fs }
}

// Logger sets the logger stores are opened with.
func Logger(l js5.Logger) Option {
	return func(t *T) { t.opts.Logger = l }
}

// New creates a new introspection tool.
func New(opts ...Option) *T {
	t := &T{}
	for _, o := range opts {
		o(t)
	}
	t.opts.EnsureDefaults()

	t.store = newStore(t)
	t.settings = newSettings(t)
	t.verify = newVerify(t)
	t.version = newVersion(t)
	t.Commands = []*cobra.Command{
		t.store.Root,
		t.settings.Root,
		t.verify.Root,
		t.version.Root,
	}
	for _, c := range t.Commands {
		c.PersistentFlags().StringVar(&t.keysPath, "keys", "",
			"JSON or YAML file of XTEA keys for encrypted groups")
	}
	return t
}

// openStore opens the store in dir, loading the key file if one was given.
func (t *T) openStore(dir string, readOnly bool) (*js5.Store, *js5.Options, error) {
	opts := t.opts.Clone()
	opts.ReadOnly = readOnly
	if t.keysPath != "" {
		keys, err := js5.LoadKeySet(opts.FS, t.keysPath)
		if err != nil {
			return nil, nil, err
		}
		opts.Keys = keys
	}
	s, err := js5.Open(dir, opts)
	if err != nil {
		return nil, nil, err
	}
	return s, opts, nil
}
