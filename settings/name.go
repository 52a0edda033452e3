// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package settings

import "golang.org/x/text/encoding/charmap"

// NameHash hashes a group or file name the way names are stored in archive
// settings: a 31 multiplier over the name's Windows-1252 bytes. Characters
// with no Windows-1252 form hash as '?'.
func NameHash(name string) int32 {
	var h int32
	for _, r := range name {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = '?'
		}
		h = 31*h + int32(b)
	}
	return h
}
