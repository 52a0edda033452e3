// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Guthix/Jagex-Store-5-sub001/vfs"
)

// FileType enumerates the types of files found in a store directory.
type FileType int

// The FileType enumeration.
const (
	FileTypeData FileType = iota
	FileTypeIndex
)

// String implements fmt.Stringer.
func (t FileType) String() string {
	switch t {
	case FileTypeData:
		return "data"
	case FileTypeIndex:
		return "index"
	}
	return fmt.Sprintf("FileType(%d)", int(t))
}

// Filename prefix shared by the data file and every index file.
const filePrefix = "main_file_cache"

const (
	dataSuffix  = ".dat2"
	indexSuffix = ".idx"
)

// SettingsPartition is the reserved partition holding one archive settings
// blob per archive.
const SettingsPartition = 255

// MakeFilename builds a filename from components. The partition is ignored
// for the data file.
func MakeFilename(fileType FileType, partition uint8) string {
	switch fileType {
	case FileTypeData:
		return filePrefix + dataSuffix
	case FileTypeIndex:
		return filePrefix + indexSuffix + strconv.Itoa(int(partition))
	}
	panic("unreachable")
}

// MakeFilepath builds a filepath from components.
func MakeFilepath(fs vfs.FS, dirname string, fileType FileType, partition uint8) string {
	return fs.PathJoin(dirname, MakeFilename(fileType, partition))
}

// ParseFilename parses the components from a filename.
func ParseFilename(fs vfs.FS, filename string) (fileType FileType, partition uint8, ok bool) {
	filename = fs.PathBase(filename)
	switch {
	case filename == filePrefix+dataSuffix:
		return FileTypeData, 0, true
	case strings.HasPrefix(filename, filePrefix+indexSuffix):
		s := filename[len(filePrefix+indexSuffix):]
		// Reject leading zeros so every partition has exactly one name.
		if s == "" || (len(s) > 1 && s[0] == '0') {
			break
		}
		u, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			break
		}
		return FileTypeIndex, uint8(u), true
	}
	return 0, 0, false
}
