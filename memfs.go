// Package memfs is an in-process, hierarchical, named byte-store: a tree of
// directory and file nodes held entirely in memory, exposed through
// filesystem-like operations to a single calling process.
package memfs

import (
	"github.com/brettbedarf/memfs/config"
	"github.com/brettbedarf/memfs/filesystem"
)

// New creates a memfs instance given your config. A nil config uses
// defaults.
func New(cfg *config.Config) *filesystem.FileSystem {
	return filesystem.NewFS(cfg)
}
