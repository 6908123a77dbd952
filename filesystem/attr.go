package filesystem

import (
	"fmt"
	"strings"
	"time"
)

// Attr is a bitset of per-node boolean flags. Any combination is valid.
type Attr uint8

const (
	AttrHidden Attr = 1 << iota
	AttrReadOnly
	AttrSystem
	AttrArchive

	// AttrNone clears the bitset
	AttrNone Attr = 0
)

// Has reports whether every flag in want is set.
func (a Attr) Has(want Attr) bool {
	return a&want == want
}

// String renders the bitset in fixed positional form, e.g. "a-sh" for
// archive+system+hidden with read-only clear.
func (a Attr) String() string {
	b := [4]byte{'-', '-', '-', '-'}
	if a.Has(AttrArchive) {
		b[0] = 'a'
	}
	if a.Has(AttrReadOnly) {
		b[1] = 'r'
	}
	if a.Has(AttrSystem) {
		b[2] = 's'
	}
	if a.Has(AttrHidden) {
		b[3] = 'h'
	}
	return string(b[:])
}

// ParseAttrNames converts a list of flag names ("hidden", "readonly",
// "system", "archive") into a bitset. Names are case-insensitive.
func ParseAttrNames(names []string) (Attr, error) {
	var attr Attr
	for _, name := range names {
		switch strings.ToLower(name) {
		case "hidden":
			attr |= AttrHidden
		case "readonly", "read-only":
			attr |= AttrReadOnly
		case "system":
			attr |= AttrSystem
		case "archive":
			attr |= AttrArchive
		case "none", "":
			// explicit clear marker; no bits
		default:
			return AttrNone, fmt.Errorf("unknown attribute %q: %w", name, ErrInvalidArgument)
		}
	}
	return attr, nil
}

// Info is a point-in-time metadata snapshot of a single node.
type Info struct {
	Name     string    // Empty for the root directory
	Type     NodeType  // TypeDir or TypeFile
	Created  time.Time
	Modified time.Time
	Accessed time.Time
	Attrs    Attr
	Size     int // Content bytes; 0 for directories
	Children int // Entry count; 0 for files
}

// IsDir reports whether the snapshot describes a directory.
func (i Info) IsDir() bool {
	return i.Type == TypeDir
}

// DirEntry is one row of a directory listing, in storage order.
type DirEntry struct {
	Name string
	Type NodeType
}

// String renders the entry the way a listing prints it, with a trailing
// slash marking directories.
func (e DirEntry) String() string {
	if e.Type == TypeDir {
		return e.Name + "/"
	}
	return e.Name
}
