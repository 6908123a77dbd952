package filesystem

import "strings"

// splitPath breaks a path into its segments, dropping empty segments
// produced by leading, trailing, or duplicate slashes. "" and "/" both
// split to nothing.
func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	segs := parts[:0]
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	return segs
}

// checkLeafName validates a final path segment used to create or rename an
// entry: 1..MaxNameLen bytes and not a reserved dot name.
func (fs *FileSystem) checkLeafName(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrInvalidArgument
	}
	if len(name) > fs.cfg.MaxNameLen {
		return ErrCapacity
	}
	return nil
}

// walkFrom translates a path into a target node (wantParent false) or into
// the would-be parent plus the final segment as a leaf name (wantParent
// true, used by create/remove/rename to separate "where" from "what").
//
// Paths beginning with "/" walk from the root; everything else walks from
// start. "." stays put and ".." clamps at the root rather than erroring.
// Non-final segments must resolve to existing directories.
func (fs *FileSystem) walkFrom(start *Node, path string, wantParent bool) (*Node, string, error) {
	cur := fs.root
	if !strings.HasPrefix(path, "/") && start != nil {
		cur = start
	}

	segs := splitPath(path)
	if len(segs) == 0 {
		// "" or "/" resolves to the start node itself; there is no leaf
		// to split off
		if wantParent {
			return nil, "", ErrInvalidArgument
		}
		return cur, "", nil
	}

	for i, seg := range segs {
		final := i == len(segs)-1
		if len(seg) > fs.cfg.MaxNameLen {
			return nil, "", ErrCapacity
		}

		switch seg {
		case ".":
			if final && wantParent {
				return nil, "", ErrInvalidArgument
			}
			continue
		case "..":
			if final && wantParent {
				return nil, "", ErrInvalidArgument
			}
			if cur.parent != nil {
				cur = cur.parent
			}
			continue
		}

		if final {
			if wantParent {
				return cur, seg, nil
			}
			child := cur.findChild(seg)
			if child == nil {
				return nil, "", ErrNotFound
			}
			return child, "", nil
		}

		child := cur.findChild(seg)
		if child == nil {
			return nil, "", ErrNotFound
		}
		if !child.IsDir() {
			return nil, "", ErrNotDirectory
		}
		cur = child
	}

	return cur, "", nil
}

// resolve maps a path to its node, relative to the current directory unless
// absolute.
func (fs *FileSystem) resolve(path string) (*Node, error) {
	node, _, err := fs.walkFrom(fs.cwd, path, false)
	return node, err
}

// resolveParent maps a path to its would-be parent directory and leaf name.
// The leaf is validated but not required to exist.
func (fs *FileSystem) resolveParent(path string) (*Node, string, error) {
	parent, leaf, err := fs.walkFrom(fs.cwd, path, true)
	if err != nil {
		return nil, "", err
	}
	if err := fs.checkLeafName(leaf); err != nil {
		return nil, "", err
	}
	return parent, leaf, nil
}
