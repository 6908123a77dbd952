package filesystem

import (
	"strings"
	"time"
)

// NodeType tags the two node variants.
type NodeType uint8

const (
	TypeDir NodeType = iota + 1
	TypeFile
)

func (t NodeType) String() string {
	switch t {
	case TypeDir:
		return "dir"
	case TypeFile:
		return "file"
	default:
		return "unknown"
	}
}

// Node is a single entry in the tree: a directory or a file. The root is a
// distinguished directory with an empty name and no parent.
//
// Nodes are owned by their parent's children slice; the parent field is a
// back-reference for traversal only. Every mutation goes through the owning
// [FileSystem].
type Node struct {
	id       uint64
	nodeType NodeType
	name     string
	parent   *Node

	attrs    Attr
	created  time.Time
	modified time.Time
	accessed time.Time

	// Directory variant: children in storage order. Removal swaps with the
	// last entry, so order is not preserved across removals.
	children []*Node

	// File variant: len(data) is the allocated capacity; bytes past size
	// are zero. Capacity never shrinks for the node's lifetime.
	data []byte
	size int
}

func newNode(t NodeType, name string, now time.Time) *Node {
	return &Node{
		nodeType: t,
		name:     name,
		created:  now,
		modified: now,
		accessed: now,
	}
}

// Name returns the node's name, empty for the root.
func (n *Node) Name() string {
	return n.name
}

// Type returns the node variant tag.
func (n *Node) Type() NodeType {
	return n.nodeType
}

// IsDir reports whether the node is a directory.
func (n *Node) IsDir() bool {
	return n.nodeType == TypeDir
}

// Size returns the logical content size for files, 0 for directories.
func (n *Node) Size() int {
	return n.size
}

// Path reconstructs the full slash-delimited absolute path by walking
// parent references up to the root. The root formats as "/".
func (n *Node) Path() string {
	if n.parent == nil {
		return "/"
	}
	var parts []string
	for cur := n; cur.parent != nil; cur = cur.parent {
		parts = append(parts, cur.name)
	}
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(parts[i])
	}
	return b.String()
}

// findChild returns the child with the exact (case-sensitive) name, or nil.
func (n *Node) findChild(name string) *Node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// removeChild detaches child from the children slice by swapping it with
// the last entry. Returns false if child is not present. The child's parent
// back-reference is cleared so it cannot observe stale tree state.
func (n *Node) removeChild(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			last := len(n.children) - 1
			n.children[i] = n.children[last]
			n.children[last] = nil
			n.children = n.children[:last]
			child.parent = nil
			return true
		}
	}
	return false
}

// info builds a metadata snapshot without side effects.
func (n *Node) info() Info {
	fi := Info{
		Name:     n.name,
		Type:     n.nodeType,
		Created:  n.created,
		Modified: n.modified,
		Accessed: n.accessed,
		Attrs:    n.attrs,
	}
	if n.IsDir() {
		fi.Children = len(n.children)
	} else {
		fi.Size = n.size
	}
	return fi
}

func (n *Node) stampAccessed() {
	n.accessed = time.Now()
}

func (n *Node) stampModified() {
	now := time.Now()
	n.modified = now
	n.accessed = now
}

func (n *Node) readOnly() bool {
	return n.attrs.Has(AttrReadOnly)
}
