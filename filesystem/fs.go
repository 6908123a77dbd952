package filesystem

import (
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/brettbedarf/memfs/config"
	"github.com/brettbedarf/memfs/internal/util"
)

// FileSystem owns the node tree, the current-directory cursor, and the
// open-descriptor table. Operations run to completion synchronously; the
// instance performs no internal locking and must not be shared across
// goroutines without an external guard.
type FileSystem struct {
	cfg    *config.Config
	root   *Node
	cwd    *Node
	lastID atomic.Uint64
	nodes  *xsync.Map[uint64, *Node] // registry of live node IDs; descriptors resolve through it
	fds    []descriptor
}

// NewFS creates an empty filesystem whose current directory is the root.
// A nil cfg uses defaults.
func NewFS(cfg *config.Config) *FileSystem {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	fs := &FileSystem{
		cfg:   cfg,
		nodes: xsync.NewMap[uint64, *Node](),
		fds:   make([]descriptor, cfg.MaxDescriptors),
	}
	fs.root = fs.register(newNode(TypeDir, "", time.Now()))
	fs.cwd = fs.root
	return fs
}

// Root returns the distinguished parentless directory at the top of the tree.
func (fs *FileSystem) Root() *Node {
	return fs.root
}

// register assigns a fresh node ID and enters the node into the live
// registry. Descriptors hold IDs rather than node pointers, so dropping a
// node from the registry invalidates every open handle on it.
func (fs *FileSystem) register(n *Node) *Node {
	n.id = fs.lastID.Add(1)
	fs.nodes.Store(n.id, n)
	return n
}

// attach links child into dir's children. Re-adding a current child is a
// no-op success; a child already owned by a different directory is
// rejected. Stamps dir's modified/accessed time on success.
func (fs *FileSystem) attach(dir, child *Node) error {
	if !dir.IsDir() {
		return ErrNotDirectory
	}
	if child.parent == dir {
		return nil
	}
	if child.parent != nil {
		return ErrInvalidArgument
	}
	if len(dir.children) >= fs.cfg.MaxChildren {
		return ErrCapacity
	}
	dir.children = append(dir.children, child)
	child.parent = dir
	dir.stampModified()
	return nil
}

// destroy releases an already-detached subtree post-order and drops every
// node in it from the live registry, invalidating open descriptors on them.
func (fs *FileSystem) destroy(n *Node) {
	for _, c := range n.children {
		fs.destroy(c)
	}
	fs.nodes.Delete(n.id)
	n.children = nil
	n.data = nil
	n.size = 0
}

// MkdirAll creates every missing directory along path, like mkdir -p.
// Already-existing directory prefixes are fine; an existing file anywhere
// along the way is a collision. "" and "/" are trivial successes.
func (fs *FileSystem) MkdirAll(path string) error {
	logger := util.GetLogger("MkdirAll")

	cur := fs.root
	if !strings.HasPrefix(path, "/") {
		cur = fs.cwd
	}

	created := 0
	for _, seg := range splitPath(path) {
		if len(seg) > fs.cfg.MaxNameLen {
			return opErr("mkdir", path, ErrCapacity)
		}
		switch seg {
		case ".":
			continue
		case "..":
			if cur.parent != nil {
				cur = cur.parent
			}
			continue
		}

		next := cur.findChild(seg)
		if next == nil {
			if cur.readOnly() {
				return opErr("mkdir", path, ErrReadOnly)
			}
			next = fs.register(newNode(TypeDir, seg, time.Now()))
			if err := fs.attach(cur, next); err != nil {
				fs.nodes.Delete(next.id)
				return opErr("mkdir", path, err)
			}
			created++
		} else if !next.IsDir() {
			// a file already occupies this segment
			return opErr("mkdir", path, ErrExists)
		}
		cur = next
	}

	if created > 0 {
		logger.Debug().Str("path", path).Int("created", created).Msg("Created directories")
	}
	return nil
}

// CreateFile creates an empty file at path. The parent directory must
// already exist and the leaf name must be free.
func (fs *FileSystem) CreateFile(path string) error {
	parent, leaf, err := fs.resolveParent(path)
	if err != nil {
		return opErr("create", path, err)
	}
	if parent.readOnly() {
		return opErr("create", path, ErrReadOnly)
	}
	if parent.findChild(leaf) != nil {
		return opErr("create", path, ErrExists)
	}

	f := fs.register(newNode(TypeFile, leaf, time.Now()))
	if err := fs.attach(parent, f); err != nil {
		fs.nodes.Delete(f.id)
		return opErr("create", path, err)
	}
	return nil
}

// RemoveFile removes the file named by path, destroying its content. The
// parent's listing order is not preserved across the removal.
func (fs *FileSystem) RemoveFile(path string) error {
	parent, leaf, err := fs.resolveParent(path)
	if err != nil {
		return opErr("rm", path, err)
	}
	if parent.readOnly() {
		return opErr("rm", path, ErrReadOnly)
	}
	child := parent.findChild(leaf)
	if child == nil {
		return opErr("rm", path, ErrNotFound)
	}
	if child.IsDir() {
		return opErr("rm", path, ErrNotFile)
	}
	if child.readOnly() {
		return opErr("rm", path, ErrReadOnly)
	}

	// detach before destroying so no live child entry ever references a
	// released node
	parent.removeChild(child)
	fs.destroy(child)
	parent.stampModified()
	return nil
}

// RemoveDir removes an empty directory. The root cannot be removed. If the
// removed directory is the current directory, the cursor moves to its
// parent.
func (fs *FileSystem) RemoveDir(path string) error {
	node, err := fs.resolve(path)
	if err != nil {
		return opErr("rmdir", path, err)
	}
	if !node.IsDir() {
		return opErr("rmdir", path, ErrNotDirectory)
	}
	if node == fs.root {
		return opErr("rmdir", path, ErrInvalidArgument)
	}
	if len(node.children) > 0 {
		return opErr("rmdir", path, ErrNotEmpty)
	}
	parent := node.parent
	if node.readOnly() || parent.readOnly() {
		return opErr("rmdir", path, ErrReadOnly)
	}

	if fs.cwd == node {
		fs.cwd = parent
	}
	parent.removeChild(node)
	fs.destroy(node)
	parent.stampModified()
	return nil
}

// Rename renames and/or moves the node at oldPath to newPath. All
// preconditions are validated before anything is touched, so a failed
// rename leaves both directories unchanged. A directory cannot be moved
// into its own subtree.
func (fs *FileSystem) Rename(oldPath, newPath string) error {
	logger := util.GetLogger("Rename")

	src, err := fs.resolve(oldPath)
	if err != nil {
		return opErr("rename", oldPath, err)
	}
	if src == fs.root {
		return opErr("rename", oldPath, ErrInvalidArgument)
	}
	if src.readOnly() || src.parent.readOnly() {
		return opErr("rename", oldPath, ErrReadOnly)
	}

	destParent, newName, err := fs.resolveParent(newPath)
	if err != nil {
		return opErr("rename", newPath, err)
	}
	if destParent.readOnly() {
		return opErr("rename", newPath, ErrReadOnly)
	}
	if destParent.findChild(newName) != nil {
		return opErr("rename", newPath, ErrExists)
	}
	for a := destParent; a != nil; a = a.parent {
		if a == src {
			return opErr("rename", newPath, ErrInvalidArgument)
		}
	}

	if destParent != src.parent {
		if len(destParent.children) >= fs.cfg.MaxChildren {
			return opErr("rename", newPath, ErrCapacity)
		}
		oldParent := src.parent
		oldParent.removeChild(src)
		// cannot fail: capacity and collision were checked above
		destParent.children = append(destParent.children, src)
		src.parent = destParent
		oldParent.stampModified()
	}

	src.name = newName
	src.stampModified()
	destParent.stampModified()
	logger.Debug().Str("from", oldPath).Str("to", newPath).Msg("Renamed node")
	return nil
}

// WriteAt writes p into the file at path starting at offset off, growing
// the buffer as needed. Writing past the current end extends the file;
// any gap left by an earlier seek/write reads as zero bytes.
func (fs *FileSystem) WriteAt(path string, off int, p []byte) (int, error) {
	if off < 0 {
		return 0, opErr("write", path, ErrInvalidArgument)
	}
	node, err := fs.resolve(path)
	if err != nil {
		return 0, opErr("write", path, err)
	}
	if node.IsDir() {
		return 0, opErr("write", path, ErrNotFile)
	}
	if node.readOnly() {
		return 0, opErr("write", path, ErrReadOnly)
	}
	if err := node.ensureCapacity(off+len(p), fs.cfg.MinFileCapacity); err != nil {
		return 0, opErr("write", path, err)
	}
	copy(node.data[off:], p)
	if off+len(p) > node.size {
		node.size = off + len(p)
	}
	node.stampModified()
	return len(p), nil
}

// ReadAt reads up to len(p) bytes from the file at path starting at offset
// off. Reads at or past end-of-data return 0 with no error.
func (fs *FileSystem) ReadAt(path string, off int, p []byte) (int, error) {
	if off < 0 {
		return 0, opErr("read", path, ErrInvalidArgument)
	}
	node, err := fs.resolve(path)
	if err != nil {
		return 0, opErr("read", path, err)
	}
	if node.IsDir() {
		return 0, opErr("read", path, ErrNotFile)
	}
	node.stampAccessed()
	if off >= node.size {
		return 0, nil
	}
	return copy(p, node.data[off:node.size]), nil
}

// List returns the entries of the directory at path in storage order. An
// empty path lists the current directory. Listing stamps the directory's
// accessed time.
func (fs *FileSystem) List(path string) ([]DirEntry, error) {
	node := fs.cwd
	if path != "" {
		var err error
		if node, err = fs.resolve(path); err != nil {
			return nil, opErr("ls", path, err)
		}
	}
	if !node.IsDir() {
		return nil, opErr("ls", path, ErrNotDirectory)
	}
	node.stampAccessed()
	entries := make([]DirEntry, len(node.children))
	for i, c := range node.children {
		entries[i] = DirEntry{Name: c.name, Type: c.nodeType}
	}
	return entries, nil
}

// ChangeDir moves the current-directory cursor to the directory at path.
func (fs *FileSystem) ChangeDir(path string) error {
	node, err := fs.resolve(path)
	if err != nil {
		return opErr("cd", path, err)
	}
	if !node.IsDir() {
		return opErr("cd", path, ErrNotDirectory)
	}
	fs.cwd = node
	return nil
}

// WorkingDir returns the absolute path of the current directory.
func (fs *FileSystem) WorkingDir() string {
	return fs.cwd.Path()
}

// Stat returns a metadata snapshot of the node at path, stamping its
// accessed time as a side effect.
func (fs *FileSystem) Stat(path string) (Info, error) {
	node, err := fs.resolve(path)
	if err != nil {
		return Info{}, opErr("stat", path, err)
	}
	node.stampAccessed()
	return node.info(), nil
}

// SetAttributes replaces the node's attribute bitset wholesale and stamps
// its modified time. Clearing the read-only flag goes through here too, so
// the flag does not gate this operation.
func (fs *FileSystem) SetAttributes(path string, attrs Attr) error {
	node, err := fs.resolve(path)
	if err != nil {
		return opErr("attrib", path, err)
	}
	node.attrs = attrs
	node.modified = time.Now()
	return nil
}

// Touch stamps both modified and accessed times on the node at path
// without changing content.
func (fs *FileSystem) Touch(path string) error {
	node, err := fs.resolve(path)
	if err != nil {
		return opErr("touch", path, err)
	}
	node.stampModified()
	return nil
}

// Search walks the subtree under the current directory and collects the
// full path of every node, other than the root, whose name contains term
// as a case-sensitive substring. Every visited node's accessed time is
// stamped, matched or not. An empty term is an error, not a match-all.
func (fs *FileSystem) Search(term string) ([]string, error) {
	if term == "" {
		return nil, opErr("find", term, ErrInvalidArgument)
	}
	var matches []string
	var visit func(n *Node)
	visit = func(n *Node) {
		n.stampAccessed()
		if n != fs.root && strings.Contains(n.name, term) {
			matches = append(matches, n.Path())
		}
		for _, c := range n.children {
			visit(c)
		}
	}
	visit(fs.cwd)
	return matches, nil
}

// IsNotFound reports whether err is a not-found failure. Convenience for
// callers that treat missing paths as a normal case.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
