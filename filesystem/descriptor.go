package filesystem

import (
	"io"
	"strconv"

	"github.com/brettbedarf/memfs/internal/util"
)

// OpenMode is the access mode of an open descriptor.
type OpenMode uint8

const (
	ModeRead OpenMode = 1 << iota
	ModeWrite

	ModeReadWrite = ModeRead | ModeWrite
)

// CanRead reports whether the mode permits reads.
func (m OpenMode) CanRead() bool {
	return m&ModeRead != 0
}

// CanWrite reports whether the mode permits writes.
func (m OpenMode) CanWrite() bool {
	return m&ModeWrite != 0
}

// descriptor is one slot of the fixed-size open-file table. A slot is
// either free or open; nothing in between. The node is referenced by
// registry ID, not by pointer, so a removed node turns every descriptor on
// it into a bad handle instead of a dangling reference.
type descriptor struct {
	nodeID uint64
	cursor int
	mode   OpenMode
	inUse  bool
}

func fdPath(fd int) string {
	return "fd " + strconv.Itoa(fd)
}

// Open resolves path to a file and claims the first free descriptor slot
// for it with the cursor at 0. Opening a read-only file for writing fails
// before any slot is claimed.
func (fs *FileSystem) Open(path string, mode OpenMode) (int, error) {
	logger := util.GetLogger("Open")

	if mode == 0 || mode&^ModeReadWrite != 0 {
		return -1, opErr("open", path, ErrInvalidArgument)
	}
	node, err := fs.resolve(path)
	if err != nil {
		return -1, opErr("open", path, err)
	}
	if node.IsDir() {
		return -1, opErr("open", path, ErrNotFile)
	}
	if mode.CanWrite() && node.readOnly() {
		return -1, opErr("open", path, ErrReadOnly)
	}

	for fd := range fs.fds {
		if fs.fds[fd].inUse {
			continue
		}
		fs.fds[fd] = descriptor{nodeID: node.id, mode: mode, inUse: true}
		node.stampAccessed()
		logger.Debug().Str("path", path).Int("fd", fd).Msg("Opened descriptor")
		return fd, nil
	}
	return -1, opErr("open", path, ErrCapacity)
}

// Close releases the descriptor slot back to free.
func (fs *FileSystem) Close(fd int) error {
	if fd < 0 || fd >= len(fs.fds) || !fs.fds[fd].inUse {
		return opErr("close", fdPath(fd), ErrBadDescriptor)
	}
	fs.fds[fd] = descriptor{}
	return nil
}

// fdNode validates the handle and resolves its node through the live
// registry. A node removed since the open no longer resolves.
func (fs *FileSystem) fdNode(fd int) (*descriptor, *Node, error) {
	if fd < 0 || fd >= len(fs.fds) || !fs.fds[fd].inUse {
		return nil, nil, ErrBadDescriptor
	}
	d := &fs.fds[fd]
	node, ok := fs.nodes.Load(d.nodeID)
	if !ok {
		return nil, nil, ErrBadDescriptor
	}
	return d, node, nil
}

// Read copies up to len(p) bytes from the descriptor's cursor position and
// advances the cursor. At or past end-of-data it returns 0 with no error.
func (fs *FileSystem) Read(fd int, p []byte) (int, error) {
	d, node, err := fs.fdNode(fd)
	if err != nil {
		return 0, opErr("read", fdPath(fd), err)
	}
	if !d.mode.CanRead() {
		return 0, opErr("read", fdPath(fd), ErrBadDescriptor)
	}
	node.stampAccessed()
	if d.cursor >= node.size {
		return 0, nil
	}
	n := copy(p, node.data[d.cursor:node.size])
	d.cursor += n
	return n, nil
}

// Write copies p at the descriptor's cursor position, growing the file as
// needed, and advances the cursor. A cursor seeked past end-of-data leaves
// a zero-filled gap.
func (fs *FileSystem) Write(fd int, p []byte) (int, error) {
	d, node, err := fs.fdNode(fd)
	if err != nil {
		return 0, opErr("write", fdPath(fd), err)
	}
	if !d.mode.CanWrite() {
		return 0, opErr("write", fdPath(fd), ErrBadDescriptor)
	}
	if node.readOnly() {
		// flagged read-only after the open
		return 0, opErr("write", fdPath(fd), ErrReadOnly)
	}
	if err := node.ensureCapacity(d.cursor+len(p), fs.cfg.MinFileCapacity); err != nil {
		return 0, opErr("write", fdPath(fd), err)
	}
	copy(node.data[d.cursor:], p)
	d.cursor += len(p)
	if d.cursor > node.size {
		node.size = d.cursor
	}
	node.stampModified()
	return len(p), nil
}

// Seek repositions the descriptor's cursor per whence (io.SeekStart,
// io.SeekCurrent, io.SeekEnd) and returns the new absolute position.
// Seeking past end-of-data is permitted; a negative result is not.
func (fs *FileSystem) Seek(fd int, offset int, whence int) (int, error) {
	d, node, err := fs.fdNode(fd)
	if err != nil {
		return 0, opErr("seek", fdPath(fd), err)
	}

	var pos int
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = d.cursor + offset
	case io.SeekEnd:
		pos = node.size + offset
	default:
		return 0, opErr("seek", fdPath(fd), ErrInvalidArgument)
	}
	if pos < 0 {
		return 0, opErr("seek", fdPath(fd), ErrInvalidArgument)
	}
	d.cursor = pos
	return pos, nil
}
