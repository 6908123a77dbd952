// Package filesystem implements an in-process hierarchical byte store: a
// tree of directory and file nodes held entirely in memory and exposed
// through filesystem-like operations.
//
// A FileSystem instance performs no internal synchronization and must be
// confined to a single caller or guarded externally.
package filesystem

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by filesystem operations. Match with errors.Is.
var (
	// ErrNotFound indicates a path or handle does not resolve
	ErrNotFound = errors.New("not found")

	// ErrNotDirectory indicates a directory operation hit a file
	ErrNotDirectory = errors.New("not a directory")

	// ErrNotFile indicates a file operation hit a directory
	ErrNotFile = errors.New("not a file")

	// ErrExists indicates a name collision on a create or rename target
	ErrExists = errors.New("already exists")

	// ErrNotEmpty indicates an attempt to remove a non-empty directory
	ErrNotEmpty = errors.New("directory not empty")

	// ErrReadOnly indicates a mutating operation touched a node, or its
	// containing directory, carrying the read-only attribute
	ErrReadOnly = errors.New("read-only")

	// ErrCapacity indicates a fixed bound was hit: directory fan-out,
	// name length, or a full descriptor table
	ErrCapacity = errors.New("capacity exceeded")

	// ErrInvalidArgument indicates a malformed path, name, search term,
	// or seek position
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrBadDescriptor indicates a closed, out-of-range, or invalidated
	// handle, or a handle whose mode does not permit the operation
	ErrBadDescriptor = errors.New("bad descriptor")
)

// Error wraps a sentinel with the operation and path (or handle) it failed
// on, to provide more detailed error information.
type Error struct {
	Op   string // Operation that failed (e.g., "create", "rename")
	Path string // Affected path, or a handle rendered as "fd N"
	Err  error  // Underlying sentinel
}

// Error implements the error interface, providing a formatted error message
func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap implements error unwrapping for the errors.Is/As functions
func (e *Error) Unwrap() error {
	return e.Err
}

func opErr(op, path string, err error) error {
	return &Error{Op: op, Path: path, Err: err}
}
