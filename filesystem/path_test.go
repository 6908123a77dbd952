package filesystem

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want []string
	}{
		{"empty", "", nil},
		{"root", "/", nil},
		{"double_slash", "//", nil},
		{"simple", "/a/b", []string{"a", "b"}},
		{"relative", "a/b", []string{"a", "b"}},
		{"trailing_slash", "/a/b/", []string{"a", "b"}},
		{"duplicate_slashes", "/a//b///c", []string{"a", "b", "c"}},
		{"dots_kept", "./a/..", []string{".", "a", ".."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitPath(tt.path)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_AbsoluteAndRelative(t *testing.T) {
	fs := newTestFS(t)
	require.NoError(t, fs.MkdirAll("/a/b"))
	require.NoError(t, fs.CreateFile("/a/b/f.txt"))
	require.NoError(t, fs.ChangeDir("/a"))

	abs, err := fs.resolve("/a/b/f.txt")
	require.NoError(t, err)
	rel, err := fs.resolve("b/f.txt")
	require.NoError(t, err)
	assert.Same(t, abs, rel, "absolute and cwd-relative paths must reach the same node")
}

func TestResolve_EmptyPathIsStartNode(t *testing.T) {
	fs := newTestFS(t)
	require.NoError(t, fs.MkdirAll("/a"))
	require.NoError(t, fs.ChangeDir("/a"))

	node, err := fs.resolve("")
	require.NoError(t, err)
	assert.Equal(t, "/a", node.Path())

	node, err = fs.resolve("/")
	require.NoError(t, err)
	assert.Same(t, fs.Root(), node)
}

func TestResolve_DotAndDotDot(t *testing.T) {
	fs := newTestFS(t)
	require.NoError(t, fs.MkdirAll("/a/b"))

	node, err := fs.resolve("/a/./b/..")
	require.NoError(t, err)
	assert.Equal(t, "/a", node.Path())

	// .. clamps at the root rather than erroring
	node, err = fs.resolve("/../../..")
	require.NoError(t, err)
	assert.Same(t, fs.Root(), node)
}

func TestResolve_MissingLeaf(t *testing.T) {
	fs := newTestFS(t)
	require.NoError(t, fs.MkdirAll("/a"))

	_, err := fs.resolve("/a/nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_IntermediateMissing(t *testing.T) {
	fs := newTestFS(t)

	_, err := fs.resolve("/ghost/f.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_IntermediateIsFile(t *testing.T) {
	fs := newTestFS(t)
	require.NoError(t, fs.CreateFile("/f.txt"))

	_, err := fs.resolve("/f.txt/below")
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestResolve_OverlongSegment(t *testing.T) {
	fs := newTestFS(t)
	long := strings.Repeat("x", 32) // bound is 31

	_, err := fs.resolve("/" + long)
	assert.ErrorIs(t, err, ErrCapacity)
}

func TestResolveParent_SplitsLeaf(t *testing.T) {
	fs := newTestFS(t)
	require.NoError(t, fs.MkdirAll("/a/b"))

	parent, leaf, err := fs.resolveParent("/a/b/new.txt")
	require.NoError(t, err)
	assert.Equal(t, "/a/b", parent.Path())
	assert.Equal(t, "new.txt", leaf)

	// the leaf is not required to exist
	assert.Nil(t, parent.findChild(leaf))
}

func TestResolveParent_InvalidLeaves(t *testing.T) {
	fs := newTestFS(t)
	require.NoError(t, fs.MkdirAll("/a"))

	for _, p := range []string{"/", "", "/a/.", "/a/.."} {
		_, _, err := fs.resolveParent(p)
		assert.ErrorIs(t, err, ErrInvalidArgument, "path %q must not yield a leaf", p)
	}

	_, _, err := fs.resolveParent("/a/" + strings.Repeat("x", 32))
	assert.ErrorIs(t, err, ErrCapacity)
}

func TestResolveParent_MaxLenLeafAccepted(t *testing.T) {
	fs := newTestFS(t)
	leaf := strings.Repeat("x", 31)

	parent, got, err := fs.resolveParent("/" + leaf)
	require.NoError(t, err)
	assert.Same(t, fs.Root(), parent)
	assert.Equal(t, leaf, got)
}
