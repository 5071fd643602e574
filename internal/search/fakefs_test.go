package search

import (
	"errors"
	"io/fs"
	pathpkg "path"
	"time"
)

var errPermission = errors.New("permission denied")

type fakeNode struct {
	mode      fs.FileMode
	children  []string
	errOnRead bool
}

// fakeFS is an in-memory FileSystem using "/" separators.
type fakeFS struct {
	nodes map[string]fakeNode
	reads []string
}

func newFakeFS(nodes map[string]fakeNode) *fakeFS {
	return &fakeFS{nodes: nodes}
}

func (f *fakeFS) ReadDir(name string) ([]fs.DirEntry, error) {
	f.reads = append(f.reads, name)
	node, ok := f.nodes[name]
	if !ok {
		return nil, fs.ErrNotExist
	}
	if !node.mode.IsDir() {
		return nil, errors.New("not a directory")
	}
	if node.errOnRead {
		return nil, errPermission
	}
	out := make([]fs.DirEntry, 0, len(node.children))
	for _, child := range node.children {
		childNode, ok := f.nodes[pathpkg.Join(name, child)]
		if !ok {
			return nil, fs.ErrNotExist
		}
		out = append(out, fs.FileInfoToDirEntry(fakeInfo{name: child, mode: childNode.mode}))
	}
	return out, nil
}

func (f *fakeFS) Stat(name string) (fs.FileInfo, error) {
	node, ok := f.nodes[name]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return fakeInfo{name: pathpkg.Base(name), mode: node.mode}, nil
}

func (f *fakeFS) Separator() string { return "/" }

type fakeInfo struct {
	name string
	mode fs.FileMode
}

func (fi fakeInfo) Name() string       { return fi.name }
func (fi fakeInfo) Size() int64        { return 0 }
func (fi fakeInfo) Mode() fs.FileMode  { return fi.mode }
func (fi fakeInfo) ModTime() time.Time { return time.Unix(1700000000, 0) }
func (fi fakeInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi fakeInfo) Sys() any           { return nil }

// lockedTree has an unreadable directory between two readable ones and a
// symlink that points back at the root.
func lockedTree() *fakeFS {
	return newFakeFS(map[string]fakeNode{
		"/r":           {mode: fs.ModeDir, children: []string{"a", "locked", "loop", "z.txt"}},
		"/r/a":         {mode: fs.ModeDir, children: []string{"one.txt"}},
		"/r/a/one.txt": {},
		"/r/locked":    {mode: fs.ModeDir, errOnRead: true},
		"/r/loop":      {mode: fs.ModeSymlink},
		"/r/z.txt":     {},
	})
}
