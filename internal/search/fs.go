package search

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileSystem is the listing backend a Traverser walks. The local disk and
// remote SFTP hosts both satisfy it.
type FileSystem interface {
	// ReadDir lists the entries of a directory without following symlinks.
	ReadDir(name string) ([]fs.DirEntry, error)
	// Stat follows symlinks.
	Stat(name string) (fs.FileInfo, error)
	// Separator is the path separator used when joining entry names.
	Separator() string
}

// LocalFS is the FileSystem of the running host.
type LocalFS struct{}

func (LocalFS) ReadDir(name string) ([]fs.DirEntry, error) { return os.ReadDir(name) }
func (LocalFS) Stat(name string) (fs.FileInfo, error)      { return os.Stat(name) }
func (LocalFS) Separator() string                          { return string(filepath.Separator) }

// joinPath appends name to dir without cleaning dir, so the root text the
// caller supplied survives verbatim in every returned path.
func joinPath(sep, dir, name string) string {
	if dir == "" {
		return name
	}
	if strings.HasSuffix(dir, sep) || (sep == `\` && strings.HasSuffix(dir, "/")) {
		return dir + name
	}
	return dir + sep + name
}
