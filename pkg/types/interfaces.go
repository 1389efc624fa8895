package types

import (
	"io"
	"io/fs"
)

// FS is the filesystem surface fmm needs. Production code uses the OS,
// tests use an in-memory afero filesystem.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Open(name string) (io.ReadCloser, error)
	Create(name string) (io.WriteCloser, error)

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error

	// For in-memory filesystems Lstat falls back to Stat
	Lstat(name string) (fs.FileInfo, error)
}
