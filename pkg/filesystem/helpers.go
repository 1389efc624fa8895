package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"

	"github.com/fossmodmanager/fmm/pkg/types"
)

// Exists reports whether path exists. Errors other than "not exist" are
// returned so callers can tell a missing file from an unreadable one.
func Exists(fsys types.FS, path string) (bool, error) {
	_, err := fsys.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// IsDir reports whether path exists and is a directory
func IsDir(fsys types.FS, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}

// CopyFile streams src to dst, creating dst's parent directories
func CopyFile(fsys types.FS, src, dst string) (int64, error) {
	in, err := fsys.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	if err := fsys.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, err
	}

	out, err := fsys.Create(dst)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return n, fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return n, nil
}

var tmpCounter atomic.Uint64

// WriteFileAtomic writes data to a temporary sibling of path and renames
// it over path, so readers never observe a truncated file.
func WriteFileAtomic(fsys types.FS, path string, data []byte, perm fs.FileMode) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp := fmt.Sprintf("%s.tmp-%d-%d", path, os.Getpid(), tmpCounter.Add(1))
	if err := fsys.WriteFile(tmp, data, perm); err != nil {
		_ = fsys.Remove(tmp)
		return err
	}
	if err := fsys.Rename(tmp, path); err != nil {
		_ = fsys.Remove(tmp)
		return err
	}
	return nil
}

// WalkFunc is called for every regular file found by Walk. rel uses
// forward slashes and is relative to the walk root.
type WalkFunc func(path, rel string, info fs.FileInfo) error

// Walk visits every regular file under root in lexical order, descending at
// most maxDepth directory levels (0 means unlimited).
func Walk(fsys types.FS, root string, maxDepth int, fn WalkFunc) error {
	return walk(fsys, root, "", 0, maxDepth, fn)
}

func walk(fsys types.FS, dir, relDir string, depth, maxDepth int, fn WalkFunc) error {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		rel := entry.Name()
		if relDir != "" {
			rel = relDir + "/" + entry.Name()
		}
		if entry.IsDir() {
			if maxDepth > 0 && depth+1 >= maxDepth {
				continue
			}
			if err := walk(fsys, path, rel, depth+1, maxDepth, fn); err != nil {
				return err
			}
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		if err := fn(path, rel, info); err != nil {
			return err
		}
	}
	return nil
}
