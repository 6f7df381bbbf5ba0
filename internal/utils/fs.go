package utils

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// RemoveAllTolerant removes path and everything below it. It reports whether
// anything was there; a missing path is not an error.
func RemoveAllTolerant(afs afero.Fs, path string) (bool, error) {
	if _, err := afs.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := afs.RemoveAll(path); err != nil {
		return true, err
	}
	return true, nil
}

// CopyTree recursively copies src to dst, creating dst if needed. File modes
// are preserved.
func CopyTree(afs afero.Fs, src, dst string) error {
	return afero.Walk(afs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			return afs.MkdirAll(target, info.Mode().Perm()|0o700)
		}
		return copyFile(afs, path, target, info.Mode().Perm())
	})
}

func copyFile(afs afero.Fs, src, dst string, perm os.FileMode) error {
	in, err := afs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := afs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}

// Snapshot is a temporary copy of a directory
type Snapshot struct {
	fs   afero.Fs
	root string
	// Dir holds the copied content
	Dir string
}

// NewSnapshot copies src into a fresh temporary directory created below
// parent, named with the given prefix. The copy lives in a subdirectory
// named after src's base name.
func NewSnapshot(afs afero.Fs, src, parent, prefix string) (*Snapshot, error) {
	root, err := afero.TempDir(afs, parent, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary directory in %s: %w", parent, err)
	}

	dir := filepath.Join(root, filepath.Base(src))
	if err := CopyTree(afs, src, dir); err != nil {
		_ = afs.RemoveAll(root)
		return nil, fmt.Errorf("failed to save %s: %w", src, err)
	}
	return &Snapshot{fs: afs, root: root, Dir: dir}, nil
}

// Root returns the temporary directory holding the snapshot
func (s *Snapshot) Root() string {
	return s.root
}

// Remove deletes the snapshot. It is safe to call on a nil snapshot and more
// than once.
func (s *Snapshot) Remove() error {
	if s == nil || s.root == "" {
		return nil
	}
	err := s.fs.RemoveAll(s.root)
	s.root = ""
	return err
}
