package blobstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStore implements Store using the local file system.
type LocalStore struct {
	root string
}

// NewLocalStore creates a new LocalStore rooted at the given directory.
// The directory is created if it does not exist.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store root %s: %w", root, err)
	}
	return &LocalStore{root: root}, nil
}

// URI returns the file URI of the store root.
func (s *LocalStore) URI() string {
	abs, err := filepath.Abs(s.root)
	if err != nil {
		abs = s.root
	}
	return "file://" + filepath.ToSlash(abs)
}

// Exists reports whether the named blob exists.
func (s *LocalStore) Exists(_ context.Context, name string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.root, name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// ReadAll reads the full content of the named blob.
func (s *LocalStore) ReadAll(_ context.Context, name string) ([]byte, error) {
	// os.ReadFile errors already satisfy ErrNotFound/ErrUnauthorized
	// via os.ErrNotExist/os.ErrPermission.
	return os.ReadFile(filepath.Join(s.root, name))
}

// Put writes a blob atomically via a temp file in the same directory
// followed by a rename, so readers never observe partial content.
func (s *LocalStore) Put(_ context.Context, name string, data []byte) error {
	target := filepath.Join(s.root, name)
	dir := filepath.Dir(target)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(target)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	_ = tmp.Chmod(0o644)

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// Atomically replace target.
	if err := os.Rename(tmpName, target); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	// Success: prevent deferred cleanup from removing the final file.
	tmpName = ""
	return nil
}

// Delete removes a blob. Deleting a missing blob is not an error.
func (s *LocalStore) Delete(_ context.Context, name string) error {
	err := os.Remove(filepath.Join(s.root, name))
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
