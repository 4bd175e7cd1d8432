package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"inkwell/internal/observability"
)

// LocalStore writes files below a root directory. Fiber's static handler
// serves the same directory under the public prefix.
type LocalStore struct {
	root   string
	prefix string
}

// NewLocalStore creates root if needed.
func NewLocalStore(root, publicPrefix string) (*LocalStore, error) {
	if root == "" {
		return nil, errors.New("upload dir is required")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{root: root, prefix: strings.TrimRight(publicPrefix, "/")}, nil
}

// Root returns the directory files are written to.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) Driver() string { return DriverLocal }

func (s *LocalStore) path(key string) (string, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}

// Put writes to a temp file in the target directory and renames it into
// place, so readers never see a partial file.
func (s *LocalStore) Put(ctx context.Context, key string, r io.Reader, _ int64, _ string) (err error) {
	ctx, span := observability.TraceStorageOperation(ctx, DriverLocal, "put", key)
	defer span.End()
	defer func() { observability.RecordErrorInContext(ctx, err) }()

	full, err := s.path(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), full)
}

func (s *LocalStore) Delete(ctx context.Context, key string) (err error) {
	ctx, span := observability.TraceStorageOperation(ctx, DriverLocal, "delete", key)
	defer span.End()
	defer func() { observability.RecordErrorInContext(ctx, err) }()

	full, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) Exists(_ context.Context, key string) (bool, error) {
	full, err := s.path(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

func (s *LocalStore) URL(key string) string {
	return s.prefix + "/" + strings.TrimLeft(key, "/")
}
