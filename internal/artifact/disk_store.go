package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"

	"bodymask/internal/safeio"
)

// DiskStore persists artifacts as files under a SafeFS root. Keys map to
// slash-separated paths relative to that root. Parent directories are not
// created; writing into a missing directory fails.
type DiskStore struct {
	fs *safeio.SafeFS
}

func NewDiskStore(fsys *safeio.SafeFS) *DiskStore {
	return &DiskStore{fs: fsys}
}

// Put overwrites the file at key. contentType is ignored on disk.
func (s *DiskStore) Put(_ context.Context, key string, content []byte, _ string) error {
	if s == nil || s.fs == nil {
		return fmt.Errorf("store is nil")
	}
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	if content == nil {
		content = []byte{}
	}
	return s.fs.SafeWriteFile(filepath.FromSlash(key), content, 0o644)
}

func (s *DiskStore) Get(_ context.Context, key string) ([]byte, error) {
	if s == nil || s.fs == nil {
		return nil, fmt.Errorf("store is nil")
	}
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	b, err := s.fs.SafeReadFile(filepath.FromSlash(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return b, err
}

// GetURL returns a file:// URL for the resolved path.
func (s *DiskStore) GetURL(_ context.Context, key string) (string, error) {
	if s == nil || s.fs == nil {
		return "", fmt.Errorf("store is nil")
	}
	key, err := normalizeKey(key)
	if err != nil {
		return "", err
	}
	return "file://" + filepath.ToSlash(s.fs.Abs(key)), nil
}

// List returns the regular files directly inside prefix. A missing prefix
// directory yields an empty list.
func (s *DiskStore) List(_ context.Context, prefix string) ([]string, error) {
	if s == nil || s.fs == nil {
		return nil, fmt.Errorf("store is nil")
	}
	prefix = normalizePrefix(prefix)
	dir := "."
	if prefix != "" {
		dir = filepath.FromSlash(path.Clean(prefix))
	}
	entries, err := s.fs.SafeReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		keys = append(keys, prefix+e.Name())
	}
	sort.Strings(keys)
	return keys, nil
}
