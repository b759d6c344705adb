package safeio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// SafeFS provides filesystem helpers that resolve paths relative to a fixed root.
type SafeFS struct {
	absRoot string // absolute root with symlinks resolved
}

// NewSafeFS locks all future operations to the given root directory.
// The root path is resolved to an absolute, symlink-free directory.
func NewSafeFS(root string) (*SafeFS, error) {
	if root == "" {
		return nil, errors.New("safeio: empty root")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New("safeio: root is not a directory")
	}
	return &SafeFS{absRoot: abs}, nil
}

// Root returns the absolute root directory bound to this SafeFS.
func (s *SafeFS) Root() string {
	if s == nil {
		return ""
	}
	return s.absRoot
}

// Sub returns a SafeFS rooted at the directory userPath names under this root.
// The lexical path may not climb out of the root, but a symlink at or above
// the target is followed even when it leads elsewhere; the returned SafeFS is
// locked to wherever the link resolves. A missing target yields an error
// matching fs.ErrNotExist.
func (s *SafeFS) Sub(userPath string) (*SafeFS, error) {
	if s == nil {
		return nil, errors.New("safeio: filesystem not configured")
	}
	clean := filepath.Clean(userPath)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("safeio: sub path %q must stay under root", userPath)
	}
	return NewSafeFS(filepath.Join(s.absRoot, clean))
}

// Abs joins userPath onto the root without touching the filesystem.
// It is meant for diagnostics; use the Safe* helpers for I/O.
func (s *SafeFS) Abs(userPath string) string {
	if filepath.IsAbs(userPath) {
		return filepath.Clean(userPath)
	}
	return filepath.Join(s.Root(), filepath.FromSlash(userPath))
}

// SafeReadFile reads a file relative to the root.
func (s *SafeFS) SafeReadFile(userPath string) ([]byte, error) {
	p, err := s.resolve(userPath)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, errors.New("safeio: path is a directory")
	}
	return os.ReadFile(p)
}

// SafeOpen opens a file relative to the root for reading.
func (s *SafeFS) SafeOpen(userPath string) (*os.File, error) {
	p, err := s.resolve(userPath)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, errors.New("safeio: path is a directory")
	}
	return os.Open(p)
}

// SafeStat returns metadata for a file or directory under the root.
// A missing path yields an error matching fs.ErrNotExist.
func (s *SafeFS) SafeStat(userPath string) (fs.FileInfo, error) {
	p, err := s.resolve(userPath)
	if err != nil {
		return nil, err
	}
	return os.Stat(p)
}

// SafeReadDir lists entries for a directory relative to the root.
// Entries are returned in the order os.ReadDir yields them (sorted by name).
func (s *SafeFS) SafeReadDir(userPath string) ([]fs.DirEntry, error) {
	dir, err := s.resolve(userPath)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New("safeio: path is not a directory")
	}
	return os.ReadDir(dir)
}

// SafeWriteFile creates or truncates a file relative to the root.
// The parent directory must already exist inside the root; the target itself
// may not exist yet. The write is not atomic.
func (s *SafeFS) SafeWriteFile(userPath string, data []byte, perm fs.FileMode) error {
	if userPath == "" {
		return errors.New("safeio: empty path")
	}
	clean := filepath.Clean(userPath)
	base := filepath.Base(clean)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return fmt.Errorf("safeio: invalid file path %q", userPath)
	}
	parent, err := s.resolve(filepath.Dir(clean))
	if err != nil {
		return err
	}
	target := filepath.Join(parent, base)
	if resolved, err := filepath.EvalSymlinks(target); err == nil {
		if !hasPathPrefix(resolved, s.absRoot) {
			return fmt.Errorf("safeio: resolved outside root (root=%s, path=%s)", s.absRoot, resolved)
		}
		target = resolved
	}
	return os.WriteFile(target, data, perm)
}

// Open implements the fs.FS interface (names use "/" separators).
func (s *SafeFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, fs.ErrInvalid
	}
	return s.SafeOpen(filepath.FromSlash(name))
}

func (s *SafeFS) resolve(userPath string) (string, error) {
	if s == nil {
		return "", errors.New("safeio: filesystem not configured")
	}
	if userPath == "" {
		return "", errors.New("safeio: empty path")
	}
	clean := filepath.Clean(userPath)
	if clean == "." {
		return s.absRoot, nil
	}

	isAbs := filepath.IsAbs(clean) || (runtime.GOOS == "windows" && filepath.VolumeName(clean) != "")
	if !isAbs {
		if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return "", errors.New("safeio: path traversal not allowed")
		}
	}

	var joined string
	if isAbs {
		joined = clean
	} else {
		joined = filepath.Join(s.absRoot, clean)
	}

	resolved, err := filepath.EvalSymlinks(joined)
	if err != nil {
		return "", err
	}
	if !hasPathPrefix(resolved, s.absRoot) {
		return "", fmt.Errorf("safeio: resolved outside root (root=%s, path=%s)", s.absRoot, resolved)
	}
	return resolved, nil
}

func hasPathPrefix(path, root string) bool {
	path = filepath.Clean(path)
	root = filepath.Clean(root)
	if runtime.GOOS == "windows" {
		path = strings.ToLower(path)
		root = strings.ToLower(root)
	}
	if len(root) == 0 {
		return true
	}
	if path == root {
		return true
	}
	sep := string(os.PathSeparator)
	if !strings.HasSuffix(root, sep) {
		root += sep
	}
	if !strings.HasSuffix(path, sep) {
		path += sep
	}
	return strings.HasPrefix(path, root)
}
