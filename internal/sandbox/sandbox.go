// Package sandbox confines writes to the todo files and sync bookkeeping
// to the project root, and makes every write atomic.
package sandbox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TempPattern names the temporary files written before an atomic rename.
const TempPattern = ".todosync-*.tmp"

// Root is a project directory that file operations may not escape.
type Root struct {
	dir string // symlink-resolved absolute path
}

// Open resolves projectRoot and returns a Root for it. The directory must
// exist.
func Open(projectRoot string) (*Root, error) {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolving project root symlinks: %w", err)
	}
	return &Root{dir: resolved}, nil
}

// Dir returns the resolved project root.
func (r *Root) Dir() string {
	return r.dir
}

// Resolve maps a project-relative (or absolute) path to an absolute path
// inside the root, following symlinks. Paths resolving outside the root
// are rejected.
func (r *Root) Resolve(path string) (string, error) {
	candidate := path
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(r.dir, path)
	}
	candidate = filepath.Clean(candidate)

	// The path may not exist yet, so resolve as much as we can.
	resolved, err := resolveExistingPath(candidate)
	if err != nil {
		return "", fmt.Errorf("resolving target path: %w", err)
	}

	// Trailing separator keeps "root2" from matching "root".
	if resolved != r.dir && !strings.HasPrefix(resolved, r.dir+string(filepath.Separator)) {
		return "", fmt.Errorf("path '%s' resolves to '%s' which is outside the project root '%s'", path, resolved, r.dir)
	}
	return resolved, nil
}

// ReadFile reads a file inside the root. A missing file reads as empty
// with found set to false.
func (r *Root) ReadFile(path string) (content []byte, found bool, err error) {
	resolved, err := r.Resolve(path)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(resolved)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, true, nil
}

// WriteFile atomically replaces a file inside the root, creating parent
// directories as needed. An existing file keeps its permissions.
func (r *Root) WriteFile(path string, content []byte, perm os.FileMode) error {
	resolved, err := r.Resolve(path)
	if err != nil {
		return err
	}
	if _, err := r.Resolve(filepath.Dir(resolved)); err != nil {
		return fmt.Errorf("parent directory escapes sandbox: %w", err)
	}
	if info, err := os.Stat(resolved); err == nil {
		perm = info.Mode().Perm()
	}
	return WriteAtomic(resolved, content, perm)
}

// AppendFile appends content to a file inside the root. The whole file is
// rewritten atomically, so readers never observe a partial append.
func (r *Root) AppendFile(path string, content []byte, perm os.FileMode) error {
	existing, _, err := r.ReadFile(path)
	if err != nil {
		return err
	}
	combined := make([]byte, 0, len(existing)+len(content))
	combined = append(combined, existing...)
	combined = append(combined, content...)
	return r.WriteFile(path, combined, perm)
}

// Remove deletes a file inside the root.
func (r *Root) Remove(path string) error {
	resolved, err := r.Resolve(path)
	if err != nil {
		return err
	}
	return os.Remove(resolved)
}

// MkdirAll creates a directory tree inside the root.
func (r *Root) MkdirAll(path string, perm os.FileMode) error {
	resolved, err := r.Resolve(path)
	if err != nil {
		return err
	}
	return os.MkdirAll(resolved, perm)
}

// resolveExistingPath resolves symlinks for the longest existing prefix of
// path and appends the rest unchanged.
func resolveExistingPath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}

	dir, base := filepath.Dir(path), filepath.Base(path)
	if dir == path {
		return path, nil
	}

	resolvedDir, err := resolveExistingPath(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedDir, base), nil
}

// WriteAtomic writes content to a temp file next to path and renames it
// into place. Parent directories are created.
func WriteAtomic(path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	// Same directory keeps the rename on one filesystem.
	tmp, err := os.CreateTemp(dir, TempPattern)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", path, err)
	}

	success = true
	return nil
}
