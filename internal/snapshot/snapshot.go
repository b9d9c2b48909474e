// Package snapshot stores the base texts of past syncs by content hash, so
// the next sync can recover the common ancestor of the local and remote
// lists.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/bianoble/todosync/internal/sandbox"
)

// ErrMissing is returned by Load when no verified snapshot exists for a hash.
var ErrMissing = errors.New("snapshot not found")

// Store is a content-addressed snapshot store. Snapshots are verified
// against their hash on every read.
type Store struct {
	dir string
}

// New opens a Store at dir, creating the objects directory if needed.
func New(dir string) (*Store, error) {
	objDir := filepath.Join(dir, "objects")
	if err := os.MkdirAll(objDir, 0755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory %s: %w", objDir, err)
	}
	return &Store{dir: dir}, nil
}

// Get returns the snapshot stored under hash. found is false when nothing
// is stored. An entry whose content no longer matches its hash is removed
// and reported as not found.
func (s *Store) Get(hash string) (content []byte, found bool, err error) {
	path := s.objectPath(hash)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading snapshot %s: %w", hash, err)
	}

	if ComputeHash(data) != hash {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return data, true, nil
}

// Load is Get for callers that need the text: a missing snapshot is
// ErrMissing.
func (s *Store) Load(hash string) (string, error) {
	data, found, err := s.Get(hash)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%w: %s", ErrMissing, hash)
	}
	return string(data), nil
}

// Put stores content under hash after checking that they agree. Storing an
// existing snapshot is a no-op.
func (s *Store) Put(hash string, content []byte) error {
	if actual := ComputeHash(content); actual != hash {
		return fmt.Errorf("snapshot put: content hash %s does not match declared hash %s", actual, hash)
	}

	path := s.objectPath(hash)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := sandbox.WriteAtomic(path, content, 0644); err != nil {
		return fmt.Errorf("storing snapshot %s: %w", hash, err)
	}
	return nil
}

// Save stores text and returns its hash.
func (s *Store) Save(text string) (string, error) {
	content := []byte(text)
	hash := ComputeHash(content)
	if err := s.Put(hash, content); err != nil {
		return "", err
	}
	return hash, nil
}

// Has reports whether a snapshot is stored under hash, without verifying it.
func (s *Store) Has(hash string) bool {
	_, err := os.Stat(s.objectPath(hash))
	return err == nil
}

// List returns the hashes of all stored snapshots, sorted.
func (s *Store) List() ([]string, error) {
	var hashes []string
	err := filepath.WalkDir(filepath.Join(s.dir, "objects"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) == ".tmp" {
			return nil
		}
		hashes = append(hashes, d.Name())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	slices.Sort(hashes)
	return hashes, nil
}

// Prune removes every snapshot whose hash is not in keep and returns the
// number removed.
func (s *Store) Prune(keep ...string) (int, error) {
	hashes, err := s.List()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, h := range hashes {
		if slices.Contains(keep, h) {
			continue
		}
		if err := os.Remove(s.objectPath(h)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("removing snapshot %s: %w", h, err)
		}
		removed++
	}
	return removed, nil
}

// Size returns the total size of the store in bytes.
func (s *Store) Size() (int64, error) {
	var total int64
	err := filepath.Walk(s.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total, err
}

// Path returns the store directory.
func (s *Store) Path() string {
	return s.dir
}

func (s *Store) objectPath(hash string) string {
	if len(hash) < 2 {
		return filepath.Join(s.dir, "objects", hash)
	}
	return filepath.Join(s.dir, "objects", hash[:2], hash)
}

// ComputeHash returns the hex SHA-256 of content.
func ComputeHash(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}

// HashText is ComputeHash for strings.
func HashText(text string) string {
	return ComputeHash([]byte(text))
}
