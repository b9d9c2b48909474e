// Package remote reads and writes the shared copy of the todo list.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bianoble/todosync/internal/config"
)

// Remote is the shared copy of a todo list that local edits are merged
// against.
type Remote interface {
	// Name describes the remote for messages, e.g. its path or URL.
	Name() string

	// Pull fetches the current remote text. A remote that does not exist
	// yet is returned with Exists set to false, not as an error.
	Pull(ctx context.Context) (*Snapshot, error)

	// Push replaces the remote text.
	Push(ctx context.Context, content []byte) error
}

// Snapshot is one pulled version of the remote.
type Snapshot struct {
	Content []byte
	Hash    string // sha256 of Content
	ETag    string // url only
	Exists  bool
}

// Text returns the content as a string.
func (s *Snapshot) Text() string {
	return string(s.Content)
}

// Error represents an error associated with a specific remote operation.
type Error struct {
	Remote    string
	Operation string
	Err       error
	Hint      string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s failed: %s", e.Remote, e.Operation, e.Err)
	if e.Hint != "" {
		msg += " — " + e.Hint
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Factory builds a Remote from its config. Relative local paths are taken
// against projectRoot.
type Factory func(cfg config.RemoteConfig, projectRoot string) (Remote, error)

// Registry maps remote type strings to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates a new empty remote registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry with the local and url remotes wired to
// fsys and client.
func DefaultRegistry(fsys FS, client HTTPClient) *Registry {
	reg := NewRegistry()
	reg.Register("local", func(cfg config.RemoteConfig, projectRoot string) (Remote, error) {
		path := cfg.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(projectRoot, path)
		}
		return &LocalRemote{Path: filepath.Clean(path), FS: fsys}, nil
	})
	reg.Register("url", func(cfg config.RemoteConfig, _ string) (Remote, error) {
		return &URLRemote{
			URL:     cfg.URL,
			Client:  client,
			MaxSize: cfg.MaxSize,
			Timeout: cfg.Timeout,
		}, nil
	})
	return reg
}

// Register adds a factory for the given remote type.
func (r *Registry) Register(remoteType string, f Factory) {
	r.factories[remoteType] = f
}

// Get returns the factory for the given remote type.
func (r *Registry) Get(remoteType string) (Factory, error) {
	f, ok := r.factories[remoteType]
	if !ok {
		return nil, fmt.Errorf("unknown remote type '%s' — supported types: %s", remoteType, r.supportedTypes())
	}
	return f, nil
}

// Open builds the remote described by cfg.
func (r *Registry) Open(cfg config.RemoteConfig, projectRoot string) (Remote, error) {
	f, err := r.Get(cfg.Type)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("remote type '%s' has no factory", cfg.Type)
	}
	return f(cfg, projectRoot)
}

func (r *Registry) supportedTypes() string {
	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	if len(types) == 0 {
		return "(none registered)"
	}
	slices.Sort(types)
	return strings.Join(types, ", ")
}

// FS abstracts filesystem operations for testing and embedding.
type FS interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	Stat(path string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	Remove(path string) error
	Rename(oldpath, newpath string) error
}

// HTTPClient abstracts HTTP operations for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// OSFS implements FS using the real operating system filesystem.
type OSFS struct{}

func (OSFS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }
func (OSFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}
func (OSFS) Stat(path string) (os.FileInfo, error)        { return os.Stat(path) }
func (OSFS) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }
func (OSFS) Remove(path string) error                     { return os.Remove(path) }
func (OSFS) Rename(oldpath, newpath string) error         { return os.Rename(oldpath, newpath) }

// DefaultHTTPClient returns an HTTPClient using http.DefaultClient.
type DefaultHTTPClient struct{}

func (DefaultHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return http.DefaultClient.Do(req)
}
