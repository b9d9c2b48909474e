// Package todosync provides the public Go library API for todosync.
//
// todosync keeps a local todo.txt list in step with a shared copy, merging
// edits made on both sides since the last sync with a three-way merge.
//
// # Basic Usage
//
//	merged, err := todosync.Merge(base, local, remote)
//	if errors.Is(err, todosync.ErrConflict) {
//	    // keep both copies and ask the user
//	}
//
//	client, err := todosync.New(todosync.Options{
//	    ConfigPath: "/path/to/project/todosync.yaml",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := client.Sync(ctx, todosync.SyncOptions{})
package todosync

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/bianoble/todosync/internal/config"
	"github.com/bianoble/todosync/internal/engine"
	"github.com/bianoble/todosync/internal/merge"
	"github.com/bianoble/todosync/internal/remote"
	"github.com/bianoble/todosync/internal/sandbox"
	"github.com/bianoble/todosync/internal/snapshot"
)

// Merge runs a three-way merge with the default settings. On failure the
// error is a *ConflictError.
func Merge(base, local, remote string) (string, error) {
	return merge.ThreeWay(base, local, remote, merge.DefaultConfig())
}

// MergeWith runs a three-way merge with explicit settings.
func MergeWith(base, local, remote string, cfg MergeConfig) (string, error) {
	return merge.ThreeWay(base, local, remote, cfg)
}

// DefaultMergeConfig returns the default merge settings.
func DefaultMergeConfig() MergeConfig {
	return merge.DefaultConfig()
}

// Syncer merges a local list with its remote copy.
type Syncer interface {
	Sync(ctx context.Context, opts SyncOptions) (*SyncResult, error)
}

// Statuser compares the local and remote lists with the last sync.
type Statuser interface {
	Status(ctx context.Context) (*StatusResult, error)
}

// Archiver moves completed tasks to the done file.
type Archiver interface {
	Archive(ctx context.Context, opts ArchiveOptions) (*ArchiveResult, error)
}

// Options configures a todosync client.
type Options struct {
	// ConfigPath is the path to the config file. Default: "todosync.yaml".
	ConfigPath string

	// ProjectRoot is the directory the todo and state paths are relative
	// to. If empty, defaults to the directory containing ConfigPath.
	ProjectRoot string

	// NoInherit skips the system and user config layers.
	NoInherit bool

	// Logger receives structured logs. Nil discards them.
	Logger *slog.Logger

	// FS and HTTPClient back the local and url remotes. Nil uses the
	// operating system and http.DefaultClient.
	FS         remote.FS
	HTTPClient remote.HTTPClient
}

// Client is the main entry point for the todosync library.
// It implements Syncer, Statuser and Archiver.
type Client struct {
	cfg     *config.Config
	sync    *engine.SyncEngine
	archive *engine.ArchiveEngine
}

// New loads the configuration and wires a Client. Concurrent Sync calls on
// one Client share a single run.
func New(opts Options) (*Client, error) {
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.FileName
	}

	hr, err := config.LoadHierarchical(config.HierarchicalOptions{
		ProjectPath: opts.ConfigPath,
		NoInherit:   opts.NoInherit,
	})
	if err != nil {
		return nil, err
	}
	cfg := hr.Config

	rootDir := opts.ProjectRoot
	if rootDir == "" {
		abs, err := filepath.Abs(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("resolving config path: %w", err)
		}
		rootDir = filepath.Dir(abs)
	}
	root, err := sandbox.Open(rootDir)
	if err != nil {
		return nil, err
	}

	snapDir, err := root.Resolve(cfg.State.SnapshotDir)
	if err != nil {
		return nil, err
	}
	store, err := snapshot.New(snapDir)
	if err != nil {
		return nil, fmt.Errorf("initializing snapshot store: %w", err)
	}

	fsys, client := opts.FS, opts.HTTPClient
	if fsys == nil {
		fsys = remote.OSFS{}
	}
	if client == nil {
		client = remote.DefaultHTTPClient{}
	}
	rem, err := remote.DefaultRegistry(fsys, client).Open(cfg.Remote, root.Dir())
	if err != nil {
		return nil, err
	}

	return &Client{
		cfg: cfg,
		sync: &engine.SyncEngine{
			Remote:      rem,
			Snapshots:   store,
			Root:        root,
			TodoPath:    cfg.Todo.Path,
			StatePath:   cfg.State.Path,
			LineEndings: cfg.Todo.LineEndings,
			Merge:       cfg.MergeSettings(),
			Logger:      opts.Logger,
		},
		archive: &engine.ArchiveEngine{
			Root:        root,
			TodoPath:    cfg.Todo.Path,
			DonePath:    cfg.Todo.DonePath,
			LineEndings: cfg.Todo.LineEndings,
			Logger:      opts.Logger,
		},
	}, nil
}

// Config returns the loaded configuration.
func (c *Client) Config() Config {
	return *c.cfg
}

// Sync pulls, merges, writes and pushes, then records the new base.
func (c *Client) Sync(ctx context.Context, opts SyncOptions) (*SyncResult, error) {
	return c.sync.Sync(ctx, opts)
}

// Status classifies the local and remote lists against the last sync.
func (c *Client) Status(ctx context.Context) (*StatusResult, error) {
	return c.sync.Status(ctx)
}

// Archive moves completed tasks from the todo file to the done file.
func (c *Client) Archive(ctx context.Context, opts ArchiveOptions) (*ArchiveResult, error) {
	return c.archive.Archive(ctx, opts)
}
