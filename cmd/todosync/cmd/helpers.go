package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bianoble/todosync/internal/config"
	"github.com/bianoble/todosync/internal/engine"
	"github.com/bianoble/todosync/internal/remote"
	"github.com/bianoble/todosync/internal/sandbox"
	"github.com/bianoble/todosync/internal/snapshot"
)

// logOutput receives structured logs. Tests swap it.
var logOutput io.Writer = os.Stderr

// project is a loaded todosync.yaml and the directory it governs.
type project struct {
	cfg        *config.Config
	layers     []config.ConfigLayerInfo
	configPath string
	root       *sandbox.Root
}

// loadProject finds and loads the config with its system and user layers.
func loadProject() (*project, error) {
	path := configPath
	if path == "" {
		found, err := config.FindProject(".")
		if err != nil {
			return nil, err
		}
		path = found
	}

	hr, err := config.LoadHierarchical(config.HierarchicalOptions{
		ProjectPath: path,
		NoInherit:   config.EnvNoInherit(),
	})
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	root, err := sandbox.Open(filepath.Dir(abs))
	if err != nil {
		return nil, err
	}

	return &project{cfg: hr.Config, layers: hr.Layers, configPath: path, root: root}, nil
}

// snapshots opens the project's snapshot store.
func (p *project) snapshots() (*snapshot.Store, error) {
	dir, err := p.root.Resolve(p.cfg.State.SnapshotDir)
	if err != nil {
		return nil, err
	}
	return snapshot.New(dir)
}

// syncEngine wires the configured remote, snapshot store and merge settings.
func (p *project) syncEngine(logger *slog.Logger) (*engine.SyncEngine, error) {
	store, err := p.snapshots()
	if err != nil {
		return nil, err
	}
	reg := remote.DefaultRegistry(remote.OSFS{}, remote.DefaultHTTPClient{})
	rem, err := reg.Open(p.cfg.Remote, p.root.Dir())
	if err != nil {
		return nil, err
	}
	return &engine.SyncEngine{
		Remote:      rem,
		Snapshots:   store,
		Root:        p.root,
		TodoPath:    p.cfg.Todo.Path,
		StatePath:   p.cfg.State.Path,
		LineEndings: p.cfg.Todo.LineEndings,
		Merge:       p.cfg.MergeSettings(),
		Logger:      logger,
	}, nil
}

// commandContext returns the command's context, or a background context
// when the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// newLogger builds the stderr logger. --quiet shows errors only, --verbose
// shows debug records.
func newLogger() (*slog.Logger, error) {
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(logFormat) {
	case "", "text":
		return slog.New(slog.NewTextHandler(logOutput, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(logOutput, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format '%s' — must be one of: text, json", logFormat)
}

// readInput reads a command-line file argument; "-" is stdin.
func readInput(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// writeOutput writes text to path atomically, or to stdout when path is
// empty.
func writeOutput(path, text string) error {
	if path == "" {
		_, err := io.WriteString(os.Stdout, text)
		return err
	}
	return sandbox.WriteAtomic(path, []byte(text), 0644)
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(format string, args ...any) {
	if verbose {
		fmt.Printf("  "+format+"\n", args...)
	}
}

// errorf prints an error message to stderr.
func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}

func humanSize(bytes int64) string {
	if bytes == 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB"}
	size := float64(bytes)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d B", bytes)
	}
	return fmt.Sprintf("%.1f %s", size, units[i])
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
