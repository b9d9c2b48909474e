package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bianoble/todosync/internal/merge"
	"github.com/bianoble/todosync/internal/textdiff"
)

// Load reads, defaults and validates a todosync.yaml configuration file.
func Load(path string) (*Config, error) {
	cfg, err := Parse(path)
	if err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)
	if errs := Validate(cfg); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return cfg, nil
}

// Parse reads and unmarshals a configuration file without defaulting or
// validating it. Layers of a hierarchical config are parsed this way and
// only the merged result is validated.
func Parse(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Config for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(cfg *Config) []string {
	var errs []string

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d — only version 1 is supported", cfg.Version))
	}

	// Todo files.
	if cfg.Todo.Path == "" {
		errs = append(errs, "todo: 'path' is required")
	}
	if cfg.Todo.Path != "" && cfg.Todo.Path == cfg.Todo.DonePath {
		errs = append(errs, "todo: 'path' and 'done_path' must differ")
	}
	switch cfg.Todo.LineEndings {
	case "", "unix", "windows":
		// valid
	default:
		errs = append(errs, fmt.Sprintf("todo: invalid line_endings '%s' — must be one of: unix, windows", cfg.Todo.LineEndings))
	}

	errs = append(errs, validateRemote(cfg.Remote)...)

	if err := cfg.MergeSettings().Validate(); err != nil {
		errs = append(errs, "merge: "+err.Error())
	}

	// State.
	if cfg.State.Path == "" {
		errs = append(errs, "state: 'path' is required")
	}
	if cfg.State.SnapshotDir == "" {
		errs = append(errs, "state: 'snapshot_dir' is required")
	}

	return errs
}

func validateRemote(r RemoteConfig) []string {
	var errs []string
	const prefix = "remote"

	switch r.Type {
	case "local":
		if r.Path == "" {
			errs = append(errs, fmt.Sprintf("%s: type 'local' requires 'path' — add 'path: ../shared/todo.txt' to the remote definition", prefix))
		}
	case "url":
		if r.URL == "" {
			errs = append(errs, fmt.Sprintf("%s: type 'url' requires 'url' — add 'url: https://...' to the remote definition", prefix))
		} else if u, err := url.Parse(r.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Sprintf("%s: invalid url '%s' — must be an http or https URL", prefix, r.URL))
		}
	case "":
		errs = append(errs, fmt.Sprintf("%s: 'type' is required — must be one of: local, url", prefix))
	default:
		errs = append(errs, fmt.Sprintf("%s: unknown remote type '%s' — must be one of: local, url", prefix, r.Type))
	}

	if r.Timeout < 0 {
		errs = append(errs, fmt.Sprintf("%s: 'timeout' must not be negative", prefix))
	}
	if r.MaxSize < 0 {
		errs = append(errs, fmt.Sprintf("%s: 'max_size' must not be negative", prefix))
	}

	return errs
}

// MergeSettings converts the merge section into engine settings, starting
// from merge.DefaultConfig and overriding every field the file sets.
func (c *Config) MergeSettings() merge.Config {
	out := merge.DefaultConfig()
	m := c.Merge

	if m.MatchDistance != nil {
		out.MatchDistance = *m.MatchDistance
	}
	if m.DeleteThreshold != nil {
		out.DeleteThreshold = *m.DeleteThreshold
	}
	if m.MatchThreshold != nil {
		out.MatchThreshold = *m.MatchThreshold
	}
	if m.PatchMargin != nil {
		out.Margin = *m.PatchMargin
	}
	if m.DiffTimeout != nil {
		out.DiffTimeout = *m.DiffTimeout
	}
	if m.Cleanup != "" {
		out.Cleanup = textdiff.CleanupMode(m.Cleanup)
	}
	if m.EditCost != nil {
		out.EditCost = *m.EditCost
	}
	if m.LineMode != nil {
		out.LineMode = *m.LineMode
	}
	if m.NormalizeCompletions != nil {
		out.NormalizeCompletions = *m.NormalizeCompletions
	}
	return out
}
