package config

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

// exampleConfig is the documented todosync.yaml with every section set.
const exampleConfig = `
version: 1

todo:
  path: todo.txt
  done_path: done.txt
  line_endings: windows

remote:
  type: url
  url: https://dav.example.com/todo/todo.txt
  timeout: 45s
  max_size: 2097152

merge:
  match_distance: 300
  delete_threshold: 0.25
  patch_margin: 6
  diff_timeout: 2s
  cleanup: efficiency
  edit_cost: 6
  line_mode: false
  normalize_completions: false

state:
  path: .todosync/state.yaml
  snapshot_dir: .todosync/snaps
`

func TestConfigParseExample(t *testing.T) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(exampleConfig), &cfg); err != nil {
		t.Fatalf("failed to parse example config: %v", err)
	}

	if cfg.Version != 1 {
		t.Errorf("version = %d, want 1", cfg.Version)
	}

	// Todo.
	if cfg.Todo.Path != "todo.txt" {
		t.Errorf("todo.path = %q", cfg.Todo.Path)
	}
	if cfg.Todo.DonePath != "done.txt" {
		t.Errorf("todo.done_path = %q", cfg.Todo.DonePath)
	}
	if cfg.Todo.LineEndings != "windows" {
		t.Errorf("todo.line_endings = %q, want windows", cfg.Todo.LineEndings)
	}

	// Remote.
	if cfg.Remote.Type != "url" {
		t.Errorf("remote.type = %q, want url", cfg.Remote.Type)
	}
	if cfg.Remote.URL != "https://dav.example.com/todo/todo.txt" {
		t.Errorf("remote.url = %q", cfg.Remote.URL)
	}
	if cfg.Remote.Timeout != 45*time.Second {
		t.Errorf("remote.timeout = %s, want 45s", cfg.Remote.Timeout)
	}
	if cfg.Remote.MaxSize != 2097152 {
		t.Errorf("remote.max_size = %d", cfg.Remote.MaxSize)
	}

	// Merge.
	m := cfg.Merge
	if m.MatchDistance == nil || *m.MatchDistance != 300 {
		t.Errorf("merge.match_distance = %v, want 300", m.MatchDistance)
	}
	if m.DeleteThreshold == nil || *m.DeleteThreshold != 0.25 {
		t.Errorf("merge.delete_threshold = %v, want 0.25", m.DeleteThreshold)
	}
	if m.MatchThreshold != nil {
		t.Errorf("merge.match_threshold should be unset, got %v", *m.MatchThreshold)
	}
	if m.PatchMargin == nil || *m.PatchMargin != 6 {
		t.Errorf("merge.patch_margin = %v, want 6", m.PatchMargin)
	}
	if m.DiffTimeout == nil || *m.DiffTimeout != 2*time.Second {
		t.Errorf("merge.diff_timeout = %v, want 2s", m.DiffTimeout)
	}
	if m.Cleanup != "efficiency" {
		t.Errorf("merge.cleanup = %q", m.Cleanup)
	}
	if m.LineMode == nil || *m.LineMode {
		t.Errorf("merge.line_mode = %v, want false", m.LineMode)
	}
	if m.NormalizeCompletions == nil || *m.NormalizeCompletions {
		t.Errorf("merge.normalize_completions = %v, want false", m.NormalizeCompletions)
	}

	// State.
	if cfg.State.Path != ".todosync/state.yaml" {
		t.Errorf("state.path = %q", cfg.State.Path)
	}
	if cfg.State.SnapshotDir != ".todosync/snaps" {
		t.Errorf("state.snapshot_dir = %q", cfg.State.SnapshotDir)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	distance := 250
	original := Config{
		Version: 1,
		Todo:    TodoConfig{Path: "todo.txt"},
		Remote:  RemoteConfig{Type: "local", Path: "../Dropbox/todo/todo.txt"},
		Merge:   MergeConfig{MatchDistance: &distance},
	}

	data, err := yaml.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var roundTripped Config
	if err := yaml.Unmarshal(data, &roundTripped); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if roundTripped.Version != original.Version {
		t.Errorf("version = %d, want %d", roundTripped.Version, original.Version)
	}
	if roundTripped.Remote.Path != "../Dropbox/todo/todo.txt" {
		t.Errorf("remote.path = %q", roundTripped.Remote.Path)
	}
	if roundTripped.Merge.MatchDistance == nil || *roundTripped.Merge.MatchDistance != 250 {
		t.Errorf("merge.match_distance = %v, want 250", roundTripped.Merge.MatchDistance)
	}
	if roundTripped.Merge.DeleteThreshold != nil {
		t.Error("unset merge fields should stay unset")
	}
}

func TestConfigUnknownFieldsIgnored(t *testing.T) {
	input := `
version: 1
unknown_field: should be ignored
remote:
  type: local
  path: ../shared/todo.txt
  future_field: also ignored
`
	var cfg Config
	if err := yaml.Unmarshal([]byte(input), &cfg); err != nil {
		t.Fatalf("should ignore unknown fields: %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("version = %d, want 1", cfg.Version)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{Version: 1}
	ApplyDefaults(cfg)

	if cfg.Todo.Path != DefaultTodoPath {
		t.Errorf("todo.path = %q, want %q", cfg.Todo.Path, DefaultTodoPath)
	}
	if cfg.Todo.DonePath != DefaultDonePath {
		t.Errorf("todo.done_path = %q, want %q", cfg.Todo.DonePath, DefaultDonePath)
	}
	if cfg.Todo.LineEndings != "unix" {
		t.Errorf("todo.line_endings = %q, want unix", cfg.Todo.LineEndings)
	}
	if cfg.State.Path != DefaultStatePath {
		t.Errorf("state.path = %q, want %q", cfg.State.Path, DefaultStatePath)
	}
	if cfg.State.SnapshotDir != DefaultSnapshotDir {
		t.Errorf("state.snapshot_dir = %q, want %q", cfg.State.SnapshotDir, DefaultSnapshotDir)
	}

	// Set fields are left alone.
	cfg = &Config{Todo: TodoConfig{Path: "tasks.txt"}}
	ApplyDefaults(cfg)
	if cfg.Todo.Path != "tasks.txt" {
		t.Errorf("todo.path = %q, want tasks.txt", cfg.Todo.Path)
	}
}
