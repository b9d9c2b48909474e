package config

import (
	"strings"
	"testing"
	"time"
)

func TestMergeTodoFieldByField(t *testing.T) {
	base := &Config{Version: 1, Todo: TodoConfig{Path: "todo.txt", DonePath: "done.txt"}}
	overlay := &Config{Version: 1, Todo: TodoConfig{DonePath: "archive.txt", LineEndings: "windows"}}

	merged, err := Merge(base, overlay)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	if merged.Todo.Path != "todo.txt" {
		t.Errorf("todo.path = %q, want todo.txt (inherited)", merged.Todo.Path)
	}
	if merged.Todo.DonePath != "archive.txt" {
		t.Errorf("todo.done_path = %q, want archive.txt (overlay should win)", merged.Todo.DonePath)
	}
	if merged.Todo.LineEndings != "windows" {
		t.Errorf("todo.line_endings = %q, want windows", merged.Todo.LineEndings)
	}
}

func TestMergeRemoteReplacedWhole(t *testing.T) {
	base := &Config{Version: 1, Remote: RemoteConfig{Type: "url", URL: "https://a/todo.txt", Timeout: time.Minute}}
	overlay := &Config{Version: 1, Remote: RemoteConfig{Type: "local", Path: "../b/todo.txt"}}

	merged, err := Merge(base, overlay)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if merged.Remote.Type != "local" || merged.Remote.Path != "../b/todo.txt" {
		t.Errorf("remote = %+v, want overlay's local remote", merged.Remote)
	}
	if merged.Remote.URL != "" || merged.Remote.Timeout != 0 {
		t.Errorf("base remote fields leaked into overlay remote: %+v", merged.Remote)
	}
}

func TestMergeRemoteInherited(t *testing.T) {
	base := &Config{Version: 1, Remote: RemoteConfig{Type: "url", URL: "https://a/todo.txt"}}
	overlay := &Config{Version: 1, Todo: TodoConfig{Path: "tasks.txt"}}

	merged, err := Merge(base, overlay)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if merged.Remote.URL != "https://a/todo.txt" {
		t.Errorf("remote.url = %q, want inherited URL", merged.Remote.URL)
	}
}

func TestMergeSettingsFieldByField(t *testing.T) {
	baseDistance, overlayDistance := 100, 400
	threshold := 0.2
	off := false

	base := &Config{Version: 1, Merge: MergeConfig{MatchDistance: &baseDistance, DeleteThreshold: &threshold, Cleanup: "efficiency"}}
	overlay := &Config{Version: 1, Merge: MergeConfig{MatchDistance: &overlayDistance, LineMode: &off}}

	merged, err := Merge(base, overlay)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	m := merged.Merge
	if *m.MatchDistance != 400 {
		t.Errorf("match_distance = %d, want 400 (overlay should win)", *m.MatchDistance)
	}
	if *m.DeleteThreshold != 0.2 {
		t.Errorf("delete_threshold = %g, want 0.2 (inherited)", *m.DeleteThreshold)
	}
	if m.Cleanup != "efficiency" {
		t.Errorf("cleanup = %q, want efficiency", m.Cleanup)
	}
	if m.LineMode == nil || *m.LineMode {
		t.Errorf("line_mode = %v, want explicit false", m.LineMode)
	}
	if m.EditCost != nil {
		t.Errorf("edit_cost should stay unset, got %d", *m.EditCost)
	}
}

func TestMergeStateFieldByField(t *testing.T) {
	base := &Config{Version: 1, State: StateConfig{Path: "a.state", SnapshotDir: "snaps"}}
	overlay := &Config{Version: 1, State: StateConfig{Path: "b.state"}}

	merged, err := Merge(base, overlay)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if merged.State.Path != "b.state" || merged.State.SnapshotDir != "snaps" {
		t.Errorf("state = %+v", merged.State)
	}
}

func TestMergeVersion(t *testing.T) {
	tests := []struct {
		name          string
		base, overlay int
		want          int
	}{
		{"both zero", 0, 0, 0},
		{"overlay zero inherits base", 1, 0, 1},
		{"base zero inherits overlay", 0, 1, 1},
		{"both same", 1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, err := Merge(&Config{Version: tt.base}, &Config{Version: tt.overlay})
			if err != nil {
				t.Fatalf("Merge: %v", err)
			}
			if merged.Version != tt.want {
				t.Errorf("version = %d, want %d", merged.Version, tt.want)
			}
		})
	}
}

func TestMergeVersionMismatch(t *testing.T) {
	_, err := Merge(&Config{Version: 1}, &Config{Version: 2})
	if err == nil {
		t.Fatal("expected version mismatch error")
	}
	if !strings.Contains(err.Error(), "version mismatch") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMergeNilBase(t *testing.T) {
	overlay := &Config{Version: 1}
	merged, err := Merge(nil, overlay)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if merged != overlay {
		t.Error("nil base should return overlay")
	}
}

func TestMergeNilOverlay(t *testing.T) {
	base := &Config{Version: 1}
	merged, err := Merge(base, nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if merged != base {
		t.Error("nil overlay should return base")
	}
}

func TestMergeAllThreeLayers(t *testing.T) {
	system := &Config{Version: 1, Remote: RemoteConfig{Type: "url", URL: "https://org/todo.txt"}}
	user := &Config{Todo: TodoConfig{LineEndings: "windows"}}
	project := &Config{Version: 1, Todo: TodoConfig{Path: "tasks.txt"}}

	merged, err := MergeAll([]*Config{system, user, project})
	if err != nil {
		t.Fatalf("MergeAll: %v", err)
	}
	if merged.Version != 1 {
		t.Errorf("version = %d, want 1", merged.Version)
	}
	if merged.Remote.URL != "https://org/todo.txt" {
		t.Errorf("remote.url = %q", merged.Remote.URL)
	}
	if merged.Todo.LineEndings != "windows" || merged.Todo.Path != "tasks.txt" {
		t.Errorf("todo = %+v", merged.Todo)
	}
}

func TestMergeAllSingle(t *testing.T) {
	cfg := &Config{Version: 1}
	merged, err := MergeAll([]*Config{cfg})
	if err != nil {
		t.Fatalf("MergeAll: %v", err)
	}
	if merged != cfg {
		t.Error("single config should be returned as is")
	}
}

func TestMergeAllEmpty(t *testing.T) {
	_, err := MergeAll(nil)
	if err == nil {
		t.Fatal("expected error for empty configs")
	}
}
