package engine

import (
	"path/filepath"
	"testing"

	"github.com/bianoble/todosync/internal/config"
	"github.com/bianoble/todosync/internal/snapshot"
)

func TestInfo(t *testing.T) {
	store, err := snapshot.New(filepath.Join(t.TempDir(), "snapshots"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save("task\n"); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		Version: 1,
		Todo:    config.TodoConfig{Path: "todo.txt", DonePath: "done.txt"},
		Remote:  config.RemoteConfig{Type: "url", URL: "https://example.com/todo.txt"},
		State:   config.StateConfig{Path: ".todosync/todosync.state"},
	}
	layers := []config.ConfigLayerInfo{
		{Path: "/etc/todosync/todosync.yaml", Level: config.LevelSystem},
		{Path: "todosync.yaml", Level: config.LevelProject, Loaded: true},
	}

	r, err := Info("1.2.3", cfg, store, "todosync.yaml", layers)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if r.Version != "1.2.3" || r.ConfigPath != "todosync.yaml" {
		t.Errorf("result = %+v", r)
	}
	if r.Remote != "https://example.com/todo.txt" || r.RemoteType != "url" {
		t.Errorf("remote = %q (%s)", r.Remote, r.RemoteType)
	}
	if r.SnapshotCount != 1 || r.SnapshotSize <= 0 {
		t.Errorf("snapshots = %d, size = %d", r.SnapshotCount, r.SnapshotSize)
	}
	if len(r.ConfigChain) != 2 || r.ConfigChain[1].Level != "project" || !r.ConfigChain[1].Loaded {
		t.Errorf("config chain = %+v", r.ConfigChain)
	}
}

func TestInfoWithoutStore(t *testing.T) {
	r, err := Info("dev", nil, nil, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if r.SnapshotDir != "" || r.StateVersion != 1 {
		t.Errorf("result = %+v", r)
	}
}
