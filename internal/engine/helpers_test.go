package engine

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bianoble/todosync/internal/merge"
	"github.com/bianoble/todosync/internal/remote"
	"github.com/bianoble/todosync/internal/sandbox"
	"github.com/bianoble/todosync/internal/snapshot"
	"github.com/bianoble/todosync/internal/state"
)

// memRemote is an in-memory remote.
type memRemote struct {
	mu      sync.Mutex
	content []byte
	exists  bool
	pulls   int
	pushes  int
	pushErr error

	// active counts pulls in progress; maxActive is its high-water mark.
	active    int
	maxActive int

	// When set, Pull signals entered and waits for release.
	entered chan struct{}
	release chan struct{}
}

func (m *memRemote) Name() string { return "mem://todo.txt" }

func (m *memRemote) Pull(ctx context.Context) (*remote.Snapshot, error) {
	m.mu.Lock()
	m.active++
	m.maxActive = max(m.maxActive, m.active)
	m.mu.Unlock()

	if m.entered != nil {
		m.entered <- struct{}{}
		<-m.release
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active--
	m.pulls++
	content := append([]byte(nil), m.content...)
	return &remote.Snapshot{Content: content, Hash: snapshot.ComputeHash(content), Exists: m.exists}, nil
}

func (m *memRemote) Push(ctx context.Context, content []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pushErr != nil {
		return m.pushErr
	}
	m.pushes++
	m.content = append([]byte(nil), content...)
	m.exists = true
	return nil
}

func (m *memRemote) set(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content, m.exists = []byte(text), true
}

func (m *memRemote) text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.content)
}

const (
	testTodo  = "todo.txt"
	testDone  = "done.txt"
	testState = ".todosync/todosync.state"
)

func newSyncEngine(t *testing.T, rem remote.Remote) (*SyncEngine, string) {
	t.Helper()
	dir := t.TempDir()
	root, err := sandbox.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	store, err := snapshot.New(filepath.Join(root.Dir(), ".todosync", "snapshots"))
	if err != nil {
		t.Fatal(err)
	}
	return &SyncEngine{
		Remote:      rem,
		Snapshots:   store,
		Root:        root,
		TodoPath:    testTodo,
		StatePath:   testState,
		LineEndings: LineEndingsUnix,
		Merge:       merge.DefaultConfig(),
	}, root.Dir()
}

func writeLocal(t *testing.T, dir, text string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, testTodo), []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
}

func readLocal(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, testTodo))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func loadState(t *testing.T, dir string) *state.State {
	t.Helper()
	st, err := state.Load(filepath.Join(dir, testState))
	if err != nil {
		t.Fatalf("loading state: %v", err)
	}
	return st
}

// establishBase runs a first sync with identical lists so later syncs have a
// common ancestor.
func establishBase(t *testing.T, e *SyncEngine, rem *memRemote, dir, text string) {
	t.Helper()
	writeLocal(t, dir, text)
	rem.set(text)
	res, err := e.Sync(context.Background(), SyncOptions{})
	if err != nil {
		t.Fatalf("establishing base: %v", err)
	}
	if res.Outcome != state.OutcomeUnchanged {
		t.Fatalf("establishing base: outcome = %q", res.Outcome)
	}
}
