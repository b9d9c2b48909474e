package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestPutAndGet(t *testing.T) {
	s := newStore(t)

	content := []byte("(A) call mom\nx 2024-01-02 buy milk\n")
	hash := ComputeHash(content)

	if err := s.Put(hash, content); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, found, err := s.Get(hash)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Fatal("expected snapshot hit")
	}
	if string(got) != string(content) {
		t.Errorf("got %q", string(got))
	}
}

func TestGetMiss(t *testing.T) {
	s := newStore(t)

	_, found, err := s.Get("nonexistent_hash")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Fatal("expected miss")
	}
}

func TestPutWrongHash(t *testing.T) {
	s := newStore(t)
	if err := s.Put("wrong_hash", []byte("content")); err == nil {
		t.Fatal("expected error for hash mismatch")
	}
}

func TestPutIdempotent(t *testing.T) {
	s := newStore(t)
	content := []byte("idempotent")
	hash := ComputeHash(content)

	if err := s.Put(hash, content); err != nil {
		t.Fatalf("first Put: %v", err)
	}
	if err := s.Put(hash, content); err != nil {
		t.Fatalf("second Put: %v", err)
	}
}

func TestCorruptSnapshotIsRemoved(t *testing.T) {
	s := newStore(t)
	hash, err := s.Save("original content")
	if err != nil {
		t.Fatal(err)
	}

	objPath := s.objectPath(hash)
	if err := os.WriteFile(objPath, []byte("corrupted"), 0644); err != nil {
		t.Fatal(err)
	}

	_, found, err := s.Get(hash)
	if err != nil {
		t.Fatalf("Get should not error on corruption: %v", err)
	}
	if found {
		t.Fatal("expected miss after corruption")
	}
	if _, err := os.Stat(objPath); !os.IsNotExist(err) {
		t.Error("corrupt snapshot should be removed")
	}
}

func TestGetReadError(t *testing.T) {
	s := newStore(t)

	hash := "abcdef1234567890abcdef1234567890abcdef1234567890abcdef1234567890"
	if err := os.MkdirAll(s.objectPath(hash), 0755); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Get(hash); err == nil {
		t.Fatal("expected error when reading a directory as a file")
	}
}

func TestSaveAndLoad(t *testing.T) {
	s := newStore(t)

	hash, err := s.Save("task one\ntask two")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if hash != HashText("task one\ntask two") {
		t.Errorf("Save returned %q, want content hash", hash)
	}

	text, err := s.Load(hash)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if text != "task one\ntask two" {
		t.Errorf("Load = %q", text)
	}
}

func TestLoadMissing(t *testing.T) {
	s := newStore(t)
	_, err := s.Load(HashText("never stored"))
	if !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
}

func TestSaveEmptyText(t *testing.T) {
	s := newStore(t)
	hash, err := s.Save("")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	text, err := s.Load(hash)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if text != "" {
		t.Errorf("Load = %q, want empty", text)
	}
}

func TestHas(t *testing.T) {
	s := newStore(t)
	hash := HashText("exists")

	if s.Has(hash) {
		t.Fatal("expected Has=false before Save")
	}
	if _, err := s.Save("exists"); err != nil {
		t.Fatal(err)
	}
	if !s.Has(hash) {
		t.Fatal("expected Has=true after Save")
	}
}

func TestListAndPrune(t *testing.T) {
	s := newStore(t)

	var hashes []string
	for _, text := range []string{"first", "second", "third"} {
		h, err := s.Save(text)
		if err != nil {
			t.Fatal(err)
		}
		hashes = append(hashes, h)
	}

	listed, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("List returned %d hashes, want 3", len(listed))
	}

	removed, err := s.Prune(hashes[1])
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if !s.Has(hashes[1]) {
		t.Error("kept snapshot should survive pruning")
	}
	if s.Has(hashes[0]) || s.Has(hashes[2]) {
		t.Error("unkept snapshots should be pruned")
	}
}

func TestSize(t *testing.T) {
	s := newStore(t)

	size, err := s.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 0 {
		t.Errorf("expected 0 size for empty store, got %d", size)
	}

	if _, err := s.Save("some content for size test"); err != nil {
		t.Fatal(err)
	}
	size, err = s.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size <= 0 {
		t.Errorf("expected positive size, got %d", size)
	}
}

func TestSizeWalkError(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	_ = os.RemoveAll(dir)

	if _, err := s.Size(); err == nil {
		t.Fatal("expected error when store dir is removed")
	}
}

func TestObjectPathLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	if s.Path() != dir {
		t.Errorf("Path = %q, want %q", s.Path(), dir)
	}

	hash := "abcdef1234567890"
	if got, want := s.objectPath(hash), filepath.Join(dir, "objects", "ab", hash); got != want {
		t.Errorf("objectPath = %q, want %q", got, want)
	}
	if got, want := s.objectPath("a"), filepath.Join(dir, "objects", "a"); got != want {
		t.Errorf("objectPath(short) = %q, want %q", got, want)
	}
}

func TestComputeHash(t *testing.T) {
	if ComputeHash([]byte("test")) != ComputeHash([]byte("test")) {
		t.Error("same content should produce same hash")
	}
	if ComputeHash([]byte("test")) == ComputeHash([]byte("different")) {
		t.Error("different content should produce different hashes")
	}
	// sha256 of the empty string.
	if got := HashText(""); got != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Errorf("HashText(\"\") = %s", got)
	}
}
