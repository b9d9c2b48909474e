package remote

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bianoble/todosync/internal/snapshot"
)

// LocalRemote is a todo file on a locally mounted path, typically a synced
// folder shared with other machines.
type LocalRemote struct {
	Path string
	FS   FS
}

func (l *LocalRemote) Name() string { return l.Path }

func (l *LocalRemote) fs() FS {
	if l.FS == nil {
		return OSFS{}
	}
	return l.FS
}

func (l *LocalRemote) Pull(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Remote: l.Path, Operation: "pull", Err: err}
	}
	if l.Path == "" {
		return nil, &Error{Remote: "local", Operation: "pull", Err: fmt.Errorf("path is required")}
	}

	content, err := l.fs().ReadFile(l.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Snapshot{Hash: snapshot.ComputeHash(nil)}, nil
	}
	if err != nil {
		return nil, &Error{Remote: l.Path, Operation: "pull", Err: err, Hint: "check that the remote path is readable"}
	}

	return &Snapshot{
		Content: content,
		Hash:    snapshot.ComputeHash(content),
		Exists:  true,
	}, nil
}

// Push writes a temp file next to the target and renames it into place.
func (l *LocalRemote) Push(ctx context.Context, content []byte) error {
	if err := ctx.Err(); err != nil {
		return &Error{Remote: l.Path, Operation: "push", Err: err}
	}
	if l.Path == "" {
		return &Error{Remote: "local", Operation: "push", Err: fmt.Errorf("path is required")}
	}

	fsys := l.fs()
	if err := fsys.MkdirAll(filepath.Dir(l.Path), 0755); err != nil {
		return &Error{Remote: l.Path, Operation: "push", Err: fmt.Errorf("creating directory: %w", err)}
	}

	perm := os.FileMode(0644)
	if info, err := fsys.Stat(l.Path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp := l.Path + ".todosync.tmp"
	if err := fsys.WriteFile(tmp, content, perm); err != nil {
		return &Error{Remote: l.Path, Operation: "push", Err: fmt.Errorf("writing temp file: %w", err)}
	}
	if err := fsys.Rename(tmp, l.Path); err != nil {
		_ = fsys.Remove(tmp)
		return &Error{Remote: l.Path, Operation: "push", Err: fmt.Errorf("renaming temp file: %w", err)}
	}
	return nil
}
