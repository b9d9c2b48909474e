package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bianoble/todosync/internal/sandbox"
)

// ArchiveEngine moves completed tasks from the todo file to the done file.
type ArchiveEngine struct {
	Root        *sandbox.Root
	TodoPath    string
	DonePath    string
	LineEndings string
	Logger      *slog.Logger
}

// completed reports whether a todo.txt line is a finished task.
func completed(line string) bool {
	return strings.HasPrefix(line, "x ")
}

// Archive appends every completed task to the done file and rewrites the
// todo file with the rest. Blank lines are dropped from the todo file.
func (e *ArchiveEngine) Archive(ctx context.Context, opts ArchiveOptions) (*ArchiveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := e.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	raw, _, err := e.Root.ReadFile(e.TodoPath)
	if err != nil {
		return nil, fmt.Errorf("reading todo file: %w", err)
	}

	var done, keep []string
	for _, line := range strings.Split(toUnix(string(raw)), "\n") {
		switch {
		case strings.TrimSpace(line) == "":
		case completed(line):
			done = append(done, line)
		default:
			keep = append(keep, line)
		}
	}

	result := &ArchiveResult{Archived: done, Remaining: len(keep), DryRun: opts.DryRun}
	if len(done) == 0 || opts.DryRun {
		return result, nil
	}

	prevDone, doneExisted, err := e.Root.ReadFile(e.DonePath)
	if err != nil {
		return nil, fmt.Errorf("reading done file: %w", err)
	}

	appended := strings.Join(done, "\n") + "\n"
	if len(prevDone) > 0 && !strings.HasSuffix(toUnix(string(prevDone)), "\n") {
		appended = "\n" + appended
	}
	if err := e.Root.AppendFile(e.DonePath, encode(appended, e.LineEndings), 0644); err != nil {
		return nil, fmt.Errorf("appending to done file: %w", err)
	}

	remaining := ""
	if len(keep) > 0 {
		remaining = strings.Join(keep, "\n") + "\n"
	}
	if err := e.Root.WriteFile(e.TodoPath, encode(remaining, e.LineEndings), 0644); err != nil {
		if doneExisted {
			_ = e.Root.WriteFile(e.DonePath, prevDone, 0644)
		} else {
			_ = e.Root.Remove(e.DonePath)
		}
		return nil, fmt.Errorf("archive failed, rolled back: %w", err)
	}

	log.Info("archived completed tasks", "count", len(done), "remaining", len(keep))
	return result, nil
}
