package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/bianoble/todosync/internal/merge"
	"github.com/bianoble/todosync/internal/remote"
	"github.com/bianoble/todosync/internal/sandbox"
	"github.com/bianoble/todosync/internal/snapshot"
	"github.com/bianoble/todosync/internal/state"
)

// SyncEngine keeps one local todo file in step with its remote copy.
type SyncEngine struct {
	Remote      remote.Remote
	Snapshots   *snapshot.Store
	Root        *sandbox.Root
	TodoPath    string // relative to Root
	StatePath   string // relative to Root
	LineEndings string
	Merge       merge.Config
	Logger      *slog.Logger

	// Now stamps the state file. Defaults to time.Now.
	Now func() time.Time

	group singleflight.Group
	run   sync.Mutex // one cycle per todo file at a time
}

// workingSet is everything a sync or status decision reads.
type workingSet struct {
	local       string
	localRaw    []byte
	localExists bool
	remote      *remote.Snapshot
	remoteText  string
	state       *state.State // nil before the first sync
	base        string
	hasBase     bool
}

// Sync pulls the remote, merges it with the local list against the last
// synced base, writes the result to both sides and records the new base.
// Concurrent calls with the same options share one run; calls with
// different options wait for the running cycle to finish.
func (e *SyncEngine) Sync(ctx context.Context, opts SyncOptions) (*SyncResult, error) {
	if opts.Strategy == "" {
		opts.Strategy = StrategyMerge
	}
	key := fmt.Sprintf("%s|%s|%t", e.TodoPath, opts.Strategy, opts.DryRun)

	v, err, shared := e.group.Do(key, func() (any, error) {
		e.run.Lock()
		defer e.run.Unlock()
		return e.sync(ctx, opts)
	})
	if err != nil {
		return nil, err
	}
	res := *v.(*SyncResult)
	res.Shared = shared
	return &res, nil
}

func (e *SyncEngine) sync(ctx context.Context, opts SyncOptions) (*SyncResult, error) {
	runID := uuid.NewString()
	log := e.logger().With("run_id", runID, "todo", e.TodoPath)
	log.Debug("sync started", "remote", e.Remote.Name(), "strategy", opts.Strategy, "dry_run", opts.DryRun)

	ws, err := e.load(ctx, log)
	if err != nil {
		return nil, err
	}

	res := &SyncResult{RunID: runID, DryRun: opts.DryRun}
	if err := e.decide(ws, opts.Strategy, res, log); err != nil {
		return nil, err
	}

	if opts.DryRun {
		res.LocalWritten = res.Text != ws.local
		res.Pushed = e.needsPush(ws, res.Text)
		res.Base = snapshot.HashText(res.Text)
		log.Info("sync planned", "outcome", res.Outcome, "write_local", res.LocalWritten, "push", res.Pushed)
		return res, nil
	}

	if err := e.write(ctx, ws, res, log); err != nil {
		return nil, err
	}

	log.Info("sync complete", "outcome", res.Outcome, "wrote_local", res.LocalWritten, "pushed", res.Pushed)
	return res, nil
}

// load reads the local list, pulls the remote and recovers the base.
func (e *SyncEngine) load(ctx context.Context, log *slog.Logger) (*workingSet, error) {
	ws := &workingSet{}

	local, found, err := e.Root.ReadFile(e.TodoPath)
	if err != nil {
		return nil, fmt.Errorf("reading local list: %w", err)
	}
	ws.local, ws.localRaw, ws.localExists = toUnix(string(local)), local, found

	ws.remote, err = e.Remote.Pull(ctx)
	if err != nil {
		return nil, err
	}
	ws.remoteText = toUnix(ws.remote.Text())

	statePath, err := e.Root.Resolve(e.StatePath)
	if err != nil {
		return nil, err
	}
	ws.state, err = state.Load(statePath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug("no sync state; first sync")
		return ws, nil
	}
	if err != nil {
		return nil, err
	}

	ws.base, err = e.Snapshots.Load(ws.state.Base)
	if errors.Is(err, snapshot.ErrMissing) {
		log.Warn("base snapshot missing; syncing without a base", "base", ws.state.Base)
		return ws, nil
	}
	if err != nil {
		return nil, err
	}
	ws.hasBase = true
	return ws, nil
}

// decide fills res.Text and res.Outcome from the working set.
func (e *SyncEngine) decide(ws *workingSet, strategy Strategy, res *SyncResult, log *slog.Logger) error {
	local, remoteText := ws.local, ws.remoteText

	if local == remoteText {
		res.Text, res.Outcome = local, state.OutcomeUnchanged
		return nil
	}

	if !ws.hasBase {
		switch {
		case !ws.localExists || local == "":
			res.Text, res.Outcome = remoteText, state.OutcomePulled
			return nil
		case !ws.remote.Exists || remoteText == "":
			res.Text, res.Outcome = local, state.OutcomePushed
			return nil
		}
		return e.fallback(strategy, local, remoteText, res,
			fmt.Errorf("syncing %s with %s: %w — rerun with --strategy local or --strategy remote", e.TodoPath, e.Remote.Name(), ErrNoBase))
	}

	switch {
	case local == ws.base:
		res.Text, res.Outcome = remoteText, state.OutcomePulled
		return nil
	case remoteText == ws.base:
		res.Text, res.Outcome = local, state.OutcomePushed
		return nil
	}

	m := merge.New(e.Merge, log)
	out, err := m.Merge(ws.base, local, remoteText)
	if err != nil {
		var conflict *merge.ConflictError
		if !errors.As(err, &conflict) {
			return err
		}
		res.Conflict = conflict
		return e.fallback(strategy, local, remoteText, res,
			fmt.Errorf("merging %s with %s: %w", e.TodoPath, e.Remote.Name(), err))
	}
	res.Merge = out
	res.Text, res.Outcome = out.Merged, state.OutcomeMerged
	return nil
}

// fallback resolves an unmergeable pair according to strategy, or returns
// cause.
func (e *SyncEngine) fallback(strategy Strategy, local, remoteText string, res *SyncResult, cause error) error {
	switch strategy {
	case StrategyLocal:
		res.Text, res.Outcome = local, state.OutcomeLocalWins
	case StrategyRemote:
		res.Text, res.Outcome = remoteText, state.OutcomeRemoteWins
	default:
		return cause
	}
	e.logger().Warn("conflict resolved by strategy", "strategy", strategy, "cause", cause)
	return nil
}

func (e *SyncEngine) needsPush(ws *workingSet, text string) bool {
	if !ws.remote.Exists {
		return text != ""
	}
	return text != ws.remoteText
}

// write applies the decision: local file, remote, snapshot, state. A failed
// push restores the local file.
func (e *SyncEngine) write(ctx context.Context, ws *workingSet, res *SyncResult, log *slog.Logger) error {
	if res.Text != ws.local {
		if err := e.Root.WriteFile(e.TodoPath, encode(res.Text, e.LineEndings), 0644); err != nil {
			return fmt.Errorf("writing local list: %w", err)
		}
		res.LocalWritten = true
		log.Debug("local list written", "bytes", len(res.Text))
	}

	if e.needsPush(ws, res.Text) {
		if err := e.Remote.Push(ctx, encode(res.Text, e.LineEndings)); err != nil {
			if res.LocalWritten {
				e.rollbackLocal(ws, log)
				res.LocalWritten = false
			}
			return fmt.Errorf("sync failed, rolled back: %w", err)
		}
		res.Pushed = true
		log.Debug("remote updated", "remote", e.Remote.Name())
	}

	hash, err := e.Snapshots.Save(res.Text)
	if err != nil {
		return fmt.Errorf("saving base snapshot: %w", err)
	}
	res.Base = hash

	statePath, err := e.Root.Resolve(e.StatePath)
	if err != nil {
		return err
	}
	st := &state.State{
		Version:  state.CurrentVersion,
		Base:     hash,
		Remote:   hash,
		SyncedAt: e.now().UTC().Truncate(time.Second),
		RunID:    res.RunID,
		Outcome:  res.Outcome,
	}
	if err := state.Save(statePath, st); err != nil {
		return err
	}

	keep := []string{hash}
	if ws.state != nil {
		keep = append(keep, ws.state.Base)
	}
	if n, err := e.Snapshots.Prune(keep...); err != nil {
		log.Warn("pruning snapshots failed", "error", err)
	} else if n > 0 {
		log.Debug("pruned snapshots", "removed", n)
	}
	return nil
}

func (e *SyncEngine) rollbackLocal(ws *workingSet, log *slog.Logger) {
	var err error
	if ws.localExists {
		err = e.Root.WriteFile(e.TodoPath, ws.localRaw, 0644)
	} else {
		err = e.Root.Remove(e.TodoPath)
	}
	if err != nil {
		log.Error("restoring local list failed", "error", err)
	}
}

func (e *SyncEngine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

func (e *SyncEngine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}
