package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bianoble/todosync/internal/merge"
	"github.com/bianoble/todosync/internal/state"
)

// Strategy decides what Sync does when the lists cannot be merged.
type Strategy string

const (
	StrategyMerge  Strategy = "merge"  // fail on conflict
	StrategyLocal  Strategy = "local"  // local list wins on conflict
	StrategyRemote Strategy = "remote" // remote list wins on conflict
)

// ParseStrategy validates a strategy name. Empty means StrategyMerge.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyMerge:
		return StrategyMerge, nil
	case StrategyLocal:
		return StrategyLocal, nil
	case StrategyRemote:
		return StrategyRemote, nil
	}
	return "", fmt.Errorf("unknown strategy '%s' — must be one of: merge, local, remote", s)
}

// ErrNoBase is returned when local and remote differ and no previous sync
// recorded a common ancestor to merge from.
var ErrNoBase = errors.New("local and remote lists differ and there is no common base")

// SyncOptions configures a sync operation.
type SyncOptions struct {
	Strategy Strategy
	DryRun   bool
}

// SyncResult holds the outcome of a sync operation.
type SyncResult struct {
	RunID   string
	Outcome state.Outcome
	Text    string // the synced list, with \n line endings
	Base    string // snapshot hash recorded for the next sync

	// Merge is set when a three-way merge ran, including when a strategy
	// overrode its conflict.
	Merge    *merge.Outcome
	Conflict *merge.ConflictError

	LocalWritten bool
	Pushed       bool
	DryRun       bool

	// Shared is true when this call joined a sync already in flight.
	Shared bool
}

// StatusClass classifies local and remote against the last synced base.
type StatusClass string

const (
	StatusInSync        StatusClass = "in-sync"
	StatusLocalChanges  StatusClass = "local-changes"
	StatusRemoteChanges StatusClass = "remote-changes"
	StatusDiverged      StatusClass = "diverged"
	StatusNeverSynced   StatusClass = "never-synced"
)

// StatusResult holds the outcome of a status check.
type StatusResult struct {
	Class        StatusClass
	LocalHash    string
	RemoteHash   string
	BaseHash     string
	RemoteName   string
	RemoteExists bool
	LocalExists  bool
	LastSync     time.Time
	LastOutcome  state.Outcome
	LastRunID    string
}

// ArchiveOptions configures an archive operation.
type ArchiveOptions struct {
	DryRun bool
}

// ArchiveResult holds the outcome of an archive operation.
type ArchiveResult struct {
	Archived  []string // completed task lines moved to the done file
	Remaining int      // task lines left in the todo file
	DryRun    bool
}
