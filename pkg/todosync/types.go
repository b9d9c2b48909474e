package todosync

import (
	"github.com/bianoble/todosync/internal/config"
	"github.com/bianoble/todosync/internal/engine"
	"github.com/bianoble/todosync/internal/merge"
)

// Type aliases re-export internal types as the public API.

type Config = config.Config
type MergeConfig = merge.Config
type ConflictError = merge.ConflictError
type SyncOptions = engine.SyncOptions
type SyncResult = engine.SyncResult
type Strategy = engine.Strategy
type StatusResult = engine.StatusResult
type StatusClass = engine.StatusClass
type ArchiveOptions = engine.ArchiveOptions
type ArchiveResult = engine.ArchiveResult

// ErrConflict matches every merge conflict via errors.Is.
var ErrConflict = merge.ErrConflict

// ErrNoBase is returned by Sync when the lists differ and no earlier sync
// recorded a common base.
var ErrNoBase = engine.ErrNoBase

const (
	StrategyMerge  = engine.StrategyMerge
	StrategyLocal  = engine.StrategyLocal
	StrategyRemote = engine.StrategyRemote
)
