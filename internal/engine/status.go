package engine

import (
	"context"

	"github.com/bianoble/todosync/internal/snapshot"
)

// Status classifies the local and remote lists against the last synced
// base without changing anything.
func (e *SyncEngine) Status(ctx context.Context) (*StatusResult, error) {
	ws, err := e.load(ctx, e.logger().With("todo", e.TodoPath))
	if err != nil {
		return nil, err
	}

	r := &StatusResult{
		LocalHash:    snapshot.HashText(ws.local),
		RemoteHash:   snapshot.HashText(ws.remoteText),
		RemoteName:   e.Remote.Name(),
		RemoteExists: ws.remote.Exists,
		LocalExists:  ws.localExists,
	}
	if ws.state != nil {
		r.LastSync = ws.state.SyncedAt
		r.LastOutcome = ws.state.Outcome
		r.LastRunID = ws.state.RunID
	}
	if !ws.hasBase {
		r.Class = StatusNeverSynced
		return r, nil
	}
	r.BaseHash = ws.state.Base
	r.Class = classify(ws.base, ws.local, ws.remoteText)
	return r, nil
}

func classify(base, local, remoteText string) StatusClass {
	localChanged := local != base
	remoteChanged := remoteText != base
	switch {
	case !localChanged && !remoteChanged, local == remoteText:
		return StatusInSync
	case localChanged && !remoteChanged:
		return StatusLocalChanges
	case !localChanged && remoteChanged:
		return StatusRemoteChanges
	}
	return StatusDiverged
}
