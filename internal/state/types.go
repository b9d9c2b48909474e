// Package state reads and writes todosync.state, the record of the last
// completed sync.
package state

import "time"

// State is the todosync.state file.
type State struct {
	Version  int       `yaml:"version"`
	Base     string    `yaml:"base"`   // sha256 of the text both sides agreed on
	Remote   string    `yaml:"remote"` // sha256 of the remote text seen at that sync
	SyncedAt time.Time `yaml:"synced_at"`
	RunID    string    `yaml:"run_id"`
	Outcome  Outcome   `yaml:"outcome"`
}

// Outcome records what the last sync did.
type Outcome string

const (
	OutcomeUnchanged  Outcome = "unchanged"
	OutcomePulled     Outcome = "pulled"
	OutcomePushed     Outcome = "pushed"
	OutcomeMerged     Outcome = "merged"
	OutcomeLocalWins  Outcome = "local-wins"
	OutcomeRemoteWins Outcome = "remote-wins"
)

// Known reports whether o is one of the defined outcomes.
func (o Outcome) Known() bool {
	switch o {
	case OutcomeUnchanged, OutcomePulled, OutcomePushed, OutcomeMerged, OutcomeLocalWins, OutcomeRemoteWins:
		return true
	}
	return false
}

// CurrentVersion is the only state file version this build reads.
const CurrentVersion = 1
