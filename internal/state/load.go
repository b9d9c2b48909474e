package state

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/bianoble/todosync/internal/sandbox"
)

// Load reads and validates a state file. A missing file is reported with an
// error wrapping fs.ErrNotExist.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading state %s: %w", path, err)
	}

	var st State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing state %s: %w", path, err)
	}

	if errs := Validate(&st); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return &st, nil
}

// Save writes a state file atomically.
func Save(path string, st *State) error {
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}
	if err := sandbox.WriteAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("saving state %s: %w", path, err)
	}
	return nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("state validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a State for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(st *State) []string {
	var errs []string

	if st.Version != CurrentVersion {
		errs = append(errs, fmt.Sprintf("unsupported version %d — only version %d is supported", st.Version, CurrentVersion))
	}

	if msg := checkHash("base", st.Base); msg != "" {
		errs = append(errs, msg)
	}
	if msg := checkHash("remote", st.Remote); msg != "" {
		errs = append(errs, msg)
	}

	if st.SyncedAt.IsZero() {
		errs = append(errs, "'synced_at' is required")
	}

	if st.RunID == "" {
		errs = append(errs, "'run_id' is required")
	} else if _, err := uuid.Parse(st.RunID); err != nil {
		errs = append(errs, fmt.Sprintf("invalid run_id '%s': %v", st.RunID, err))
	}

	if !st.Outcome.Known() {
		errs = append(errs, fmt.Sprintf("unknown outcome '%s' — must be one of: unchanged, pulled, pushed, merged, local-wins, remote-wins", st.Outcome))
	}

	return errs
}

func checkHash(field, value string) string {
	if value == "" {
		return fmt.Sprintf("'%s' is required", field)
	}
	if b, err := hex.DecodeString(value); err != nil || len(b) != 32 {
		return fmt.Sprintf("'%s' must be a hex sha256 digest, got '%s'", field, value)
	}
	return ""
}
