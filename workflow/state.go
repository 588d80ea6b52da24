package workflow

import (
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"

	"github.com/randalmurphal/ugh/change"
	"github.com/randalmurphal/ugh/draft"
	"github.com/randalmurphal/ugh/tracker"
)

const runIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// State accumulates the results of a workflow run. Each step receives the
// state by value and returns the updated copy.
type State struct {
	// Identification
	RunID string
	Board string

	// Step outputs
	Summary change.Summary
	Draft   draft.Result
	Ticket  *tracker.TicketRef
	Branch  string

	// Timing
	StartTime time.Time
	Duration  time.Duration
}

// NewState creates the state for a new run.
func NewState() State {
	return State{
		RunID:     generateRunID(),
		StartTime: time.Now(),
	}
}

// FinalizeDuration sets total duration from start time
func (s *State) FinalizeDuration() {
	s.Duration = time.Since(s.StartTime)
}

// generateRunID returns a short random ID used to correlate log lines.
func generateRunID() string {
	id, err := nanoid.Generate(runIDAlphabet, 10)
	if err != nil {
		return time.Now().UTC().Format("20060102-150405")
	}
	return id
}
