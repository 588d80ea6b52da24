package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/randalmurphal/ugh/change"
	"github.com/randalmurphal/ugh/draft"
	"github.com/randalmurphal/ugh/tracker"
)

// ErrMissingBoardKey indicates neither a --board flag nor a default project
// key was provided.
var ErrMissingBoardKey = errors.New("no board given and default_project_key is not set")

// Step names a workflow stage.
type Step string

// Workflow steps, in order.
const (
	StepBoard     Step = "resolve_board"
	StepSummarize Step = "summarize"
	StepDraft     Step = "draft"
	StepTicket    Step = "create_ticket"
	StepCheckout  Step = "checkout"
)

// StepError reports the step that failed. Ticket is set when the failure
// happened after the ticket was created.
type StepError struct {
	Step   Step
	Err    error
	Ticket *tracker.TicketRef
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Summarizer extracts the workspace change set.
type Summarizer interface {
	Summarize(ctx context.Context) (change.Summary, error)
}

// Drafter produces ticket content for a change set.
type Drafter interface {
	Generate(ctx context.Context, sum change.Summary) (draft.Result, error)
}

// BranchNamer renders a branch name.
type BranchNamer interface {
	NameFor(branchType, ticketKey, slug string) string
}

// Checkouter creates and switches to a branch.
type Checkouter interface {
	CheckoutNew(name string) error
}

// Deps are the collaborators a Workflow drives.
type Deps struct {
	Summarizer Summarizer
	Drafter    Drafter
	Tracker    tracker.Tracker
	Namer      BranchNamer
	Git        Checkouter
	Logger     *slog.Logger
}

// Workflow turns uncommitted changes into a ticket and a checked-out
// branch.
type Workflow struct {
	deps         Deps
	defaultBoard string
}

// New creates a Workflow. defaultBoard is used when Run gets no board.
func New(deps Deps, defaultBoard string) *Workflow {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Workflow{deps: deps, defaultBoard: defaultBoard}
}

// Run executes every step in order and stops at the first failure,
// returning *StepError along with the state reached so far. No step is
// retried.
func (w *Workflow) Run(ctx context.Context, board string) (State, error) {
	state := NewState()
	logger := w.deps.Logger.With("run_id", state.RunID)

	steps := []struct {
		step Step
		fn   func(context.Context, *slog.Logger, State, string) (State, error)
	}{
		{StepBoard, w.resolveBoard},
		{StepSummarize, w.summarize},
		{StepDraft, w.draft},
		{StepTicket, w.createTicket},
		{StepCheckout, w.checkout},
	}

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return state, &StepError{Step: s.step, Err: err, Ticket: state.Ticket}
		}
		next, err := s.fn(ctx, logger, state, board)
		if err != nil {
			logger.Debug("workflow step failed", "step", s.step, "error", err)
			return next, &StepError{Step: s.step, Err: err, Ticket: next.Ticket}
		}
		state = next
	}

	state.FinalizeDuration()
	logger.Debug("workflow complete",
		"ticket", state.Ticket.Key,
		"branch", state.Branch,
		"provenance", state.Draft.Provenance,
		"duration", state.Duration)
	return state, nil
}

func (w *Workflow) resolveBoard(_ context.Context, logger *slog.Logger, state State, board string) (State, error) {
	board = strings.TrimSpace(board)
	if board == "" {
		board = strings.TrimSpace(w.defaultBoard)
	}
	if board == "" {
		return state, ErrMissingBoardKey
	}
	logger.Debug("resolved board", "board", board)
	state.Board = board
	return state, nil
}

func (w *Workflow) summarize(ctx context.Context, logger *slog.Logger, state State, _ string) (State, error) {
	sum, err := w.deps.Summarizer.Summarize(ctx)
	if err != nil {
		return state, err
	}
	additions, deletions := sum.Totals()
	logger.Debug("summarized changes",
		"files", len(sum.Files),
		"additions", additions,
		"deletions", deletions,
		"truncated", sum.Truncated)
	state.Summary = sum
	return state, nil
}

func (w *Workflow) draft(ctx context.Context, logger *slog.Logger, state State, _ string) (State, error) {
	res, err := w.deps.Drafter.Generate(ctx, state.Summary)
	if err != nil {
		return state, err
	}
	switch {
	case errors.Is(res.Failure, draft.ErrNoProvider):
		logger.Debug("no draft provider configured, using heuristic draft")
	case res.Failure != nil:
		logger.Warn("draft provider failed, using heuristic draft",
			"kind", res.FailureKind(), "error", res.Failure)
	}
	logger.Debug("drafted ticket", "provenance", res.Provenance, "type", res.Draft.Type, "title", res.Draft.Title)
	state.Draft = res
	return state, nil
}

func (w *Workflow) createTicket(ctx context.Context, logger *slog.Logger, state State, _ string) (State, error) {
	ref, err := w.deps.Tracker.CreateTicket(ctx, state.Draft.Draft, state.Board)
	if err != nil {
		return state, err
	}
	logger.Debug("created ticket", "tracker", w.deps.Tracker.Name(), "key", ref.Key, "url", ref.URL)
	state.Ticket = &ref
	return state, nil
}

func (w *Workflow) checkout(_ context.Context, logger *slog.Logger, state State, _ string) (State, error) {
	d := state.Draft.Draft
	state.Branch = w.deps.Namer.NameFor(string(d.Type), state.Ticket.Key, d.Slug)
	if err := w.deps.Git.CheckoutNew(state.Branch); err != nil {
		return state, err
	}
	logger.Debug("checked out branch", "branch", state.Branch)
	return state, nil
}
