package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/ugh/change"
	"github.com/randalmurphal/ugh/draft"
	"github.com/randalmurphal/ugh/git"
	"github.com/randalmurphal/ugh/tracker"
)

type fakeSummarizer struct {
	sum   change.Summary
	err   error
	calls int
}

func (f *fakeSummarizer) Summarize(context.Context) (change.Summary, error) {
	f.calls++
	return f.sum, f.err
}

type fakeProvider struct {
	d     draft.Draft
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(context.Context, change.Summary) (draft.Draft, error) {
	f.calls++
	return f.d, f.err
}

type memStore map[string]draft.Draft

func (m memStore) Lookup(fp string) (draft.Draft, bool) {
	d, ok := m[fp]
	return d, ok
}

func (m memStore) Store(fp string, d draft.Draft) error {
	m[fp] = d
	return nil
}

type fakeTracker struct {
	ref      tracker.TicketRef
	err      error
	calls    int
	gotDraft draft.Draft
	gotBoard string
}

func (f *fakeTracker) Name() string { return "fake" }

func (f *fakeTracker) CreateTicket(_ context.Context, d draft.Draft, board string) (tracker.TicketRef, error) {
	f.calls++
	f.gotDraft = d
	f.gotBoard = board
	return f.ref, f.err
}

type fakeGit struct {
	err      error
	branches []string
}

func (f *fakeGit) CheckoutNew(name string) error {
	if f.err != nil {
		return f.err
	}
	f.branches = append(f.branches, name)
	return nil
}

type fixture struct {
	summarizer *fakeSummarizer
	provider   *fakeProvider
	store      memStore
	tracker    *fakeTracker
	git        *fakeGit
}

func newFixture() *fixture {
	return &fixture{
		summarizer: &fakeSummarizer{sum: change.Summary{
			Files:       []change.File{{Path: "checkout/flow.go", Kind: change.KindModified, Additions: 12, Deletions: 3}},
			Fingerprint: "abc123",
		}},
		provider: &fakeProvider{d: draft.Draft{
			Title: "Update checkout flow",
			Type:  draft.TypeFeature,
			Slug:  "update-checkout-flow",
		}},
		store:   memStore{},
		tracker: &fakeTracker{ref: tracker.TicketRef{Key: "DEMO-123", URL: "https://demo.atlassian.net/browse/DEMO-123"}},
		git:     &fakeGit{},
	}
}

func (f *fixture) workflow(defaultBoard string) *Workflow {
	return New(Deps{
		Summarizer: f.summarizer,
		Drafter:    draft.NewGenerator(f.provider, f.store),
		Tracker:    f.tracker,
		Namer:      git.DefaultBranchNamer(),
		Git:        f.git,
	}, defaultBoard)
}

func TestRun_CreatesTicketAndBranch(t *testing.T) {
	f := newFixture()

	state, err := f.workflow("DEMO").Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "DEMO", state.Board)
	assert.Equal(t, "DEMO", f.tracker.gotBoard)
	assert.Equal(t, "Update checkout flow", f.tracker.gotDraft.Title)
	require.NotNil(t, state.Ticket)
	assert.Equal(t, "DEMO-123", state.Ticket.Key)
	assert.Equal(t, "feature/DEMO-123/update-checkout-flow", state.Branch)
	assert.Equal(t, []string{"feature/DEMO-123/update-checkout-flow"}, f.git.branches)
	assert.Equal(t, draft.ProvenanceGenerated, state.Draft.Provenance)
	assert.Contains(t, f.store, "abc123")
	assert.NotEmpty(t, state.RunID)
}

func TestRun_SecondRunUsesCache(t *testing.T) {
	f := newFixture()
	wf := f.workflow("DEMO")

	_, err := wf.Run(context.Background(), "")
	require.NoError(t, err)
	f.git.branches = nil

	state, err := wf.Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 1, f.provider.calls)
	assert.Equal(t, draft.ProvenanceCached, state.Draft.Provenance)
	assert.Equal(t, "feature/DEMO-123/update-checkout-flow", state.Branch)
}

func TestRun_BoardFlagOverridesDefault(t *testing.T) {
	f := newFixture()

	state, err := f.workflow("DEMO").Run(context.Background(), " OPS ")
	require.NoError(t, err)

	assert.Equal(t, "OPS", state.Board)
	assert.Equal(t, "OPS", f.tracker.gotBoard)
}

func TestRun_MissingBoard(t *testing.T) {
	f := newFixture()

	_, err := f.workflow("").Run(context.Background(), "")

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepBoard, stepErr.Step)
	assert.ErrorIs(t, err, ErrMissingBoardKey)
	assert.Zero(t, f.summarizer.calls)
	assert.Zero(t, f.provider.calls)
	assert.Zero(t, f.tracker.calls)
}

func TestRun_NoChanges(t *testing.T) {
	f := newFixture()
	f.summarizer.err = change.ErrNoChanges

	_, err := f.workflow("DEMO").Run(context.Background(), "")

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepSummarize, stepErr.Step)
	assert.ErrorIs(t, err, change.ErrNoChanges)
	assert.Zero(t, f.provider.calls)
	assert.Zero(t, f.tracker.calls)
}

func TestRun_ProviderFailureFallsBackToHeuristic(t *testing.T) {
	f := newFixture()
	f.provider.err = draft.NewProviderError("fake", draft.FailureNetwork, errors.New("connection reset"))

	state, err := f.workflow("DEMO").Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, draft.ProvenanceHeuristic, state.Draft.Provenance)
	assert.Equal(t, draft.FailureNetwork, state.Draft.FailureKind())
	assert.Empty(t, f.store, "heuristic drafts are never cached")
	assert.Equal(t, 1, f.tracker.calls)
	assert.Len(t, f.git.branches, 1)
}

func TestRun_TrackerValidationAbortsBeforeBranch(t *testing.T) {
	f := newFixture()
	f.tracker.err = &tracker.Error{Tracker: "fake", Kind: tracker.KindValidation, Err: errors.New("issuetype invalid")}

	_, err := f.workflow("DEMO").Run(context.Background(), "")

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepTicket, stepErr.Step)
	assert.Nil(t, stepErr.Ticket)
	assert.Equal(t, tracker.KindValidation, tracker.KindOf(err))
	assert.Equal(t, 1, f.tracker.calls)
	assert.Empty(t, f.git.branches, "no branch may be created")
}

func TestRun_CheckoutFailureCarriesTicket(t *testing.T) {
	f := newFixture()
	f.git.err = &git.Error{Op: "create branch", Err: git.ErrBranchExists}

	_, err := f.workflow("DEMO").Run(context.Background(), "")

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepCheckout, stepErr.Step)
	require.NotNil(t, stepErr.Ticket)
	assert.Equal(t, "DEMO-123", stepErr.Ticket.Key)
	assert.ErrorIs(t, err, git.ErrBranchExists)
}

func TestRun_CancelledContext(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.workflow("DEMO").Run(ctx, "")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, f.summarizer.calls)
}

func TestStepError(t *testing.T) {
	cause := errors.New("boom")
	err := &StepError{Step: StepDraft, Err: cause}

	assert.Equal(t, "draft: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestGenerateRunID(t *testing.T) {
	a, b := generateRunID(), generateRunID()
	assert.Len(t, a, 10)
	assert.NotEqual(t, a, b)
}

func TestRun_CheckoutFailureReturnsBranch(t *testing.T) {
	f := newFixture()
	f.git.err = errors.New("fatal: cannot lock ref")

	state, err := f.workflow("DEMO").Run(context.Background(), "")

	require.Error(t, err)
	assert.Equal(t, "feature/DEMO-123/update-checkout-flow", state.Branch)
	require.NotNil(t, state.Ticket)
	assert.Equal(t, "DEMO-123", state.Ticket.Key)
}

func TestRun_WithoutProviderUsesHeuristic(t *testing.T) {
	f := newFixture()
	wf := New(Deps{
		Summarizer: f.summarizer,
		Drafter:    draft.NewGenerator(nil, f.store),
		Tracker:    f.tracker,
		Namer:      git.DefaultBranchNamer(),
		Git:        f.git,
	}, "DEMO")

	state, err := wf.Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, draft.ProvenanceHeuristic, state.Draft.Provenance)
	assert.Equal(t, "Update flow.go", state.Draft.Draft.Title)
	assert.Equal(t, "feature/DEMO-123/update-flow-go", state.Branch)
}
