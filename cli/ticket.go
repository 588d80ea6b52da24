package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/ugh/change"
	"github.com/randalmurphal/ugh/config"
	"github.com/randalmurphal/ugh/draft"
	clierrors "github.com/randalmurphal/ugh/errors"
	"github.com/randalmurphal/ugh/git"
	"github.com/randalmurphal/ugh/llm"
	"github.com/randalmurphal/ugh/prompt"
	"github.com/randalmurphal/ugh/tracker"
	"github.com/randalmurphal/ugh/workflow"
)

func newTicketCmd(app *App) *cobra.Command {
	var board string

	cmd := &cobra.Command{
		Use:   "ticket",
		Short: "Create a ticket from uncommitted changes and check out its branch",
		Long: `Summarize the uncommitted changes in the current repository, file a ticket
for them and check out a branch named type/KEY/slug.

The board is --board, else default_project_key. For GitHub it is owner/repo,
for GitLab a project path or ID, for Jira a project key.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTicket(cmd.Context(), app, board)
		},
	}

	cmd.Flags().StringVarP(&board, "board", "b", "", "Project key or repository to file the ticket in")
	return cmd
}

func runTicket(ctx context.Context, app *App, board string) error {
	logger := app.Logger()

	dir, err := config.Dir()
	if err != nil {
		return err
	}
	settings, _, err := config.Load(dir, config.ResolverConfig{Logger: logger})
	if err != nil {
		return clierrors.WithCode(err, clierrors.ExitUsage)
	}

	if missing := settings.Missing(board); len(missing) > 0 {
		if app.IsTerminal == nil || !app.IsTerminal() {
			return clierrors.NewConfigIncompleteError(missing)
		}
		fmt.Fprintf(app.Stdout, "Some settings are missing: %v\n\n", missing)
		if err := newWizard(app).run(dir, settings, missing); err != nil {
			return err
		}
		if settings, _, err = config.Load(dir, config.ResolverConfig{Logger: logger}); err != nil {
			return clierrors.WithCode(err, clierrors.ExitUsage)
		}
		if missing := settings.Missing(board); len(missing) > 0 {
			return clierrors.NewConfigIncompleteError(missing)
		}
	}

	gitCtx, err := git.NewContext(app.workDir())
	if err != nil {
		if errors.Is(err, git.ErrNotGitRepo) {
			return clierrors.NewNotInGitRepoError()
		}
		return err
	}

	t, err := tracker.FromSettings(settings, app.HTTPClient, logger)
	if err != nil {
		return clierrors.WithCode(err, clierrors.ExitUsage)
	}

	var provider draft.Provider
	if settings.LLMAPIKey != "" || !llm.NeedsAPIKey(settings.LLMProvider) {
		provider = llm.New(settings.LLMProvider, llm.Config{
			APIKey:     settings.LLMAPIKey,
			Model:      settings.LLMModel,
			BaseURL:    settings.LLMBaseURL,
			HTTPClient: app.HTTPClient,
			Prompts:    prompt.NewLoader(settings.PromptDir()),
			Logger:     logger,
		})
	}
	cache := draft.NewCache(settings.CachePath(draft.CacheFileName),
		draft.WithTTL(settings.CacheTTL),
		draft.WithCacheLogger(logger))

	wf := workflow.New(workflow.Deps{
		Summarizer: change.NewSummarizer(gitCtx,
			change.WithDiff(settings.IncludeDiff),
			change.WithMaxDiffBytes(settings.MaxDiffBytes)),
		Drafter: draft.NewGenerator(provider, cache, draft.WithLogger(logger)),
		Tracker: t,
		Namer:   git.DefaultBranchNamer(),
		Git:     gitCtx,
		Logger:  logger,
	}, settings.DefaultProjectKey)

	state, err := wf.Run(ctx, board)
	if err != nil {
		return explainRunError(err, state, settings)
	}

	printSuccess(app, state)
	return nil
}

func printSuccess(app *App, state workflow.State) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(app.Stdout, "Ticket %s created. Branch ready: %s\n", green(state.Ticket.Key), cyan(state.Branch))
	if state.Ticket.URL != "" {
		fmt.Fprintf(app.Stdout, "View ticket: %s\n", state.Ticket.URL)
	}
	if state.Draft.Provenance == draft.ProvenanceHeuristic {
		fmt.Fprintln(app.Stdout, color.YellowString("Ticket text was generated locally; edit it in the tracker if needed."))
	}
}

// explainRunError turns a workflow failure into a user-facing error with
// the matching exit code.
func explainRunError(err error, state workflow.State, settings config.Settings) error {
	var stepErr *workflow.StepError
	if !errors.As(err, &stepErr) {
		return err
	}

	switch stepErr.Step {
	case workflow.StepBoard:
		return &clierrors.CLIError{
			Err:        err,
			Message:    "No board to file the ticket in.",
			Suggestion: "Pass --board, or set one with 'ugh config set default_project_key KEY'.",
			Code:       clierrors.ExitUsage,
		}

	case workflow.StepSummarize:
		if errors.Is(err, change.ErrNoChanges) {
			return &clierrors.CLIError{
				Err:        err,
				Message:    "No uncommitted changes found.",
				Suggestion: "Make some changes first; ugh describes what you are working on.",
				Code:       clierrors.ExitUsage,
			}
		}
		return err

	case workflow.StepTicket:
		var wrapped error
		switch tracker.KindOf(err) {
		case tracker.KindAuth:
			wrapped = clierrors.WrapAuthError(stepErr.Err, settings.Tracker)
		case tracker.KindValidation:
			wrapped = &clierrors.CLIError{
				Err:        stepErr.Err,
				Message:    fmt.Sprintf("The %s tracker rejected the ticket.", settings.Tracker),
				Details:    stepErr.Err.Error(),
				Suggestion: "Check the board and default_issue_type settings.",
			}
		default:
			wrapped = clierrors.WrapConnectionError(stepErr.Err, trackerURL(settings))
		}
		return clierrors.WithCode(wrapped, clierrors.ExitTracker)

	case workflow.StepCheckout:
		cliErr := &clierrors.CLIError{
			Err:     err,
			Message: "Checkout failed after the ticket was created.",
			Details: stepErr.Err.Error(),
			Code:    clierrors.ExitCheckout,
		}
		if stepErr.Ticket != nil {
			cliErr.Message = fmt.Sprintf("Ticket %s created, but checkout failed.", stepErr.Ticket.Key)
			if stepErr.Ticket.URL != "" {
				cliErr.Details += "\nTicket: " + stepErr.Ticket.URL
			}
		}
		if state.Branch != "" {
			cliErr.Suggestion = "Create the branch yourself: git checkout -b " + state.Branch
		}
		return cliErr

	default:
		return err
	}
}

func trackerURL(s config.Settings) string {
	switch s.Tracker {
	case config.TrackerGitHub:
		return "https://api.github.com"
	case config.TrackerGitLab:
		if s.GitLabBaseURL != "" {
			return s.GitLabBaseURL
		}
		return "https://gitlab.com"
	default:
		return s.JiraBaseURL
	}
}
