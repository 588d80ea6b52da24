// Package workflow runs the ticket pipeline: resolve the board, summarize
// the uncommitted changes, draft the ticket, file it, then create and check
// out a branch named after it.
//
// The workflow depends only on interfaces; the cli package wires the
// concrete git, draft and tracker implementations.
//
//	wf := workflow.New(workflow.Deps{
//	    Summarizer: change.NewSummarizer(gitCtx),
//	    Drafter:    draft.NewGenerator(provider, cache),
//	    Tracker:    t,
//	    Namer:      git.DefaultBranchNamer(),
//	    Git:        gitCtx,
//	}, settings.DefaultProjectKey)
//
//	state, err := wf.Run(ctx, boardFlag)
//	var stepErr *workflow.StepError
//	if errors.As(err, &stepErr) && stepErr.Ticket != nil {
//	    // ticket exists but checkout failed
//	}
package workflow
