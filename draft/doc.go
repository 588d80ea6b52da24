// Package draft produces ticket drafts (title, description, type, slug)
// from a change summary.
//
// A Generator walks a small state machine: cache lookup, then a single
// Provider attempt, then the deterministic heuristic. Provider drafts are
// cached by fingerprint in a JSON file; heuristic drafts never are, so an
// unchanged workspace retries the provider on the next run.
//
// Example usage:
//
//	cache := draft.NewCache(filepath.Join(dir, draft.CacheFileName), draft.WithTTL(24*time.Hour))
//	gen := draft.NewGenerator(provider, cache, draft.WithLogger(logger))
//	res, err := gen.Generate(ctx, summary)
//	fmt.Println(res.Draft.Title, res.Provenance)
package draft
