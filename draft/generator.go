package draft

import (
	"context"
	"errors"
	"log/slog"

	"github.com/randalmurphal/ugh/change"
)

// ErrNoProvider is the failure recorded when no provider is configured.
var ErrNoProvider = errors.New("no draft provider configured")

// Store is the cache capability the generator needs.
type Store interface {
	Lookup(fingerprint string) (Draft, bool)
	Store(fingerprint string, d Draft) error
}

// Result is the outcome of a generation.
type Result struct {
	Draft      Draft
	Provenance Provenance

	// Failure is the provider error that forced the heuristic, if any.
	Failure error
}

// FailureKind returns the kind of the absorbed provider failure, or "" when
// there was none.
func (r Result) FailureKind() FailureKind {
	if r.Failure == nil {
		return ""
	}
	return Classify(r.Failure)
}

// Generator produces a draft for a change summary. It consults the cache,
// then the provider (once, without retry), then falls back to the
// heuristic builder. Only provider drafts are cached.
type Generator struct {
	provider Provider
	store    Store
	logger   *slog.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithLogger sets the generator's logger.
func WithLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator creates a Generator. Either dependency may be nil: without a
// store nothing is cached, without a provider the heuristic is always used.
func NewGenerator(provider Provider, store Store, opts ...GeneratorOption) *Generator {
	g := &Generator{
		provider: provider,
		store:    store,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type genState int

const (
	stateCacheCheck genState = iota
	stateCacheHit
	stateCacheMiss
	stateProviderAttempt
	stateProviderSuccess
	stateProviderFailure
	stateHeuristic
	stateDone
)

// Generate returns a draft for sum. Provider failures never surface as an
// error; they are recorded in Result.Failure. The only error is the
// cancellation of ctx while the provider was running.
func (g *Generator) Generate(ctx context.Context, sum change.Summary) (Result, error) {
	var (
		res     Result
		draft   Draft
		failure error
	)

	state := stateCacheCheck
	for state != stateDone {
		switch state {
		case stateCacheCheck:
			state = stateCacheMiss
			if g.store != nil && sum.Fingerprint != "" {
				if d, ok := g.store.Lookup(sum.Fingerprint); ok {
					draft = d
					state = stateCacheHit
				}
			}

		case stateCacheHit:
			g.logger.Debug("using cached draft", "fingerprint", sum.Fingerprint)
			res = Result{Draft: draft, Provenance: ProvenanceCached}
			state = stateDone

		case stateCacheMiss:
			if g.provider == nil {
				failure = NewProviderError("", FailureAuth, ErrNoProvider)
				state = stateProviderFailure
				break
			}
			state = stateProviderAttempt

		case stateProviderAttempt:
			d, err := g.provider.Generate(ctx, sum)
			if err == nil {
				if d, err = Normalize(d); err != nil {
					err = NewProviderError(g.provider.Name(), FailureMalformed, err)
				}
			}
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return Result{}, ctxErr
				}
				failure = err
				state = stateProviderFailure
				break
			}
			draft = d
			state = stateProviderSuccess

		case stateProviderSuccess:
			if g.store != nil && sum.Fingerprint != "" {
				if err := g.store.Store(sum.Fingerprint, draft); err != nil {
					g.logger.Warn("failed to cache draft", "error", err)
				}
			}
			res = Result{Draft: draft, Provenance: ProvenanceGenerated}
			state = stateDone

		case stateProviderFailure:
			if errors.Is(failure, ErrNoProvider) {
				g.logger.Debug("no draft provider, using heuristic")
			} else {
				g.logger.Warn("draft provider failed, using heuristic",
					"provider", g.provider.Name(),
					"kind", Classify(failure),
					"error", failure,
				)
			}
			state = stateHeuristic

		case stateHeuristic:
			res = Result{Draft: BuildHeuristic(sum), Provenance: ProvenanceHeuristic, Failure: failure}
			state = stateDone
		}
	}

	return res, nil
}
