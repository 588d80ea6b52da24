package llm

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/randalmurphal/llmkit/claude"

	"github.com/randalmurphal/ugh/change"
	"github.com/randalmurphal/ugh/draft"
	"github.com/randalmurphal/ugh/prompt"
)

// ClaudeName selects the Claude CLI provider.
const ClaudeName = "claude"

const claudeSystemPrompt = "You write issue tracker tickets. Reply with a single JSON object and nothing else."

// completer is the part of claude.Client the provider needs.
type completer interface {
	Complete(ctx context.Context, req claude.CompletionRequest) (*claude.CompletionResponse, error)
}

// Claude generates drafts through the local claude CLI. The CLI handles
// its own login, so no API key is needed.
type Claude struct {
	client  completer
	model   string
	prompts *prompt.Loader
	logger  *slog.Logger
}

// NewClaude creates a Claude provider backed by the claude CLI.
func NewClaude(cfg Config) *Claude {
	// The configured model may still be the gemini default.
	if strings.HasPrefix(cfg.Model, GeminiName) {
		cfg.Model = ""
	}
	if cfg.Model == "" {
		return newClaude(claude.NewClaudeCLI(), cfg)
	}
	return newClaude(claude.NewClaudeCLI(claude.WithModel(cfg.Model)), cfg)
}

func newClaude(client completer, cfg Config) *Claude {
	cfg = cfg.withDefaults("", "")
	return &Claude{
		client:  client,
		model:   cfg.Model,
		prompts: cfg.Prompts,
		logger:  cfg.Logger,
	}
}

// Name implements draft.Provider.
func (c *Claude) Name() string {
	return ClaudeName
}

// Generate implements draft.Provider with a single completion.
func (c *Claude) Generate(ctx context.Context, sum change.Summary) (draft.Draft, error) {
	if sum.Empty() {
		return draft.Draft{}, c.fail(draft.FailureMalformed, change.ErrNoChanges)
	}

	text, err := RenderPrompt(c.prompts, sum)
	if err != nil {
		return draft.Draft{}, c.fail(draft.FailureMalformed, err)
	}

	c.logger.Debug("requesting draft", "provider", ClaudeName, "model", c.model, "prompt_bytes", len(text))
	resp, err := c.client.Complete(ctx, claude.CompletionRequest{
		SystemPrompt: claudeSystemPrompt,
		Messages:     []claude.Message{{Role: claude.RoleUser, Content: text}},
	})
	if err != nil {
		return draft.Draft{}, c.fail(classifyClaude(err), err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return draft.Draft{}, c.fail(draft.FailureMalformed, ErrEmptyResponse)
	}

	d, err := ParseDraft(resp.Content)
	if err != nil {
		return draft.Draft{}, c.fail(draft.FailureMalformed, err)
	}
	return d, nil
}

func (c *Claude) fail(kind draft.FailureKind, err error) error {
	return draft.NewProviderError(ClaudeName, kind, err)
}

// classifyClaude maps a CLI failure to a provider failure kind. A missing
// binary or a dead process counts as the service being unreachable.
func classifyClaude(err error) draft.FailureKind {
	var execErr *exec.Error
	if errors.As(err, &execErr) || errors.Is(err, exec.ErrNotFound) {
		return draft.FailureNetwork
	}

	msg := strings.ToLower(err.Error())
	for _, s := range []string{"not logged in", "login", "unauthorized", "authentication", "api key", "401"} {
		if strings.Contains(msg, s) {
			return draft.FailureAuth
		}
	}
	for _, s := range []string{"parse", "unmarshal", "invalid json", "unexpected end"} {
		if strings.Contains(msg, s) {
			return draft.FailureMalformed
		}
	}
	return draft.FailureNetwork
}
