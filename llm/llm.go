package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/randalmurphal/ugh/change"
	"github.com/randalmurphal/ugh/draft"
	"github.com/randalmurphal/ugh/prompt"
)

// Config configures a draft provider.
type Config struct {
	APIKey     string
	Model      string // Provider default when empty
	BaseURL    string // Provider default when empty
	HTTPClient *http.Client
	Prompts    *prompt.Loader // Embedded prompts only when nil
	Logger     *slog.Logger
}

// NeedsAPIKey reports whether the named provider authenticates with
// llm_api_key. The claude CLI keeps its own login.
func NeedsAPIKey(name string) bool {
	return strings.ToLower(strings.TrimSpace(name)) != ClaudeName
}

func (c Config) withDefaults(model, baseURL string) Config {
	if c.Model == "" {
		c.Model = model
	}
	if c.BaseURL == "" {
		c.BaseURL = baseURL
	}
	if c.Prompts == nil {
		c.Prompts = prompt.NewLoader()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// New returns the provider registered under name. Unknown names fall back
// to Gemini with a warning.
func New(name string, cfg Config) draft.Provider {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ClaudeName:
		return NewClaude(cfg)
	case "", GeminiName:
	default:
		logger := cfg.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("unknown llm provider, using gemini", "provider", name)
	}
	return NewGemini(cfg)
}

// promptFile is the per-file view handed to the draft template.
type promptFile struct {
	Path      string
	OldPath   string
	Kind      change.Kind
	Additions int
	Deletions int
	Binary    bool
}

type promptVars struct {
	Files     []promptFile
	Additions int
	Deletions int
	Diff      string
	Truncated bool
}

// RenderPrompt renders the draft prompt for sum.
func RenderPrompt(loader *prompt.Loader, sum change.Summary) (string, error) {
	if loader == nil {
		loader = prompt.NewLoader()
	}

	vars := promptVars{Diff: sum.Diff, Truncated: sum.Truncated}
	vars.Additions, vars.Deletions = sum.Totals()
	for _, f := range sum.Files {
		vars.Files = append(vars.Files, promptFile(f))
	}

	return loader.LoadWithVars(prompt.DraftPrompt, vars)
}

// ParseDraft decodes a model reply into a draft. Markdown code fences and
// prose around the JSON object are tolerated.
func ParseDraft(text string) (draft.Draft, error) {
	body := stripFences(text)
	if start, end := strings.IndexByte(body, '{'), strings.LastIndexByte(body, '}'); start >= 0 && end > start {
		body = body[start : end+1]
	}

	var reply struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Type        string `json:"type"`
		Slug        string `json:"slug"`
	}
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		return draft.Draft{}, fmt.Errorf("decode draft reply: %w", err)
	}

	return draft.Normalize(draft.Draft{
		Title:       reply.Title,
		Description: reply.Description,
		Type:        draft.Type(reply.Type),
		Slug:        reply.Slug,
	})
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
