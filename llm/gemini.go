package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/randalmurphal/ugh/change"
	"github.com/randalmurphal/ugh/draft"
	devhttp "github.com/randalmurphal/ugh/http"
	"github.com/randalmurphal/ugh/prompt"
)

// Gemini defaults.
const (
	GeminiName           = "gemini"
	DefaultGeminiModel   = "gemini-2.5-flash"
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
)

// ErrEmptyResponse indicates the model returned no text.
var ErrEmptyResponse = errors.New("model returned no text")

// Gemini generates drafts with the Gemini generateContent API.
type Gemini struct {
	http    *devhttp.Client
	apiKey  string
	model   string
	prompts *prompt.Loader
	logger  *slog.Logger
}

// NewGemini creates a Gemini provider. A missing API key is reported when
// Generate is called, so the caller can still fall back to a heuristic draft.
func NewGemini(cfg Config) *Gemini {
	cfg = cfg.withDefaults(DefaultGeminiModel, DefaultGeminiBaseURL)
	apiKey := cfg.APIKey

	return &Gemini{
		http: devhttp.NewClient(devhttp.ClientConfig{
			Client:      cfg.HTTPClient,
			BaseURL:     cfg.BaseURL,
			ServiceName: GeminiName,
			BeforeRequest: func(req *http.Request) {
				req.Header.Set("x-goog-api-key", apiKey)
			},
		}),
		apiKey:  apiKey,
		model:   cfg.Model,
		prompts: cfg.Prompts,
		logger:  cfg.Logger,
	}
}

// Name implements draft.Provider.
func (g *Gemini) Name() string {
	return GeminiName
}

// Model returns the model drafts are requested from.
func (g *Gemini) Model() string {
	return g.model
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
	Temperature      float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// Generate implements draft.Provider with a single generateContent call.
func (g *Gemini) Generate(ctx context.Context, sum change.Summary) (draft.Draft, error) {
	if sum.Empty() {
		return draft.Draft{}, g.fail(draft.FailureMalformed, change.ErrNoChanges)
	}
	if g.apiKey == "" {
		return draft.Draft{}, g.fail(draft.FailureAuth,
			&devhttp.AuthError{Service: GeminiName, Reason: "no API key configured"})
	}

	text, err := RenderPrompt(g.prompts, sum)
	if err != nil {
		return draft.Draft{}, g.fail(draft.FailureMalformed, err)
	}

	req := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: text}}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			Temperature:      0.2,
		},
	}

	path := fmt.Sprintf("/v1beta/models/%s:generateContent", url.PathEscape(g.model))
	g.logger.Debug("requesting draft", "provider", GeminiName, "model", g.model, "prompt_bytes", len(text))

	var resp generateResponse
	if err := g.http.Post(ctx, path, req, &resp); err != nil {
		return draft.Draft{}, g.fail(classify(err), err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return draft.Draft{}, g.fail(draft.FailureMalformed,
			fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason))
	}
	if len(resp.Candidates) == 0 {
		return draft.Draft{}, g.fail(draft.FailureMalformed, ErrEmptyResponse)
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}

	d, err := ParseDraft(b.String())
	if err != nil {
		return draft.Draft{}, g.fail(draft.FailureMalformed, err)
	}
	return d, nil
}

func (g *Gemini) fail(kind draft.FailureKind, err error) error {
	return draft.NewProviderError(GeminiName, kind, err)
}

// classify maps a transport-level error to a provider failure kind.
// Gemini answers a bad key with 400 and reason API_KEY_INVALID.
func classify(err error) draft.FailureKind {
	var apiErr *devhttp.APIError
	switch {
	case devhttp.IsUnauthorized(err), devhttp.IsForbidden(err):
		return draft.FailureAuth
	case errors.As(err, &apiErr) && strings.Contains(apiErr.Body, "API_KEY_INVALID"):
		return draft.FailureAuth
	case errors.Is(err, devhttp.ErrDecode):
		return draft.FailureMalformed
	default:
		return draft.FailureNetwork
	}
}
