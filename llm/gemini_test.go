package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/ugh/change"
	"github.com/randalmurphal/ugh/draft"
	"github.com/randalmurphal/ugh/prompt"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func checkoutSummary() change.Summary {
	return change.Summary{
		Files: []change.File{
			{Path: "checkout/flow.go", Kind: change.KindModified, Additions: 12, Deletions: 3},
		},
		Diff:        "+func Checkout() {}",
		Fingerprint: "abc123",
	}
}

func geminiReply(text string) map[string]any {
	return map[string]any{
		"candidates": []any{
			map[string]any{
				"content":      map[string]any{"role": "model", "parts": []any{map[string]any{"text": text}}},
				"finishReason": "STOP",
			},
		},
	}
}

func newTestGemini(t *testing.T, handler http.HandlerFunc) *Gemini {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewGemini(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Logger:  quietLogger(),
	})
}

func TestGemini_Generate(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest

	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(geminiReply(
			"```json\n" + `{"title":"Add checkout flow","description":"Adds the flow.","type":"feature","slug":"checkout-flow"}` + "\n```"))
	})

	d, err := g.Generate(context.Background(), checkoutSummary())
	require.NoError(t, err)

	assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, gotBody.Contents, 1)
	require.Len(t, gotBody.Contents[0].Parts, 1)
	assert.Contains(t, gotBody.Contents[0].Parts[0].Text, "- checkout/flow.go (modified, +12 -3)")
	assert.Equal(t, "application/json", gotBody.GenerationConfig.ResponseMimeType)

	assert.Equal(t, draft.Draft{
		Title:       "Add checkout flow",
		Description: "Adds the flow.",
		Type:        draft.TypeFeature,
		Slug:        "checkout-flow",
	}, d)
	assert.Equal(t, "gemini", g.Name())
	assert.Equal(t, DefaultGeminiModel, g.Model())
}

func TestGemini_Failures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind draft.FailureKind
	}{
		{
			name:     "invalid key",
			status:   http.StatusBadRequest,
			body:     `{"error":{"code":400,"message":"API key not valid.","status":"INVALID_ARGUMENT","details":[{"reason":"API_KEY_INVALID"}]}}`,
			wantKind: draft.FailureAuth,
		},
		{
			name:     "forbidden",
			status:   http.StatusForbidden,
			body:     `{"error":{"code":403,"message":"denied"}}`,
			wantKind: draft.FailureAuth,
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     `{"error":{"code":500,"message":"internal"}}`,
			wantKind: draft.FailureNetwork,
		},
		{
			name:     "rate limited",
			status:   http.StatusTooManyRequests,
			body:     `{}`,
			wantKind: draft.FailureNetwork,
		},
		{
			name:     "not json",
			status:   http.StatusOK,
			body:     `<html>`,
			wantKind: draft.FailureMalformed,
		},
		{
			name:     "no candidates",
			status:   http.StatusOK,
			body:     `{"candidates":[]}`,
			wantKind: draft.FailureMalformed,
		},
		{
			name:     "blocked",
			status:   http.StatusOK,
			body:     `{"promptFeedback":{"blockReason":"SAFETY"}}`,
			wantKind: draft.FailureMalformed,
		},
		{
			name:     "reply is prose",
			status:   http.StatusOK,
			body:     `{"candidates":[{"content":{"parts":[{"text":"I cannot help with that"}]}}]}`,
			wantKind: draft.FailureMalformed,
		},
		{
			name:     "reply has no title",
			status:   http.StatusOK,
			body:     `{"candidates":[{"content":{"parts":[{"text":"{\"title\":\"  \",\"type\":\"fix\"}"}]}}]}`,
			wantKind: draft.FailureMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			g := newTestGemini(t, func(w http.ResponseWriter, _ *http.Request) {
				calls++
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := g.Generate(context.Background(), checkoutSummary())
			require.Error(t, err)

			var perr *draft.ProviderError
			require.True(t, errors.As(err, &perr), "want *draft.ProviderError, got %T", err)
			assert.Equal(t, tt.wantKind, perr.Kind)
			assert.Equal(t, "gemini", perr.Provider)
			assert.Equal(t, 1, calls, "provider must make exactly one attempt")
		})
	}
}

func TestGemini_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	g := NewGemini(Config{APIKey: "k", BaseURL: url, Logger: quietLogger()})
	_, err := g.Generate(context.Background(), checkoutSummary())
	assert.Equal(t, draft.FailureNetwork, draft.Classify(err))
}

func TestGemini_NoNetworkWithoutInput(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { calls++ }))
	defer server.Close()

	g := NewGemini(Config{BaseURL: server.URL, Logger: quietLogger()})
	_, err := g.Generate(context.Background(), checkoutSummary())
	assert.Equal(t, draft.FailureAuth, draft.Classify(err))

	g = NewGemini(Config{APIKey: "k", BaseURL: server.URL, Logger: quietLogger()})
	_, err = g.Generate(context.Background(), change.Summary{})
	assert.Equal(t, draft.FailureMalformed, draft.Classify(err))
	assert.ErrorIs(t, err, change.ErrNoChanges)

	assert.Zero(t, calls)
}

func TestGemini_CustomModelAndPrompt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "draft.txt"),
		[]byte("custom {{len .Files}} +{{.Additions}}"), 0o644))

	var gotPath, gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var body generateRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotPrompt = body.Contents[0].Parts[0].Text
		_ = json.NewEncoder(w).Encode(geminiReply(`{"title":"Fix it","type":"fix","slug":""}`))
	}))
	defer server.Close()

	g := NewGemini(Config{
		APIKey:  "k",
		Model:   "gemini-2.5-pro",
		BaseURL: server.URL + "/",
		Prompts: prompt.NewLoader(dir),
		Logger:  quietLogger(),
	})

	d, err := g.Generate(context.Background(), checkoutSummary())
	require.NoError(t, err)
	assert.Equal(t, "/v1beta/models/gemini-2.5-pro:generateContent", gotPath)
	assert.Equal(t, "custom 1 +12", gotPrompt)
	assert.Equal(t, draft.TypeFix, d.Type)
	assert.Equal(t, "fix-it", d.Slug)
}

func TestNew_UnknownFallsBackToGemini(t *testing.T) {
	var logs strings.Builder
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	p := New("openai", Config{Logger: logger})
	assert.Equal(t, "gemini", p.Name())
	assert.Contains(t, logs.String(), "unknown llm provider")

	logs.Reset()
	p = New("Gemini", Config{Logger: logger})
	assert.Equal(t, "gemini", p.Name())
	assert.Empty(t, logs.String())
}

func TestParseDraft(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    draft.Draft
		wantErr bool
	}{
		{
			name: "plain json",
			text: `{"title":"Add export","description":"d","type":"feature","slug":"add-export"}`,
			want: draft.Draft{Title: "Add export", Description: "d", Type: draft.TypeFeature, Slug: "add-export"},
		},
		{
			name: "fenced without language",
			text: "```\n{\"title\":\"Tidy docs\",\"type\":\"quality\",\"slug\":\"tidy-docs\"}\n```",
			want: draft.Draft{Title: "Tidy docs", Type: draft.TypeQuality, Slug: "tidy-docs"},
		},
		{
			name: "prose around object",
			text: "Here you go:\n{\"title\":\"Fix crash\",\"type\":\"bug\",\"slug\":\"Fix Crash!\"}\nThanks",
			want: draft.Draft{Title: "Fix crash", Type: draft.TypeFeature, Slug: "fix-crash"},
		},
		{
			name:    "empty",
			text:    "",
			wantErr: true,
		},
		{
			name:    "missing title",
			text:    `{"description":"only"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDraft(tt.text)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDraft(%q) succeeded, want error", tt.text)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDraft(%q) error = %v", tt.text, err)
			}
			if got != tt.want {
				t.Errorf("ParseDraft(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestRenderPrompt(t *testing.T) {
	sum := checkoutSummary()
	sum.Files = append(sum.Files, change.File{Path: "docs/old.md", Kind: change.KindDeleted, Deletions: 4})
	sum.Truncated = true

	out, err := RenderPrompt(nil, sum)
	require.NoError(t, err)
	assert.Contains(t, out, "Files changed (2, +12 -7):")
	assert.Contains(t, out, "- docs/old.md (deleted, +0 -4)")
	assert.Contains(t, out, "Diff (truncated), indented four spaces:\n    +func Checkout() {}")
}
