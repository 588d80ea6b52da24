package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type file struct {
	Path      string
	OldPath   string
	Kind      string
	Additions int
	Deletions int
	Binary    bool
}

type vars struct {
	Files     []file
	Additions int
	Deletions int
	Diff      string
	Truncated bool
}

func TestLoader_EmbeddedDraft(t *testing.T) {
	loader := NewLoader(t.TempDir())

	out, err := loader.LoadWithVars(DraftPrompt, vars{
		Files: []file{
			{Path: "checkout/flow.go", Kind: "modified", Additions: 10, Deletions: 2},
			{Path: "cart/new.go", OldPath: "cart/old.go", Kind: "renamed"},
			{Path: "logo.png", Kind: "added", Binary: true},
		},
		Additions: 10,
		Deletions: 2,
		Diff:      "+func Checkout() {}",
		Truncated: true,
	})
	if err != nil {
		t.Fatalf("LoadWithVars failed: %v", err)
	}

	for _, want := range []string{
		"Files changed (3, +10 -2):",
		"- checkout/flow.go (modified, +10 -2)",
		"- cart/new.go (renamed, from cart/old.go, +0 -0)",
		"- logo.png (added, binary)",
		"Diff (truncated), indented four spaces:\n    +func Checkout() {}",
		`"type": "feature|fix|quality"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered prompt missing %q:\n%s", want, out)
		}
	}

	if got := loader.Source(DraftPrompt); got != "embedded" {
		t.Errorf("Source = %q, want embedded", got)
	}
}

func TestLoader_NoDiffSection(t *testing.T) {
	out, err := NewLoader().LoadWithVars(DraftPrompt, vars{Files: []file{{Path: "a.go", Kind: "added"}}})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "Diff") {
		t.Errorf("prompt should omit the diff section when there is no diff:\n%s", out)
	}
}

func TestLoader_Override(t *testing.T) {
	dir := t.TempDir()
	custom := `Summarize {{len .Files}} file(s) for {{"team" | title}}{{if .Diff}}: {{.Diff | indent 2}}{{end}}`
	if err := os.WriteFile(filepath.Join(dir, "draft.txt"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(filepath.Join(t.TempDir(), "missing"), dir)
	out, err := loader.LoadWithVars(DraftPrompt, vars{Files: []file{{Path: "a.go"}}, Diff: "x\ny"})
	if err != nil {
		t.Fatalf("LoadWithVars failed: %v", err)
	}
	if want := "Summarize 1 file(s) for Team:   x\n  y"; out != want {
		t.Errorf("rendered = %q, want %q", out, want)
	}
	if got := loader.Source(DraftPrompt); got != filepath.Join(dir, "draft.txt") {
		t.Errorf("Source = %q, want override path", got)
	}
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.txt"), []byte("{{.Nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	loader := NewLoader(dir)

	if _, err := loader.LoadWithVars("does-not-exist", nil); err == nil {
		t.Error("expected error for missing prompt")
	}
	if _, err := loader.LoadWithVars("broken", nil); err == nil {
		t.Error("expected parse error for broken template")
	}
	if got := loader.Source("does-not-exist"); got != "" {
		t.Errorf("Source = %q, want empty", got)
	}
}

func TestDefaultValue(t *testing.T) {
	if got := defaultValue("fallback", ""); got != "fallback" {
		t.Errorf("defaultValue(empty) = %v", got)
	}
	if got := defaultValue("fallback", nil); got != "fallback" {
		t.Errorf("defaultValue(nil) = %v", got)
	}
	if got := defaultValue("fallback", "set"); got != "set" {
		t.Errorf("defaultValue(set) = %v", got)
	}
}
