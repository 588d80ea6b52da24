package jira

import "testing"

func TestMarkdownToWiki(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"heading", "## Summary", "h2. Summary"},
		{"bold", "a **bold** move", "a *bold* move"},
		{"strike", "~~old~~", "-old-"},
		{"inline code", "call `Pay()`", "call {{Pay()}}"},
		{"link", "[docs](https://example.com)", "[docs|https://example.com]"},
		{"bullets", "- one\n+ two", "* one\n* two"},
		{"numbered", "1. one\n2. two", "# one\n# two"},
		{"rule", "---", "----"},
		{"quote", "> a\n> b\nafter", "{quote}\na\nb\n{quote}\nafter"},
		{"code block", "```go\nx := `raw` **not bold**\n```", "{code:go}\nx := `raw` **not bold**\n{code}"},
		{"code block without language", "```\nplain\n```", "{code}\nplain\n{code}"},
		{"plain", "Changes across 2 files", "Changes across 2 files"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MarkdownToWiki(tt.input); got != tt.want {
				t.Errorf("MarkdownToWiki(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRenderDescription(t *testing.T) {
	if got := RenderDescription(APIVersionV2, "- a"); got != "* a" {
		t.Errorf("v2 description = %v, want wiki", got)
	}
	if _, ok := RenderDescription(APIVersionV3, "- a").(*ADFDocument); !ok {
		t.Error("v3 description should be an ADF document")
	}
	if got := RenderDescription(APIVersionV3, "  \n"); got != nil {
		t.Errorf("blank description = %v, want nil", got)
	}
}
