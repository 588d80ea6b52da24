package draft

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/randalmurphal/ugh/change"
)

var slugRE = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestBuildHeuristic_Title(t *testing.T) {
	tests := []struct {
		name  string
		files []change.File
		want  string
	}{
		{
			name:  "single added",
			files: []change.File{{Path: "cmd/server/main.go", Kind: change.KindAdded, Additions: 30}},
			want:  "Add main.go",
		},
		{
			name:  "single modified",
			files: []change.File{{Path: "checkout/flow.go", Kind: change.KindModified, Additions: 3}},
			want:  "Update flow.go",
		},
		{
			name:  "single deleted",
			files: []change.File{{Path: "legacy.go", Kind: change.KindDeleted, Deletions: 40}},
			want:  "Remove legacy.go",
		},
		{
			name:  "single renamed",
			files: []change.File{{Path: "cart/new.go", OldPath: "cart/old.go", Kind: change.KindRenamed}},
			want:  "Rename old.go to new.go",
		},
		{
			name: "many files picks most changed",
			files: []change.File{
				{Path: "a.go", Kind: change.KindModified, Additions: 1},
				{Path: "pkg/big.go", Kind: change.KindModified, Additions: 50, Deletions: 10},
				{Path: "c.go", Kind: change.KindModified, Additions: 59},
			},
			want: "Update 3 files including big.go",
		},
		{
			name: "ties keep first",
			files: []change.File{
				{Path: "first.go", Kind: change.KindModified, Additions: 5},
				{Path: "second.go", Kind: change.KindModified, Additions: 5},
			},
			want: "Update 2 files including first.go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := BuildHeuristic(change.Summary{Files: tt.files})
			if d.Title != tt.want {
				t.Errorf("Title = %q, want %q", d.Title, tt.want)
			}
			if d.Slug != strings.Trim(slugFor(tt.want), "-") {
				t.Errorf("Slug = %q, want slug of %q", d.Slug, tt.want)
			}
		})
	}
}

func slugFor(title string) string {
	return regexp.MustCompile(`[^a-z0-9]+`).ReplaceAllString(strings.ToLower(title), "-")
}

func TestBuildHeuristic_Type(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  Type
	}{
		{"plain feature", []string{"checkout/flow.go"}, TypeFeature},
		{"fix directory", []string{"internal/fix/nil_check.go"}, TypeFix},
		{"bug token", []string{"handlers/login-bug.go", "main.go"}, TypeFix},
		{"hotfix branch-like path", []string{"hotfix/payments.go"}, TypeFix},
		{"prefix is not fix", []string{"prefix/trie.go"}, TypeFeature},
		{"debug is not bug", []string{"debug/log.go"}, TypeFeature},
		{"docs only", []string{"README.md", "docs/setup.md"}, TypeQuality},
		{"tests only", []string{"checkout/flow_test.go", "testdata/cart.json"}, TypeQuality},
		{"docs and code", []string{"README.md", "main.go"}, TypeFeature},
		{"fix wins over quality", []string{"docs/bugs.md"}, TypeFix},
		{"camel case fix and bug", []string{"src/fixLoginBug.ts"}, TypeFix},
		{"bug prefix", []string{"internal/bugreport.go"}, TypeFix},
		{"bugfix with digits", []string{"login_bugfix2.go"}, TypeFix},
		{"snake case fix", []string{"src/fix_login.go"}, TypeFix},
		{"upper case hotfix", []string{"HOTFIX/pay.go"}, TypeFix},
		{"suffix is not fix", []string{"strings/suffixTree.go"}, TypeFeature},
		{"fixtures are tests", []string{"testdata/fixtures/cart.json"}, TypeQuality},
		{"camel case debug", []string{"pkg/debugServer.go"}, TypeFeature},
		{"debugger is not bug", []string{"tools/debugger.go"}, TypeFeature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var files []change.File
			for _, p := range tt.paths {
				files = append(files, change.File{Path: p, Kind: change.KindModified})
			}
			if got := BuildHeuristic(change.Summary{Files: files}).Type; got != tt.want {
				t.Errorf("Type = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildHeuristic_Description(t *testing.T) {
	sum := change.Summary{Files: []change.File{
		{Path: "checkout/flow.go", Kind: change.KindModified, Additions: 10, Deletions: 2},
		{Path: "logo.png", Kind: change.KindAdded, Binary: true},
		{Path: "cart/new.go", OldPath: "cart/old.go", Kind: change.KindRenamed},
	}}

	got := BuildHeuristic(sum).Description
	want := strings.Join([]string{
		"Changes across 3 file(s), +10 -2 lines:",
		"",
		"- checkout/flow.go (modified, +10 -2)",
		"- logo.png (added, binary)",
		"- cart/old.go -> cart/new.go (renamed)",
	}, "\n")
	if got != want {
		t.Errorf("Description =\n%s\nwant\n%s", got, want)
	}
}

func TestBuildHeuristic_LongFileList(t *testing.T) {
	var files []change.File
	for i := 0; i < 60; i++ {
		files = append(files, change.File{Path: fmt.Sprintf("f%02d.go", i), Kind: change.KindModified})
	}
	d := BuildHeuristic(change.Summary{Files: files})
	if !strings.HasSuffix(d.Description, "- ... and 10 more") {
		t.Errorf("Description should end with an overflow line, got %q", d.Description[len(d.Description)-40:])
	}
}

func TestBuildHeuristic_AlwaysValid(t *testing.T) {
	kinds := []change.Kind{change.KindAdded, change.KindModified, change.KindDeleted, change.KindRenamed}

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(t, "num_files")
		files := make([]change.File, n)
		for i := range files {
			files[i] = change.File{
				Path:      rapid.StringN(1, 80, -1).Draw(t, "path"),
				OldPath:   rapid.StringN(0, 40, -1).Draw(t, "old_path"),
				Kind:      rapid.SampledFrom(kinds).Draw(t, "kind"),
				Additions: rapid.IntRange(0, 5000).Draw(t, "additions"),
				Deletions: rapid.IntRange(0, 5000).Draw(t, "deletions"),
			}
		}

		d := BuildHeuristic(change.Summary{Files: files})
		if err := d.Validate(); err != nil {
			t.Fatalf("heuristic draft invalid: %v (%+v)", err, d)
		}
		if !slugRE.MatchString(d.Slug) {
			t.Fatalf("slug %q does not match %s", d.Slug, slugRE)
		}
	})
}
