package draft

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/randalmurphal/ugh/change"
	"github.com/randalmurphal/ugh/git"
)

// maxListedFiles bounds the bullet list in a heuristic description.
const maxListedFiles = 50

var (
	// Words split at separators, case changes and digit runs:
	// fixLoginBug2 yields fix, Login, Bug, 2.
	pathTokens = regexp.MustCompile(`[A-Z]*[a-z]+|[A-Z]+|[0-9]+`)

	fixTokens = map[string]bool{"patch": true, "patches": true}

	// Words that start or end with fix/bug without being about fixes.
	notFixTokens = map[string]bool{
		"prefix": true, "prefixes": true, "suffix": true, "suffixes": true,
		"affix": true, "infix": true, "postfix": true,
		"fixture": true, "fixtures": true, "debug": true, "debugs": true,
	}

	docExts  = map[string]bool{".md": true, ".markdown": true, ".rst": true, ".txt": true, ".adoc": true}
	docDirs  = map[string]bool{"docs": true, "doc": true, "documentation": true}
	testDirs = map[string]bool{"test": true, "tests": true, "testdata": true, "__tests__": true, "spec": true}
)

// BuildHeuristic derives a draft from the summary alone. It never fails and
// never touches the network.
func BuildHeuristic(sum change.Summary) Draft {
	title := heuristicTitle(sum.Files)
	return Draft{
		Title:       capTitle(title),
		Description: heuristicDescription(sum),
		Type:        heuristicType(sum.Files),
		Slug:        capSlug(git.Slugify(title)),
	}
}

func heuristicTitle(files []change.File) string {
	if len(files) == 0 {
		return "Update project files"
	}

	most := files[0]
	for _, f := range files[1:] {
		if f.Churn() > most.Churn() {
			most = f
		}
	}
	name := path.Base(most.Path)

	if len(files) > 1 {
		return fmt.Sprintf("Update %d files including %s", len(files), name)
	}

	switch most.Kind {
	case change.KindAdded:
		return "Add " + name
	case change.KindDeleted:
		return "Remove " + name
	case change.KindRenamed:
		return "Rename " + path.Base(most.OldPath) + " to " + name
	default:
		return "Update " + name
	}
}

func heuristicType(files []change.File) Type {
	if len(files) == 0 {
		return TypeFeature
	}

	quality := true
	for _, f := range files {
		for _, p := range []string{f.Path, f.OldPath} {
			for _, tok := range pathTokens.FindAllString(p, -1) {
				if isFixToken(strings.ToLower(tok)) {
					return TypeFix
				}
			}
		}
		if !isDocOrTest(f.Path) {
			quality = false
		}
	}
	if quality {
		return TypeQuality
	}
	return TypeFeature
}

func isFixToken(tok string) bool {
	if notFixTokens[tok] {
		return false
	}
	if fixTokens[tok] {
		return true
	}
	for _, w := range []string{"fix", "bug"} {
		if strings.HasPrefix(tok, w) || strings.HasSuffix(tok, w) {
			return true
		}
	}
	return false
}

func isDocOrTest(p string) bool {
	lower := strings.ToLower(p)
	base := path.Base(lower)
	ext := path.Ext(base)

	if docExts[ext] || strings.HasPrefix(base, "readme") || strings.HasPrefix(base, "changelog") {
		return true
	}
	if strings.HasSuffix(base, "_test.go") || strings.HasPrefix(base, "test_") ||
		strings.Contains(base, ".test.") || strings.Contains(base, ".spec.") {
		return true
	}
	for _, dir := range strings.Split(path.Dir(lower), "/") {
		if docDirs[dir] || testDirs[dir] {
			return true
		}
	}
	return false
}

func heuristicDescription(sum change.Summary) string {
	var b strings.Builder
	add, del := sum.Totals()
	fmt.Fprintf(&b, "Changes across %d file(s), +%d -%d lines:\n\n", len(sum.Files), add, del)

	for i, f := range sum.Files {
		if i == maxListedFiles {
			fmt.Fprintf(&b, "- ... and %d more\n", len(sum.Files)-maxListedFiles)
			break
		}
		name := f.Path
		if f.Kind == change.KindRenamed && f.OldPath != "" {
			name = f.OldPath + " -> " + f.Path
		}
		switch {
		case f.Binary:
			fmt.Fprintf(&b, "- %s (%s, binary)\n", name, f.Kind)
		case f.Churn() > 0:
			fmt.Fprintf(&b, "- %s (%s, +%d -%d)\n", name, f.Kind, f.Additions, f.Deletions)
		default:
			fmt.Fprintf(&b, "- %s (%s)\n", name, f.Kind)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
