package git

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Branch types accepted as the first path segment of a branch name.
const (
	TypeFeature = "feature"
	TypeFix     = "fix"
	TypeQuality = "quality"
)

// DefaultSlugLength is the maximum slug length used by DefaultBranchNamer.
const DefaultSlugLength = 50

// EmptySlug replaces a slug that sanitizes to nothing.
const EmptySlug = "summary"

var (
	slugApostrophes = regexp.MustCompile(`['’]`)
	slugSeparators  = regexp.MustCompile(`[^a-z0-9]+`)
	keyInvalid      = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	keyDots         = regexp.MustCompile(`\.{2,}`)
)

// BranchNamer generates branch names of the form type/KEY/slug.
type BranchNamer struct {
	DefaultType   string // Type used when the requested one is not allowed
	MaxSlugLength int    // Maximum slug length in bytes
}

// DefaultBranchNamer returns a namer with default settings.
func DefaultBranchNamer() *BranchNamer {
	return &BranchNamer{
		DefaultType:   TypeFeature,
		MaxSlugLength: DefaultSlugLength,
	}
}

// NameFor renders a branch name for a ticket. It is deterministic: the same
// inputs always produce the same name.
// Example: "feature", "DEMO-123", "Update checkout flow" -> "feature/DEMO-123/update-checkout-flow"
func (n *BranchNamer) NameFor(branchType, ticketKey, slug string) string {
	return n.normalizeType(branchType) + "/" + CleanKey(ticketKey) + "/" + n.cleanSlug(slug)
}

func (n *BranchNamer) normalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	switch t {
	case TypeFeature, TypeFix, TypeQuality:
		return t
	}
	if n.DefaultType != "" {
		return n.DefaultType
	}
	return TypeFeature
}

func (n *BranchNamer) cleanSlug(s string) string {
	slug := Slugify(s)
	if n.MaxSlugLength > 0 && len(slug) > n.MaxSlugLength {
		slug = strings.TrimRight(slug[:n.MaxSlugLength], "-")
	}
	if slug == "" {
		return EmptySlug
	}
	return slug
}

// CleanKey strips characters and suffixes git refuses in a ref name
// component. An empty result means the key cannot name a branch.
func CleanKey(key string) string {
	key = keyInvalid.ReplaceAllString(strings.TrimSpace(key), "")
	key = keyDots.ReplaceAllString(key, ".")
	for {
		trimmed := strings.Trim(key, ".-")
		trimmed = strings.TrimSuffix(trimmed, ".lock")
		if trimmed == key {
			return key
		}
		key = trimmed
	}
}

// Slugify converts a string to a lowercase, dash-separated ASCII slug.
// Accents are folded ("café" -> "cafe"), apostrophes are dropped and any
// other run of non-alphanumerics becomes a single dash.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	s = strings.ToLower(s)
	s = slugApostrophes.ReplaceAllString(s, "")
	s = slugSeparators.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}
