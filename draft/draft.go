package draft

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/randalmurphal/ugh/git"
)

// MaxTitleLength is the longest title, in runes, a draft may carry. It
// matches the Jira summary field limit.
const MaxTitleLength = 255

// Type is the suggested kind of work, also used as the branch prefix.
type Type string

// Draft types.
const (
	TypeFeature Type = git.TypeFeature
	TypeFix     Type = git.TypeFix
	TypeQuality Type = git.TypeQuality
)

// ParseType returns the Type named by s, case-insensitively.
func ParseType(s string) (Type, bool) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeFeature, TypeFix, TypeQuality:
		return t, true
	}
	return "", false
}

// Provenance records where a draft came from. It only affects messaging.
type Provenance string

// Provenance values.
const (
	ProvenanceCached    Provenance = "cached"
	ProvenanceGenerated Provenance = "generated"
	ProvenanceHeuristic Provenance = "heuristic"
)

// Draft is ticket content prior to submission to a tracker.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        Type   `json:"type"`
	Slug        string `json:"slug"`
}

var (
	slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	whitespace  = regexp.MustCompile(`\s+`)

	// ErrEmptyTitle indicates a draft without a usable title.
	ErrEmptyTitle = errors.New("draft title is empty")
)

// Validate checks every draft invariant without modifying anything.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTitle
	}
	if n := utf8.RuneCountInString(d.Title); n > MaxTitleLength {
		return fmt.Errorf("draft title is %d characters, limit is %d", n, MaxTitleLength)
	}
	switch d.Type {
	case TypeFeature, TypeFix, TypeQuality:
	default:
		return fmt.Errorf("draft type %q is not one of feature, fix, quality", d.Type)
	}
	if !slugPattern.MatchString(d.Slug) {
		return fmt.Errorf("draft slug %q is not lowercase dash-separated alphanumerics", d.Slug)
	}
	if len(d.Slug) > git.DefaultSlugLength {
		return fmt.Errorf("draft slug is %d bytes, limit is %d", len(d.Slug), git.DefaultSlugLength)
	}
	return nil
}

// Normalize repairs what can be repaired in a draft from an untrusted
// source: the title is collapsed to one line and capped, an unknown type
// becomes feature, and the slug is re-sanitized (falling back to the title).
// Only a missing title is an error.
func Normalize(d Draft) (Draft, error) {
	title := strings.TrimSpace(whitespace.ReplaceAllString(d.Title, " "))
	if title == "" {
		return Draft{}, ErrEmptyTitle
	}
	title = capTitle(title)

	t, ok := ParseType(string(d.Type))
	if !ok {
		t = TypeFeature
	}

	slug := git.Slugify(d.Slug)
	if slug == "" {
		slug = git.Slugify(title)
	}

	return Draft{
		Title:       title,
		Description: strings.TrimSpace(d.Description),
		Type:        t,
		Slug:        capSlug(slug),
	}, nil
}

func capTitle(title string) string {
	if utf8.RuneCountInString(title) > MaxTitleLength {
		title = strings.TrimSpace(string([]rune(title)[:MaxTitleLength]))
	}
	return title
}

func capSlug(slug string) string {
	if len(slug) > git.DefaultSlugLength {
		slug = strings.TrimRight(slug[:git.DefaultSlugLength], "-")
	}
	if slug == "" {
		return git.EmptySlug
	}
	return slug
}
