package change

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/randalmurphal/ugh/git"
)

// DefaultMaxDiffBytes bounds the diff text carried in a Summary.
const DefaultMaxDiffBytes = 12000

// ErrNoChanges indicates the workspace has nothing staged, modified or untracked.
var ErrNoChanges = errors.New("no uncommitted changes found")

// Kind classifies how a file changed relative to HEAD.
type Kind string

// Change kinds.
const (
	KindAdded    Kind = "added"
	KindModified Kind = "modified"
	KindDeleted  Kind = "deleted"
	KindRenamed  Kind = "renamed"
)

// File is one touched path.
type File struct {
	Path      string
	OldPath   string // Set for renames
	Kind      Kind
	Additions int
	Deletions int
	Binary    bool
}

// Churn is the number of changed lines.
func (f File) Churn() int {
	return f.Additions + f.Deletions
}

// Summary describes the uncommitted work in a workspace.
type Summary struct {
	Files       []File
	Diff        string // Possibly truncated patch text
	Truncated   bool   // Diff was cut to fit the size bound
	Fingerprint string // Hex SHA-256 of the file records and the full patch
}

// Empty reports whether the summary lists no files.
func (s Summary) Empty() bool {
	return len(s.Files) == 0
}

// Totals returns the summed additions and deletions.
func (s Summary) Totals() (additions, deletions int) {
	for _, f := range s.Files {
		additions += f.Additions
		deletions += f.Deletions
	}
	return additions, deletions
}

// Workspace is the capability the summarizer needs from git.
type Workspace interface {
	Snapshot() (git.Snapshot, error)
}

// Summarizer builds a Summary from a Workspace.
type Summarizer struct {
	ws           Workspace
	includeDiff  bool
	maxDiffBytes int
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithMaxDiffBytes bounds the diff carried in the summary. Values <= 0 keep
// the default.
func WithMaxDiffBytes(n int) Option {
	return func(s *Summarizer) {
		if n > 0 {
			s.maxDiffBytes = n
		}
	}
}

// WithDiff controls whether the patch text is included at all. The
// fingerprint always covers the full patch.
func WithDiff(include bool) Option {
	return func(s *Summarizer) {
		s.includeDiff = include
	}
}

// NewSummarizer creates a Summarizer over ws.
func NewSummarizer(ws Workspace, opts ...Option) *Summarizer {
	s := &Summarizer{
		ws:           ws,
		includeDiff:  true,
		maxDiffBytes: DefaultMaxDiffBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize inspects the workspace. It returns ErrNoChanges when there is
// nothing uncommitted.
func (s *Summarizer) Summarize(ctx context.Context) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	snap, err := s.ws.Snapshot()
	if err != nil {
		return Summary{}, fmt.Errorf("inspect workspace: %w", err)
	}
	if snap.Empty() {
		return Summary{}, ErrNoChanges
	}

	sum := FromSnapshot(snap)
	if !s.includeDiff {
		sum.Diff = ""
		sum.Truncated = snap.Patch != ""
		return sum, nil
	}
	sum.Diff, sum.Truncated = truncate(snap.Patch, s.maxDiffBytes)
	return sum, nil
}

// FromSnapshot converts a git snapshot into a Summary carrying the full patch.
func FromSnapshot(snap git.Snapshot) Summary {
	stats := make(map[string]git.NumStat, len(snap.NumStats))
	for _, st := range snap.NumStats {
		stats[st.Path] = st
	}

	files := make([]File, 0, len(snap.Status))
	for _, e := range snap.Status {
		f := File{Path: e.Path, Kind: kindOf(e)}
		if f.Kind == KindRenamed {
			f.OldPath = e.OrigPath
		}
		if st, ok := stats[e.Path]; ok {
			f.Additions, f.Binary = st.Added, st.Binary
			if f.Kind != KindRenamed {
				f.Deletions = st.Deleted
			}
		}
		if f.Kind == KindRenamed {
			if st, ok := stats[e.OrigPath]; ok {
				f.Deletions = st.Deleted
				f.Binary = f.Binary || st.Binary
			}
		}
		files = append(files, f)
	}

	return Summary{
		Files:       files,
		Diff:        snap.Patch,
		Fingerprint: fingerprint(files, snap),
	}
}

func kindOf(e git.StatusEntry) Kind {
	switch {
	case e.Untracked():
		return KindAdded
	case e.X == 'R' || e.Y == 'R':
		return KindRenamed
	case e.X == 'A' || e.X == 'C' || e.Y == 'C':
		return KindAdded
	case e.X == 'D' || e.Y == 'D':
		return KindDeleted
	default:
		return KindModified
	}
}

func fingerprint(files []File, snap git.Snapshot) string {
	h := sha256.New()
	for _, f := range files {
		writeFields(h, string(f.Kind), f.Path, f.OldPath,
			strconv.Itoa(f.Additions), strconv.Itoa(f.Deletions))
	}

	paths := make([]string, 0, len(snap.Blobs))
	for p := range snap.Blobs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		writeFields(h, "blob", p, snap.Blobs[p])
	}

	io.WriteString(h, "\n")
	io.WriteString(h, snap.Patch)
	return hex.EncodeToString(h.Sum(nil))
}

func writeFields(w io.Writer, fields ...string) {
	io.WriteString(w, strings.Join(fields, "\x00"))
	io.WriteString(w, "\n")
}

// truncate cuts s to at most max bytes on a line boundary when possible.
func truncate(s string, max int) (string, bool) {
	if max <= 0 || len(s) <= max {
		return s, false
	}
	cut := s[:max]
	if i := strings.LastIndexByte(cut, '\n'); i > 0 {
		cut = cut[:i]
	}
	for !utf8.ValidString(cut) && len(cut) > 0 {
		cut = cut[:len(cut)-1]
	}
	return cut, true
}
