package git

import (
	"strconv"
	"strings"
)

// StatusEntry is one record of `git status --porcelain -z`.
type StatusEntry struct {
	X        byte   // Index status
	Y        byte   // Work tree status
	Path     string // Current path
	OrigPath string // Source path for renames and copies
}

// Untracked reports whether the entry is an untracked file.
func (e StatusEntry) Untracked() bool {
	return e.X == '?'
}

// NumStat is one record of `git diff --numstat -z`.
type NumStat struct {
	Path    string
	Added   int
	Deleted int
	Binary  bool
}

// Snapshot is the raw view of uncommitted work in a repository.
type Snapshot struct {
	Status   []StatusEntry
	NumStats []NumStat
	Patch    string

	// Blobs maps untracked paths to their object IDs so that edits to new
	// files are visible even though they never show up in a diff.
	Blobs map[string]string
}

// Empty reports whether the snapshot has no changes at all.
func (s Snapshot) Empty() bool {
	return len(s.Status) == 0
}

// Snapshot collects status, per-file line counts and the full patch of
// every uncommitted change, staged or not, relative to HEAD. In a
// repository without commits the staged changes are used.
func (g *Context) Snapshot() (Snapshot, error) {
	raw, err := g.runGit("-c", "core.quotePath=false", "status", "--porcelain", "-z", "--untracked-files=all")
	if err != nil {
		return Snapshot{}, &Error{Op: "status", Err: err}
	}

	snap := Snapshot{Status: ParseStatus(raw)}
	if snap.Empty() {
		return snap, nil
	}

	base := []string{"-c", "core.quotePath=false", "diff", "--no-renames", "--no-color", "--no-ext-diff"}
	if g.HasHead() {
		base = append(base, "HEAD")
	} else {
		base = append(base, "--cached")
	}

	numstat, err := g.runGit(append(append([]string{}, base...), "--numstat", "-z")...)
	if err != nil {
		return Snapshot{}, &Error{Op: "diff numstat", Err: err}
	}
	snap.NumStats = ParseNumStat(numstat)

	patch, err := g.runGit(base...)
	if err != nil {
		return Snapshot{}, &Error{Op: "diff", Err: err}
	}
	snap.Patch = patch

	var untracked []string
	for _, e := range snap.Status {
		if e.Untracked() {
			untracked = append(untracked, e.Path)
		}
	}
	if len(untracked) > 0 {
		// Unreadable files (dangling symlinks, permission errors) only
		// weaken the fingerprint; they are not worth failing over.
		out, err := g.runGit(append([]string{"hash-object", "--"}, untracked...)...)
		if err == nil {
			ids := strings.Split(out, "\n")
			if len(ids) == len(untracked) {
				snap.Blobs = make(map[string]string, len(ids))
				for i, id := range ids {
					snap.Blobs[untracked[i]] = strings.TrimSpace(id)
				}
			}
		}
	}

	return snap, nil
}

// ParseStatus parses NUL-separated porcelain v1 status output.
func ParseStatus(raw string) []StatusEntry {
	fields := strings.Split(raw, "\x00")

	var entries []StatusEntry
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		if len(f) < 4 {
			continue
		}
		e := StatusEntry{X: f[0], Y: f[1], Path: f[3:]}
		if e.X == 'R' || e.X == 'C' || e.Y == 'R' || e.Y == 'C' {
			if i+1 < len(fields) {
				e.OrigPath = fields[i+1]
				i++
			}
		}
		entries = append(entries, e)
	}
	return entries
}

// ParseNumStat parses NUL-terminated `--numstat -z` output produced with
// rename detection disabled.
func ParseNumStat(raw string) []NumStat {
	var stats []NumStat
	for _, rec := range strings.Split(raw, "\x00") {
		parts := strings.SplitN(strings.TrimLeft(rec, "\n"), "\t", 3)
		if len(parts) != 3 || parts[2] == "" {
			continue
		}
		s := NumStat{Path: parts[2]}
		if parts[0] == "-" || parts[1] == "-" {
			s.Binary = true
		} else {
			s.Added, _ = strconv.Atoi(parts[0])
			s.Deleted, _ = strconv.Atoi(parts[1])
		}
		stats = append(stats, s)
	}
	return stats
}
