package change

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/randalmurphal/ugh/git"
)

type fakeWorkspace struct {
	snap git.Snapshot
	err  error
}

func (f fakeWorkspace) Snapshot() (git.Snapshot, error) {
	return f.snap, f.err
}

func sampleSnapshot() git.Snapshot {
	return git.Snapshot{
		Status: []git.StatusEntry{
			{X: ' ', Y: 'M', Path: "checkout/flow.go"},
			{X: '?', Y: '?', Path: "checkout/flow_test.go"},
			{X: 'R', Y: ' ', Path: "cart/new.go", OrigPath: "cart/old.go"},
			{X: 'D', Y: ' ', Path: "legacy.go"},
		},
		NumStats: []git.NumStat{
			{Path: "checkout/flow.go", Added: 10, Deleted: 2},
			{Path: "cart/new.go", Added: 7},
			{Path: "cart/old.go", Deleted: 6},
			{Path: "legacy.go", Deleted: 40},
		},
		Patch: "diff --git a/checkout/flow.go b/checkout/flow.go\n+line\n",
		Blobs: map[string]string{"checkout/flow_test.go": "abc"},
	}
}

func TestSummarize(t *testing.T) {
	s := NewSummarizer(fakeWorkspace{snap: sampleSnapshot()})

	sum, err := s.Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	want := []File{
		{Path: "checkout/flow.go", Kind: KindModified, Additions: 10, Deletions: 2},
		{Path: "checkout/flow_test.go", Kind: KindAdded},
		{Path: "cart/new.go", OldPath: "cart/old.go", Kind: KindRenamed, Additions: 7, Deletions: 6},
		{Path: "legacy.go", Kind: KindDeleted, Deletions: 40},
	}
	if len(sum.Files) != len(want) {
		t.Fatalf("Files = %+v, want %d entries", sum.Files, len(want))
	}
	for i := range want {
		if sum.Files[i] != want[i] {
			t.Errorf("Files[%d] = %+v, want %+v", i, sum.Files[i], want[i])
		}
	}

	if sum.Diff != sampleSnapshot().Patch || sum.Truncated {
		t.Errorf("Diff = %q (truncated %v), want full patch", sum.Diff, sum.Truncated)
	}
	if len(sum.Fingerprint) != 64 {
		t.Errorf("Fingerprint = %q, want 64 hex chars", sum.Fingerprint)
	}

	add, del := sum.Totals()
	if add != 17 || del != 48 {
		t.Errorf("Totals = %d/%d, want 17/48", add, del)
	}
}

func TestSummarize_NoChanges(t *testing.T) {
	s := NewSummarizer(fakeWorkspace{})
	if _, err := s.Summarize(context.Background()); !errors.Is(err, ErrNoChanges) {
		t.Errorf("err = %v, want ErrNoChanges", err)
	}
}

func TestSummarize_WorkspaceError(t *testing.T) {
	boom := errors.New("boom")
	s := NewSummarizer(fakeWorkspace{err: boom})
	if _, err := s.Summarize(context.Background()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
}

func TestSummarize_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewSummarizer(fakeWorkspace{snap: sampleSnapshot()})
	if _, err := s.Summarize(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestSummarize_TruncatesDiff(t *testing.T) {
	snap := sampleSnapshot()
	snap.Patch = strings.Repeat("+0123456789\n", 100)

	full := NewSummarizer(fakeWorkspace{snap: snap})
	short := NewSummarizer(fakeWorkspace{snap: snap}, WithMaxDiffBytes(50))

	a, err := full.Summarize(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	b, err := short.Summarize(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if !b.Truncated {
		t.Error("Truncated = false, want true")
	}
	if len(b.Diff) > 50 || !strings.HasSuffix(b.Diff, "9") {
		t.Errorf("Diff = %q, want cut on a line boundary within 50 bytes", b.Diff)
	}
	if a.Fingerprint != b.Fingerprint {
		t.Error("truncation must not change the fingerprint")
	}
}

func TestSummarize_WithoutDiff(t *testing.T) {
	s := NewSummarizer(fakeWorkspace{snap: sampleSnapshot()}, WithDiff(false))
	sum, err := s.Summarize(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Diff != "" {
		t.Errorf("Diff = %q, want empty", sum.Diff)
	}
}

func TestFingerprint_Sensitivity(t *testing.T) {
	base := FromSnapshot(sampleSnapshot()).Fingerprint

	tests := []struct {
		name   string
		mutate func(*git.Snapshot)
	}{
		{"patch content", func(s *git.Snapshot) { s.Patch += "+another\n" }},
		{"untracked content", func(s *git.Snapshot) { s.Blobs = map[string]string{"checkout/flow_test.go": "def"} }},
		{"line counts", func(s *git.Snapshot) { s.NumStats[0].Added = 11 }},
		{"extra file", func(s *git.Snapshot) {
			s.Status = append(s.Status, git.StatusEntry{X: '?', Y: '?', Path: "z.txt"})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := sampleSnapshot()
			tt.mutate(&snap)
			if got := FromSnapshot(snap).Fingerprint; got == base {
				t.Errorf("fingerprint unchanged after %s change", tt.name)
			}
		})
	}

	if again := FromSnapshot(sampleSnapshot()).Fingerprint; again != base {
		t.Errorf("fingerprint not stable: %q vs %q", base, again)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		x, y byte
		want Kind
	}{
		{'?', '?', KindAdded},
		{'A', ' ', KindAdded},
		{'A', 'M', KindAdded},
		{' ', 'M', KindModified},
		{'M', 'M', KindModified},
		{'T', ' ', KindModified},
		{'D', ' ', KindDeleted},
		{' ', 'D', KindDeleted},
		{'R', ' ', KindRenamed},
		{'R', 'M', KindRenamed},
		{'C', ' ', KindAdded},
		{'U', 'U', KindModified},
	}
	for _, tt := range tests {
		got := kindOf(git.StatusEntry{X: tt.x, Y: tt.y, Path: "f"})
		if got != tt.want {
			t.Errorf("kindOf(%c%c) = %q, want %q", tt.x, tt.y, got, tt.want)
		}
	}
}
