// Package change turns the uncommitted work in a git workspace into a
// Summary: the touched files with their change kind and line counts, a
// size-bounded diff, and a fingerprint that identifies the exact content.
//
// Two summaries share a fingerprint only when file list, untracked file
// contents and the full patch are identical; the draft cache relies on this.
package change
