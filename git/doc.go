// Package git provides the git operations ugh needs: inspecting
// uncommitted work and creating the ticket branch.
//
// Core types:
//   - Context: Git repository context
//   - Snapshot: Status, per-file line counts and patch of uncommitted work
//   - CommandRunner: Interface for executing git commands (with mock for testing)
//   - BranchNamer: Renders type/KEY/slug branch names
//
// Example usage:
//
//	gc, err := git.NewContext(".")
//	snap, err := gc.Snapshot()
//	name := git.DefaultBranchNamer().NameFor("fix", "DEMO-7", "null pointer in login")
//	err = gc.CheckoutNew(name)
package git
