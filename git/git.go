package git

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Context manages git operations for a repository.
type Context struct {
	repoPath string        // Path to the repository root
	workDir  string        // Working directory for commands (defaults to repoPath)
	runner   CommandRunner // Command runner (defaults to ExecRunner)
}

// Option configures Context.
type Option func(*Context)

// NewContext creates a new git context for the repository containing path.
// It validates that the path is inside a git work tree and applies any options.
func NewContext(path string, opts ...Option) (*Context, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	g := &Context{
		repoPath: absPath,
		workDir:  absPath,
		runner:   NewExecRunner(),
	}

	for _, opt := range opts {
		opt(g)
	}

	root, err := g.runGit("rev-parse", "--show-toplevel")
	if err != nil {
		return nil, ErrNotGitRepo
	}
	if root != "" {
		g.repoPath = root
	}

	return g, nil
}

// WithRunner sets a custom command runner for git operations.
// This is primarily used for testing to inject mock command execution.
func WithRunner(runner CommandRunner) Option {
	return func(g *Context) {
		g.runner = runner
	}
}

// RepoPath returns the path to the repository root.
func (g *Context) RepoPath() string {
	return g.repoPath
}

// WorkDir returns the working directory for git commands.
func (g *Context) WorkDir() string {
	return g.workDir
}

// CurrentBranch returns the current branch name.
func (g *Context) CurrentBranch() (string, error) {
	branch, err := g.runGit("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", &Error{Op: "get current branch", Err: err}
	}
	return branch, nil
}

// HasHead reports whether HEAD points at a commit. It is false in a freshly
// initialized repository.
func (g *Context) HasHead() bool {
	_, err := g.runGit("rev-parse", "--verify", "--quiet", "HEAD")
	return err == nil
}

// BranchExists checks if a local branch exists.
func (g *Context) BranchExists(name string) bool {
	_, err := g.runGit("rev-parse", "--verify", "--quiet", "refs/heads/"+name)
	return err == nil
}

// CheckoutNew creates a branch at the current HEAD and switches to it,
// carrying uncommitted changes along. Returns an error wrapping
// ErrBranchExists when the branch is already present.
func (g *Context) CheckoutNew(name string) error {
	if _, err := g.runGit("checkout", "-b", name); err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return &Error{Op: "create branch", Output: err.Error(), Err: ErrBranchExists}
		}
		return &Error{Op: "create branch", Err: err}
	}
	return nil
}

// runGit executes a git command and returns stdout.
func (g *Context) runGit(args ...string) (string, error) {
	return g.runner.Run(g.workDir, "git", args...)
}
