package git

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// CommandRunner executes external commands on behalf of a Context.
type CommandRunner interface {
	// Run executes name with args in dir and returns stdout with the
	// trailing newline removed.
	Run(dir, name string, args ...string) (string, error)
}

// CommandError is returned by ExecRunner when a command exits non-zero.
type CommandError struct {
	Name   string
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return fmt.Sprintf("%s %s: %v", e.Name, strings.Join(e.Args, " "), e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// NewExecRunner returns a runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements CommandRunner.
func (r *ExecRunner) Run(dir, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	// Only the line terminator is trimmed: porcelain output starts with
	// significant spaces.
	out := strings.TrimRight(stdout.String(), "\r\n")
	if err != nil {
		return out, &CommandError{
			Name:   name,
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return out, nil
}

// mockResponse is one canned reply of a SequentialMockRunner.
type mockResponse struct {
	output string
	err    error
}

// SequentialMockRunner replays canned outputs in the order they were added
// and records every call it receives.
type SequentialMockRunner struct {
	mu        sync.Mutex
	responses []mockResponse
	Calls     [][]string
}

// NewSequentialMockRunner returns an empty mock runner.
func NewSequentialMockRunner() *SequentialMockRunner {
	return &SequentialMockRunner{}
}

// AddOutput queues a reply.
func (m *SequentialMockRunner) AddOutput(output string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockResponse{output: output, err: err})
}

// AddOutputError queues a failing reply whose error text is stderr.
// A nil err is replaced with a generic exit failure.
func (m *SequentialMockRunner) AddOutputError(output, stderr string, err error) {
	if err == nil {
		err = errors.New("exit status 1")
	}
	m.AddOutput(output, &CommandError{Name: "git", Stderr: stderr, Err: err})
}

// Run implements CommandRunner.
func (m *SequentialMockRunner) Run(dir, name string, args ...string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, append([]string{name}, args...))
	if len(m.responses) == 0 {
		return "", fmt.Errorf("unexpected call: %s %s", name, strings.Join(args, " "))
	}
	r := m.responses[0]
	m.responses = m.responses[1:]
	return r.output, r.err
}
