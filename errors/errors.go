package errors

import "errors"

// Common CLI errors with actionable guidance.
var (
	// ErrNotAuthenticated indicates credentials are missing or rejected.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotInGitRepo indicates the command requires a git repository.
	ErrNotInGitRepo = errors.New("not in a git repository")

	// ErrConnectionFailed indicates the server is unreachable.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrPermissionDenied indicates insufficient permissions.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrConfigIncomplete indicates required settings are missing.
	ErrConfigIncomplete = errors.New("configuration incomplete")
)

// ExitCode is the process exit status for a failed command.
type ExitCode int

// Exit codes.
const (
	ExitOK       ExitCode = 0
	ExitFailure  ExitCode = 1 // Unexpected failure
	ExitUsage    ExitCode = 2 // Bad input: no changes, no board, incomplete config
	ExitTracker  ExitCode = 3 // The tracker rejected or never received the ticket
	ExitCheckout ExitCode = 4 // Ticket created but the branch could not be checked out
)

// ExitCodeOf returns the exit code carried by err, ExitOK for nil and
// ExitFailure when err carries none.
func ExitCodeOf(err error) ExitCode {
	if err == nil {
		return ExitOK
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) && cliErr.Code != ExitOK {
		return cliErr.Code
	}
	return ExitFailure
}
