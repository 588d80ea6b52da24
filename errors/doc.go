// Package errors provides CLI error patterns with user-friendly messaging.
//
// Core types:
//   - CLIError: Wraps errors with message, suggestion, details and exit code
//   - ErrorMessenger: Interface for customizing error messages
//
// Sentinel errors for common scenarios:
//   - ErrNotAuthenticated: Credentials are missing or rejected
//   - ErrNotInGitRepo: Command requires a git repository
//   - ErrConnectionFailed: Server is unreachable
//   - ErrPermissionDenied: Insufficient permissions
//   - ErrConfigIncomplete: Required settings are missing
//
// Example usage:
//
//	// Wrap a tracker error with default messages
//	if err := createTicket(); err != nil {
//	    return errors.WrapAuthError(err, "jira")
//	}
//
//	// Pick the process exit status
//	os.Exit(int(errors.ExitCodeOf(err)))
package errors
