package errors

import (
	"fmt"
	"strings"
)

// CLIError wraps an error with user-friendly context and suggestions.
type CLIError struct {
	// Err is the underlying error
	Err error

	// Message is a user-friendly description of what went wrong
	Message string

	// Suggestion is an actionable hint for the user
	Suggestion string

	// Details provides additional context (optional)
	Details string

	// Code is the exit status; zero means ExitFailure
	Code ExitCode
}

func (e *CLIError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Details != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Details)
	}

	if e.Suggestion != "" {
		sb.WriteString("\n\n")
		sb.WriteString(e.Suggestion)
	}

	return sb.String()
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// ErrorMessenger provides customizable error messages.
type ErrorMessenger interface {
	// AuthErrorMessage returns the message and suggestion when a service
	// rejects or lacks credentials.
	AuthErrorMessage(service string) (message, suggestion string)

	// PermissionDeniedMessage returns the message and suggestion for permission errors.
	PermissionDeniedMessage(service string) (message, suggestion string)

	// ConnectionErrorMessage returns the message and suggestion for connection errors.
	// The serverURL parameter is the URL that failed to connect.
	ConnectionErrorMessage(serverURL string) (message, suggestion string)

	// TLSErrorMessage returns the message and suggestion for TLS/certificate errors.
	TLSErrorMessage(serverURL string) (message, suggestion string)

	// TimeoutErrorMessage returns the message and suggestion for timeout errors.
	TimeoutErrorMessage(serverURL string) (message, suggestion string)

	// NotInGitRepoMessage returns the message and suggestion for git repo errors.
	NotInGitRepoMessage() (message, suggestion string)

	// ConfigIncompleteMessage returns the message and suggestion when
	// required settings are missing.
	ConfigIncompleteMessage(missing []string) (message, suggestion string)
}

// credentialKeys names the settings holding each service's credentials.
var credentialKeys = map[string]string{
	"jira":   "jira_email and jira_token",
	"github": "github_token",
	"gitlab": "gitlab_token",
	"gemini": "llm_api_key",
}

// DefaultMessenger provides the ugh error messages.
type DefaultMessenger struct{}

func (m DefaultMessenger) AuthErrorMessage(service string) (string, string) {
	keys, ok := credentialKeys[service]
	if !ok {
		keys = "the credentials"
	}
	return fmt.Sprintf("%s rejected the credentials.", serviceTitle(service)),
		fmt.Sprintf("Check %s with 'ugh config show', or run 'ugh config init'.", keys)
}

func (m DefaultMessenger) PermissionDeniedMessage(service string) (string, string) {
	return fmt.Sprintf("%s denied permission for this action.", serviceTitle(service)),
		"Check that your account can create issues in the selected project."
}

func (m DefaultMessenger) ConnectionErrorMessage(serverURL string) (string, string) {
	return fmt.Sprintf("Cannot connect to server at %s", serverURL),
		"Check that:\n  - The URL is correct ('ugh config show')\n  - Your network connection is working"
}

func (m DefaultMessenger) TLSErrorMessage(serverURL string) (string, string) {
	return fmt.Sprintf("TLS/certificate error connecting to %s", serverURL),
		"Check that the server certificate is valid."
}

func (m DefaultMessenger) TimeoutErrorMessage(serverURL string) (string, string) {
	return fmt.Sprintf("Connection to %s timed out", serverURL),
		"The server may be overloaded or unreachable.\nTry again in a moment."
}

func (m DefaultMessenger) NotInGitRepoMessage() (string, string) {
	return "This command must be run from within a git repository.",
		"Change into the repository holding your work and run it again."
}

func (m DefaultMessenger) ConfigIncompleteMessage(missing []string) (string, string) {
	return fmt.Sprintf("Missing required settings: %s", strings.Join(missing, ", ")),
		"Run 'ugh config init', or set them with 'ugh config set KEY VALUE' or UGH_<KEY> environment variables."
}

func serviceTitle(service string) string {
	switch service {
	case "":
		return "The server"
	case "github":
		return "GitHub"
	case "gitlab":
		return "GitLab"
	default:
		return strings.ToUpper(service[:1]) + service[1:]
	}
}

// WrapConfig configures error wrapping behavior.
type WrapConfig struct {
	Messenger ErrorMessenger
}

// Option configures WrapConfig.
type Option func(*WrapConfig)

// WithMessenger sets a custom error messenger.
func WithMessenger(m ErrorMessenger) Option {
	return func(c *WrapConfig) {
		c.Messenger = m
	}
}

func getMessenger(opts []Option) ErrorMessenger {
	cfg := &WrapConfig{
		Messenger: DefaultMessenger{},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg.Messenger
}

// WrapAuthError wraps authentication and permission errors from service
// with helpful guidance. Other errors are returned unchanged.
func WrapAuthError(err error, service string, opts ...Option) error {
	if err == nil {
		return nil
	}

	messenger := getMessenger(opts)

	if IsAuthError(err) {
		msg, suggestion := messenger.AuthErrorMessage(service)
		return &CLIError{
			Err:        fmt.Errorf("%w: %w", ErrNotAuthenticated, err),
			Message:    msg,
			Suggestion: suggestion,
		}
	}

	if IsPermissionError(err) {
		msg, suggestion := messenger.PermissionDeniedMessage(service)
		return &CLIError{
			Err:        fmt.Errorf("%w: %w", ErrPermissionDenied, err),
			Message:    msg,
			Details:    err.Error(),
			Suggestion: suggestion,
		}
	}

	return err
}

// WrapConnectionError wraps connection-related errors with helpful guidance.
func WrapConnectionError(err error, serverURL string, opts ...Option) error {
	if err == nil {
		return nil
	}

	errStr := strings.ToLower(err.Error())
	messenger := getMessenger(opts)

	// Check for TLS/certificate errors
	if strings.Contains(errStr, "certificate") || strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") {
		msg, suggestion := messenger.TLSErrorMessage(serverURL)
		return &CLIError{
			Err:        fmt.Errorf("%w: %w", ErrConnectionFailed, err),
			Message:    msg,
			Details:    err.Error(),
			Suggestion: suggestion,
		}
	}

	// Check for timeout
	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
		msg, suggestion := messenger.TimeoutErrorMessage(serverURL)
		return &CLIError{
			Err:        fmt.Errorf("%w: %w", ErrConnectionFailed, err),
			Message:    msg,
			Suggestion: suggestion,
		}
	}

	if IsConnectionError(err) {
		msg, suggestion := messenger.ConnectionErrorMessage(serverURL)
		return &CLIError{
			Err:        fmt.Errorf("%w: %w", ErrConnectionFailed, err),
			Message:    msg,
			Details:    err.Error(),
			Suggestion: suggestion,
		}
	}

	return err
}

// NewNotInGitRepoError creates an error for commands that require a git repository.
func NewNotInGitRepoError(opts ...Option) error {
	messenger := getMessenger(opts)
	msg, suggestion := messenger.NotInGitRepoMessage()
	return &CLIError{
		Err:        ErrNotInGitRepo,
		Message:    msg,
		Suggestion: suggestion,
		Code:       ExitUsage,
	}
}

// NewConfigIncompleteError creates an error listing missing settings.
func NewConfigIncompleteError(missing []string, opts ...Option) error {
	messenger := getMessenger(opts)
	msg, suggestion := messenger.ConfigIncompleteMessage(missing)
	return &CLIError{
		Err:        ErrConfigIncomplete,
		Message:    msg,
		Suggestion: suggestion,
		Code:       ExitUsage,
	}
}

// WithCode sets the exit code on err, wrapping it in a CLIError if needed.
func WithCode(err error, code ExitCode) error {
	if err == nil {
		return nil
	}
	if cliErr, ok := err.(*CLIError); ok {
		cliErr.Code = code
		return cliErr
	}
	return &CLIError{Err: err, Message: err.Error(), Code: code}
}
