package draft

import (
	"context"
	"errors"
	"fmt"

	"github.com/randalmurphal/ugh/change"
)

// Provider turns a change summary into a draft, typically by calling a
// hosted generative-text API.
type Provider interface {
	// Name identifies the provider in logs and messages.
	Name() string

	// Generate makes exactly one attempt. Failures should be returned as
	// *ProviderError so the caller can tell the kinds apart.
	Generate(ctx context.Context, summary change.Summary) (Draft, error)
}

// FailureKind classifies a provider failure.
type FailureKind string

// Provider failure kinds.
const (
	FailureNetwork   FailureKind = "network"
	FailureAuth      FailureKind = "auth"
	FailureMalformed FailureKind = "malformed_response"
)

// ProviderError is a classified provider failure.
type ProviderError struct {
	Provider string
	Kind     FailureKind
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError builds a ProviderError.
func NewProviderError(provider string, kind FailureKind, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}

// Classify returns the failure kind of err. Errors that were not produced
// as *ProviderError are treated as transport failures.
func Classify(err error) FailureKind {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return FailureNetwork
}
