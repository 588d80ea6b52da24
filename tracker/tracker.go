package tracker

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/randalmurphal/ugh/draft"
	"github.com/randalmurphal/ugh/git"
	devhttp "github.com/randalmurphal/ugh/http"
)

// Tracker files tickets in an issue tracker.
type Tracker interface {
	// Name identifies the tracker in logs and messages.
	Name() string

	// CreateTicket files d on board. It sends exactly one create request
	// and never retries.
	CreateTicket(ctx context.Context, d draft.Draft, board string) (TicketRef, error)
}

// TicketRef identifies a created ticket.
type TicketRef struct {
	Key string
	URL string
}

// Kind classifies a tracker failure.
type Kind string

// Failure kinds.
const (
	KindNetwork    Kind = "network"
	KindAuth       Kind = "auth"
	KindValidation Kind = "validation"
)

var (
	// ErrInvalidBoard indicates a board identifier the tracker cannot address.
	ErrInvalidBoard = errors.New("invalid board")

	// ErrMissingKey indicates the tracker accepted the request but replied
	// without a key usable in a branch name.
	ErrMissingKey = errors.New("tracker reply has no usable ticket key")
)

// Error is a classified tracker failure.
type Error struct {
	Tracker string
	Kind    Kind
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Tracker, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind of err. Unclassified errors are treated
// as network failures.
func KindOf(err error) Kind {
	var terr *Error
	if errors.As(err, &terr) {
		return terr.Kind
	}
	return KindNetwork
}

// kindForStatus maps an HTTP status to a failure kind. A zero status means
// no response was received.
func kindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity:
		return KindValidation
	default:
		return KindNetwork
	}
}

// checkKey rejects a reply whose key cannot name a branch.
func checkKey(tracker string, ref TicketRef) (TicketRef, error) {
	if git.CleanKey(ref.Key) == "" {
		return TicketRef{}, &Error{Tracker: tracker, Kind: KindValidation, Err: fmt.Errorf("%w: %q", ErrMissingKey, ref.Key)}
	}
	return ref, nil
}

// httpClientOrDefault returns c, or a client with the shared request
// timeout when c is nil.
func httpClientOrDefault(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: devhttp.DefaultTimeout}
}
