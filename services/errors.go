package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is the stable machine-readable classification of a workflow
// failure. The HTTP layer maps kinds to status codes; the reason string is
// for humans.
type ErrorKind string

const (
	KindInvalidTransition   ErrorKind = "INVALID_TRANSITION"
	KindNotAssigned         ErrorKind = "NOT_ASSIGNED"
	KindAlreadySubmitted    ErrorKind = "ALREADY_SUBMITTED"
	KindReviewNotStarted    ErrorKind = "REVIEW_NOT_STARTED"
	KindInvalidScore        ErrorKind = "INVALID_SCORE"
	KindNoEligibleReviewers ErrorKind = "NO_ELIGIBLE_REVIEWERS"
	KindInvalidRole         ErrorKind = "INVALID_ROLE"
	KindInactiveReviewer    ErrorKind = "INACTIVE_REVIEWER"
	KindNotReadyForDecision ErrorKind = "NOT_READY_FOR_DECISION"
	KindBusy                ErrorKind = "BUSY"
	KindNotFound            ErrorKind = "NOT_FOUND"
)

// Error is a guard failure. Guard failures are detected before any mutation;
// an operation that returns one leaves every entity unchanged. Only Busy is
// transient and safe to retry as-is.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	// Details carries per-item context, e.g. one line per rejected
	// assignment candidate.
	Details []string `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, strings.Join(e.Details, "; "))
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Retryable reports whether the caller may retry the same request unchanged.
func (e *Error) Retryable() bool {
	return e.Kind == KindBusy
}

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the workflow error kind, or "" for foreign errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
