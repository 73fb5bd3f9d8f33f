package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound              = errors.New("record not found")
	ErrItemNotAvailable      = errors.New("item is not available")
	ErrIllegalTransition     = errors.New("illegal status transition")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// IllegalTransitionError reports a rejected status change, including the
// status observed inside the transaction. Matches ErrIllegalTransition
// under errors.Is.
type IllegalTransitionError struct {
	Kind RequestKind
	From RequestStatus
	To   RequestStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s: cannot transition from %s to %s", e.Kind, e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

func NewIllegalTransition(kind RequestKind, from, to RequestStatus) error {
	return &IllegalTransitionError{Kind: kind, From: from, To: to}
}
