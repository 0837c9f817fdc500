package services

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a referenced user, room or message does not exist
var ErrNotFound = errors.New("not found")

// ErrUnauthenticated is returned when an operation needs a logged in actor
var ErrUnauthenticated = errors.New("authentication required")

// ForbiddenError is returned when the actor does not own the entity it is
// trying to change. The reason is shown to the user as is.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return e.Reason
}

// ValidationError collects every problem found in a submitted form
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// add appends a problem to the error
func (e *ValidationError) add(problem string) {
	e.Problems = append(e.Problems, problem)
}

// orNil returns the error only if at least one problem was recorded
func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

// IsForbidden reports whether err is a *ForbiddenError
func IsForbidden(err error) bool {
	var fe *ForbiddenError
	return errors.As(err, &fe)
}

// IsValidation reports whether err is a *ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	errEditRoomForbidden      = &ForbiddenError{Reason: "You are not allowed to edit this room"}
	errDeleteRoomForbidden    = &ForbiddenError{Reason: "You are not allowed to delete this room"}
	errDeleteMessageForbidden = &ForbiddenError{Reason: "You are not allowed to delete this message"}
)
