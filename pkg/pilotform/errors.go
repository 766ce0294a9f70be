package pilotform

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned by Submit when a field fails validation; see State().Errors.
	ErrValidation = errors.New("pilot form has invalid fields")
	// ErrSubmissionInProgress is returned by Submit while an earlier submission is outstanding.
	ErrSubmissionInProgress = errors.New("pilot form submission already in progress")
	// ErrSubmissionFailed wraps every server rejection and transport failure.
	ErrSubmissionFailed = errors.New("pilot form submission failed")
	// ErrUnknownField is returned by Update for a field the form does not have.
	ErrUnknownField = errors.New("unknown pilot form field")
)

// StatusError reports a non-2xx answer from the pilot endpoint.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("pilot endpoint responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("pilot endpoint responded with status %d: %s", e.StatusCode, e.Message)
}
