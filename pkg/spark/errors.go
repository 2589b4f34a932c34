package spark

import (
	"errors"
	"fmt"

	xe "github.com/sparkdock/sparkdock/pkg/errors"
)

type wrappingError struct {
	message  string
	causedBy error
}

func as[E error](err error) bool {
	if err == nil {
		return false
	}
	p := new(E)
	return errors.As(err, p)
}

func format(e struct {
	message  string
	causedBy error
}) string {
	if e.causedBy == nil {
		return e.message
	}
	if e.message == "" {
		return fmt.Sprintf("caused by: %+v", e.causedBy)
	}

	return fmt.Sprintf("%s / caused by: %+v", e.message, e.causedBy)
}

// SubmissionOptions do not describe a submittable application.
type ErrValidation wrappingError

var AsValidationError = as[*ErrValidation]

func NewValidation(message string) error {
	return xe.WrapAsOuter(&ErrValidation{message: message}, 1)
}

func NewValidationCausedBy(message string, err error) error {
	return xe.WrapAsOuter(&ErrValidation{message: message, causedBy: err}, 1)
}

func (e *ErrValidation) Error() string {
	return format(*e)
}

func (e *ErrValidation) Unwrap() error {
	return e.causedBy
}

// The operation refuses to run against an application in its current status.
type ErrPrecondition wrappingError

var AsPreconditionError = as[*ErrPrecondition]

func NewPrecondition(message string) error {
	return xe.WrapAsOuter(&ErrPrecondition{message: message}, 1)
}

func (e *ErrPrecondition) Error() string {
	return format(*e)
}

func (e *ErrPrecondition) Unwrap() error {
	return e.causedBy
}

// A log stream dropped before the application reached a terminal status.
//
// The caller decides whether to re-request the log; it is not retried here.
type ErrStreamInterrupted wrappingError

var AsStreamInterruptedError = as[*ErrStreamInterrupted]

func NewStreamInterrupted(message string) error {
	return xe.WrapAsOuter(&ErrStreamInterrupted{message: message}, 1)
}

func NewStreamInterruptedCausedBy(message string, err error) error {
	return xe.WrapAsOuter(&ErrStreamInterrupted{message: message, causedBy: err}, 1)
}

func (e *ErrStreamInterrupted) Error() string {
	return format(*e)
}

func (e *ErrStreamInterrupted) Unwrap() error {
	return e.causedBy
}
