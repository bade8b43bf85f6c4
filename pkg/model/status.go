package model

import (
	"errors"
	"fmt"
)

// Status is the result code reported to callers of get/set.
type Status int32

const (
	// StatusOK indicates the operation completed successfully.
	StatusOK Status = 0

	// StatusTryAgain indicates a transient failure.
	StatusTryAgain Status = 1

	// StatusInvalidArg indicates a malformed request, an unknown property or
	// a rejected store write.
	StatusInvalidArg Status = 2

	// StatusNotAvailable indicates the property cannot be written right now,
	// e.g. HVAC controls while HVAC power is off.
	StatusNotAvailable Status = 3

	// StatusAccessDenied indicates the caller may not access the property.
	StatusAccessDenied Status = 4

	// StatusInternalError indicates an unexpected failure.
	StatusInternalError Status = 5
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusTryAgain:
		return "TRY_AGAIN"
	case StatusInvalidArg:
		return "INVALID_ARG"
	case StatusNotAvailable:
		return "NOT_AVAILABLE"
	case StatusAccessDenied:
		return "ACCESS_DENIED"
	case StatusInternalError:
		return "INTERNAL_ERROR"
	default:
		return "UNKNOWN"
	}
}

// IsSuccess returns true if the status indicates success.
func (s Status) IsSuccess() bool {
	return s == StatusOK
}

// StatusError is an error carrying a Status code.
type StatusError struct {
	Status  Status
	Message string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Message == "" {
		return e.Status.String()
	}
	return e.Status.String() + ": " + e.Message
}

// Is matches sentinel errors by status code, so that
// errors.Is(Errorf(StatusInvalidArg, ...), ErrInvalidArg) holds.
func (e *StatusError) Is(target error) bool {
	t, ok := target.(*StatusError)
	if !ok {
		return false
	}
	return t.Message == "" && t.Status == e.Status
}

// Sentinel status errors.
var (
	ErrTryAgain      = &StatusError{Status: StatusTryAgain}
	ErrInvalidArg    = &StatusError{Status: StatusInvalidArg}
	ErrNotAvailable  = &StatusError{Status: StatusNotAvailable}
	ErrAccessDenied  = &StatusError{Status: StatusAccessDenied}
	ErrInternalError = &StatusError{Status: StatusInternalError}
)

// Errorf creates a StatusError with a formatted message.
func Errorf(status Status, format string, args ...any) error {
	return &StatusError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// StatusOf returns the status code carried by err. A nil error is StatusOK,
// an error without a status is StatusInternalError.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return StatusInternalError
}
