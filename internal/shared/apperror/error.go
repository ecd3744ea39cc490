package apperror

import (
	"errors"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Error is the base error every domain builds its sentinels from.
// Two Errors match under errors.Is when their codes are equal, so a sentinel
// still matches after Wrap/WithMessage produced a copy.
type Error struct {
	Code    string
	Message string
	Status  int
	Details interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// New declares a sentinel
func New(status int, code, message string) *Error {
	return &Error{Code: code, Message: message, Status: status}
}

// Wrap returns a copy carrying the cause
func (e *Error) Wrap(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

// WithMessage returns a copy with a more specific message
func (e *Error) WithMessage(format string, args ...interface{}) *Error {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

// WithDetails returns a copy carrying client-facing details (field errors)
func (e *Error) WithDetails(details interface{}) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

// ============================================
// SHARED SENTINELS
// ============================================

var (
	ErrValidation   = New(http.StatusUnprocessableEntity, "VALIDATION_FAILED", "Validation failed")
	ErrBadRequest   = New(http.StatusBadRequest, "BAD_REQUEST", "Invalid request")
	ErrUnauthorized = New(http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	ErrForbidden    = New(http.StatusForbidden, "FORBIDDEN", "You don't have permission to do that")
	ErrNotFound     = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrConflict     = New(http.StatusConflict, "CONFLICT", "Resource already exists")
	ErrInternal     = New(http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
)

// Validation builds a 422 with per-field messages
func Validation(fields map[string]string) *Error {
	return ErrValidation.WithDetails(fields)
}

// Forbidden builds a 403 that names what the caller may not do
func Forbidden(action string) *Error {
	return ErrForbidden.WithMessage("You don't have permission to %s", action)
}

// As extracts the *Error from a chain
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// MapErrorToHTTP resolves status, client message and code for any error.
// Unknown errors become an opaque 500.
func MapErrorToHTTP(err error) (int, string, string) {
	if err == nil {
		return http.StatusOK, "Success", ""
	}
	if appErr, ok := As(err); ok {
		status := appErr.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return status, appErr.Message, appErr.Code
	}
	return http.StatusInternalServerError, ErrInternal.Message, ErrInternal.Code
}

// FromValidation turns ozzo-validation field errors into a 422.
// Anything else (including validation.InternalError) is returned unchanged.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	fields := make(map[string]string, len(fieldErrs))
	for name, fe := range fieldErrs {
		if fe != nil {
			fields[name] = fe.Error()
		}
	}
	return Validation(fields)
}
