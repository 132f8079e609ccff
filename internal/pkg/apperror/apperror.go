// Package apperror defines the error taxonomy surfaced at the HTTP boundary.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	TypeNotFound      ErrorType = "not_found"
	TypeValidation    ErrorType = "validation_error"
	TypeConfiguration ErrorType = "configuration_error"
	TypeUnauthorized  ErrorType = "unauthorized"
	TypeInternal      ErrorType = "internal_error"
)

type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newError(t ErrorType, code int, message string, details []string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{Type: t, Message: message, Code: code, Details: detail}
}

func NewNotFoundError(message string, details ...string) *AppError {
	return newError(TypeNotFound, http.StatusNotFound, message, details)
}

func NewValidationError(message string, details ...string) *AppError {
	return newError(TypeValidation, http.StatusBadRequest, message, details)
}

// NewConfigurationError reports missing system setup, e.g. no plan to fall back to.
func NewConfigurationError(message string, details ...string) *AppError {
	return newError(TypeConfiguration, http.StatusInternalServerError, message, details)
}

func NewUnauthorizedError(message string, details ...string) *AppError {
	return newError(TypeUnauthorized, http.StatusUnauthorized, message, details)
}

func NewInternalError(message string, details ...string) *AppError {
	return newError(TypeInternal, http.StatusInternalServerError, message, details)
}

// As unwraps err into an *AppError when one is in the chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsType(err error, t ErrorType) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == t
}

func IsNotFound(err error) bool      { return IsType(err, TypeNotFound) }
func IsValidation(err error) bool    { return IsType(err, TypeValidation) }
func IsConfiguration(err error) bool { return IsType(err, TypeConfiguration) }
