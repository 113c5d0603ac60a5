package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error class to an HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrValidation, ErrParse:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrConflict:
		return http.StatusConflict
	case ErrEmptyResult:
		return http.StatusUnprocessableEntity
	case ErrBackend:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrValidation
	ErrParse
	ErrEmptyResult
	ErrConflict
	ErrBackend
	ErrInternal
)

// GenericMessage is shown when an error carries no usable message.
const GenericMessage = "operation failed"

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewValidation(message string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
	}
}

func NewParse(message string, err error) *AppError {
	return &AppError{
		Code:    ErrParse,
		Message: message,
		Err:     err,
	}
}

func NewEmptyResult(message string) *AppError {
	return &AppError{
		Code:    ErrEmptyResult,
		Message: message,
	}
}

func NewConflict(message string) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
	}
}

// NewBackend keeps the store's own message so callers can show it verbatim.
func NewBackend(err error) *AppError {
	msg := GenericMessage
	if err != nil && err.Error() != "" {
		msg = rootMessage(err)
	}
	return &AppError{
		Code:    ErrBackend,
		Message: msg,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// Is reports whether err is an AppError with the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// As is errors.As narrowed to *AppError.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	ok := stderrors.As(err, &appErr)
	return appErr, ok
}

// DisplayMessage returns the message to show a user for err.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}
	if appErr, ok := As(err); ok && appErr.Message != "" {
		return appErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return GenericMessage
}

// rootMessage strips our own wrapping so the innermost (store) message is kept.
func rootMessage(err error) string {
	for {
		next := stderrors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
