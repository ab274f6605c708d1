package apperrors

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	InvalidArgument   ErrorCode = "invalid_argument"
	NotFound          ErrorCode = "not_found"
	InsufficientFunds ErrorCode = "insufficient_funds"
	AlreadyExists     ErrorCode = "already_exists"
	Transient         ErrorCode = "transient"
	InternalError     ErrorCode = "internal_error"
)

// AppError is the typed failure returned by every service and repository
// operation. Code drives the HTTP status; Details carries the underlying
// cause when one exists.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// HTTPStatus maps the error code to the status the caller-facing surface
// should respond with.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case InvalidArgument:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case InsufficientFunds:
		return http.StatusUnprocessableEntity
	case AlreadyExists:
		return http.StatusConflict
	case Transient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors for common cases
var (
	ErrInvalidAmount          = New(InvalidArgument, "amount must be positive")
	ErrLastAccount            = New(InvalidArgument, "cannot close the only account")
	ErrAccountNotFound        = New(NotFound, "account not found")
	ErrUserNotFound           = New(NotFound, "user not found")
	ErrTransferNotFound       = New(NotFound, "transfer not found")
	ErrInsufficientFunds      = New(InsufficientFunds, "insufficient funds")
	ErrLoginTaken             = New(AlreadyExists, "login already taken")
	ErrCannotBeginTransaction = New(InternalError, "cannot begin a transaction inside a transaction")
)
