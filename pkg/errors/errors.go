package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrInvalidAmount     = errors.New("invalid payment amount")
	ErrInvalidTerms      = errors.New("invalid loan terms")
	ErrNotFound          = errors.New("record not found")
	ErrForbidden         = errors.New("access denied")
	ErrInvalidCredential = errors.New("invalid username or password")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrProtectedUser     = errors.New("user cannot be deleted")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeInvalidAmount     = "INVALID_AMOUNT"
	ErrCodeInvalidTerms      = "INVALID_TERMS"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInvalidCredential = "INVALID_CREDENTIAL"
	ErrCodeUsernameTaken     = "USERNAME_TAKEN"
	ErrCodeProtectedUser     = "PROTECTED_USER"
	ErrCodeDatabaseError     = "DATABASE_ERROR"
	ErrCodeCacheError        = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapInvalidAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidAmount,
		fmt.Sprintf("payment amount %s must be greater than zero", amount),
		ErrInvalidAmount,
	)
}

func WrapInvalidTerms(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidTerms,
		reason,
		ErrInvalidTerms,
	)
}

func WrapNotFound(entity, id string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("%s with ID %s not found", entity, id),
		ErrNotFound,
	)
}

func WrapForbidden(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeForbidden,
		reason,
		ErrForbidden,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}
