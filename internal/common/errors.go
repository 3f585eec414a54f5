package common

import (
	"errors"
	"fmt"
)

// Error codes carried by AppError. The HTTP layer maps these to statuses.
const (
	CodeValidation   = "VALIDATION"
	CodeAccessDenied = "ACCESS_DENIED"
	CodeNotFound     = "NOT_FOUND"
	CodeStorage      = "STORAGE"
	CodeInternal     = "INTERNAL"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error constructors
func ValidationError(message string) error {
	return &AppError{Code: CodeValidation, Message: message}
}

func AccessDeniedError(message string) error {
	return &AppError{Code: CodeAccessDenied, Message: message}
}

func NotFoundError(message string) error {
	return &AppError{Code: CodeNotFound, Message: message}
}

func StorageError(message string, cause error) error {
	return &AppError{Code: CodeStorage, Message: message, Cause: cause}
}

func InternalError(message string, cause error) error {
	return &AppError{Code: CodeInternal, Message: message, Cause: cause}
}

func codeOf(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// Predicates used by callers that only care about the error class.
func IsValidation(err error) bool   { return codeOf(err) == CodeValidation }
func IsAccessDenied(err error) bool { return codeOf(err) == CodeAccessDenied }
func IsNotFound(err error) bool     { return codeOf(err) == CodeNotFound }
func IsStorage(err error) bool      { return codeOf(err) == CodeStorage }

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
