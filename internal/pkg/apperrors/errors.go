package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound = errors.New("resource not found")

	ErrInvalidArgument = errors.New("invalid argument")

	ErrValidation = errors.New("validation failed")

	ErrAlreadyExists = errors.New("resource already exists")

	ErrDatabase = errors.New("database error")

	ErrInternalServer = errors.New("internal server error")

	ErrBusinessRule = errors.New("business rule violated")

	ErrInvalidPaymentAmount = errors.New("invalid payment amount")

	ErrLoanCompleted = errors.New("loan is already completed")

	ErrUnauthorized = errors.New("unauthorized")

	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrForbidden = errors.New("forbidden")

	ErrConflict = errors.New("resource conflict")
)

type ValidationError struct {
	Field   string
	Message string
	Fields  map[string]string
	Cause   error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
		}
		return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
	}
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func NewValidationError(field, message string) error {
	return fmt.Errorf("%w: %w", ErrValidation, &ValidationError{Field: field, Message: message})
}

// NewFieldsValidationError reports several failing fields at once. The first
// field in sorted order is also exposed as Field so single-field consumers keep working.
func NewFieldsValidationError(fields map[string]string) error {
	ve := &ValidationError{Fields: fields, Message: "the given data was invalid"}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		ve.Field = keys[0]
		ve.Message = fields[keys[0]]
	}
	return fmt.Errorf("%w: %w", ErrValidation, ve)
}

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func WrapDatabaseError(cause error, message string) error {
	return &AppError{
		Code:    "DB_ERROR",
		Message: message,
		Cause:   fmt.Errorf("%w: %w", ErrDatabase, cause),
	}
}

// NewBusinessError carries a user-facing message for a rejected operation.
// An optional reason sentinel is kept in the chain next to ErrBusinessRule.
func NewBusinessError(message string, reason error) error {
	cause := ErrBusinessRule
	if reason != nil {
		cause = fmt.Errorf("%w: %w", ErrBusinessRule, reason)
	}
	return &AppError{
		Code:    "BUSINESS_RULE",
		Message: message,
		Cause:   cause,
	}
}
