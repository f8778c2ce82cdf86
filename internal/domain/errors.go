package domain

import (
	"errors"
	"fmt"
	"time"
)

// ServiceError represents a standardized error response
type ServiceError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for different failure scenarios
const (
	ErrInvalidInput   = "INVALID_INPUT"
	ErrValidation     = "VALIDATION_ERROR"
	ErrCaseNotFound   = "CASE_NOT_FOUND"
	ErrCatalog        = "CATALOG_ERROR"
	ErrCache          = "CACHE_ERROR"
	ErrRateLimit      = "RATE_LIMIT_EXCEEDED"
	ErrInternalServer = "INTERNAL_SERVER_ERROR"
)

// ErrNotFound is returned by repositories when a case id is unknown.
var ErrNotFound = errors.New("case not found")

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// NewServiceError creates a new ServiceError with timestamp
func NewServiceError(code, message, details, requestID string) *ServiceError {
	return &ServiceError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// ErrorCode maps an error to one of the error codes above.
func ErrorCode(err error) string {
	var svcErr *ServiceError
	var valErr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &svcErr):
		return svcErr.Code
	case errors.As(err, &valErr):
		return ErrValidation
	case errors.Is(err, ErrNotFound):
		return ErrCaseNotFound
	default:
		return ErrInternalServer
	}
}
