package domain

import (
	"errors"
	"fmt"
)

// Error types for domain-specific errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeLoad       ErrorType = "load"
	ErrorTypeExtraction ErrorType = "extraction"
	ErrorTypeOCR        ErrorType = "ocr"
	ErrorTypeCache      ErrorType = "cache"
	ErrorTypeAPI        ErrorType = "api"
	ErrorTypeRender     ErrorType = "render"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeIO         ErrorType = "io"
)

// Sentinel errors surfaced across package boundaries.
var (
	// ErrCacheMiss indicates no cached report exists for a fingerprint.
	ErrCacheMiss = errors.New("cache miss")

	// ErrEmptyResponse indicates the analysis model returned no text at
	// all. Distinct from a valid response with zero issues.
	ErrEmptyResponse = errors.New("empty model response")

	// ErrMalformedResponse indicates the analysis model returned text that
	// does not satisfy the expected structured shape.
	ErrMalformedResponse = errors.New("malformed model response")
)

// DomainError represents a domain-specific error with context
type DomainError struct {
	Type      ErrorType
	Message   string
	Err       error
	Retryable bool
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a new domain error
func NewError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func ValidationError(message string, err error) *DomainError {
	return NewError(ErrorTypeValidation, message, err)
}

func LoadError(message string, err error) *DomainError {
	return NewError(ErrorTypeLoad, message, err)
}

func ExtractionError(message string, err error) *DomainError {
	return NewError(ErrorTypeExtraction, message, err)
}

func OCRError(message string, err error) *DomainError {
	return NewError(ErrorTypeOCR, message, err)
}

func CacheError(message string, err error) *DomainError {
	return NewError(ErrorTypeCache, message, err)
}

func APIError(message string, err error) *DomainError {
	return NewError(ErrorTypeAPI, message, err)
}

func RenderError(message string, err error) *DomainError {
	return NewError(ErrorTypeRender, message, err)
}

func ConfigError(message string, err error) *DomainError {
	return NewError(ErrorTypeConfig, message, err)
}

func IOError(message string, err error) *DomainError {
	return NewError(ErrorTypeIO, message, err)
}

// RetryableAPIError marks a transport failure the caller may retry
// (rate limits, upstream 5xx).
func RetryableAPIError(message string, err error) *DomainError {
	return &DomainError{
		Type:      ErrorTypeAPI,
		Message:   message,
		Err:       err,
		Retryable: true,
	}
}

// IsRetryable reports whether err carries the retryable signal anywhere
// in its chain.
func IsRetryable(err error) bool {
	for err != nil {
		if de, ok := err.(*DomainError); ok && de.Retryable {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
