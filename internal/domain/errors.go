package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on code and message so a sentinel carrying a cause still
// satisfies errors.Is against the bare sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeUnavailable = "UNAVAILABLE"
	ErrCodeInternal    = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrEmptyParticipantList   = NewDomainError(ErrCodeValidation, "participant list cannot be empty")
	ErrMissingParticipantName = NewDomainError(ErrCodeValidation, "participant name is required")
	ErrEmptyEventName         = NewDomainError(ErrCodeValidation, "event name is required")
	ErrInvalidTeamSize        = NewDomainError(ErrCodeValidation, "team size must be positive")
)

// Lookup errors
var (
	ErrProfileNotFound = NewDomainError(ErrCodeNotFound, "profile not found")
)

// Availability errors
var (
	ErrNoResolverConfigured = NewDomainError(ErrCodeUnavailable, "no profile resolver strategy configured")
	ErrAnalyzerUnavailable  = NewDomainError(ErrCodeUnavailable, "text generation not configured")
)
