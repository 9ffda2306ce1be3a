package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// ErrorKind is the closed taxonomy callers branch on. Kinds, not message
// text, drive control flow.
type ErrorKind string

const (
	KindIdentity         ErrorKind = "IDENTITY_REQUIRED"
	KindPermission       ErrorKind = "PERMISSION_DENIED"
	KindParams           ErrorKind = "INVALID_PARAMS"
	KindDomainRule       ErrorKind = "DOMAIN_RULE"
	KindRateLimited      ErrorKind = "RATE_LIMITED"
	KindNoStaffAvailable ErrorKind = "NO_STAFF_AVAILABLE"
	KindNotFound         ErrorKind = "NOT_FOUND"
	KindInternal         ErrorKind = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Kind       ErrorKind
	Code       int
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a DomainError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	return domainErr.Kind == kind
}

// NewIdentityError signals the caller lacks a bound identity.
func NewIdentityError(message string) error {
	if message == "" {
		message = "identity binding required"
	}
	return &DomainError{Kind: KindIdentity, Code: -1, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// NewParamsError signals missing or malformed input.
func NewParamsError(message string) error {
	if message == "" {
		message = "invalid parameters"
	}
	return &DomainError{Kind: KindParams, Code: -2, Message: message, HTTPStatus: http.StatusBadRequest}
}

// NewPermissionError signals a failed authorization guard.
func NewPermissionError(message string) error {
	if message == "" {
		message = "permission denied"
	}
	return &DomainError{Kind: KindPermission, Code: -3, Message: message, HTTPStatus: http.StatusForbidden}
}

// NewDomainRule signals a numbered, action-specific business rule violation.
func NewDomainRule(code int, message string) error {
	return &DomainError{Kind: KindDomainRule, Code: code, Message: message, HTTPStatus: http.StatusUnprocessableEntity}
}

// NewRateLimited signals a sliding-window limit violation.
func NewRateLimited(message string) error {
	return &DomainError{Kind: KindRateLimited, Code: 1, Message: message, HTTPStatus: http.StatusTooManyRequests}
}

// NewNoStaffAvailable signals a department with zero staff of any kind.
func NewNoStaffAvailable(departmentID string) error {
	return &DomainError{
		Kind:       KindNoStaffAvailable,
		Code:       1,
		Message:    "no staff available in department",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"department_id": departmentID},
	}
}

// NewNotFound signals a missing entity.
func NewNotFound(resource string) error {
	return &DomainError{
		Kind:       KindNotFound,
		Code:       1,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) error {
	return &DomainError{
		Kind:       KindInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource").(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Kind:       KindInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError converts generic errors for propagation.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
