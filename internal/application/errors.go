package application

import (
	"errors"
	"fmt"

	"github.com/example/wdh-os/internal/authz"
	"github.com/example/wdh-os/internal/domain"
)

var (
	// ErrUnauthorized is returned when the acting principal lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a unique attribute collides with an existing record.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrInvalidCredentials is returned for failed login or token checks.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrAccountDisabled is returned when the account exists but may not sign in.
	ErrAccountDisabled = errors.New("application: account disabled")
	// ErrSessionExpired is returned when a session token is past its validity window.
	ErrSessionExpired = errors.New("application: session expired")
	// ErrSessionRevoked is returned when a session token was explicitly revoked.
	ErrSessionRevoked = errors.New("application: session revoked")
)

// PermissionError reports which capability check denied the operation. It
// unwraps to ErrUnauthorized so callers can keep matching on the sentinel.
type PermissionError struct {
	Role       domain.Role
	Capability authz.Capability
}

func (e *PermissionError) Error() string {
	if e == nil {
		return ErrUnauthorized.Error()
	}
	return fmt.Sprintf("application: role %q lacks capability %q", e.Role, e.Capability)
}

func (e *PermissionError) Unwrap() error {
	return ErrUnauthorized
}

// requireCapability resolves the principal's role against the fixed grant
// table. All service mutations and reads funnel through this check.
func requireCapability(principal Principal, capability authz.Capability) error {
	if authz.HasPermission(principal.Role, capability) {
		return nil
	}
	return &PermissionError{Role: principal.Role, Capability: capability}
}

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
