// utils/tenant.go
package utils

import (
	"errors"

	"github.com/google/uuid"
)

// TenantSource says where the resolved tenant id came from.
type TenantSource int

const (
	TenantFromToken TenantSource = iota + 1
	TenantFromHeader
	TenantFromFallback
)

func (s TenantSource) String() string {
	switch s {
	case TenantFromToken:
		return "token"
	case TenantFromHeader:
		return "header"
	case TenantFromFallback:
		return "fallback"
	}
	return "unknown"
}

var (
	// ErrTenantMissing means no tenant id could be resolved for a
	// tenant-scoped operation.
	ErrTenantMissing = errors.New("tenant id missing")

	// ErrTenantMalformed means an authenticated tenant claim was present
	// but did not parse as a valid identifier.
	ErrTenantMalformed = errors.New("tenant id malformed")
)

// ResolveTenant produces the single trusted tenant id for a request.
//
// Priority: token claim, then X-Tenant-Id header, then the development
// fallback (uuid.Nil disables it). A present claim always governs — a
// malformed claim is an error, never silently replaced by the header. A
// malformed header is ignored and resolution falls through to the fallback.
func ResolveTenant(claimValue string, headerValue string, fallback uuid.UUID) (uuid.UUID, TenantSource, error) {
	if claimValue != "" {
		id, err := uuid.Parse(claimValue)
		if err != nil {
			return uuid.Nil, 0, ErrTenantMalformed
		}
		return id, TenantFromToken, nil
	}

	if headerValue != "" {
		if id, err := uuid.Parse(headerValue); err == nil {
			return id, TenantFromHeader, nil
		}
	}

	if fallback != uuid.Nil {
		return fallback, TenantFromFallback, nil
	}

	return uuid.Nil, 0, ErrTenantMissing
}
