// Package tenant provides multi-tenant scoping for document collections.
//
// Every record in orgmatch is owned by exactly one tenant organization.
// Matching and mutation never cross tenant boundaries; shared curated
// records are visible to tenants but are excluded from both.
package tenant

import (
	"errors"
	"regexp"
	"strings"
)

// Collection names used by the resolution pipeline.
const (
	CollectionCompanies = "companies"
	CollectionContacts  = "contacts"
)

// CuratedIDPrefix marks company records imported from the shared curated
// library under the legacy id convention. Records carrying this prefix are
// classified as curated regardless of their stored flags.
const CuratedIDPrefix = "local-ref-company-"

// Origin describes who owns a company record and whether it may be
// matched against or mutated.
type Origin string

const (
	// OriginTenant is a record created and owned by a tenant. Eligible
	// for matching and mutation.
	OriginTenant Origin = "tenant"
	// OriginCurated is a shared reference record. Never a matching
	// target, never mutated.
	OriginCurated Origin = "curated"
)

// Common errors.
var (
	ErrInvalidTenantID = errors.New("invalid tenant ID")
	ErrInvalidUserID   = errors.New("invalid user ID")
)

const maxIdentifierLen = 64

var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateTenantID checks that a tenant identifier is safe to use in
// store filters and log fields.
func ValidateTenantID(id string) error {
	if id == "" || len(id) > maxIdentifierLen || !identifierPattern.MatchString(id) {
		return ErrInvalidTenantID
	}
	return nil
}

// ValidateUserID checks a creating-user identifier.
func ValidateUserID(id string) error {
	if id == "" || len(id) > maxIdentifierLen || !identifierPattern.MatchString(id) {
		return ErrInvalidUserID
	}
	return nil
}

// ClassifyOrigin decides the origin of a company record exactly once, at
// pool-load time. The explicit origin field wins when present; legacy rows
// that predate the field fall back to the old isReference flag and the
// reserved curated id prefix. Mis-tagged legacy data (prefix without flag)
// still classifies as curated.
func ClassifyOrigin(id string, fields map[string]any) Origin {
	if o, ok := fields["origin"].(string); ok {
		if Origin(o) == OriginCurated {
			return OriginCurated
		}
		return OriginTenant
	}
	if ref, ok := fields["isReference"].(bool); ok && ref {
		return OriginCurated
	}
	if strings.HasPrefix(id, CuratedIDPrefix) {
		return OriginCurated
	}
	return OriginTenant
}
