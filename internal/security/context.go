// Package security builds row-level and column-level filtering directives
// from a per-request security context and injects row predicates into
// generated queries.
package security

import (
	"strings"

	"github.com/open-dcat/open-dcat/internal/compliance"
)

// Role names recognized by the filter builder.
const (
	RoleAdmin   = "admin"
	RoleAnalyst = "analyst"
	RoleViewer  = "viewer"
)

// User identifies the requester.
type User struct {
	ID            string   `json:"id"`
	Role          string   `json:"role"`
	FacilityScope string   `json:"facility_scope,omitempty"`
	Permissions   []string `json:"permissions,omitempty"`
}

// IsAdmin reports whether the user holds the administrator role.
func (u User) IsAdmin() bool {
	return strings.EqualFold(strings.TrimSpace(u.Role), RoleAdmin)
}

// Context is the per-request security context. It is constructed per
// operation, never persisted, and carries the resolved compliance preset.
type Context struct {
	User                User
	ComplianceFramework string
	Preset              compliance.Preset
	AuditRequired       bool
	PIIEntitled         bool
}

// NewContext resolves the compliance framework and derives audit
// requirements from the preset.
func NewContext(user User, framework string, piiEntitled bool) (Context, error) {
	preset, err := compliance.Resolve(framework)
	if err != nil {
		return Context{}, err
	}
	return Context{
		User:                user,
		ComplianceFramework: preset.Name,
		Preset:              preset,
		AuditRequired:       preset.AuditRequirements.LogAllAccess,
		PIIEntitled:         piiEntitled,
	}, nil
}
