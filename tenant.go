package tenancy

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// Tenant is an immutable snapshot of a club membership as returned by the
// listing endpoint. Snapshots are replaced wholesale on refresh, never
// patched.
type Tenant struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	MembersCount int        `json:"membersCount"`
	IsUserMember bool       `json:"isUserMember"`
	Role         MemberRole `json:"role,omitempty"`
}

// Validate checks the listing record at the boundary
func (t Tenant) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.ID, validation.Required, validation.Min(int64(1))),
		validation.Field(&t.Name, validation.Required, validation.Length(1, 200)),
	)
}

// HasRole reports whether the listing carried a per-tenant role for the user.
func (t Tenant) HasRole() bool {
	return t.Role != ""
}

// IsAdmin reports whether the user administers this tenant (admin or owner).
func (t Tenant) IsAdmin() bool {
	return t.Role.IsAdmin()
}
