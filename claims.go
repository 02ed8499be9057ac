package tenancy

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// RoleList normalizes the role claim, which serializes either as a scalar
// string or as an array depending on how many roles the subject holds. Both
// shapes decode into the same set representation so nothing downstream ever
// branches on claim shape.
type RoleList []string

// UnmarshalJSON accepts `"admin"` and `["admin","member"]` alike.
func (r *RoleList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*r = RoleList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*r = RoleList(many)
	return nil
}

// MarshalJSON keeps the single-role shape stable for round trips.
func (r RoleList) MarshalJSON() ([]byte, error) {
	if len(r) == 1 {
		return json.Marshal(r[0])
	}
	return json.Marshal([]string(r))
}

// SessionClaims is the decoded claim set of a bearer token.
type SessionClaims struct {
	jwt.RegisteredClaims
	RoleClaim RoleList `json:"role,omitempty"`

	raw string
}

// Verify interface compliance
var _ Credential = (*SessionClaims)(nil)

// Subject returns the subject claim
func (c *SessionClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Roles returns the normalized role set: deduplicated, order preserved from
// the claim.
func (c *SessionClaims) Roles() []string {
	seen := make(map[string]struct{}, len(c.RoleClaim))
	out := make([]string, 0, len(c.RoleClaim))
	for _, role := range c.RoleClaim {
		if role == "" {
			continue
		}
		if _, dup := seen[role]; dup {
			continue
		}
		seen[role] = struct{}{}
		out = append(out, role)
	}
	return out
}

// HasRole checks membership in the normalized role set.
func (c *SessionClaims) HasRole(role string) bool {
	for _, r := range c.Roles() {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the role set intersects the given roles.
func (c *SessionClaims) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if c.HasRole(role) {
			return true
		}
	}
	return false
}

// Expiry returns the exp claim, or the zero time when the token never expires.
func (c *SessionClaims) Expiry() time.Time {
	if c.RegisteredClaims.ExpiresAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.ExpiresAt.Time
}

// RawToken returns the compact serialized token the claims were decoded from.
func (c *SessionClaims) RawToken() string {
	return c.raw
}

// DecodeToken decodes a compact JWT into SessionClaims without verifying the
// signature: the token is minted and verified by the login server, this layer
// only consumes its claims. Fails with ErrTokenMalformed when the payload is
// not a JWT.
func DecodeToken(raw string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parser := jwt.NewParser()

	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims.raw = raw
	return claims, nil
}
