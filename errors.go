package tenancy

import (
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeTokenMalformed   = "TOKEN_MALFORMED"
	textCodeTokenExpired     = "TOKEN_EXPIRED"
	textCodeTenantFetch      = "TENANT_FETCH_FAILED"
	textCodeUnknownTenant    = "UNKNOWN_TENANT"
	textCodeNoTenantSelected = "NO_TENANT_SELECTED"
	textCodeRequestFailed    = "REQUEST_FAILED"
)

// ErrTokenMalformed is returned when a bearer token cannot be decoded. The
// guard and the session store recover it into the anonymous state.
var ErrTokenMalformed = goerrors.New("unable to decode bearer token", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned when a decoded token carries an expiry in the past.
var ErrTokenExpired = goerrors.New("bearer token has expired", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTenantFetch is returned when the tenant listing collaborator fails.
// Registry state is left untouched.
var ErrTenantFetch = goerrors.New("unable to fetch tenant memberships", goerrors.CategoryOperation).
	WithTextCode(textCodeTenantFetch).
	WithCode(goerrors.CodeInternal)

// ErrUnknownTenant is returned when selecting a tenant id that is not in the
// current membership set.
var ErrUnknownTenant = goerrors.New("tenant is not in the current membership set", goerrors.CategoryBadInput).
	WithTextCode(textCodeUnknownTenant).
	WithCode(goerrors.CodeBadRequest)

// ErrNoTenantSelected is returned when request scoping is attempted with no
// active tenant. Callers must select a tenant first.
var ErrNoTenantSelected = goerrors.New("no tenant selected", goerrors.CategoryOperation).
	WithTextCode(textCodeNoTenantSelected).
	WithCode(goerrors.CodeConflict)

// ErrRequestFailed is the template for non-2xx transport responses. Use
// NewRequestFailedError to get a clone carrying status and body.
var ErrRequestFailed = goerrors.New("request failed", goerrors.CategoryOperation).
	WithTextCode(textCodeRequestFailed).
	WithCode(goerrors.CodeInternal)

// NewRequestFailedError clones ErrRequestFailed with the response status and
// body attached as metadata for caller-level user messaging.
func NewRequestFailedError(status int, body string) error {
	clone := ErrRequestFailed.Clone()
	if clone == nil {
		return ErrRequestFailed
	}
	clone.Message = fmt.Sprintf("request failed with status %d", status)
	clone.Source = ErrRequestFailed
	return clone.WithMetadata(map[string]any{
		"status_code": status,
		"body":        body,
	})
}

// IsRequestFailedError reports whether err is a non-2xx transport failure.
func IsRequestFailedError(err error) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == textCodeRequestFailed
}

// RequestFailureStatus extracts the response status from a request failure,
// returning 0 when err is not one.
func RequestFailureStatus(err error) int {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return 0
	}
	if richErr.TextCode != textCodeRequestFailed {
		return 0
	}
	if status, ok := richErr.Metadata["status_code"].(int); ok {
		return status
	}
	return 0
}

// IsTenantFetchError reports whether err is a failed registry refresh.
func IsTenantFetchError(err error) bool {
	return hasTextCode(err, textCodeTenantFetch)
}

// IsUnknownTenantError reports whether err is a rejected tenant selection.
func IsUnknownTenantError(err error) bool {
	return hasTextCode(err, textCodeUnknownTenant)
}

// IsNoTenantSelectedError reports whether err is a scoping precondition
// violation.
func IsNoTenantSelectedError(err error) bool {
	return hasTextCode(err, textCodeNoTenantSelected)
}

func hasTextCode(err error, textCode string) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == textCode
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.TextCode == textCodeTokenExpired {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.TextCode == textCodeTokenMalformed {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
