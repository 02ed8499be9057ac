package tenancy

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Credential holds the decoded claims of the current bearer token.
type Credential interface {
	Subject() string
	Roles() []string
	Expiry() time.Time
	RawToken() string
}

// TokenStorage is the durable persistence primitive for the raw token and
// the selected tenant id. Implementations must tolerate Clear on an empty
// store.
type TokenStorage interface {
	GetToken(ctx context.Context) (string, error)
	SetToken(ctx context.Context, raw string) error
	GetSelectedTenant(ctx context.Context) (int64, bool, error)
	SetSelectedTenant(ctx context.Context, id int64) error
	Clear(ctx context.Context) error
}

// TenantLister is the external collaborator returning the clubs the current
// session belongs to.
type TenantLister interface {
	ListTenants(ctx context.Context) ([]Tenant, error)
}

// Transport executes a resolved request. Implementations own timeouts;
// callers own retries.
type Transport interface {
	Do(ctx context.Context, req *ScopedRequest) (*TransportResponse, error)
}

// TransportResponse is the raw outcome of a Transport call.
type TransportResponse struct {
	Status int
	Body   []byte
}

// Config holds guard and scoper options
type Config interface {
	GetLoginRoute() string
	GetLandingRoute() string
	GetDeniedRoute() string
	GetPublicRoutes() []string
	GetAdminRoutePrefixes() []string
	GetAPIBaseURL() string
	GetRejectedRouteKey() string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] TENANCY "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] TENANCY "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] TENANCY "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] TENANCY "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
