package tenancy

import (
	"context"
	"encoding/json"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// tenantRecord is the wire shape of a club listing entry. The role field is
// absent for clubs the user can see but does not belong to.
type tenantRecord struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	MembersCount int    `json:"membersCount"`
	IsUserMember bool   `json:"isUserMember"`
	Role         string `json:"role,omitempty"`
}

// HTTPTenantLister fetches the session's club memberships from the listing
// endpoint through a Transport. The request is scoped with the session
// credential but not with a tenant: the listing is what tenants get selected
// from in the first place.
type HTTPTenantLister struct {
	endpoint string
	session  *SessionStore
	client   Transport
	logger   Logger
}

// Verify interface compliance
var _ TenantLister = (*HTTPTenantLister)(nil)

// NewHTTPTenantLister builds a lister for the given absolute endpoint.
func NewHTTPTenantLister(endpoint string, session *SessionStore, client Transport) *HTTPTenantLister {
	return &HTTPTenantLister{
		endpoint: endpoint,
		session:  session,
		client:   client,
		logger:   defLogger{},
	}
}

// WithLogger sets the logger used for listing failures.
func (l *HTTPTenantLister) WithLogger(logger Logger) *HTTPTenantLister {
	if logger != nil {
		l.logger = logger
	}
	return l
}

// ListTenants satisfies the TenantLister interface.
func (l *HTTPTenantLister) ListTenants(ctx context.Context) ([]Tenant, error) {
	req := &ScopedRequest{
		Method:  "GET",
		Address: l.endpoint,
		Headers: map[string]string{},
	}
	if raw := l.session.RawToken(); raw != "" {
		req.Headers[headerAuthorization] = bearerPrefix + raw
	}

	res, err := l.client.Do(ctx, req)
	if err != nil {
		l.logger.Error("Tenant listing transport failed", "error", err)
		return nil, err
	}

	if res.Status < 200 || res.Status >= 300 {
		return nil, NewRequestFailedError(res.Status, string(res.Body))
	}

	var records []tenantRecord
	if err := json.Unmarshal(res.Body, &records); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to decode tenant listing")
	}

	tenants := make([]Tenant, 0, len(records))
	for _, record := range records {
		tenant := Tenant{
			ID:           record.ID,
			Name:         record.Name,
			MembersCount: record.MembersCount,
			IsUserMember: record.IsUserMember,
		}

		if role := strings.TrimSpace(record.Role); role != "" {
			parsed, ok := ParseMemberRole(role)
			if !ok {
				l.logger.Warn("Skipping tenant with unknown role", "tenant", record.ID, "role", role)
				continue
			}
			tenant.Role = parsed
		}

		if err := tenant.Validate(); err != nil {
			l.logger.Warn("Skipping invalid tenant record", "tenant", record.ID, "error", err)
			continue
		}

		tenants = append(tenants, tenant)
	}

	return tenants, nil
}
