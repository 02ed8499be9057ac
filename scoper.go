package tenancy

import (
	"context"
	"strconv"
	"strings"
)

const (
	// TenantPlaceholder is the literal endpoint token replaced by the
	// selected tenant id.
	TenantPlaceholder = "{clubId}"

	// tenantQueryParam is the query parameter carrying the tenant id when the
	// endpoint embeds it nowhere else.
	tenantQueryParam = "clubId"

	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	contentTypeJSON     = "application/json"
	bearerPrefix        = "Bearer "
)

// ScopedRequest is a fully resolved request descriptor: address with the
// tenant folded in, plus headers. Built fresh per call, never cached, and
// executed by a Transport collaborator.
type ScopedRequest struct {
	Method  string
	Address string
	Headers map[string]string
	Body    []byte
}

// ResolveOption customizes a single Resolve call.
type ResolveOption func(*ScopedRequest)

// WithMethod overrides the default GET method.
func WithMethod(method string) ResolveOption {
	return func(req *ScopedRequest) {
		if method != "" {
			req.Method = method
		}
	}
}

// WithBody attaches a request body.
func WithBody(body []byte) ResolveOption {
	return func(req *ScopedRequest) {
		req.Body = body
	}
}

// WithHeader sets a header, overriding any default of the same name.
func WithHeader(key, value string) ResolveOption {
	return func(req *ScopedRequest) {
		req.Headers[key] = value
	}
}

// RequestScoper builds tenant-scoped request descriptors from logical
// endpoint templates. It reads the registry and session on every call; it
// never performs the network call itself.
type RequestScoper struct {
	registry *TenantRegistry
	session  *SessionStore
	client   Transport
	baseURL  string
	logger   Logger
}

// NewRequestScoper wires the scoper to its collaborators. baseURL is
// prepended to relative endpoints.
func NewRequestScoper(registry *TenantRegistry, session *SessionStore, client Transport, baseURL string) *RequestScoper {
	return &RequestScoper{
		registry: registry,
		session:  session,
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   defLogger{},
	}
}

// WithLogger sets the logger used for transport failures.
func (s *RequestScoper) WithLogger(logger Logger) *RequestScoper {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Resolve folds the selected tenant into the endpoint template and attaches
// credential headers. Requires a selected tenant: callers must guarantee one
// before invoking, a missing selection is surfaced as ErrNoTenantSelected and
// never recovered here.
//
// The folding policy is an ordered decision, first match wins:
//  1. endpoint contains the {clubId} placeholder: substitute the tenant id
//  2. endpoint path already contains the tenant id as a segment: use as-is
//  3. otherwise: append the id as a clubId query parameter
//
// The order is load bearing. The mechanisms are not mutually exclusive and
// an unordered resolution can duplicate the id (placeholder plus query) or
// omit it entirely.
func (s *RequestScoper) Resolve(endpoint string, opts ...ResolveOption) (*ScopedRequest, error) {
	tenantID, ok := s.registry.SelectedTenantID()
	if !ok {
		return nil, noTenantSelected(endpoint)
	}

	id := strconv.FormatInt(tenantID, 10)

	var address string
	switch {
	case strings.Contains(endpoint, TenantPlaceholder):
		address = strings.ReplaceAll(endpoint, TenantPlaceholder, id)

	case pathContainsSegment(endpoint, id):
		address = endpoint

	default:
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		address = endpoint + sep + tenantQueryParam + "=" + id
	}

	req := &ScopedRequest{
		Method:  "GET",
		Address: s.absolute(address),
		Headers: map[string]string{
			headerContentType: contentTypeJSON,
		},
	}

	if raw := s.session.RawToken(); raw != "" {
		req.Headers[headerAuthorization] = bearerPrefix + raw
	}

	for _, opt := range opts {
		opt(req)
	}

	return req, nil
}

// Do executes a resolved request through the Transport, surfacing non-2xx
// responses as RequestFailedError. No retries: retry policy belongs to the
// caller.
func (s *RequestScoper) Do(ctx context.Context, req *ScopedRequest) (*TransportResponse, error) {
	res, err := s.client.Do(ctx, req)
	if err != nil {
		s.logger.Error("Scoped request transport failed", "address", req.Address, "error", err)
		return nil, err
	}

	if res.Status < 200 || res.Status >= 300 {
		s.logger.Info("Scoped request rejected", "address", req.Address, "status", res.Status)
		return nil, NewRequestFailedError(res.Status, string(res.Body))
	}

	return res, nil
}

// Fetch resolves and executes in one step, returning the response body.
func (s *RequestScoper) Fetch(ctx context.Context, endpoint string, opts ...ResolveOption) ([]byte, error) {
	req, err := s.Resolve(endpoint, opts...)
	if err != nil {
		return nil, err
	}

	res, err := s.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	return res.Body, nil
}

func (s *RequestScoper) absolute(address string) string {
	if strings.HasPrefix(address, "http://") || strings.HasPrefix(address, "https://") {
		return address
	}
	if s.baseURL == "" {
		return address
	}
	return s.baseURL + "/" + strings.TrimLeft(address, "/")
}

// pathContainsSegment checks the path portion of the endpoint for the id as
// a whole segment. "Members/7/detail" contains "7"; "Members/77" does not.
func pathContainsSegment(endpoint, id string) bool {
	path := endpoint
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if i := strings.Index(path, "://"); i >= 0 {
		rest := path[i+3:]
		if j := strings.Index(rest, "/"); j >= 0 {
			path = rest[j+1:]
		} else {
			path = ""
		}
	}

	for _, segment := range strings.Split(path, "/") {
		if segment == id {
			return true
		}
	}
	return false
}

func noTenantSelected(endpoint string) error {
	clone := ErrNoTenantSelected.Clone()
	if clone == nil {
		return ErrNoTenantSelected
	}
	clone.Source = ErrNoTenantSelected
	return clone.WithMetadata(map[string]any{"endpoint": endpoint})
}
