package tenancy

import (
	"bytes"
	"context"
	"io"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

const headerRequestID = "X-Request-ID"

// HTTPTransport is the default Transport over net/http. It owns no retry or
// status policy: every completed exchange is returned to the caller, only
// transport-level failures become errors. Each request carries a fresh
// correlation id.
type HTTPTransport struct {
	client *http.Client
	logger Logger
}

// Verify interface compliance
var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport wraps the given client; pass nil for http.DefaultClient.
// Timeouts belong on the client, not here.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{
		client: client,
		logger: defLogger{},
	}
}

// WithLogger sets the logger used for transport failures.
func (t *HTTPTransport) WithLogger(logger Logger) *HTTPTransport {
	if logger != nil {
		t.logger = logger
	}
	return t
}

// Do satisfies the Transport interface.
func (t *HTTPTransport) Do(ctx context.Context, req *ScopedRequest) (*TransportResponse, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.Address, body)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid request address").
			WithMetadata(map[string]any{"address": req.Address})
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	httpReq.Header.Set(headerRequestID, uuid.NewString())

	res, err := t.client.Do(httpReq)
	if err != nil {
		t.logger.Error("HTTP transport call failed", "method", method, "address", req.Address, "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "transport call failed")
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read response body")
	}

	return &TransportResponse{
		Status: res.StatusCode,
		Body:   payload,
	}, nil
}
