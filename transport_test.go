package tenancy_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tenancy "github.com/goliatone/go-tenancy"
)

func TestHTTPTransport_Do(t *testing.T) {
	t.Run("round trips method, headers, and body", func(t *testing.T) {
		var gotMethod, gotAuth, gotRequestID string
		var gotBody []byte
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotAuth = r.Header.Get("Authorization")
			gotRequestID = r.Header.Get("X-Request-ID")
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"ok":true}`))
		}))
		defer server.Close()

		transport := tenancy.NewHTTPTransport(server.Client())
		res, err := transport.Do(context.Background(), &tenancy.ScopedRequest{
			Method:  "POST",
			Address: server.URL + "/DrivenHunts?clubId=7",
			Headers: map[string]string{"Authorization": "Bearer tok"},
			Body:    []byte(`{"name":"x"}`),
		})
		require.NoError(t, err)

		assert.Equal(t, http.StatusCreated, res.Status)
		assert.JSONEq(t, `{"ok":true}`, string(res.Body))
		assert.Equal(t, "POST", gotMethod)
		assert.Equal(t, "Bearer tok", gotAuth)
		assert.NotEmpty(t, gotRequestID, "every request carries a correlation id")
		assert.JSONEq(t, `{"name":"x"}`, string(gotBody))
	})

	t.Run("non-2xx is returned, not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusForbidden)
		}))
		defer server.Close()

		transport := tenancy.NewHTTPTransport(server.Client())
		res, err := transport.Do(context.Background(), &tenancy.ScopedRequest{
			Address: server.URL,
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, res.Status)
	})

	t.Run("defaults to GET", func(t *testing.T) {
		var gotMethod string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
		}))
		defer server.Close()

		transport := tenancy.NewHTTPTransport(server.Client())
		_, err := transport.Do(context.Background(), &tenancy.ScopedRequest{Address: server.URL})
		require.NoError(t, err)
		assert.Equal(t, "GET", gotMethod)
	})

	t.Run("cancelled context aborts the call", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		transport := tenancy.NewHTTPTransport(server.Client())
		_, err := transport.Do(ctx, &tenancy.ScopedRequest{Address: server.URL})
		require.Error(t, err)
	})

	t.Run("invalid address is a bad input error", func(t *testing.T) {
		transport := tenancy.NewHTTPTransport(nil)
		_, err := transport.Do(context.Background(), &tenancy.ScopedRequest{
			Address: "://not-a-url",
		})
		require.Error(t, err)
	})
}
