package graphql

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient creates a Client pointing at the given httptest server.
func newTestClient(t *testing.T, url string) *Client {
	t.Helper()

	return NewClient(url, &http.Client{Timeout: 5 * time.Second}, "secret-key", "test-agent", slog.Default())
}

func TestDo_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret-key", r.Header.Get("ApiKey"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "FindThings", body["operationName"])
		assert.Equal(t, map[string]any{"q": "x"}, body["variables"])

		_, _ = w.Write([]byte(`{"data":{"value":"ok"}}`))
	}))
	defer srv.Close()

	var out struct {
		Value string `json:"value"`
	}

	err := newTestClient(t, srv.URL).Do(context.Background(), "FindThings", "query {}", map[string]any{"q": "x"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Value)
}

func TestDo_NoAPIKeyHeaderWhenEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.Header["Apikey"]
		assert.False(t, present)
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, "", "", nil)
	require.NoError(t, client.Do(context.Background(), "Op", "query {}", nil, nil))
}

func TestDo_HTTPErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrUnauthorized},
		{"server error", http.StatusInternalServerError, ErrServerError},
		{"bad gateway", http.StatusBadGateway, ErrServerError},
		{"bad request", http.StatusBadRequest, ErrTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`boom`))
			}))
			defer srv.Close()

			err := newTestClient(t, srv.URL).Do(context.Background(), "Op", "query {}", nil, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.ErrorIs(t, err, ErrTransport)

			var reqErr *RequestError
			require.ErrorAs(t, err, &reqErr)
			assert.Equal(t, tt.status, reqErr.StatusCode)
			assert.Equal(t, "boom", reqErr.Message)
			assert.Equal(t, "Op", reqErr.Operation)
		})
	}
}

func TestDo_NoRetry(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := newTestClient(t, srv.URL).Do(context.Background(), "Op", "query {}", nil, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDo_GraphQLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"first"},{"message":"second"}]}`))
	}))
	defer srv.Close()

	err := newTestClient(t, srv.URL).Do(context.Background(), "Op", "query {}", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGraphQL)
	assert.NotErrorIs(t, err, ErrTransport)
	assert.Contains(t, err.Error(), "first; second")
}

func TestDo_SchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>`},
		{"missing data", `{}`},
		{"null data", `{"data":null}`},
		{"wrong type", `{"data":{"value":42}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			var out struct {
				Value string `json:"value"`
			}

			err := newTestClient(t, srv.URL).Do(context.Background(), "Op", "query {}", nil, &out)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSchema)
		})
	}
}

func TestDo_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := newTestClient(t, url).Do(context.Background(), "Op", "query {}", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestDo_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newTestClient(t, srv.URL).Do(ctx, "Op", "query {}", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
