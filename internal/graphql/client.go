package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultUserAgent = "stash-folderid/0.1"
	apiKeyHeader     = "ApiKey"

	// maxErrorBody bounds how much of a failed response body is kept in errors.
	maxErrorBody = 4096
)

// Client posts GraphQL operations to a single endpoint. Every call is a
// single attempt bounded by the http.Client timeout; failures are returned
// to the caller classified, never retried.
type Client struct {
	endpoint   string
	httpClient *http.Client
	apiKey     string
	userAgent  string
	logger     *slog.Logger
}

// NewClient creates a GraphQL client for endpoint. apiKey is sent in the
// ApiKey header when non-empty.
func NewClient(endpoint string, httpClient *http.Client, apiKey, userAgent string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
		apiKey:     apiKey,
		userAgent:  userAgent,
		logger:     logger,
	}
}

type requestBody struct {
	OperationName string         `json:"operationName,omitempty"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

type responseEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []ResponseError `json:"errors"`
}

// Do executes the named operation and decodes the "data" member into out.
// A response carrying a non-empty "errors" array fails with ErrGraphQL; a
// missing or undecodable "data" member fails with ErrSchema.
func (c *Client) Do(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	if variables == nil {
		variables = map[string]any{}
	}

	payload, err := json.Marshal(requestBody{
		OperationName: operation,
		Query:         query,
		Variables:     variables,
	})
	if err != nil {
		return fmt.Errorf("graphql: encoding %s request: %w", operation, err)
	}

	start := time.Now()

	resp, err := c.doOnce(ctx, payload)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("graphql: %s canceled: %w", operation, ctx.Err())
		}

		return &RequestError{Operation: operation, Message: err.Error(), Kind: ErrTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		errBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil {
			errBody = []byte("(failed to read response body)")
		}

		c.logger.Debug("graphql request failed",
			slog.String("operation", operation),
			slog.Int("status", resp.StatusCode),
			slog.String("payload", string(payload)),
		)

		return &RequestError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(errBody)),
			Kind:       ErrTransport,
			Err:        classifyStatus(resp.StatusCode),
		}
	}

	var env responseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &RequestError{Operation: operation, StatusCode: resp.StatusCode,
			Message: "decoding response: " + err.Error(), Kind: ErrSchema, Err: err}
	}

	if len(env.Errors) > 0 {
		return &RequestError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Message:    joinMessages(env.Errors),
			Kind:       ErrGraphQL,
		}
	}

	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return &RequestError{Operation: operation, StatusCode: resp.StatusCode,
			Message: "response has no data", Kind: ErrSchema}
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &RequestError{Operation: operation, StatusCode: resp.StatusCode,
				Message: "decoding data: " + err.Error(), Kind: ErrSchema, Err: err}
		}
	}

	c.logger.Debug("graphql request succeeded",
		slog.String("operation", operation),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	return nil
}

// doOnce executes a single HTTP POST.
func (c *Client) doOnce(ctx context.Context, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	return c.httpClient.Do(req)
}

func joinMessages(errs []ResponseError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}

	return strings.Join(msgs, "; ")
}
