// Package graphql provides a minimal HTTP client for GraphQL endpoints with
// error classification. It performs exactly one attempt per call.
package graphql

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for failure classification.
// Use errors.Is(err, graphql.ErrTransport) to check.
var (
	ErrTransport    = errors.New("graphql: transport failure")
	ErrSchema       = errors.New("graphql: unexpected response shape")
	ErrGraphQL      = errors.New("graphql: server returned errors")
	ErrUnauthorized = errors.New("graphql: unauthorized")
	ErrServerError  = errors.New("graphql: server error")
)

// RequestError wraps a failure class with the operation name, HTTP status
// and the server message for debugging.
type RequestError struct {
	Operation  string
	StatusCode int
	Message    string
	Kind       error // ErrTransport, ErrSchema or ErrGraphQL
	Err        error // optional status sentinel or underlying cause
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("graphql: %s: HTTP %d: %s", e.Operation, e.StatusCode, e.Message)
	}

	return fmt.Sprintf("graphql: %s: %s", e.Operation, e.Message)
}

func (e *RequestError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	return errs
}

// classifyStatus maps a non-2xx HTTP status to a more specific sentinel.
// Returns nil when no specific sentinel applies.
func classifyStatus(code int) error {
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return ErrUnauthorized
	case code >= http.StatusInternalServerError:
		return ErrServerError
	default:
		return nil
	}
}

// ResponseError is one entry of a GraphQL "errors" array.
type ResponseError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}
