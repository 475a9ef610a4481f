// Package transport is the thin contract over an HTTP client that
// every probe in package oracle consumes (spec.md §6). It is
// deliberately excluded from "the core" the oracle/schema/diagnostic
// packages implement — it's plumbing a real deployment configures with
// TLS verification, proxies, HTTP/2, timeouts and custom headers, none
// of which change the discovery algorithm's semantics.
package transport

import (
	"context"
	"encoding/json"
)

// Method is the HTTP verb used to carry a GraphQL request.
type Method string

const (
	GET  Method = "GET"
	POST Method = "POST"
)

// GraphQLError is one entry of a GraphQL response's top-level "errors"
// array. Only Message is interpreted by the diagnostic grammar; the
// rest round-trips for callers that want it.
type GraphQLError struct {
	Message   string                 `json:"message"`
	Locations []map[string]int       `json:"locations,omitempty"`
	Path      []interface{}          `json:"path,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// Response is the decoded body of a GraphQL HTTP response.
type Response struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// Transport issues one GraphQL request and returns its decoded
// response. Implementations surface timeouts and non-JSON payloads as
// distinct, identifiable errors (spec.md §7): callers use
// errors.Is(err, context.DeadlineExceeded) for the former and
// errors.As(err, &*json.SyntaxError) (or similar) for the latter.
type Transport interface {
	Request(ctx context.Context, method Method, url string, headers, params map[string]string, document string) (*Response, error)
}
