// Package host defines the interfaces panekit consumes from the HTTP
// proxy host: request/response accessors, HTTPQL evaluation, GraphQL
// execution, and project-change notifications.
//
// The concrete implementation speaks the host's GraphQL API over HTTP
// (see Client). Tests substitute in-memory fakes.
package host

import "context"

// Request exposes read-only accessors over an intercepted HTTP request.
type Request interface {
	// ID is the host-assigned request identifier.
	ID() string
	Host() string
	Port() int
	Path() string
	Method() string
	// URL is the full request URL.
	URL() string
	// Query is the raw query string, without the leading "?".
	Query() string
	// TLS reports whether the connection used TLS.
	TLS() bool
	// Body is the decoded request body text, empty if none.
	Body() string
	// Headers maps header names to their values.
	Headers() map[string][]string
	// Raw is the full raw request text.
	Raw() string
}

// Response exposes read-only accessors over an intercepted HTTP response.
type Response interface {
	Code() int
	Body() string
	Headers() map[string][]string
	Raw() string
}

// Exchange pairs a request with its response. Response is nil when the
// response has not arrived (or never will, e.g. intercept-on-request).
type Exchange struct {
	Request  Request
	Response Response
}

// Requests is the host service for fetching exchanges and evaluating
// HTTPQL filter queries against them.
type Requests interface {
	// Get fetches the exchange for a request ID. Returns nil, nil when
	// the request does not exist.
	Get(ctx context.Context, requestID string) (*Exchange, error)

	// Matches evaluates an HTTPQL query against an exchange.
	Matches(ctx context.Context, query string, req Request, resp Response) (bool, error)
}

// GraphQL executes a query or mutation against the host API and returns
// the raw response document (including any "errors" array) for the caller
// to decode.
type GraphQL interface {
	Execute(ctx context.Context, query string, variables map[string]any) ([]byte, error)
}

// ProjectEvents delivers the active project's identifier and change
// notifications. The channel closes when the context is done.
type ProjectEvents interface {
	Current(ctx context.Context) (string, error)
	Changes(ctx context.Context) (<-chan string, error)
}

// Orientation distinguishes request-side from response-side view tabs.
type Orientation string

const (
	OrientationRequest  Orientation = "request"
	OrientationResponse Orientation = "response"
)

// ViewMode describes a view tab to register with the host UI, keyed by
// named locations and orientation.
type ViewMode struct {
	ID          string      `json:"id"`
	TabName     string      `json:"tabName"`
	Locations   []string    `json:"locations"`
	Orientation Orientation `json:"orientation"`
	CodeBlock   bool        `json:"codeBlock,omitempty"`
	Language    string      `json:"language,omitempty"`
}
