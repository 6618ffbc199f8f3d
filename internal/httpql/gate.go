// Package httpql gates pane pipelines on the host's HTTPQL matcher.
package httpql

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"panekit/internal/host"
)

// Gate evaluates HTTPQL filter queries by delegating to the host.
type Gate struct {
	requests host.Requests
	log      zerolog.Logger
}

// NewGate creates a gate backed by the host's matcher.
func NewGate(requests host.Requests, log zerolog.Logger) *Gate {
	return &Gate{requests: requests, log: log}
}

// Matches reports whether the exchange passes the filter. An empty or
// whitespace-only query always matches. Evaluation failures (malformed
// query, host error) count as no-match: a broken filter disables its
// pane's pipeline instead of crashing it.
func (g *Gate) Matches(ctx context.Context, query string, req host.Request, resp host.Response) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}

	ok, err := g.requests.Matches(ctx, query, req, resp)
	if err != nil {
		g.log.Debug().Err(err).Str("httpql", query).Msg("httpql evaluation failed, treating as no-match")
		return false
	}
	return ok
}
