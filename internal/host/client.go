package host

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const requestQuery = `
  query request($id: ID!) {
    request(id: $id) {
      id
      host
      port
      path
      method
      url
      query
      isTls
      body
      headers { name values }
      raw
      response {
        statusCode
        body
        headers { name values }
        raw
      }
    }
  }
`

const matchesQuery = `
  query matchesHttpql($query: HTTPQL!, $id: ID!) {
    matchesHttpql(query: $query, requestId: $id)
  }
`

const currentProjectQuery = `
  query {
    currentProject { id }
  }
`

// ClientConfig configures the GraphQL client.
type ClientConfig struct {
	// BaseURL is the host API endpoint, e.g. "http://127.0.0.1:8080".
	BaseURL string
	// Token is the API bearer token, if the host requires one.
	Token string
	// Timeout bounds each HTTP round-trip. Zero means 30s.
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Client talks to the host's GraphQL API over HTTP. It implements
// GraphQL, Requests, and ProjectEvents.
type Client struct {
	endpoint string
	token    string
	httpc    *http.Client
	log      zerolog.Logger

	// pollInterval drives project-change detection. Overridable in tests.
	pollInterval time.Duration
}

var (
	_ GraphQL       = (*Client)(nil)
	_ Requests      = (*Client)(nil)
	_ ProjectEvents = (*Client)(nil)
)

// NewClient creates a client for the host API.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint:     strings.TrimRight(cfg.BaseURL, "/") + "/graphql",
		token:        cfg.Token,
		httpc:        &http.Client{Timeout: timeout},
		log:          cfg.Logger,
		pollInterval: 2 * time.Second,
	}
}

// Execute posts a GraphQL document and returns the raw response body.
// Transport and HTTP-level failures are errors; GraphQL-level errors are
// left in the returned document for the caller to decode.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) ([]byte, error) {
	payload, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return nil, fmt.Errorf("encode graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graphql request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read graphql response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graphql request failed with status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

// Get fetches the exchange for a request ID. Returns nil, nil when the
// host does not know the request.
func (c *Client) Get(ctx context.Context, requestID string) (*Exchange, error) {
	body, err := c.Execute(ctx, requestQuery, map[string]any{"id": requestID})
	if err != nil {
		return nil, err
	}
	if msg := graphqlErrors(body); msg != "" {
		return nil, fmt.Errorf("request query: %s", msg)
	}

	node := gjson.GetBytes(body, "data.request")
	if !node.Exists() || node.Type == gjson.Null {
		return nil, nil
	}

	req := &RequestData{
		RequestID:  node.Get("id").String(),
		HostName:   node.Get("host").String(),
		PortNum:    int(node.Get("port").Int()),
		PathValue:  node.Get("path").String(),
		MethodName: node.Get("method").String(),
		FullURL:    node.Get("url").String(),
		RawQuery:   node.Get("query").String(),
		IsTLS:      node.Get("isTls").Bool(),
		BodyText:   node.Get("body").String(),
		HeaderMap:  decodeHeaders(node.Get("headers")),
		RawText:    node.Get("raw").String(),
	}

	ex := &Exchange{Request: req}
	if rn := node.Get("response"); rn.Exists() && rn.Type != gjson.Null {
		ex.Response = &ResponseData{
			StatusCode: int(rn.Get("statusCode").Int()),
			BodyText:   rn.Get("body").String(),
			HeaderMap:  decodeHeaders(rn.Get("headers")),
			RawText:    rn.Get("raw").String(),
		}
	}
	return ex, nil
}

// Matches evaluates an HTTPQL query against the exchange identified by
// the request's ID.
func (c *Client) Matches(ctx context.Context, query string, req Request, _ Response) (bool, error) {
	body, err := c.Execute(ctx, matchesQuery, map[string]any{"query": query, "id": req.ID()})
	if err != nil {
		return false, err
	}
	if msg := graphqlErrors(body); msg != "" {
		return false, fmt.Errorf("httpql evaluation: %s", msg)
	}
	return gjson.GetBytes(body, "data.matchesHttpql").Bool(), nil
}

// Current returns the active project's identifier. An empty string means
// no project is open.
func (c *Client) Current(ctx context.Context) (string, error) {
	body, err := c.Execute(ctx, currentProjectQuery, nil)
	if err != nil {
		return "", err
	}
	if msg := graphqlErrors(body); msg != "" {
		return "", fmt.Errorf("current project query: %s", msg)
	}
	return gjson.GetBytes(body, "data.currentProject.id").String(), nil
}

// Changes polls the active project and emits its identifier whenever it
// differs from the previously observed one. The channel closes when ctx
// is done.
func (c *Client) Changes(ctx context.Context) (<-chan string, error) {
	last, err := c.Current(ctx)
	if err != nil {
		return nil, err
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(c.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			cur, err := c.Current(ctx)
			if err != nil {
				c.log.Debug().Err(err).Msg("project poll failed")
				continue
			}
			if cur != last {
				last = cur
				select {
				case ch <- cur:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}

// graphqlErrors joins the messages of a response's errors array, or
// returns "" when the response carries none.
func graphqlErrors(body []byte) string {
	errs := gjson.GetBytes(body, "errors")
	if !errs.Exists() || !errs.IsArray() || len(errs.Array()) == 0 {
		return ""
	}
	var msgs []string
	for _, e := range errs.Array() {
		if m := e.Get("message").String(); m != "" {
			msgs = append(msgs, m)
		}
	}
	if len(msgs) == 0 {
		return "unknown graphql error"
	}
	return strings.Join(msgs, ", ")
}

func decodeHeaders(node gjson.Result) map[string][]string {
	headers := make(map[string][]string)
	for _, h := range node.Array() {
		name := h.Get("name").String()
		for _, v := range h.Get("values").Array() {
			headers[name] = append(headers[name], v.String())
		}
	}
	return headers
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
