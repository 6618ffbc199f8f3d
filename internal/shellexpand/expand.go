package shellexpand

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"panekit/internal/host"
)

// Context supplies the values behind the recognized variables. Response
// is optional; when nil, the response-derived variables stay unresolved
// and fail expansion if referenced.
type Context struct {
	// Input is the extracted input data fed to the transformation.
	Input     string
	RequestID string
	Request   host.Request
	Response  host.Response
}

// Variable documents one recognized template variable.
type Variable struct {
	Name        string
	Description string
	Example     string
}

// Variables lists every recognized template variable, in the order shown
// to users.
func Variables() []Variable {
	return []Variable{
		{Name: "{{input}}", Description: "The extracted input data", Example: `{"key": "value"}`},
		{Name: "{{requestId}}", Description: "Request ID", Example: "req_123"},
		{Name: "{{host}}", Description: "Request host", Example: "example.com"},
		{Name: "{{port}}", Description: "Request port", Example: "443"},
		{Name: "{{path}}", Description: "Request path", Example: "/api/users"},
		{Name: "{{method}}", Description: "HTTP method", Example: "POST"},
		{Name: "{{url}}", Description: "Full request URL", Example: "https://example.com/api/users"},
		{Name: "{{scheme}}", Description: "URL scheme", Example: "https"},
		{Name: "{{query}}", Description: "Query string", Example: "page=1&limit=10"},
		{Name: "{{responseCode}}", Description: "Response status code (if available)", Example: "200"},
		{Name: "{{responseLength}}", Description: "Response body length (if available)", Example: "1234"},
	}
}

var placeholderRe = regexp.MustCompile(`\{\{[^}]+\}\}`)

// UnknownVariableError reports placeholders that remained after
// substitution. Unresolved names are deduplicated and listed alongside
// the full set of valid variables.
type UnknownVariableError struct {
	Unknown   []string
	Available []string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variables found: %s. Available variables: %s",
		strings.Join(e.Unknown, ", "), strings.Join(e.Available, ", "))
}

// Expand substitutes every recognized {{variable}} in the template with
// its shell-escaped value and fails if unrecognized placeholders remain.
// Both {{name}} and the single-space-padded {{ name }} forms resolve.
func Expand(template string, ctx Context, d Dialect) (string, error) {
	values := map[string]string{
		"input":     ctx.Input,
		"requestId": ctx.RequestID,
		"host":      ctx.Request.Host(),
		"port":      strconv.Itoa(ctx.Request.Port()),
		"path":      ctx.Request.Path(),
		"method":    ctx.Request.Method(),
		"url":       ctx.Request.URL(),
		"scheme":    scheme(ctx.Request),
		"query":     ctx.Request.Query(),
	}
	if ctx.Response != nil {
		values["responseCode"] = strconv.Itoa(ctx.Response.Code())
		values["responseLength"] = strconv.Itoa(len(ctx.Response.Raw()))
	}

	expanded := template
	for name, value := range values {
		for _, key := range []string{"{{" + name + "}}", "{{ " + name + " }}"} {
			if strings.Contains(expanded, key) {
				expanded = strings.ReplaceAll(expanded, key, Quote(value, d))
			}
		}
	}

	if leftovers := placeholderRe.FindAllString(expanded, -1); len(leftovers) > 0 {
		available := make([]string, 0, len(values))
		for name := range values {
			available = append(available, "{{"+name+"}}")
		}
		sort.Strings(available)
		return "", &UnknownVariableError{Unknown: dedupe(leftovers), Available: available}
	}
	return expanded, nil
}

func scheme(req host.Request) string {
	if req.TLS() {
		return "https"
	}
	return "http"
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, it := range items {
		if !seen[it] {
			seen[it] = true
			out = append(out, it)
		}
	}
	return out
}
