// Package workflow bridges panes to the host's Convert workflows over
// the host GraphQL API.
package workflow

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"panekit/internal/host"
	"panekit/internal/model"
)

var tracer = otel.Tracer("panekit/workflow")

// KindConvert is the workflow kind panes may reference.
const KindConvert = "CONVERT"

// Info describes a workflow known to the host.
type Info struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Enabled bool   `json:"enabled"`
}

// Status reports whether a pane's workflow reference resolves.
type Status string

const (
	StatusValid   Status = "valid"
	StatusMissing Status = "missing"
)

const workflowsQuery = `query workflows {
  workflows {
    id
    name
    kind
    enabled
  }
}`

const runConvertMutation = `mutation runConvertWorkflow($id: ID!, $input: Blob!) {
  runConvertWorkflow(id: $id, input: $input) {
    output
    error {
      __typename
      ... on WorkflowUserError {
        message
        reason
      }
      ... on OtherUserError {
        code
      }
      ... on PermissionDeniedUserError {
        permissionDeniedReason: reason
      }
    }
  }
}`

// Bridge runs workflow transformations through the host GraphQL API.
type Bridge struct {
	graphql host.GraphQL
	log     zerolog.Logger
}

// NewBridge returns a Bridge backed by the given GraphQL executor.
func NewBridge(graphql host.GraphQL, log zerolog.Logger) *Bridge {
	return &Bridge{
		graphql: graphql,
		log:     log.With().Str("component", "workflow").Logger(),
	}
}

// List returns every workflow the host knows about.
func (b *Bridge) List(ctx context.Context) ([]Info, error) {
	data, err := b.graphql.Execute(ctx, workflowsQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("listing workflows: %w", err)
	}
	if msg := graphqlErrors(data); msg != "" {
		return nil, fmt.Errorf("listing workflows: %s", msg)
	}

	var out []Info
	for _, w := range gjson.GetBytes(data, "data.workflows").Array() {
		out = append(out, Info{
			ID:      w.Get("id").String(),
			Name:    w.Get("name").String(),
			Kind:    w.Get("kind").String(),
			Enabled: w.Get("enabled").Bool(),
		})
	}
	return out, nil
}

// ConvertWorkflows returns only workflows of the Convert kind, the only
// kind a pane transformation may reference.
func (b *Bridge) ConvertWorkflows(ctx context.Context) ([]Info, error) {
	all, err := b.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Info, 0, len(all))
	for _, w := range all {
		if w.Kind == KindConvert {
			out = append(out, w)
		}
	}
	return out, nil
}

// RunConvert executes a Convert workflow against the given input and
// returns its output text. The workflow must exist and be of the Convert
// kind; input and output travel base64-encoded.
func (b *Bridge) RunConvert(ctx context.Context, workflowID, input string) (string, error) {
	ctx, span := tracer.Start(ctx, "run_convert_workflow",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("workflow.id", workflowID),
			attribute.Int("workflow.input_bytes", len(input)),
		),
	)
	defer span.End()

	workflows, err := b.List(ctx)
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "list_failed"))
		return "", err
	}
	var found *Info
	for i := range workflows {
		if workflows[i].ID == workflowID {
			found = &workflows[i]
			break
		}
	}
	if found == nil {
		span.SetAttributes(attribute.String("error.type", "not_found"))
		return "", fmt.Errorf("workflow %s not found", workflowID)
	}
	if found.Kind != KindConvert {
		span.SetAttributes(attribute.String("error.type", "wrong_kind"))
		return "", fmt.Errorf("workflow %s is %s, not a convert workflow", workflowID, found.Kind)
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(input))
	data, err := b.graphql.Execute(ctx, runConvertMutation, map[string]any{
		"id":    workflowID,
		"input": encoded,
	})
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "transport"))
		return "", fmt.Errorf("running workflow %s: %w", workflowID, err)
	}
	if msg := graphqlErrors(data); msg != "" {
		span.SetAttributes(attribute.String("error.type", "graphql"))
		return "", fmt.Errorf("running workflow %s: %s", workflowID, msg)
	}

	result := gjson.GetBytes(data, "data.runConvertWorkflow")
	if werr := result.Get("error"); werr.Exists() && werr.Type != gjson.Null {
		span.SetAttributes(attribute.String("error.type", "workflow"))
		return "", fmt.Errorf("workflow %s failed: %s", workflowID, userErrorMessage(werr))
	}

	raw := result.Get("output").String()
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		// Some hosts return plain text for text outputs.
		b.log.Debug().Str("workflow_id", workflowID).Msg("workflow output not base64, using as-is")
		return raw, nil
	}
	return string(decoded), nil
}

// Validate resolves each workflow-type pane's reference against the
// host's Convert workflows. Command panes are not included in the result.
func (b *Bridge) Validate(ctx context.Context, panes []model.Pane) (map[string]Status, error) {
	converts, err := b.ConvertWorkflows(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(converts))
	for _, w := range converts {
		known[w.ID] = true
	}

	out := map[string]Status{}
	for _, p := range panes {
		if p.Transformation.Type != model.TransformationWorkflow {
			continue
		}
		if known[p.Transformation.WorkflowID] {
			out[p.ID] = StatusValid
		} else {
			out[p.ID] = StatusMissing
		}
	}
	return out, nil
}

// userErrorMessage flattens the mutation's error union into one line.
func userErrorMessage(werr gjson.Result) string {
	typename := werr.Get("__typename").String()
	switch typename {
	case "WorkflowUserError":
		msg := werr.Get("message").String()
		if reason := werr.Get("reason").String(); reason != "" {
			if msg != "" {
				return fmt.Sprintf("%s (%s)", msg, reason)
			}
			return reason
		}
		if msg != "" {
			return msg
		}
	case "OtherUserError":
		if code := werr.Get("code").String(); code != "" {
			return code
		}
	case "PermissionDeniedUserError":
		if reason := werr.Get("permissionDeniedReason").String(); reason != "" {
			return "permission denied: " + reason
		}
		return "permission denied"
	}
	if typename != "" {
		return typename
	}
	return "unknown workflow error"
}

// graphqlErrors joins top-level GraphQL errors into one message, empty
// when the response carries none.
func graphqlErrors(data []byte) string {
	errs := gjson.GetBytes(data, "errors")
	if !errs.IsArray() || len(errs.Array()) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(errs.Array()))
	for _, e := range errs.Array() {
		msgs = append(msgs, e.Get("message").String())
	}
	return strings.Join(msgs, "; ")
}
