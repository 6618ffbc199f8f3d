package workflow

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"panekit/internal/model"
)

// fakeGraphQL routes queries by operation name to canned responses.
type fakeGraphQL struct {
	workflows string
	run       func(variables map[string]any) string
	err       error
}

func (f *fakeGraphQL) Execute(_ context.Context, query string, variables map[string]any) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	if strings.Contains(query, "runConvertWorkflow") {
		return []byte(f.run(variables)), nil
	}
	return []byte(f.workflows), nil
}

const workflowList = `{"data":{"workflows":[
	{"id":"g:1","name":"Decode JWT","kind":"CONVERT","enabled":true},
	{"id":"g:2","name":"Active Scan","kind":"ACTIVE","enabled":true},
	{"id":"g:3","name":"Pretty JSON","kind":"CONVERT","enabled":false}
]}}`

func newBridge(f *fakeGraphQL) *Bridge {
	return NewBridge(f, zerolog.Nop())
}

func TestList(t *testing.T) {
	b := newBridge(&fakeGraphQL{workflows: workflowList})
	got, err := b.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d workflows", len(got))
	}
	if got[0].ID != "g:1" || got[0].Name != "Decode JWT" || !got[0].Enabled {
		t.Fatalf("got %+v", got[0])
	}
}

func TestListGraphQLErrors(t *testing.T) {
	b := newBridge(&fakeGraphQL{workflows: `{"errors":[{"message":"unauthorized"}]}`})
	if _, err := b.List(context.Background()); err == nil || !strings.Contains(err.Error(), "unauthorized") {
		t.Fatalf("got %v", err)
	}
}

func TestConvertWorkflows(t *testing.T) {
	b := newBridge(&fakeGraphQL{workflows: workflowList})
	got, err := b.ConvertWorkflows(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d convert workflows", len(got))
	}
	for _, w := range got {
		if w.Kind != KindConvert {
			t.Fatalf("non-convert workflow %+v", w)
		}
	}
}

func TestRunConvert(t *testing.T) {
	var gotInput string
	f := &fakeGraphQL{
		workflows: workflowList,
		run: func(variables map[string]any) string {
			gotInput = variables["input"].(string)
			out := base64.StdEncoding.EncodeToString([]byte("transformed"))
			return fmt.Sprintf(`{"data":{"runConvertWorkflow":{"output":%q,"error":null}}}`, out)
		},
	}
	b := newBridge(f)

	out, err := b.RunConvert(context.Background(), "g:1", "raw input")
	if err != nil {
		t.Fatal(err)
	}
	if out != "transformed" {
		t.Fatalf("got output %q", out)
	}
	decoded, err := base64.StdEncoding.DecodeString(gotInput)
	if err != nil || string(decoded) != "raw input" {
		t.Fatalf("input not base64-encoded: %q", gotInput)
	}
}

func TestRunConvertUnknownWorkflow(t *testing.T) {
	b := newBridge(&fakeGraphQL{workflows: workflowList})
	if _, err := b.RunConvert(context.Background(), "g:99", "x"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("got %v", err)
	}
}

func TestRunConvertWrongKind(t *testing.T) {
	b := newBridge(&fakeGraphQL{workflows: workflowList})
	if _, err := b.RunConvert(context.Background(), "g:2", "x"); err == nil || !strings.Contains(err.Error(), "not a convert workflow") {
		t.Fatalf("got %v", err)
	}
}

func TestRunConvertUserErrors(t *testing.T) {
	tests := []struct {
		name string
		werr string
		want string
	}{
		{
			name: "workflow error with reason",
			werr: `{"__typename":"WorkflowUserError","message":"node failed","reason":"INTERNAL"}`,
			want: "node failed (INTERNAL)",
		},
		{
			name: "other error",
			werr: `{"__typename":"OtherUserError","code":"RATE_LIMITED"}`,
			want: "RATE_LIMITED",
		},
		{
			name: "permission denied",
			werr: `{"__typename":"PermissionDeniedUserError","permissionDeniedReason":"read-only project"}`,
			want: "permission denied: read-only project",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeGraphQL{
				workflows: workflowList,
				run: func(map[string]any) string {
					return fmt.Sprintf(`{"data":{"runConvertWorkflow":{"output":null,"error":%s}}}`, tt.werr)
				},
			}
			_, err := newBridge(f).RunConvert(context.Background(), "g:1", "x")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("got %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestRunConvertPlainOutput(t *testing.T) {
	f := &fakeGraphQL{
		workflows: workflowList,
		run: func(map[string]any) string {
			return `{"data":{"runConvertWorkflow":{"output":"already plain!","error":null}}}`
		},
	}
	out, err := newBridge(f).RunConvert(context.Background(), "g:1", "x")
	if err != nil {
		t.Fatal(err)
	}
	if out != "already plain!" {
		t.Fatalf("got %q", out)
	}
}

func TestValidate(t *testing.T) {
	b := newBridge(&fakeGraphQL{workflows: workflowList})
	panes := []model.Pane{
		{ID: "p1", Transformation: model.Transformation{Type: model.TransformationWorkflow, WorkflowID: "g:1"}},
		{ID: "p2", Transformation: model.Transformation{Type: model.TransformationWorkflow, WorkflowID: "g:404"}},
		{ID: "p3", Transformation: model.Transformation{Type: model.TransformationCommand, Command: "cat"}},
		{ID: "p4", Transformation: model.Transformation{Type: model.TransformationWorkflow, WorkflowID: "g:2"}},
	}

	got, err := b.Validate(context.Background(), panes)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]Status{"p1": StatusValid, "p2": StatusMissing, "p4": StatusMissing}
	if len(got) != len(want) {
		t.Fatalf("got %+v", got)
	}
	for id, st := range want {
		if got[id] != st {
			t.Errorf("pane %s: got %q, want %q", id, got[id], st)
		}
	}
}
