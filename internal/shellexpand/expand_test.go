package shellexpand

import (
	"errors"
	"strings"
	"testing"

	"panekit/internal/host"
)

func testContext(withResponse bool) Context {
	ctx := Context{
		Input:     "test-input",
		RequestID: "req_123",
		Request: &host.RequestData{
			RequestID:  "req_123",
			HostName:   "example.com",
			PortNum:    443,
			PathValue:  "/api/users",
			MethodName: "POST",
			FullURL:    "https://example.com/api/users?page=1",
			RawQuery:   "page=1",
			IsTLS:      true,
		},
	}
	if withResponse {
		ctx.Response = &host.ResponseData{
			StatusCode: 200,
			RawText:    "HTTP/1.1 200 OK\r\n\r\nhello",
		}
	}
	return ctx
}

func TestExpand_AllRecognizedVariables(t *testing.T) {
	template := "{{input}} {{requestId}} {{host}} {{port}} {{path}} {{method}} {{url}} {{scheme}} {{query}} {{responseCode}} {{responseLength}}"
	got, err := Expand(template, testContext(true), DialectPOSIX)
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	for _, want := range []string{"'test-input'", "'req_123'", "'example.com'", "'443'", "'/api/users'", "'POST'", "'https'", "'page=1'", "'200'"} {
		if !strings.Contains(got, want) {
			t.Errorf("expanded %q missing %s", got, want)
		}
	}
}

func TestExpand_SpacePaddedForms(t *testing.T) {
	got, err := Expand("curl {{ url }} -H {{ host }}", testContext(false), DialectPOSIX)
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	want := "curl 'https://example.com/api/users?page=1' -H 'example.com'"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExpand_ReplacesAllOccurrences(t *testing.T) {
	got, err := Expand("{{host}} {{host}} {{host}}", testContext(false), DialectPOSIX)
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	if got != "'example.com' 'example.com' 'example.com'" {
		t.Errorf("got %q", got)
	}
}

func TestExpand_UnknownVariable(t *testing.T) {
	_, err := Expand("echo {{nope}} {{nope}} {{alsono}}", testContext(false), DialectPOSIX)
	if err == nil {
		t.Fatal("expected error for unknown variables")
	}
	var unknownErr *UnknownVariableError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownVariableError, got %T", err)
	}
	// Deduplicated, in order of appearance.
	if len(unknownErr.Unknown) != 2 || unknownErr.Unknown[0] != "{{nope}}" || unknownErr.Unknown[1] != "{{alsono}}" {
		t.Errorf("unknown list: got %v, want [{{nope}} {{alsono}}]", unknownErr.Unknown)
	}
	if len(unknownErr.Available) == 0 {
		t.Error("available list is empty")
	}
	for _, name := range unknownErr.Available {
		if strings.Contains(name, " ") {
			t.Errorf("available list contains padded form %q", name)
		}
	}
}

func TestExpand_ResponseVariablesWithoutResponse(t *testing.T) {
	_, err := Expand("echo {{responseCode}}", testContext(false), DialectPOSIX)
	var unknownErr *UnknownVariableError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownVariableError, got %v", err)
	}
	if unknownErr.Unknown[0] != "{{responseCode}}" {
		t.Errorf("got %v", unknownErr.Unknown)
	}
}

func TestExpand_ResponseLengthUsesRawText(t *testing.T) {
	ctx := testContext(true)
	got, err := Expand("{{responseLength}}", ctx, DialectPOSIX)
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	if got != "'24'" {
		t.Errorf("got %q, want '24' (len of raw response)", got)
	}
}

func TestExpand_SchemeFollowsTLS(t *testing.T) {
	ctx := testContext(false)
	ctx.Request.(*host.RequestData).IsTLS = false
	got, err := Expand("{{scheme}}", ctx, DialectPOSIX)
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	if got != "'http'" {
		t.Errorf("got %q, want 'http'", got)
	}
}

func TestExpand_EscapesQuotesInValues(t *testing.T) {
	ctx := testContext(false)
	ctx.Input = "test'data"
	got, err := Expand("echo {{input}}", ctx, DialectPOSIX)
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	if got != `echo 'test'\''data'` {
		t.Errorf("got %q, want echo 'test'\\''data'", got)
	}
}

func TestExpand_NoPlaceholders(t *testing.T) {
	got, err := Expand("jq .", testContext(false), DialectPOSIX)
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	if got != "jq ." {
		t.Errorf("got %q, want jq .", got)
	}
}
