package shellexpand

import (
	"strings"
	"testing"
)

func TestDialectFor(t *testing.T) {
	tests := []struct {
		shell string
		want  Dialect
	}{
		{"/bin/bash", DialectPOSIX},
		{"/bin/zsh", DialectPOSIX},
		{"/bin/sh", DialectPOSIX},
		{"", DialectPOSIX},
		{"powershell.exe", DialectPowerShell},
		{"C:\\Program Files\\PowerShell\\7\\pwsh.exe", DialectPowerShell},
		{"PWSH", DialectPowerShell},
		{"cmd.exe", DialectCmd},
		{"C:\\Windows\\System32\\CMD.EXE", DialectCmd},
		{"/usr/bin/fish", DialectPOSIX},
	}
	for _, tt := range tests {
		if got := DialectFor(tt.shell); got != tt.want {
			t.Errorf("DialectFor(%q) = %v, want %v", tt.shell, got, tt.want)
		}
	}
}

// unquote re-interprets a quoted string under the dialect's quoting rules.
// Fails the test on malformed quoting so round-trip bugs surface as
// errors, not silent mismatches.
func unquote(t *testing.T, quoted string, d Dialect) string {
	t.Helper()
	switch d {
	case DialectCmd:
		if !strings.HasPrefix(quoted, `"`) || !strings.HasSuffix(quoted, `"`) || len(quoted) < 2 {
			t.Fatalf("cmd quoting must wrap in double quotes: %q", quoted)
		}
		return strings.ReplaceAll(quoted[1:len(quoted)-1], `""`, `"`)
	case DialectPowerShell:
		// The empty value is emitted as an empty double-quoted string.
		if quoted == `""` {
			return ""
		}
		if !strings.HasPrefix(quoted, "'") || !strings.HasSuffix(quoted, "'") || len(quoted) < 2 {
			t.Fatalf("powershell quoting must wrap in single quotes: %q", quoted)
		}
		return strings.ReplaceAll(quoted[1:len(quoted)-1], "''", "'")
	default:
		// POSIX: concatenation of '...' segments and \-escaped characters
		// outside quotes.
		var b strings.Builder
		i := 0
		for i < len(quoted) {
			switch quoted[i] {
			case '\'':
				end := strings.IndexByte(quoted[i+1:], '\'')
				if end < 0 {
					t.Fatalf("unterminated single quote in %q", quoted)
				}
				b.WriteString(quoted[i+1 : i+1+end])
				i += end + 2
			case '\\':
				if i+1 >= len(quoted) {
					t.Fatalf("dangling backslash in %q", quoted)
				}
				b.WriteByte(quoted[i+1])
				i += 2
			default:
				t.Fatalf("unquoted byte %q in %q", quoted[i], quoted)
			}
		}
		return b.String()
	}
}

func TestQuote_RoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"has space",
		"it's",
		"''",
		"'''",
		`"quoted"`,
		`""`,
		"a'b'c'd",
		"semi;colon",
		"dollar$HOME",
		"back`tick`",
		"new\nline",
		"tab\there",
		`mixed '"; $(rm -rf /) ` + "`id`",
		"trailing'",
		"'leading",
	}
	dialects := []Dialect{DialectPOSIX, DialectPowerShell, DialectCmd}

	for _, d := range dialects {
		for _, in := range inputs {
			quoted := Quote(in, d)
			if got := unquote(t, quoted, d); got != in {
				t.Errorf("%v round-trip: Quote(%q) = %q, unquoted to %q", d, in, quoted, got)
			}
		}
	}
}

func TestQuote_Empty(t *testing.T) {
	if got := Quote("", DialectPOSIX); got != "''" {
		t.Errorf("posix empty: got %q, want ''", got)
	}
	if got := Quote("", DialectPowerShell); got != `""` {
		t.Errorf("powershell empty: got %q, want \"\"", got)
	}
	if got := Quote("", DialectCmd); got != `""` {
		t.Errorf("cmd empty: got %q, want \"\"", got)
	}
}

func TestQuote_POSIXIdiom(t *testing.T) {
	// The documented close-escape-reopen form.
	if got := Quote("test'data", DialectPOSIX); got != `'test'\''data'` {
		t.Errorf("got %q, want 'test'\\''data'", got)
	}
}
