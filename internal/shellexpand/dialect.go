// Package shellexpand substitutes {{variable}} placeholders in command
// templates with shell-escaped values from an HTTP exchange.
package shellexpand

import "strings"

// Dialect is the quoting dialect of a target shell. It is resolved once
// from the configured shell string and passed as a typed value through
// expansion, rather than re-sniffed on every substitution.
type Dialect int

const (
	// DialectPOSIX covers sh, bash, zsh, and anything unrecognized.
	DialectPOSIX Dialect = iota
	// DialectPowerShell covers powershell and pwsh.
	DialectPowerShell
	// DialectCmd covers cmd.exe.
	DialectCmd
)

func (d Dialect) String() string {
	switch d {
	case DialectPowerShell:
		return "powershell"
	case DialectCmd:
		return "cmd"
	default:
		return "posix"
	}
}

// DialectFor resolves the quoting dialect for a shell path or name.
// Matching is a case-insensitive substring check; unknown and empty
// shells fall back to POSIX.
func DialectFor(shell string) Dialect {
	name := strings.ToLower(shell)
	switch {
	case strings.Contains(name, "powershell"), strings.Contains(name, "pwsh"):
		return DialectPowerShell
	case strings.Contains(name, "cmd"):
		return DialectCmd
	default:
		return DialectPOSIX
	}
}

// Quote escapes a value so the target shell reproduces it byte for byte.
// POSIX shells get a single-quoted string with embedded single quotes
// escaped by the close-escape-reopen idiom. PowerShell gets a
// single-quoted string with embedded single quotes doubled. cmd gets a
// double-quoted string with embedded double quotes doubled. The empty
// value becomes an empty single-quoted pair on POSIX and an empty
// double-quoted pair on the Windows shells.
func Quote(value string, d Dialect) string {
	if value == "" {
		if d == DialectPOSIX {
			return "''"
		}
		return `""`
	}

	switch d {
	case DialectCmd:
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	case DialectPowerShell:
		return "'" + strings.ReplaceAll(value, "'", "''") + "'"
	default:
		return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
	}
}
