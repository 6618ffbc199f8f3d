// Package runner executes a pane's shell command with the extracted
// input on stdin and a wall-clock timeout.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"panekit/internal/shellexpand"
)

// maxTimeoutSeconds caps a pane's configured timeout at one day.
const maxTimeoutSeconds = 86400

// Runner spawns commands through a fixed shell. The quoting dialect is
// resolved once at construction and reused for every expansion.
type Runner struct {
	shell       string
	shellConfig string
	dialect     shellexpand.Dialect
	log         zerolog.Logger
}

// New creates a runner for the given shell. An empty shell falls back to
// /bin/sh. shellConfig, when set, names an rc file sourced before the
// command (POSIX shells only).
func New(shell, shellConfig string, log zerolog.Logger) *Runner {
	if shell == "" {
		shell = "/bin/sh"
	}
	return &Runner{
		shell:       shell,
		shellConfig: shellConfig,
		dialect:     shellexpand.DialectFor(shell),
		log:         log,
	}
}

// Dialect returns the quoting dialect resolved for this runner's shell.
func (r *Runner) Dialect() shellexpand.Dialect {
	return r.dialect
}

// Run expands the command template, spawns it through the shell, feeds
// input on stdin, and returns trimmed stdout. Expansion failures surface
// before any process is spawned. A timeout kills the process and fails;
// a non-zero exit fails with the exit code and captured stderr.
func (r *Runner) Run(ctx context.Context, command string, expandCtx shellexpand.Context, timeoutSeconds int) (string, error) {
	expanded, err := shellexpand.Expand(command, expandCtx, r.dialect)
	if err != nil {
		return "", err
	}
	return r.exec(ctx, expanded, expandCtx.Input, timeoutSeconds)
}

// exec runs an already-expanded command line.
func (r *Runner) exec(ctx context.Context, command, input string, timeoutSeconds int) (string, error) {
	timeoutSeconds = clampTimeout(timeoutSeconds)
	if timeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeoutSeconds)*time.Second)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.shell, r.shellArgs(command)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Stdin = strings.NewReader(input)

	start := time.Now()
	err := cmd.Run()
	r.log.Debug().
		Str("shell", r.shell).
		Dur("elapsed", time.Since(start)).
		Bool("ok", err == nil).
		Msg("command finished")

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("command timed out after %ds", timeoutSeconds)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := fmt.Sprintf("command failed with exit code %d", exitErr.ExitCode())
			if s := strings.TrimSpace(stderr.String()); s != "" {
				msg += ": " + s
			}
			return "", errors.New(msg)
		}
		return "", fmt.Errorf("command execution failed: %w", err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// shellArgs builds the argument vector that hands the command line to the
// shell, per dialect.
func (r *Runner) shellArgs(command string) []string {
	switch r.dialect {
	case shellexpand.DialectPowerShell:
		return []string{"-Command", command}
	case shellexpand.DialectCmd:
		return []string{"/C", command}
	default:
		if r.shellConfig != "" {
			command = ". " + r.shellConfig + " >/dev/null 2>&1; " + command
		}
		return []string{"-c", command}
	}
}

// clampTimeout bounds the timeout to [0, 86400] seconds. Zero disables
// the deadline; callers default unset pane timeouts before reaching here.
func clampTimeout(seconds int) int {
	if seconds < 0 {
		return 0
	}
	if seconds > maxTimeoutSeconds {
		return maxTimeoutSeconds
	}
	return seconds
}
