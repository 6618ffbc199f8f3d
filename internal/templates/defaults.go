package templates

import "runtime"

// DefaultShell returns the platform's default shell for command panes.
func DefaultShell() string {
	switch runtime.GOOS {
	case "darwin":
		return "/bin/zsh"
	case "windows":
		return "powershell.exe"
	default:
		return "/bin/bash"
	}
}

// DefaultShellConfig returns the rc file sourced before template
// commands, empty on platforms without one.
func DefaultShellConfig() string {
	switch runtime.GOOS {
	case "darwin":
		return "~/.zshrc"
	case "windows":
		return ""
	default:
		return "~/.bashrc"
	}
}
