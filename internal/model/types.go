package model

import (
	"fmt"
	"strings"
)

// Scope identifies which persistence tier owns a pane.
type Scope string

const (
	// ScopeGlobal panes are shared across all projects.
	ScopeGlobal Scope = "global"
	// ScopeProject panes belong to the currently active project.
	ScopeProject Scope = "project"
)

// InputKind selects which part of an HTTP exchange feeds a transformation.
type InputKind string

const (
	InputRequestBody     InputKind = "request.body"
	InputRequestHeaders  InputKind = "request.headers"
	InputRequestQuery    InputKind = "request.query"
	InputRequestRaw      InputKind = "request.raw"
	InputResponseBody    InputKind = "response.body"
	InputResponseHeaders InputKind = "response.headers"
	InputResponseRaw     InputKind = "response.raw"
	InputRequestResponse InputKind = "request-response"
)

// Location names a host UI surface where a pane's output tab can appear.
type Location string

const (
	LocationHTTPHistory Location = "http-history"
	LocationSitemap     Location = "sitemap"
	LocationReplay      Location = "replay"
	LocationAutomate    Location = "automate"
	LocationIntercept   Location = "intercept"
)

// Locations lists every valid pane location.
func Locations() []Location {
	return []Location{
		LocationHTTPHistory,
		LocationSitemap,
		LocationReplay,
		LocationAutomate,
		LocationIntercept,
	}
}

// TransformationType discriminates the transformation union.
type TransformationType string

const (
	// TransformationWorkflow runs a host-hosted Convert workflow.
	TransformationWorkflow TransformationType = "workflow"
	// TransformationCommand runs a local shell command.
	TransformationCommand TransformationType = "command"
)

// Transformation describes how a pane's extracted input is transformed.
// Exactly one variant is active, selected by Type: workflow transformations
// use WorkflowID, command transformations use Command and its options.
type Transformation struct {
	Type TransformationType `json:"type"`

	// WorkflowID identifies a host Convert workflow ("workflow" type only).
	WorkflowID string `json:"workflowId,omitempty"`

	// Command is the shell command template ("command" type only).
	// It may reference {{variables}} expanded at execution time.
	Command string `json:"command,omitempty"`
	// Timeout is the wall-clock limit in seconds. Zero means the default.
	Timeout int `json:"timeout,omitempty"`
	// Shell is the shell binary used to run the command (e.g. "/bin/bash").
	Shell string `json:"shell,omitempty"`
	// ShellConfig is an rc file sourced before the command (e.g. "~/.bashrc").
	ShellConfig string `json:"shellConfig,omitempty"`
}

// Validate checks that exactly one transformation variant is populated.
func (t Transformation) Validate() error {
	switch t.Type {
	case TransformationWorkflow:
		if t.WorkflowID == "" {
			return fmt.Errorf("workflow transformation requires a workflowId")
		}
		if t.Command != "" {
			return fmt.Errorf("workflow transformation must not carry a command")
		}
	case TransformationCommand:
		if strings.TrimSpace(t.Command) == "" {
			return fmt.Errorf("command transformation requires a command")
		}
		if t.WorkflowID != "" {
			return fmt.Errorf("command transformation must not carry a workflowId")
		}
	default:
		return fmt.Errorf("unknown transformation type %q", t.Type)
	}
	return nil
}

// Pane is a named transformation rule: an input extraction kind plus an
// optional HTTPQL filter, mapped to a transformation and the UI locations
// where its output tab appears.
type Pane struct {
	// ID is an opaque unique token assigned at creation. Immutable.
	ID string `json:"id"`
	// Name is the user-facing name, used as the match key on import.
	Name string `json:"name"`
	// TabName is the label of the rendered view tab.
	TabName     string `json:"tabName"`
	Description string `json:"description,omitempty"`
	Enabled     bool   `json:"enabled"`
	// Scope selects the owning tier. Defaults to project at creation.
	Scope Scope     `json:"scope,omitempty"`
	Input InputKind `json:"input"`
	// HTTPQL optionally filters which requests the pane applies to.
	// Empty matches everything.
	HTTPQL    string     `json:"httpql,omitempty"`
	Locations []Location `json:"locations"`

	Transformation Transformation `json:"transformation"`

	// CreatedAt and UpdatedAt are epoch milliseconds.
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`

	// TemplateID marks a pane seeded from a built-in template. It is the
	// idempotency key that prevents duplicate seeding.
	TemplateID string `json:"templateId,omitempty"`

	// Rendering hints.
	CodeBlock bool   `json:"codeBlock,omitempty"`
	Language  string `json:"language,omitempty"`

	// DevMode raises pipeline logging to debug for this pane.
	DevMode bool `json:"devMode,omitempty"`
}

// Validate checks the fields a pane needs to be installable. The store
// itself accepts anything; this is the gate used at the creation surface.
func (p Pane) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("pane name is required")
	}
	if strings.TrimSpace(p.TabName) == "" {
		return fmt.Errorf("pane tab name is required")
	}
	if len(p.Locations) == 0 {
		return fmt.Errorf("pane needs at least one location")
	}
	for _, loc := range p.Locations {
		if !validLocation(loc) {
			return fmt.Errorf("unknown location %q", loc)
		}
	}
	if !validInput(p.Input) {
		return fmt.Errorf("unknown input kind %q", p.Input)
	}
	return p.Transformation.Validate()
}

// HasLocation reports whether the pane is installed at the given location.
func (p Pane) HasLocation(loc Location) bool {
	for _, l := range p.Locations {
		if l == loc {
			return true
		}
	}
	return false
}

func validLocation(loc Location) bool {
	for _, l := range Locations() {
		if l == loc {
			return true
		}
	}
	return false
}

func validInput(kind InputKind) bool {
	switch kind {
	case InputRequestBody, InputRequestHeaders, InputRequestQuery, InputRequestRaw,
		InputResponseBody, InputResponseHeaders, InputResponseRaw, InputRequestResponse:
		return true
	default:
		return false
	}
}

// ConfigVersion is the persisted document schema version.
const ConfigVersion = 1

// PanesConfig is the persisted document for one scope tier.
type PanesConfig struct {
	Version int    `json:"version"`
	Panes   []Pane `json:"panes"`
	// TemplatesSeeded is set on the global tier once the built-in
	// templates have been installed.
	TemplatesSeeded bool `json:"templatesSeeded,omitempty"`
}

// DefaultConfig returns the empty document written when a tier is missing
// or structurally invalid on disk.
func DefaultConfig() PanesConfig {
	return PanesConfig{Version: ConfigVersion, Panes: []Pane{}}
}
