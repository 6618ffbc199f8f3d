package model

// PaneUpdate is a partial pane mutation. Nil fields are left untouched.
// ID and CreatedAt are not part of the update surface: they are immutable
// once a pane exists.
type PaneUpdate struct {
	Name           *string
	TabName        *string
	Description    *string
	Enabled        *bool
	Scope          *Scope
	Input          *InputKind
	HTTPQL         *string
	Locations      []Location
	Transformation *Transformation
	TemplateID     *string
	CodeBlock      *bool
	Language       *string
	DevMode        *bool
}

// Apply merges the update into the pane in place. Timestamps are the
// caller's responsibility.
func (u PaneUpdate) Apply(p *Pane) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.TabName != nil {
		p.TabName = *u.TabName
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Enabled != nil {
		p.Enabled = *u.Enabled
	}
	if u.Scope != nil {
		p.Scope = *u.Scope
	}
	if u.Input != nil {
		p.Input = *u.Input
	}
	if u.HTTPQL != nil {
		p.HTTPQL = *u.HTTPQL
	}
	if u.Locations != nil {
		p.Locations = u.Locations
	}
	if u.Transformation != nil {
		p.Transformation = *u.Transformation
	}
	if u.TemplateID != nil {
		p.TemplateID = *u.TemplateID
	}
	if u.CodeBlock != nil {
		p.CodeBlock = *u.CodeBlock
	}
	if u.Language != nil {
		p.Language = *u.Language
	}
	if u.DevMode != nil {
		p.DevMode = *u.DevMode
	}
}

// FromPane builds an update that carries every mutable field of p.
// Used by import with overwrite, where an incoming pane replaces the
// stored one while keeping its identity.
func FromPane(p Pane) PaneUpdate {
	return PaneUpdate{
		Name:           &p.Name,
		TabName:        &p.TabName,
		Description:    &p.Description,
		Enabled:        &p.Enabled,
		Input:          &p.Input,
		HTTPQL:         &p.HTTPQL,
		Locations:      p.Locations,
		Transformation: &p.Transformation,
		TemplateID:     &p.TemplateID,
		CodeBlock:      &p.CodeBlock,
		Language:       &p.Language,
		DevMode:        &p.DevMode,
	}
}
