package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func validPane() Pane {
	return Pane{
		Name:      "decode",
		TabName:   "Decode",
		Input:     InputRequestBody,
		Locations: []Location{LocationReplay},
		Transformation: Transformation{
			Type:    TransformationCommand,
			Command: "base64 -d",
		},
	}
}

func TestPaneValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Pane)
		wantErr bool
	}{
		{"valid command pane", func(p *Pane) {}, false},
		{"valid workflow pane", func(p *Pane) {
			p.Transformation = Transformation{Type: TransformationWorkflow, WorkflowID: "g:1"}
		}, false},
		{"missing name", func(p *Pane) { p.Name = "  " }, true},
		{"missing tab name", func(p *Pane) { p.TabName = "" }, true},
		{"no locations", func(p *Pane) { p.Locations = nil }, true},
		{"unknown location", func(p *Pane) { p.Locations = []Location{"sidebar"} }, true},
		{"unknown input kind", func(p *Pane) { p.Input = "request.cookies" }, true},
		{"command pane without command", func(p *Pane) {
			p.Transformation = Transformation{Type: TransformationCommand, Command: "   "}
		}, true},
		{"workflow pane without workflow", func(p *Pane) {
			p.Transformation = Transformation{Type: TransformationWorkflow}
		}, true},
		{"both variants set", func(p *Pane) {
			p.Transformation = Transformation{Type: TransformationCommand, Command: "cat", WorkflowID: "g:1"}
		}, true},
		{"unknown transformation type", func(p *Pane) {
			p.Transformation = Transformation{Type: "script"}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPane()
			tt.mutate(&p)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHasLocation(t *testing.T) {
	p := validPane()
	if !p.HasLocation(LocationReplay) {
		t.Error("expected replay location")
	}
	if p.HasLocation(LocationIntercept) {
		t.Error("unexpected intercept location")
	}
}

func TestPaneUpdateApply(t *testing.T) {
	p := validPane()
	p.ID = "fixed"
	p.CreatedAt = 42

	name := "renamed"
	enabled := true
	scope := ScopeGlobal
	upd := PaneUpdate{Name: &name, Enabled: &enabled, Scope: &scope}
	upd.Apply(&p)

	if p.Name != "renamed" || !p.Enabled || p.Scope != ScopeGlobal {
		t.Fatalf("update not applied: %+v", p)
	}
	if p.TabName != "Decode" {
		t.Fatalf("untouched field changed: %q", p.TabName)
	}
	if p.ID != "fixed" || p.CreatedAt != 42 {
		t.Fatal("identity fields changed")
	}
}

func TestFromPaneCarriesMutableFields(t *testing.T) {
	src := validPane()
	src.Description = "carried"
	src.DevMode = true

	dst := validPane()
	dst.ID = "keep-me"
	dst.CreatedAt = 7
	FromPane(src).Apply(&dst)

	if dst.Description != "carried" || !dst.DevMode {
		t.Fatalf("fields not carried: %+v", dst)
	}
	if dst.ID != "keep-me" || dst.CreatedAt != 7 {
		t.Fatal("identity fields changed")
	}
}

func TestPaneJSONFieldNames(t *testing.T) {
	p := validPane()
	p.ID = "p1"
	p.HTTPQL = `req.host.eq:"x"`
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"id"`, `"name"`, `"tabName"`, `"httpql"`, `"locations"`, `"transformation"`, `"createdAt"`, `"updatedAt"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("marshaled pane missing %s: %s", field, data)
		}
	}
}
