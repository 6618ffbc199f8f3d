package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"panekit/internal/model"
	"panekit/internal/templates"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(t.TempDir(), zerolog.Nop())
	s.Initialize("")
	t.Cleanup(s.Flush)
	return s
}

func commandPane(name string) model.Pane {
	return model.Pane{
		Name:      name,
		TabName:   name,
		Input:     model.InputRequestBody,
		Locations: []model.Location{model.LocationHTTPHistory},
		Transformation: model.Transformation{
			Type:    model.TransformationCommand,
			Command: "cat",
		},
	}
}

func TestCreatePane(t *testing.T) {
	s := newTestStore(t)

	p := s.CreatePane(commandPane("decode"))
	if p.ID == "" {
		t.Fatal("expected an assigned ID")
	}
	if p.CreatedAt == 0 || p.CreatedAt != p.UpdatedAt {
		t.Fatalf("expected matching timestamps, got %d / %d", p.CreatedAt, p.UpdatedAt)
	}
	if p.Scope != model.ScopeProject {
		t.Fatalf("expected default project scope, got %q", p.Scope)
	}

	got, ok := s.Pane(p.ID)
	if !ok {
		t.Fatal("created pane not found")
	}
	if got.Name != "decode" {
		t.Fatalf("got name %q", got.Name)
	}
}

func TestPanesOrder(t *testing.T) {
	s := newTestStore(t)

	proj := commandPane("proj")
	s.CreatePane(proj)
	glob := commandPane("glob")
	glob.Scope = model.ScopeGlobal
	s.CreatePane(glob)

	panes := s.Panes()
	if len(panes) != 2 {
		t.Fatalf("got %d panes", len(panes))
	}
	if panes[0].Name != "glob" || panes[1].Name != "proj" {
		t.Fatalf("expected global tier first, got %q then %q", panes[0].Name, panes[1].Name)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, zerolog.Nop())
	s.Initialize("")
	created := s.CreatePane(commandPane("keep"))
	s.Flush()

	s2 := New(dir, zerolog.Nop())
	s2.Initialize("")
	got, ok := s2.Pane(created.ID)
	if !ok {
		t.Fatal("pane lost across restart")
	}
	if got.Name != "keep" || got.CreatedAt != created.CreatedAt {
		t.Fatalf("pane changed across restart: %+v", got)
	}
}

func TestUpdatePane(t *testing.T) {
	s := newTestStore(t)
	s.now = func() int64 { return 100 }
	p := s.CreatePane(commandPane("orig"))
	s.now = func() int64 { return 200 }

	name := "renamed"
	got, ok := s.UpdatePane(p.ID, model.PaneUpdate{Name: &name})
	if !ok {
		t.Fatal("update reported missing pane")
	}
	if got.Name != "renamed" {
		t.Fatalf("got name %q", got.Name)
	}
	if got.ID != p.ID || got.CreatedAt != 100 {
		t.Fatal("identity fields changed on update")
	}
	if got.UpdatedAt != 200 {
		t.Fatalf("updatedAt not refreshed, got %d", got.UpdatedAt)
	}
}

func TestUpdatePaneMissing(t *testing.T) {
	s := newTestStore(t)
	if _, ok := s.UpdatePane("nope", model.PaneUpdate{}); ok {
		t.Fatal("expected false for unknown pane")
	}
}

func TestUpdatePaneScopeMove(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, zerolog.Nop())
	s.Initialize("")
	p := s.CreatePane(commandPane("mover"))
	s.CreatePane(commandPane("stays"))

	before := len(s.Panes())
	scope := model.ScopeGlobal
	moved, ok := s.UpdatePane(p.ID, model.PaneUpdate{Scope: &scope})
	if !ok {
		t.Fatal("move reported missing pane")
	}
	if moved.Scope != model.ScopeGlobal {
		t.Fatalf("got scope %q", moved.Scope)
	}
	if got := len(s.Panes()); got != before {
		t.Fatalf("pane count changed on move: %d -> %d", before, got)
	}
	s.Flush()

	// Both tier documents must reflect the move.
	global, err := os.ReadFile(filepath.Join(dir, "panes.json"))
	if err != nil {
		t.Fatal(err)
	}
	project, err := os.ReadFile(filepath.Join(dir, "panes.default.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !gjson.GetBytes(global, `panes.#(name=="mover")`).Exists() {
		t.Fatal("moved pane missing from global document")
	}
	if gjson.GetBytes(project, `panes.#(name=="mover")`).Exists() {
		t.Fatal("moved pane still in project document")
	}
	if !gjson.GetBytes(project, `panes.#(name=="stays")`).Exists() {
		t.Fatal("unrelated pane lost from project document")
	}
}

func TestRapidMutationsSettleToLatest(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, zerolog.Nop())
	s.Initialize("")
	p := s.CreatePane(commandPane("v0"))

	for i := 1; i <= 50; i++ {
		name := fmt.Sprintf("v%d", i)
		if _, ok := s.UpdatePane(p.ID, model.PaneUpdate{Name: &name}); !ok {
			t.Fatalf("update %d reported missing pane", i)
		}
	}
	s.Flush()

	data, err := os.ReadFile(filepath.Join(dir, "panes.default.json"))
	if err != nil {
		t.Fatal(err)
	}
	if got := gjson.GetBytes(data, `panes.#(name=="v50")`); !got.Exists() {
		t.Fatalf("document did not settle to the last update: %s", data)
	}
	if n := gjson.GetBytes(data, "panes.#").Int(); n != 1 {
		t.Fatalf("got %d panes in document", n)
	}
}

func TestDeletePane(t *testing.T) {
	s := newTestStore(t)
	p := s.CreatePane(commandPane("gone"))

	if !s.DeletePane(p.ID) {
		t.Fatal("delete reported missing pane")
	}
	if _, ok := s.Pane(p.ID); ok {
		t.Fatal("pane still present after delete")
	}
	if s.DeletePane(p.ID) {
		t.Fatal("second delete should report false")
	}
}

func TestTogglePane(t *testing.T) {
	s := newTestStore(t)
	p := s.CreatePane(commandPane("flip"))

	got, ok := s.TogglePane(p.ID, true)
	if !ok || !got.Enabled {
		t.Fatalf("toggle on failed: ok=%v enabled=%v", ok, got.Enabled)
	}
	got, _ = s.TogglePane(p.ID, false)
	if got.Enabled {
		t.Fatal("toggle off failed")
	}
	if _, ok := s.TogglePane("nope", true); ok {
		t.Fatal("expected false for unknown pane")
	}
}

func TestEnabledAndTemplateFilters(t *testing.T) {
	s := newTestStore(t)
	p := s.CreatePane(commandPane("custom"))
	s.TogglePane(p.ID, true)
	s.EnsureTemplatesInstalled()

	if got := len(s.EnabledPanes()); got != 1 {
		t.Fatalf("got %d enabled panes", got)
	}
	if got := len(s.TemplatePanes()); got != len(templates.All()) {
		t.Fatalf("got %d template panes", got)
	}
	if got := len(s.CustomPanes()); got != 1 {
		t.Fatalf("got %d custom panes", got)
	}
}

func TestEnsureTemplatesInstalledIdempotent(t *testing.T) {
	s := newTestStore(t)

	if got := s.EnsureTemplatesInstalled(); got != len(templates.All()) {
		t.Fatalf("first seed installed %d", got)
	}
	if got := s.EnsureTemplatesInstalled(); got != 0 {
		t.Fatalf("second seed installed %d", got)
	}

	// A deleted template stays deleted: seeding does not resurrect it.
	tpls := s.TemplatePanes()
	s.DeletePane(tpls[0].ID)
	if got := s.EnsureTemplatesInstalled(); got != 0 {
		t.Fatalf("seed after delete installed %d", got)
	}
	if got := len(s.TemplatePanes()); got != len(tpls)-1 {
		t.Fatalf("got %d template panes after delete", got)
	}
}

func TestInstallTemplate(t *testing.T) {
	s := newTestStore(t)

	p, ok := s.InstallTemplate("jq")
	if !ok {
		t.Fatal("install reported unknown template")
	}
	if p.Scope != model.ScopeGlobal || p.TemplateID != "jq" {
		t.Fatalf("installed pane wrong: %+v", p)
	}

	again, ok := s.InstallTemplate("jq")
	if !ok || again.ID != p.ID {
		t.Fatal("second install should return the existing pane")
	}
	if got := len(s.TemplatePanes()); got != 1 {
		t.Fatalf("got %d template panes", got)
	}

	if _, ok := s.InstallTemplate("nope"); ok {
		t.Fatal("expected false for unknown template")
	}
}

func TestSwitchProject(t *testing.T) {
	s := newTestStore(t)
	glob := commandPane("shared")
	glob.Scope = model.ScopeGlobal
	s.CreatePane(glob)
	s.CreatePane(commandPane("alpha-only"))
	s.Flush()

	s.SwitchProject("beta")
	panes := s.Panes()
	if len(panes) != 1 || panes[0].Name != "shared" {
		t.Fatalf("after switch got %+v", panes)
	}

	s.SwitchProject("")
	if got := len(s.Panes()); got != 2 {
		t.Fatalf("after switch back got %d panes", got)
	}
}

func TestCorruptDocumentReset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "panes.json")
	if err := os.WriteFile(path, []byte(`{"panes": "not an array"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	s := New(dir, zerolog.Nop())
	s.Initialize("")
	if got := len(s.Panes()); got != 0 {
		t.Fatalf("got %d panes from corrupt document", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var cfg model.PanesConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("rewritten document undecodable: %v", err)
	}
	if cfg.Version != model.ConfigVersion || len(cfg.Panes) != 0 {
		t.Fatalf("rewritten document wrong: %+v", cfg)
	}
}

func TestSubscribe(t *testing.T) {
	s := newTestStore(t)

	var calls int
	var last []model.Pane
	unsub := s.Subscribe(func(panes []model.Pane) {
		calls++
		last = panes
	})

	p := s.CreatePane(commandPane("watched"))
	if calls != 1 || len(last) != 1 {
		t.Fatalf("after create: calls=%d panes=%d", calls, len(last))
	}

	unsub()
	s.DeletePane(p.ID)
	if calls != 1 {
		t.Fatalf("subscriber called after unsubscribe: %d", calls)
	}
}

func TestEvents(t *testing.T) {
	s := newTestStore(t)
	p := s.CreatePane(commandPane("evented"))
	s.TogglePane(p.ID, true)
	s.DeletePane(p.ID)

	want := []EventType{EventCreated, EventUpdated, EventToggled, EventDeleted}
	for _, wt := range want {
		e := <-s.Events()
		if e.Type != wt {
			t.Fatalf("got event %q, want %q", e.Type, wt)
		}
		if e.PaneID != p.ID {
			t.Fatalf("event carries pane %q", e.PaneID)
		}
	}
}
