package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"panekit/internal/model"
	"panekit/internal/templates"
)

// EventType classifies store change notifications.
type EventType string

const (
	EventCreated         EventType = "created"
	EventUpdated         EventType = "updated"
	EventDeleted         EventType = "deleted"
	EventToggled         EventType = "toggled"
	EventProjectSwitched EventType = "project-switched"
)

// Event describes one mutation of the pane collection.
type Event struct {
	Type    EventType
	PaneID  string
	Pane    *model.Pane
	Enabled bool
}

// Subscriber receives the full merged pane list after each mutation.
type Subscriber func(panes []model.Pane)

// Store holds panes across the global and per-project tiers and keeps
// both backed by JSON documents on disk. Saves are fire-and-forget;
// call Flush to wait for pending writes.
type Store struct {
	mu      sync.Mutex
	log     zerolog.Logger
	dataDir string

	global    *tier
	project   *tier
	projectID string

	subs    map[int]Subscriber
	nextSub int
	events  chan Event

	saves sync.WaitGroup
	now   func() int64
}

// New returns a Store rooted at dataDir. Call Initialize before use.
func New(dataDir string, log zerolog.Logger) *Store {
	return &Store{
		log:     log.With().Str("component", "store").Logger(),
		dataDir: dataDir,
		subs:    map[int]Subscriber{},
		events:  make(chan Event, 64),
		now:     func() int64 { return time.Now().UnixMilli() },
	}
}

// Initialize loads both tiers for the given project. An empty projectID
// selects the default project document.
func (s *Store) Initialize(projectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectID = projectID
	s.global = loadTier(model.ScopeGlobal, filepath.Join(s.dataDir, "panes.json"), s.log)
	s.project = loadTier(model.ScopeProject, s.projectPath(projectID), s.log)
	s.log.Debug().
		Int("global", len(s.global.cfg.Panes)).
		Int("project", len(s.project.cfg.Panes)).
		Str("project_id", projectID).
		Msg("pane store initialized")
}

func (s *Store) projectPath(projectID string) string {
	if projectID == "" {
		projectID = "default"
	}
	return filepath.Join(s.dataDir, fmt.Sprintf("panes.%s.json", projectID))
}

// SwitchProject swaps the project tier for another project's document.
// The global tier is untouched.
func (s *Store) SwitchProject(projectID string) {
	s.mu.Lock()
	if projectID == s.projectID && s.project != nil {
		s.mu.Unlock()
		return
	}
	s.projectID = projectID
	s.project = loadTier(model.ScopeProject, s.projectPath(projectID), s.log)
	s.mu.Unlock()

	s.emit(Event{Type: EventProjectSwitched})
	s.notify()
}

// Panes returns all panes, global tier first, each tier in insertion order.
func (s *Store) Panes() []model.Pane {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panesLocked()
}

func (s *Store) panesLocked() []model.Pane {
	out := make([]model.Pane, 0, len(s.global.cfg.Panes)+len(s.project.cfg.Panes))
	out = append(out, s.global.cfg.Panes...)
	out = append(out, s.project.cfg.Panes...)
	return out
}

// Pane returns the pane with the given ID from either tier.
func (s *Store) Pane(id string) (model.Pane, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, i := s.locate(id)
	if t == nil {
		return model.Pane{}, false
	}
	return t.cfg.Panes[i], true
}

// EnabledPanes returns only enabled panes.
func (s *Store) EnabledPanes() []model.Pane {
	return s.filter(func(p model.Pane) bool { return p.Enabled })
}

// TemplatePanes returns panes installed from a built-in template.
func (s *Store) TemplatePanes() []model.Pane {
	return s.filter(func(p model.Pane) bool { return p.TemplateID != "" })
}

// CustomPanes returns user-authored panes.
func (s *Store) CustomPanes() []model.Pane {
	return s.filter(func(p model.Pane) bool { return p.TemplateID == "" })
}

func (s *Store) filter(keep func(model.Pane) bool) []model.Pane {
	all := s.Panes()
	out := make([]model.Pane, 0, len(all))
	for _, p := range all {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// CreatePane assigns identity fields and stores the pane in the tier
// named by its scope, defaulting to the project tier.
func (s *Store) CreatePane(p model.Pane) model.Pane {
	s.mu.Lock()
	if p.Scope == "" {
		p.Scope = model.ScopeProject
	}
	p.ID = uuid.NewString()
	ts := s.now()
	p.CreatedAt = ts
	p.UpdatedAt = ts
	if p.Locations == nil {
		p.Locations = model.Locations()
	}

	t := s.tierFor(p.Scope)
	t.cfg.Panes = append(t.cfg.Panes, p)
	s.persistLocked(t)
	s.mu.Unlock()

	s.emit(Event{Type: EventCreated, PaneID: p.ID, Pane: &p})
	s.notify()
	return p
}

// UpdatePane applies an update to the pane with the given ID. A scope
// change moves the pane across tiers, persisting both documents. The
// second return is false when the pane does not exist.
func (s *Store) UpdatePane(id string, upd model.PaneUpdate) (model.Pane, bool) {
	s.mu.Lock()
	t, i := s.locate(id)
	if t == nil {
		s.mu.Unlock()
		return model.Pane{}, false
	}

	p := t.cfg.Panes[i]
	upd.Apply(&p)
	p.ID = id
	p.UpdatedAt = s.now()

	target := s.tierFor(p.Scope)
	if target == t {
		t.cfg.Panes[i] = p
		s.persistLocked(t)
	} else {
		t.remove(i)
		target.cfg.Panes = append(target.cfg.Panes, p)
		s.persistLocked(t)
		s.persistLocked(target)
	}
	s.mu.Unlock()

	s.emit(Event{Type: EventUpdated, PaneID: id, Pane: &p})
	s.notify()
	return p, true
}

// DeletePane removes the pane with the given ID. It reports whether a
// pane was removed.
func (s *Store) DeletePane(id string) bool {
	s.mu.Lock()
	t, i := s.locate(id)
	if t == nil {
		s.mu.Unlock()
		return false
	}
	t.remove(i)
	s.persistLocked(t)
	s.mu.Unlock()

	s.emit(Event{Type: EventDeleted, PaneID: id})
	s.notify()
	return true
}

// TogglePane sets a pane's enabled flag. It is an update like any
// other, so it emits the update event followed by the toggle event.
func (s *Store) TogglePane(id string, enabled bool) (model.Pane, bool) {
	s.mu.Lock()
	t, i := s.locate(id)
	if t == nil {
		s.mu.Unlock()
		return model.Pane{}, false
	}
	t.cfg.Panes[i].Enabled = enabled
	t.cfg.Panes[i].UpdatedAt = s.now()
	p := t.cfg.Panes[i]
	s.persistLocked(t)
	s.mu.Unlock()

	s.emit(Event{Type: EventUpdated, PaneID: id, Pane: &p})
	s.emit(Event{Type: EventToggled, PaneID: id, Pane: &p, Enabled: enabled})
	s.notify()
	return p, true
}

// EnsureTemplatesInstalled seeds the built-in templates into the global
// tier once. Subsequent calls are no-ops, even after templates are
// deleted by the user. It returns the number of panes installed.
func (s *Store) EnsureTemplatesInstalled() int {
	s.mu.Lock()
	if s.global.cfg.TemplatesSeeded {
		s.mu.Unlock()
		return 0
	}

	installed := 0
	for _, tpl := range templates.All() {
		if s.templateInstalledLocked(tpl.TemplateID) {
			continue
		}
		s.installTemplateLocked(tpl)
		installed++
	}
	s.global.cfg.TemplatesSeeded = true
	s.persistLocked(s.global)
	s.mu.Unlock()

	if installed > 0 {
		s.notify()
	}
	return installed
}

// InstallTemplate installs one built-in template into the global tier,
// returning the existing pane when it is already installed. The second
// return is false for an unknown template ID.
func (s *Store) InstallTemplate(templateID string) (model.Pane, bool) {
	tpl, ok := templates.ByID(templateID)
	if !ok {
		return model.Pane{}, false
	}

	s.mu.Lock()
	for i := range s.global.cfg.Panes {
		if s.global.cfg.Panes[i].TemplateID == templateID {
			p := s.global.cfg.Panes[i]
			s.mu.Unlock()
			return p, true
		}
	}
	p := s.installTemplateLocked(tpl)
	s.persistLocked(s.global)
	s.mu.Unlock()

	s.emit(Event{Type: EventCreated, PaneID: p.ID, Pane: &p})
	s.notify()
	return p, true
}

func (s *Store) templateInstalledLocked(templateID string) bool {
	for i := range s.global.cfg.Panes {
		if s.global.cfg.Panes[i].TemplateID == templateID {
			return true
		}
	}
	return false
}

func (s *Store) installTemplateLocked(tpl model.Pane) model.Pane {
	tpl.ID = uuid.NewString()
	ts := s.now()
	tpl.CreatedAt = ts
	tpl.UpdatedAt = ts
	tpl.Scope = model.ScopeGlobal
	if tpl.Locations == nil {
		tpl.Locations = model.Locations()
	}
	s.global.cfg.Panes = append(s.global.cfg.Panes, tpl)
	return tpl
}

// Subscribe registers a callback invoked with the merged pane list after
// each mutation. The returned function removes the subscription.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Events exposes the store's change feed. Events are dropped, not
// blocked on, when the consumer falls behind.
func (s *Store) Events() <-chan Event {
	return s.events
}

// Flush blocks until all pending document writes have completed.
func (s *Store) Flush() {
	s.saves.Wait()
}

func (s *Store) locate(id string) (*tier, int) {
	if i := s.global.find(id); i >= 0 {
		return s.global, i
	}
	if i := s.project.find(id); i >= 0 {
		return s.project, i
	}
	return nil, -1
}

func (s *Store) tierFor(scope model.Scope) *tier {
	if scope == model.ScopeGlobal {
		return s.global
	}
	return s.project
}

// persistLocked snapshots the tier document under the store lock and
// hands it to the tier's drain goroutine. At most one drain goroutine
// runs per tier; snapshots queued while it is busy coalesce, so the
// file always ends up holding the newest state.
func (s *Store) persistLocked(t *tier) {
	data, err := json.MarshalIndent(t.cfg, "", "  ")
	if err != nil {
		s.log.Error().Err(err).Str("path", t.path).Msg("could not encode pane document")
		return
	}
	t.pending = data
	if t.writing {
		return
	}
	t.writing = true
	s.saves.Add(1)
	go s.drainWrites(t)
}

// drainWrites flushes snapshots for one tier until none are pending.
func (s *Store) drainWrites(t *tier) {
	defer s.saves.Done()
	for {
		s.mu.Lock()
		data := t.pending
		t.pending = nil
		if data == nil {
			t.writing = false
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		if err := os.MkdirAll(filepath.Dir(t.path), 0o700); err != nil {
			s.log.Error().Err(err).Str("path", t.path).Msg("could not create data directory")
			continue
		}
		if err := os.WriteFile(t.path, data, 0o600); err != nil {
			s.log.Error().Err(err).Str("path", t.path).Msg("could not write pane document")
		}
	}
}

func (s *Store) emit(e Event) {
	select {
	case s.events <- e:
	default:
		s.log.Debug().Str("type", string(e.Type)).Msg("event channel full, dropping event")
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	panes := s.panesLocked()
	subs := make([]Subscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(panes)
	}
}
