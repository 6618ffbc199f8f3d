package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"panekit/internal/model"
)

// tier is one scope's pane collection and its backing document.
type tier struct {
	scope model.Scope
	path  string
	cfg   model.PanesConfig

	// pending holds the newest encoded snapshot awaiting write; writing
	// is true while a drain goroutine is flushing it. Both are guarded
	// by the store mutex, so writes per tier are serialized and always
	// settle the file to the latest snapshot.
	pending []byte
	writing bool
}

// loadTier reads a tier document from disk. A missing or structurally
// invalid document resets the tier to the empty default and rewrites it;
// loading never fails. Validation is shallow: the document must be a JSON
// object whose "panes" member is an array. Per-pane field types are not
// checked.
func loadTier(scope model.Scope, path string, log zerolog.Logger) *tier {
	t := &tier{scope: scope, path: path, cfg: model.DefaultConfig()}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("pane document unreadable, resetting to defaults")
		}
		t.reset(log)
		return t
	}

	if !structurallyValid(data) {
		// Known data-loss behavior: the corrupt document is replaced
		// without a backup.
		log.Warn().Str("path", path).Msg("pane document structurally invalid, resetting to defaults")
		t.reset(log)
		return t
	}

	var cfg model.PanesConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("pane document undecodable, resetting to defaults")
		t.reset(log)
		return t
	}
	if cfg.Version == 0 {
		cfg.Version = model.ConfigVersion
	}
	if cfg.Panes == nil {
		cfg.Panes = []model.Pane{}
	}
	t.cfg = cfg
	return t
}

func structurallyValid(data []byte) bool {
	if !gjson.ValidBytes(data) {
		return false
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return false
	}
	return doc.Get("panes").IsArray()
}

// reset restores the default document and persists it synchronously.
func (t *tier) reset(log zerolog.Logger) {
	t.cfg = model.DefaultConfig()
	if err := t.write(); err != nil {
		log.Warn().Err(err).Str("path", t.path).Msg("could not write default pane document")
	}
}

// write persists the tier document.
func (t *tier) write() error {
	data, err := json.MarshalIndent(t.cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(t.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(t.path, data, 0o600)
}

// find returns the index of the pane with the given ID, or -1.
func (t *tier) find(id string) int {
	for i := range t.cfg.Panes {
		if t.cfg.Panes[i].ID == id {
			return i
		}
	}
	return -1
}

// remove deletes the pane at index i, preserving order.
func (t *tier) remove(i int) {
	t.cfg.Panes = append(t.cfg.Panes[:i], t.cfg.Panes[i+1:]...)
}
