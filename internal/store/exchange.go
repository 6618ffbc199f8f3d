package store

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"panekit/internal/model"
)

// exportVersion is the export document format version.
const exportVersion = 1

type exportDocument struct {
	Version    int          `json:"version"`
	ExportDate int64        `json:"exportDate"`
	Panes      []model.Pane `json:"panes"`
}

// Export serializes panes to a portable JSON document. When ids is
// non-empty only the named panes are exported; unknown IDs are ignored.
// Identity fields (id, createdAt, updatedAt) are stripped so the
// document imports cleanly elsewhere.
func (s *Store) Export(ids []string) ([]byte, error) {
	all := s.Panes()

	selected := all
	if len(ids) > 0 {
		want := make(map[string]bool, len(ids))
		for _, id := range ids {
			want[id] = true
		}
		selected = make([]model.Pane, 0, len(ids))
		for _, p := range all {
			if want[p.ID] {
				selected = append(selected, p)
			}
		}
	}

	doc := exportDocument{
		Version:    exportVersion,
		ExportDate: s.now(),
		Panes:      selected,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}

	for i := range selected {
		for _, field := range []string{"id", "createdAt", "updatedAt"} {
			data, err = sjson.DeleteBytes(data, fmt.Sprintf("panes.%d.%s", i, field))
			if err != nil {
				return nil, fmt.Errorf("stripping identity fields: %w", err)
			}
		}
	}
	return data, nil
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Created int
	Skipped int
	Errors  []string
}

// Import merges panes from an export document into the store. Panes are
// matched to existing ones by name: matches are skipped unless overwrite
// is set, in which case the existing pane is updated in place and keeps
// its identity. Unmatched panes are created; those without a scope land
// in the project tier. Individual bad entries are reported in the result
// without aborting the run.
func (s *Store) Import(data []byte, overwrite bool) (ImportResult, error) {
	var res ImportResult

	if !gjson.ValidBytes(data) {
		return res, fmt.Errorf("import document is not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	panes := doc.Get("panes")
	if !panes.IsArray() {
		return res, fmt.Errorf("import document has no panes array")
	}

	byName := map[string]model.Pane{}
	for _, p := range s.Panes() {
		byName[p.Name] = p
	}

	for i, raw := range panes.Array() {
		var p model.Pane
		if err := json.Unmarshal([]byte(raw.Raw), &p); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("pane %d: %v", i, err))
			continue
		}
		if err := p.Validate(); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("pane %d (%s): %v", i, p.Name, err))
			continue
		}

		existing, found := byName[p.Name]
		if found {
			if !overwrite {
				res.Skipped++
				continue
			}
			upd := model.FromPane(p)
			if p.Scope != "" {
				scope := p.Scope
				upd.Scope = &scope
			}
			if _, ok := s.UpdatePane(existing.ID, upd); ok {
				res.Created++
			}
			continue
		}

		created := s.CreatePane(p)
		byName[created.Name] = created
		res.Created++
	}
	return res, nil
}
