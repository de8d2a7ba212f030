package quotation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"webnova-cotizador/models"
)

// ErrInvalidSnapshot is returned when an imported file is not a quotation snapshot
var ErrInvalidSnapshot = errors.New("invalid quotation snapshot")

// ExportSnapshot returns the downloadable snapshot of the whole working quotation
func (s *State) ExportSnapshot(now time.Time) models.QuotationFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.QuotationFile{
		Client:      s.clientName,
		ProjectType: s.projectType,
		Modules:     append([]models.Module{}, s.modules...),
		Selected:    append([]int{}, s.selected...),
		Timestamp:   now.UTC().Format(time.RFC3339),
		Version:     models.QuotationFileVersion,
		TotalAmount: sumPrices(s.selectedModules()),
	}
}

// DecodeSnapshot parses an exported snapshot. The modules array is mandatory
// and module ids must be unique.
func DecodeSnapshot(data []byte) (models.QuotationFile, error) {
	var raw struct {
		Client      string          `json:"client"`
		ProjectType string          `json:"projectType"`
		Modules     json.RawMessage `json:"modules"`
		Selected    []int           `json:"selected"`
		Timestamp   string          `json:"timestamp"`
		Version     string          `json:"version"`
		TotalAmount int64           `json:"totalAmount"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.QuotationFile{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	trimmed := bytes.TrimSpace(raw.Modules)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return models.QuotationFile{}, fmt.Errorf("%w: modules array is required", ErrInvalidSnapshot)
	}
	var modules []models.Module
	if err := json.Unmarshal(trimmed, &modules); err != nil {
		return models.QuotationFile{}, fmt.Errorf("%w: modules: %v", ErrInvalidSnapshot, err)
	}
	seen := make(map[int]bool, len(modules))
	for _, m := range modules {
		if seen[m.ID] {
			return models.QuotationFile{}, fmt.Errorf("%w: duplicate module id %d", ErrInvalidSnapshot, m.ID)
		}
		seen[m.ID] = true
	}
	return models.QuotationFile{
		Client:      raw.Client,
		ProjectType: raw.ProjectType,
		Modules:     modules,
		Selected:    raw.Selected,
		Timestamp:   raw.Timestamp,
		Version:     raw.Version,
		TotalAmount: raw.TotalAmount,
	}, nil
}

// ImportSnapshot replaces client, project type, catalog and selection with the
// contents of an exported snapshot. On error the state is left untouched.
// nextID becomes max(imported ids)+1.
func (s *State) ImportSnapshot(data []byte) error {
	file, err := DecodeSnapshot(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientName = file.Client
	s.projectType = file.ProjectType
	s.modules = file.Modules
	s.nextID = maxID(file.Modules) + 1
	s.selected = s.existingIDs(file.Selected)
	s.changed()
	return nil
}

// LoadRecord makes a saved quotation the working quotation. Each snapshot module
// is matched against the live catalog by id, then by (name, price) taking the
// first match in catalog order; unmatched modules are added under fresh ids
// strictly greater than the nextID held before the load.
// The catalog is otherwise kept. Returns the resulting selection.
func (s *State) LoadRecord(record models.QuotationRecord) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Recomputed rather than trusted: manual adds and accepted suggestions both grow the catalog.
	if floor := maxID(s.modules) + 1; s.nextID < floor {
		s.nextID = floor
	}

	before := s.nextID
	selected := make([]int, 0, len(record.SelectedModules))
	seen := make(map[int]bool, len(record.SelectedModules))
	for _, snap := range record.SelectedModules {
		id := s.matchLive(snap)
		if id < 0 {
			// minted ids stay strictly above the nextID seen before the load
			if s.nextID <= before {
				s.nextID = before + 1
			}
			id = s.appendModule(models.ModuleInput{
				Name:           snap.Name,
				Price:          snap.Price,
				Description:    snap.Description,
				Category:       snap.Category,
				EstimatedHours: snap.EstimatedHours,
			}).ID
		}
		if !seen[id] {
			seen[id] = true
			selected = append(selected, id)
		}
	}

	s.clientName = record.ClientName
	s.projectType = record.ProjectType
	s.selected = selected
	s.changed()
	return append([]int{}, selected...)
}

func (s *State) matchLive(snap models.Module) int {
	if s.indexOf(snap.ID) >= 0 {
		return snap.ID
	}
	for _, m := range s.modules {
		if m.Name == snap.Name && m.Price == snap.Price {
			return m.ID
		}
	}
	return -1
}
