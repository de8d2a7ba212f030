// Package quotation holds the in-progress quotation: the module catalog,
// the selection set and the client metadata. Every mutation goes through a
// named transition on State so the catalog/selection invariants live in one place.
package quotation

import (
	"errors"
	"strings"
	"sync"

	"webnova-cotizador/models"
	"webnova-cotizador/utils"
)

// ErrModuleNotFound is returned when an edit or delete targets an unknown id
var ErrModuleNotFound = errors.New("module not found")

// State is the single source of truth for the working quotation.
// The zero value is not usable; use NewState or Restore.
type State struct {
	mu          sync.Mutex
	clientName  string
	projectType string
	modules     []models.Module
	selected    []int // insertion order, ids always present in modules
	nextID      int
	observers   []func(models.RecoveryData)
}

// NewState creates a state seeded with the default catalog and no selection
func NewState() *State {
	return &State{
		modules:  DefaultModules(),
		selected: []int{},
		nextID:   DefaultNextID,
	}
}

// newStateFromData builds a state from recovered or imported data, enforcing invariants
func newStateFromData(data models.RecoveryData) *State {
	s := &State{
		clientName:  data.ClientName,
		projectType: data.ProjectType,
		modules:     append([]models.Module(nil), data.Modules...),
		nextID:      data.NextID,
	}
	if s.modules == nil {
		s.modules = []models.Module{}
	}
	if floor := maxID(s.modules) + 1; s.nextID < floor {
		s.nextID = floor
	}
	s.selected = s.existingIDs(data.SelectedModuleIDs)
	return s
}

// OnChange registers fn to be called after every successful mutation.
// fn runs while the state lock is held and must not call back into State.
func (s *State) OnChange(fn func(models.RecoveryData)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// ValidateModuleInput checks the fields every module must carry
func ValidateModuleInput(in models.ModuleInput) error {
	v := utils.Violations{}
	utils.Required("name", in.Name, v)
	utils.NonNegative("price", in.Price, v)
	if in.EstimatedHours < 0 {
		v["estimatedHours"] = "must_not_be_negative"
	}
	return v.Err()
}

// SetClient replaces client name and project type
func (s *State) SetClient(clientName, projectType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientName = strings.TrimSpace(clientName)
	s.projectType = strings.TrimSpace(projectType)
	s.changed()
}

// ToggleSelect flips membership of id in the selection set.
// An id that is not in the catalog is ignored.
func (s *State) ToggleSelect(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(id) < 0 {
		return
	}
	for i, sel := range s.selected {
		if sel == id {
			s.selected = append(s.selected[:i:i], s.selected[i+1:]...)
			s.changed()
			return
		}
	}
	s.selected = append(s.selected, id)
	s.changed()
}

// ClearSelection empties the selection set
func (s *State) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = []int{}
	s.changed()
}

// AddModule appends a module with the next id. Ids are never reused.
func (s *State) AddModule(in models.ModuleInput) models.Module {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.appendModule(in)
	s.changed()
	return m
}

// AcceptSuggestion turns an advisory suggestion into a catalog module
func (s *State) AcceptSuggestion(sg models.ModuleSuggestion) models.Module {
	return s.AddModule(sg.Input())
}

// EditModule replaces the fields of module id in place; id and selection are kept
func (s *State) EditModule(id int, in models.ModuleInput) (models.Module, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Module{}, ErrModuleNotFound
	}
	s.modules[i] = moduleFromInput(id, in)
	s.changed()
	return s.modules[i], nil
}

// DeleteModule removes module id from the catalog and the selection in one transition
func (s *State) DeleteModule(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ErrModuleNotFound
	}
	s.modules = append(s.modules[:i:i], s.modules[i+1:]...)
	kept := make([]int, 0, len(s.selected))
	for _, sel := range s.selected {
		if sel != id {
			kept = append(kept, sel)
		}
	}
	s.selected = kept
	s.changed()
	return nil
}

// View returns a copy of the current state
func (s *State) View() models.QuotationView {
	s.mu.Lock()
	defer s.mu.Unlock()
	selected := s.selectedModules()
	return models.QuotationView{
		ClientName:        s.clientName,
		ProjectType:       s.projectType,
		Modules:           append([]models.Module{}, s.modules...),
		SelectedModuleIDs: append([]int{}, s.selected...),
		SelectedModules:   selected,
		NextID:            s.nextID,
		Total:             sumPrices(selected),
	}
}

// SelectedModules returns the selected modules in catalog order
func (s *State) SelectedModules() []models.Module {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedModules()
}

// Total is the sum of prices of the selected modules, recomputed on every call
func (s *State) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sumPrices(s.selectedModules())
}

// NextID returns the id the next added module will receive
func (s *State) NextID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextID
}

// Recovery returns the value persisted for crash recovery
func (s *State) Recovery() models.RecoveryData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recovery()
}

func (s *State) recovery() models.RecoveryData {
	return models.RecoveryData{
		ClientName:        s.clientName,
		ProjectType:       s.projectType,
		Modules:           append([]models.Module{}, s.modules...),
		SelectedModuleIDs: append([]int{}, s.selected...),
		NextID:            s.nextID,
	}
}

func (s *State) changed() {
	if len(s.observers) == 0 {
		return
	}
	data := s.recovery()
	for _, fn := range s.observers {
		fn(data)
	}
}

func (s *State) appendModule(in models.ModuleInput) models.Module {
	m := moduleFromInput(s.nextID, in)
	s.modules = append(s.modules, m)
	s.nextID++
	return m
}

func (s *State) indexOf(id int) int {
	for i, m := range s.modules {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (s *State) isSelected(id int) bool {
	for _, sel := range s.selected {
		if sel == id {
			return true
		}
	}
	return false
}

func (s *State) selectedModules() []models.Module {
	out := make([]models.Module, 0, len(s.selected))
	for _, m := range s.modules {
		if s.isSelected(m.ID) {
			out = append(out, m)
		}
	}
	return out
}

// existingIDs keeps the ids that exist in the catalog, without duplicates
func (s *State) existingIDs(ids []int) []int {
	out := make([]int, 0, len(ids))
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] || s.indexOf(id) < 0 {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func moduleFromInput(id int, in models.ModuleInput) models.Module {
	return models.Module{
		ID:             id,
		Name:           strings.TrimSpace(in.Name),
		Price:          in.Price,
		Description:    strings.TrimSpace(in.Description),
		Category:       strings.TrimSpace(in.Category),
		EstimatedHours: in.EstimatedHours,
	}
}

func sumPrices(modules []models.Module) int64 {
	var total int64
	for _, m := range modules {
		total += m.Price
	}
	return total
}
