package quotation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webnova-cotizador/models"
)

func TestExportSnapshot(t *testing.T) {
	s := NewState()
	s.SetClient("Rent Car RD", "Reservas")
	s.ToggleSelect(1)
	s.ToggleSelect(6)

	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	file := s.ExportSnapshot(now)

	assert.Equal(t, "Rent Car RD", file.Client)
	assert.Equal(t, "Reservas", file.ProjectType)
	assert.Equal(t, []int{1, 6}, file.Selected)
	assert.Equal(t, "2026-03-14T09:30:00Z", file.Timestamp)
	assert.Equal(t, "3.0", file.Version)
	assert.Equal(t, int64(5500), file.TotalAmount)
	assert.Len(t, file.Modules, 14)
}

func TestExportImportRoundTrip(t *testing.T) {
	src := NewState()
	src.SetClient("Rent Car RD", "Reservas")
	src.AddModule(models.ModuleInput{Name: "Chat en vivo", Price: 4500, Category: "Integration"})
	require.NoError(t, src.DeleteModule(2))
	src.ToggleSelect(15)
	src.ToggleSelect(4)

	data, err := json.Marshal(src.ExportSnapshot(time.Now()))
	require.NoError(t, err)

	dst := NewState()
	require.NoError(t, dst.ImportSnapshot(data))

	want, got := src.View(), dst.View()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 16, dst.NextID())
}

func TestImportSnapshotRejectsInvalidInput(t *testing.T) {
	cases := map[string]string{
		"not json":          `{"client": `,
		"missing modules":   `{"client": "Ana", "selected": [1]}`,
		"null modules":      `{"client": "Ana", "modules": null}`,
		"object modules":    `{"client": "Ana", "modules": {"id": 1}}`,
		"duplicate ids":     `{"modules": [{"id": 1, "name": "A", "price": 1}, {"id": 1, "name": "B", "price": 2}]}`,
		"wrong module type": `{"modules": [{"id": "one"}]}`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			s := NewState()
			s.SetClient("Original", "Proyecto")
			s.ToggleSelect(3)
			before := s.View()

			err := s.ImportSnapshot([]byte(payload))

			assert.ErrorIs(t, err, ErrInvalidSnapshot)
			assert.Equal(t, before, s.View(), "state must be untouched")
		})
	}
}

func TestImportSnapshotFiltersDanglingSelection(t *testing.T) {
	s := NewState()
	payload := `{"client": "Ana", "projectType": "Tienda",
		"modules": [{"id": 4, "name": "A", "price": 100}, {"id": 10, "name": "B", "price": 200}],
		"selected": [10, 77, 4]}`

	require.NoError(t, s.ImportSnapshot([]byte(payload)))

	view := s.View()
	assert.Equal(t, []int{10, 4}, view.SelectedModuleIDs)
	assert.Equal(t, 11, view.NextID)
	assert.Equal(t, int64(300), s.Total())
}

func TestImportSnapshotEmptyCatalog(t *testing.T) {
	s := NewState()
	require.NoError(t, s.ImportSnapshot([]byte(`{"modules": []}`)))

	assert.Empty(t, s.View().Modules)
	assert.Equal(t, 1, s.NextID())
}

func TestLoadRecordReconciliation(t *testing.T) {
	s := NewState()
	s.SetClient("Previous", "Old")
	s.ToggleSelect(1)

	record := models.QuotationRecord{
		ClientName:  "Rent Car RD",
		ProjectType: "Reservas",
		SelectedModules: []models.Module{
			{ID: 7, Name: "Pasarela de Pago", Price: 18000},        // id match
			{ID: 200, Name: "Hosting + Dominio", Price: 2000},      // name+price match
			{ID: 300, Name: "App Móvil", Price: 25000},             // no match
			{ID: 301, Name: "Landing Page", Price: 9999},           // same name, other price
			{ID: 7, Name: "Pasarela de Pago", Price: 18000},        // duplicate
		},
	}

	nextIDBefore := s.NextID()
	selected := s.LoadRecord(record)

	require.Len(t, selected, 4)
	assert.Equal(t, 7, selected[0])
	assert.Equal(t, 6, selected[1])
	assert.Greater(t, selected[2], nextIDBefore)
	assert.Equal(t, 16, selected[2])
	assert.Equal(t, 17, selected[3])

	view := s.View()
	assert.Equal(t, "Rent Car RD", view.ClientName)
	assert.Equal(t, "Reservas", view.ProjectType)
	assert.Equal(t, selected, view.SelectedModuleIDs)
	assert.Len(t, view.Modules, 16)
	assert.Equal(t, 18, view.NextID)
	assert.Equal(t, int64(18000+2000+25000+9999), s.Total())
}

func TestLoadRecordMintsIDAboveLiveCatalog(t *testing.T) {
	s := newStateFromData(models.RecoveryData{
		Modules: []models.Module{{ID: 40, Name: "A", Price: 1}},
		NextID:  3,
	})

	selected := s.LoadRecord(models.QuotationRecord{
		SelectedModules: []models.Module{{ID: 1, Name: "Nuevo", Price: 5}},
	})

	require.Len(t, selected, 1)
	assert.Greater(t, selected[0], 40)
}

func TestLoadRecordMintsIDAboveCurrentNextID(t *testing.T) {
	s := NewState()
	nextIDBefore := s.NextID()

	selected := s.LoadRecord(models.QuotationRecord{
		SelectedModules: []models.Module{{ID: 500, Name: "Chat en vivo", Price: 6500}},
	})

	require.Len(t, selected, 1)
	assert.Greater(t, selected[0], nextIDBefore)
	assert.Greater(t, s.NextID(), selected[0])

	// ids keep growing after the load
	added := s.AddModule(models.ModuleInput{Name: "Extra", Price: 1})
	assert.Greater(t, added.ID, selected[0])
}

func TestLoadRecordWithoutNewModulesKeepsNextID(t *testing.T) {
	s := NewState()
	s.LoadRecord(models.QuotationRecord{
		SelectedModules: []models.Module{{ID: 7, Name: "Pasarela de Pago", Price: 18000}},
	})
	assert.Equal(t, DefaultNextID, s.NextID())
}

func TestLoadRecordNameMatchUsesFirstInCatalogOrder(t *testing.T) {
	s := newStateFromData(models.RecoveryData{
		Modules: []models.Module{
			{ID: 5, Name: "Blog", Price: 100},
			{ID: 2, Name: "Blog", Price: 100},
		},
		NextID: 6,
	})

	selected := s.LoadRecord(models.QuotationRecord{
		SelectedModules: []models.Module{{ID: 99, Name: "Blog", Price: 100}},
	})

	assert.Equal(t, []int{5}, selected)
}
