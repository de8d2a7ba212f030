package quotation

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webnova-cotizador/models"
)

type memoryStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	writes int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}}
}

func (m *memoryStore) Load(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[key]
	if !ok {
		return nil, os.ErrNotExist
	}
	return d, nil
}

func (m *memoryStore) Save(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	m.writes++
	return nil
}

func (m *memoryStore) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func TestFileStoreSaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "recovery")
	store := NewFileStore(dir)

	_, err := store.Load(RecoveryKey)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	require.NoError(t, store.Save(RecoveryKey, []byte(`{"a":1}`)))
	require.NoError(t, store.Save(RecoveryKey, []byte(`{"a":2}`)))

	data, err := store.Load(RecoveryKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are renamed away")
}

func TestRestoreWithoutDataUsesDefaults(t *testing.T) {
	s := Restore(newMemoryStore())

	view := s.View()
	assert.Len(t, view.Modules, 14)
	assert.Empty(t, view.SelectedModuleIDs)
	assert.Equal(t, DefaultNextID, view.NextID)
}

func TestRestoreCorruptDataUsesDefaults(t *testing.T) {
	store := newMemoryStore()
	store.data[RecoveryKey] = []byte("{not json")

	s := Restore(store)

	assert.Len(t, s.View().Modules, 14)
	assert.Empty(t, s.View().SelectedModuleIDs)
}

func TestRestoreRecomputesNextIDAndDropsDanglingSelection(t *testing.T) {
	store := newMemoryStore()
	saved := models.RecoveryData{
		ClientName:        "Ana",
		ProjectType:       "Tienda",
		Modules:           []models.Module{{ID: 1, Name: "A", Price: 10}, {ID: 20, Name: "B", Price: 30}},
		SelectedModuleIDs: []int{20, 5},
		NextID:            4,
	}
	data, err := json.Marshal(saved)
	require.NoError(t, err)
	store.data[RecoveryKey] = data

	s := Restore(store)

	view := s.View()
	assert.Equal(t, "Ana", view.ClientName)
	assert.Equal(t, []int{20}, view.SelectedModuleIDs)
	assert.Equal(t, 21, view.NextID)
}

func TestRestoreKeepsHigherStoredNextID(t *testing.T) {
	store := newMemoryStore()
	store.data[RecoveryKey] = []byte(`{"modules":[{"id":1,"name":"A","price":1}],"selectedModuleIds":[],"nextId":50}`)

	assert.Equal(t, 50, Restore(store).NextID())
}

func TestAutosaverDebounces(t *testing.T) {
	store := newMemoryStore()
	saver := NewAutosaver(store, 30*time.Millisecond)

	for i := 1; i <= 5; i++ {
		saver.Notify(models.RecoveryData{ClientName: "Ana", NextID: i})
	}

	require.Eventually(t, func() bool { return store.writeCount() == 1 }, time.Second, 5*time.Millisecond)

	var saved models.RecoveryData
	data, err := store.Load(RecoveryKey)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, 5, saved.NextID, "only the latest value is written")

	require.NoError(t, saver.Close())
	assert.Equal(t, 1, store.writeCount(), "nothing pending on close")
}

func TestAutosaverCloseFlushesPending(t *testing.T) {
	store := newMemoryStore()
	saver := NewAutosaver(store, time.Hour)

	saver.Notify(models.RecoveryData{ClientName: "Ana", NextID: 15})
	assert.Equal(t, 0, store.writeCount())

	require.NoError(t, saver.Close())
	assert.Equal(t, 1, store.writeCount())

	saver.Notify(models.RecoveryData{ClientName: "late"})
	require.NoError(t, saver.Flush())
	assert.Equal(t, 1, store.writeCount(), "notifications after close are dropped")
}

func TestStateChangesReachRecoveryStore(t *testing.T) {
	store := newMemoryStore()
	saver := NewAutosaver(store, time.Hour)
	s := NewState()
	s.OnChange(saver.Notify)

	s.SetClient("Rent Car RD", "Reservas")
	s.ToggleSelect(1)
	added := s.AddModule(models.ModuleInput{Name: "Blog", Price: 3000})
	s.ToggleSelect(added.ID)
	require.NoError(t, saver.Flush())

	restored := Restore(store)
	assert.Equal(t, s.View(), restored.View())
}
