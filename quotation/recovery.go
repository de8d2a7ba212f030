package quotation

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"webnova-cotizador/models"
)

// RecoveryKey is the storage key of the crash-recovery value
const RecoveryKey = "webnova-quotation"

// RecoveryStore is a small key/value store for the crash-recovery value
type RecoveryStore interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
}

// FileStore keeps one JSON file per key inside dir
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Ensure FileStore implements RecoveryStore
var _ RecoveryStore = (*FileStore)(nil)

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Load reads the value stored under key
func (f *FileStore) Load(key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		return nil, fmt.Errorf("failed to read recovery file: %w", err)
	}
	return data, nil
}

// Save writes the value under key, replacing the previous file atomically
func (f *FileStore) Save(key string, data []byte) error {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("failed to create recovery directory: %w", err)
	}
	tmp, err := os.CreateTemp(f.dir, key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp recovery file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write recovery file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close recovery file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace recovery file: %w", err)
	}
	return nil
}

// Restore builds the startup state from the store. A missing or malformed
// value falls back to the default catalog with an empty selection.
func Restore(store RecoveryStore) *State {
	data, err := store.Load(RecoveryKey)
	if err != nil {
		log.Printf("ℹ️  Restore: no recovery data, starting from default catalog (%v)", err)
		return NewState()
	}
	var saved models.RecoveryData
	if err := json.Unmarshal(data, &saved); err != nil {
		log.Printf("⚠️  Restore: recovery data is corrupt, starting from default catalog: %v", err)
		return NewState()
	}
	if saved.Modules == nil {
		saved.Modules = DefaultModules()
		if saved.NextID < DefaultNextID {
			saved.NextID = DefaultNextID
		}
	}
	s := newStateFromData(saved)
	log.Printf("✓ Restore: recovered quotation client=%q modules=%d selected=%d nextId=%d",
		s.clientName, len(s.modules), len(s.selected), s.nextID)
	return s
}

// Autosaver is a write-behind cache for the recovery value: every Notify
// restarts a quiescence timer and only the latest value is written when it fires.
type Autosaver struct {
	store RecoveryStore
	delay time.Duration

	writeMu sync.Mutex // serializes writes to store

	mu         sync.Mutex
	timer      *time.Timer
	pending    []byte
	hasPending bool
	closed     bool
}

// NewAutosaver creates an Autosaver writing to store after delay of quiet
func NewAutosaver(store RecoveryStore, delay time.Duration) *Autosaver {
	return &Autosaver{store: store, delay: delay}
}

// Notify schedules data to be written. It never blocks on the store.
func (a *Autosaver) Notify(data models.RecoveryData) {
	encoded, err := json.Marshal(data)
	if err != nil {
		log.Printf("❌ Autosaver: failed to encode recovery data: %v", err)
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.pending = encoded
	a.hasPending = true
	if a.timer == nil {
		a.timer = time.AfterFunc(a.delay, a.fire)
		return
	}
	a.timer.Reset(a.delay)
}

func (a *Autosaver) fire() {
	if err := a.Flush(); err != nil {
		log.Printf("❌ Autosaver: %v", err)
	}
}

// Flush writes the pending value now, if any
func (a *Autosaver) Flush() error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	a.mu.Lock()
	data, has := a.pending, a.hasPending
	a.pending, a.hasPending = nil, false
	a.mu.Unlock()

	if !has {
		return nil
	}
	if err := a.store.Save(RecoveryKey, data); err != nil {
		return fmt.Errorf("failed to save recovery data: %w", err)
	}
	return nil
}

// Close stops the timer and flushes the last pending value
func (a *Autosaver) Close() error {
	a.mu.Lock()
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
	}
	a.mu.Unlock()
	return a.Flush()
}
