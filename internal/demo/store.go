// Package demo implements the demo-mode data layer: a file-backed record
// store that stands in for the database, a resolver that prefers demo
// records over live ones, and a mutation mirror that applies writes to the
// store. It exists so the application stays demonstrable without live
// infrastructure.
package demo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/magicmenu/magicmenu-backend/pkg/logger"
)

// Collection keys. Each names a JSON array of the corresponding entity.
const (
	CollectionRestaurants = "demo_restaurants"
	CollectionCategories  = "demo_categories"
	CollectionMenuItems   = "demo_menu_items"
	CollectionReviews     = "demo_reviews"
	CollectionUsers       = "demo_users"
)

// RecordStore persists named collections as JSON arrays.
//
// Read decodes a whole collection into out (a pointer to a slice). A missing
// collection or undecodable content leaves out empty and returns nil, so the
// caller never sees a read error. Write replaces the whole collection,
// last-writer-wins. Append is read-all plus write-all with one record added.
type RecordStore interface {
	Read(collection string, out interface{}) error
	Write(collection string, records interface{}) error
	Append(collection string, record interface{}) error
}

// FileStore keeps one JSON file per collection under a data directory.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

func (s *FileStore) Read(collection string, out interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked(collection, out)
}

func (s *FileStore) readLocked(collection string, out interface{}) error {
	data, err := os.ReadFile(s.path(collection))
	if err != nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		logger.Warn("Discarding undecodable demo collection", map[string]interface{}{
			"collection": collection,
		})
	}
	return nil
}

func (s *FileStore) Write(collection string, records interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(collection, records)
}

func (s *FileStore) writeLocked(collection string, records interface{}) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}

	// Write-then-rename so a crash mid-write never leaves a half-written
	// collection behind.
	tmp := s.path(collection) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path(collection))
}

func (s *FileStore) Append(collection string, record interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []json.RawMessage
	if err := s.readLocked(collection, &records); err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	records = append(records, data)

	return s.writeLocked(collection, records)
}

// MemoryStore is an in-memory RecordStore for tests.
type MemoryStore struct {
	collections map[string][]byte
	mu          sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]byte)}
}

func (s *MemoryStore) Read(collection string, out interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.collections[collection]
	if !ok {
		return nil
	}
	// Ignore decode failures the same way FileStore does.
	_ = json.Unmarshal(data, out)
	return nil
}

func (s *MemoryStore) Write(collection string, records interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	s.collections[collection] = data
	return nil
}

func (s *MemoryStore) Append(collection string, record interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []json.RawMessage
	if data, ok := s.collections[collection]; ok {
		_ = json.Unmarshal(data, &records)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	records = append(records, data)

	out, err := json.Marshal(records)
	if err != nil {
		return err
	}
	s.collections[collection] = out
	return nil
}
