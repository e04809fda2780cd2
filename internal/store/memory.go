package store

import (
	"context"
	"sort"
	"sync"

	"github.com/karmamapper/karmamapper/backend-go/internal/document"
)

// MemoryStore keeps scenes in memory, encoded the same way FileStore writes
// them so that callers never share a document.
type MemoryStore struct {
	mu     sync.RWMutex
	scenes map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scenes: make(map[string][]byte)}
}

func (s *MemoryStore) Load(ctx context.Context, name string) (*document.SceneDoc, error) {
	key, err := sceneKey(name)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	data, ok := s.scenes[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return document.Unmarshal(data)
}

func (s *MemoryStore) Save(ctx context.Context, name string, doc *document.SceneDoc) error {
	key, err := sceneKey(name)
	if err != nil {
		return err
	}
	data, err := document.Marshal(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.scenes[key] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	names := make([]string, 0, len(s.scenes))
	for name := range s.scenes {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)
	return names, nil
}
