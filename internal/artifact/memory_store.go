package artifact

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

type memoryObject struct {
	content     []byte
	contentType string
}

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]memoryObject
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]memoryObject),
	}
}

func (s *MemoryStore) Put(_ context.Context, key string, content []byte, contentType string) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = memoryObject{
		content:     append([]byte(nil), content...),
		contentType: contentType,
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), obj.content...), nil
}

// ContentType returns the content type recorded by Put, or "" when key is absent.
func (s *MemoryStore) ContentType(key string) string {
	key, err := normalizeKey(key)
	if err != nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[key].contentType
}

func (s *MemoryStore) List(_ context.Context, prefix string) ([]string, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	prefix = normalizePrefix(prefix)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.data))
	for key := range s.data {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		out = append(out, key)
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) GetURL(_ context.Context, _ string) (string, error) {
	// Memory store doesn't support URLs
	return "", nil
}
