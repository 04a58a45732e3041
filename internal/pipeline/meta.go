package pipeline

import (
	"maps"
	"sync"
)

// MetaStore records module metadata. Hosts may transform modules in
// parallel, so every access is guarded.
type MetaStore struct {
	mu      sync.RWMutex
	modules map[string]Meta
}

// NewMetaStore returns an empty store.
func NewMetaStore() *MetaStore {
	return &MetaStore{modules: make(map[string]Meta)}
}

// Merge shallow-merges meta into the record of module id.
func (s *MetaStore) Merge(id string, meta Meta) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.modules[id]
	if !ok {
		current = make(Meta, len(meta))
		s.modules[id] = current
	}
	maps.Copy(current, meta)
}

// ModuleInfo returns a copy of the metadata recorded for id.
func (s *MetaStore) ModuleInfo(id string) (*ModuleInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta, ok := s.modules[id]
	if !ok {
		return nil, false
	}
	return &ModuleInfo{ID: id, Meta: maps.Clone(meta)}, true
}
