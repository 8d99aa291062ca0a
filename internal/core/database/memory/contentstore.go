package memory

import (
	"context"
	"sync"

	"github.com/mertkaraca/folio/internal/core"
	"github.com/mertkaraca/folio/internal/models"
)

// ContentStore is an in-memory source-of-truth store. Entities keep
// insertion order per type, matching the SQL adapter's created_at
// ordering.
type ContentStore struct {
	mu       sync.RWMutex
	entities map[string][]models.Entity // by source type, insertion order
}

func NewContentStore() *ContentStore {
	return &ContentStore{entities: make(map[string][]models.Entity)}
}

// Put inserts or replaces an entity under its Type.
func (s *ContentStore) Put(entity models.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.entities[entity.Type]
	for i := range list {
		if list[i].ID == entity.ID {
			list[i] = entity
			return
		}
	}
	s.entities[entity.Type] = append(list, entity)
}

// Remove deletes an entity, mimicking a hard delete in the source
// store.
func (s *ContentStore) Remove(sourceType, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.entities[sourceType]
	for i := range list {
		if list[i].ID == id {
			s.entities[sourceType] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

func (s *ContentStore) FindEntitiesByType(_ context.Context, sourceType string, eligibleOnly bool) ([]models.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Entity
	for _, e := range s.entities[sourceType] {
		if eligibleOnly && !eligibleStatus(sourceType, e.Status) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *ContentStore) FindEntityByID(_ context.Context, sourceType, id string) (*models.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entities[sourceType] {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

// eligibleStatus mirrors the SQL adapter's query-level publish-state
// filter.
func eligibleStatus(sourceType, status string) bool {
	switch sourceType {
	case models.SourceTypeProject:
		return status == "Completed"
	case models.SourceTypeBlog:
		return status == "published"
	default:
		return true
	}
}

var _ core.ContentStore = (*ContentStore)(nil)
