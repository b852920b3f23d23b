// Package memorystore is an in-memory catalog store used in tests and for
// local development. It is non-durable and deliberately not a module-level
// singleton: construct one and inject it.
package memorystore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/tokhel/ink/internal/catalog"
	"github.com/tokhel/ink/internal/entities"
)

type Store struct {
	mu     sync.RWMutex
	novels map[string]entities.Novel
}

var _ catalog.Store = (*Store)(nil)

func New() *Store {
	return &Store{novels: make(map[string]entities.Novel)}
}

func (s *Store) List(ctx context.Context) ([]entities.Novel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Novel, 0, len(s.novels))
	for _, n := range s.novels {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsFeatured != out[j].IsFeatured {
			return out[i].IsFeatured
		}
		return out[i].ReleaseDate.After(out[j].ReleaseDate)
	})
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (*entities.Novel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.novels[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &n, nil
}

func (s *Store) Insert(ctx context.Context, n *entities.Novel) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	s.novels[n.ID] = *n
	return n.ID, nil
}

func (s *Store) Update(ctx context.Context, id string, fields catalog.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.novels[id]
	if !ok {
		return catalog.ErrNotFound
	}
	applyFields(&n, fields)
	s.novels[id] = n
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.novels[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(s.novels, id)
	return nil
}

// ApplyBatch applies every update or none: all ids are checked before the
// first mutation.
func (s *Store) ApplyBatch(ctx context.Context, updates []catalog.BatchUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range updates {
		if _, ok := s.novels[u.ID]; !ok {
			return catalog.ErrNotFound
		}
	}
	for _, u := range updates {
		n := s.novels[u.ID]
		applyFields(&n, u.Fields)
		s.novels[u.ID] = n
	}
	return nil
}

func applyFields(n *entities.Novel, fields catalog.Fields) {
	for k, v := range fields {
		switch k {
		case catalog.FieldTitle:
			n.Title, _ = v.(string)
		case catalog.FieldQuote:
			n.Quote, _ = v.(string)
		case catalog.FieldDescription:
			n.Description, _ = v.(string)
		case catalog.FieldIsFeatured:
			n.IsFeatured, _ = v.(bool)
		}
	}
}
