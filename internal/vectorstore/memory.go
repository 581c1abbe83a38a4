package vectorstore

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-process Store. It backs short-lived indexes built
// from already retrieved documents.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	vectorSize int
	order      []string
	points     map[string]Point
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

// EnsureCollection creates the collection if it does not exist.
func (s *MemoryStore) EnsureCollection(_ context.Context, collection string, vectorSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.collections[collection]; ok {
		if c.vectorSize != 0 && c.vectorSize != vectorSize {
			return fmt.Errorf("collection vector size mismatch: expected %d, got %d", vectorSize, c.vectorSize)
		}
		return nil
	}
	s.collections[collection] = &memoryCollection{vectorSize: vectorSize, points: make(map[string]Point)}
	return nil
}

// DropCollection removes the collection.
func (s *MemoryStore) DropCollection(_ context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, collection)
	return nil
}

// Commit is a no-op; points are visible as soon as they are upserted.
func (s *MemoryStore) Commit(context.Context, string) error {
	return nil
}

// IsReady reports whether the collection holds any points.
func (s *MemoryStore) IsReady(_ context.Context, collection string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[collection]
	return ok && len(c.points) > 0, nil
}

// Upsert inserts or replaces points, creating the collection on first use.
func (s *MemoryStore) Upsert(_ context.Context, collection string, points []Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		c = &memoryCollection{points: make(map[string]Point)}
		s.collections[collection] = c
	}
	for _, p := range points {
		if c.vectorSize == 0 {
			c.vectorSize = len(p.Vec)
		}
		if len(p.Vec) != c.vectorSize {
			return fmt.Errorf("point %s has %d dimensions, collection expects %d", p.ID, len(p.Vec), c.vectorSize)
		}
		if _, exists := c.points[p.ID]; !exists {
			c.order = append(c.order, p.ID)
		}
		c.points[p.ID] = p
	}
	return nil
}

// Search returns the k closest points matching filters.
func (s *MemoryStore) Search(_ context.Context, collection string, query []float32, k int, filters map[string]any) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
	}
	candidates := make([]candidate, 0, len(c.order))
	for _, id := range c.order {
		p := c.points[id]
		candidates = append(candidates, candidate{id: p.ID, vec: p.Vec, meta: p.Meta})
	}
	return rank(query, candidates, k, filters), nil
}

// Delete removes points by ID.
func (s *MemoryStore) Delete(_ context.Context, collection string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		return nil
	}
	for _, id := range ids {
		delete(c.points, id)
	}
	order := c.order[:0]
	for _, id := range c.order {
		if _, ok := c.points[id]; ok {
			order = append(order, id)
		}
	}
	c.order = order
	return nil
}
