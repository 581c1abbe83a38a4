package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks repoqa/internal/vectorstore VectorStore,Store

import "context"

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// VectorStore defines the interface for vector storage operations.
type VectorStore interface {
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search performs a similarity search with optional filters.
	// A filter value is either a string (exact match) or a []string (match any).
	Search(ctx context.Context, collection string, query []float32, k int, filters map[string]any) ([]SearchResult, error)

	// Delete removes points by their IDs.
	Delete(ctx context.Context, collection string, ids []string) error
}

// Collections manages the lifecycle of collections.
type Collections interface {
	// EnsureCollection creates the collection if needed and validates its vector size.
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error

	// DropCollection removes the collection and all of its points.
	DropCollection(ctx context.Context, collection string) error

	// Commit marks a fully written collection as complete. Points upserted
	// since EnsureCollection may not be visible to other processes before it.
	Commit(ctx context.Context, collection string) error

	// IsReady reports whether the collection was committed and can be queried.
	IsReady(ctx context.Context, collection string) (bool, error)
}

// Store is a vector store with collection management.
type Store interface {
	VectorStore
	Collections
}

// Close releases resources held by a store, if it holds any.
func Close(s any) error {
	if c, ok := s.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
