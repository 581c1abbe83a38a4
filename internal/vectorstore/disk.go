package vectorstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"repoqa/internal/contextutil"
	"repoqa/internal/storage"
)

// Files that make up a collection saved by DiskStore.
const (
	ArgsFile     = "args.json"
	DocstoreFile = "docstore.json"
	IndexFile    = "vectors.db"
)

// ErrCollectionNotFound is returned when a collection has never been written.
var ErrCollectionNotFound = errors.New("collection not found")

// Args describes a saved collection.
type Args struct {
	Space         string `json:"space"`
	NumDimensions int    `json:"numDimensions"`
	Count         int    `json:"count"`
}

// DiskStore implements Store on the local filesystem. Each collection is a
// directory under root holding args.json, docstore.json and a SQLite file
// with the vectors. Search is exact cosine similarity over all vectors.
type DiskStore struct {
	root string

	mu          sync.Mutex
	collections map[string]*diskCollection
}

type diskCollection struct {
	dir        string
	args       Args
	db         *sql.DB
	embeddings storage.EmbeddingStore
	docs       map[string]map[string]any
	// vectors caches the loaded embeddings; nil means not loaded yet.
	vectors []candidate
}

// NewDiskStore creates a store rooted at dir.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{
		root:        dir,
		collections: make(map[string]*diskCollection),
	}
}

// Dir returns the directory holding the named collection.
func (s *DiskStore) Dir(collection string) string {
	return filepath.Join(s.root, collection)
}

// Close closes every open collection.
func (s *DiskStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for name, c := range s.collections {
		if err := c.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
		delete(s.collections, name)
	}
	return errors.Join(errs...)
}

// EnsureCollection opens or creates the collection and validates its vector size.
func (s *DiskStore) EnsureCollection(ctx context.Context, collection string, vectorSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.open(collection, true)
	if err != nil {
		return err
	}
	if c.args.NumDimensions == 0 {
		c.args.NumDimensions = vectorSize
	}
	if c.args.NumDimensions != vectorSize {
		return fmt.Errorf("collection vector size mismatch: expected %d, got %d", vectorSize, c.args.NumDimensions)
	}

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "collection ready", "collection", collection, "dir", c.dir, "vector_size", vectorSize)
	return nil
}

// DropCollection closes the collection and removes its directory.
func (s *DiskStore) DropCollection(ctx context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.collections[collection]; ok {
		_ = c.db.Close()
		delete(s.collections, collection)
	}
	if err := os.RemoveAll(s.Dir(collection)); err != nil {
		return fmt.Errorf("failed to remove collection %s: %w", collection, err)
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "collection dropped", "collection", collection)
	return nil
}

// IsReady reports whether all three collection files exist.
func (s *DiskStore) IsReady(_ context.Context, collection string) (bool, error) {
	dir := s.Dir(collection)
	for _, name := range []string{ArgsFile, DocstoreFile, IndexFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("failed to stat %s: %w", name, err)
		}
	}
	return true, nil
}

// Upsert stores the vectors in the index file and keeps the documents in memory.
// Nothing else reaches disk until Commit.
func (s *DiskStore) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.open(collection, false)
	if err != nil {
		return err
	}

	records := make([]storage.EmbeddingRecord, 0, len(points))
	for _, p := range points {
		if c.args.NumDimensions != 0 && len(p.Vec) != c.args.NumDimensions {
			return fmt.Errorf("point %s has %d dimensions, collection expects %d", p.ID, len(p.Vec), c.args.NumDimensions)
		}
		records = append(records, storage.EmbeddingRecord{ID: p.ID, Vector: p.Vec})
	}
	if err := c.embeddings.Put(ctx, records); err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	for _, p := range points {
		c.docs[p.ID] = p.Meta
	}
	c.vectors = nil
	c.args.Count = len(c.docs)

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "upserted points", "collection", collection, "count", len(points))
	return nil
}

// Commit writes docstore.json, then args.json. A collection without
// args.json is never ready, so an interrupted write is not mistaken for a complete one.
func (s *DiskStore) Commit(ctx context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.open(collection, false)
	if err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(c.dir, DocstoreFile), c.docs); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(c.dir, ArgsFile), c.args); err != nil {
		return err
	}

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "collection committed", "collection", collection, "count", c.args.Count)
	return nil
}

// Search returns the k points closest to query that match filters.
func (s *DiskStore) Search(ctx context.Context, collection string, query []float32, k int, filters map[string]any) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.open(collection, false)
	if err != nil {
		return nil, err
	}
	if c.args.NumDimensions != 0 && len(query) != c.args.NumDimensions {
		return nil, fmt.Errorf("query has %d dimensions, collection expects %d", len(query), c.args.NumDimensions)
	}

	if c.vectors == nil {
		records, err := c.embeddings.All(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load vectors: %w", err)
		}
		c.vectors = make([]candidate, 0, len(records))
		for _, rec := range records {
			c.vectors = append(c.vectors, candidate{id: rec.ID, vec: rec.Vector, meta: c.docs[rec.ID]})
		}
	}

	results := rank(query, c.vectors, k, filters)
	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "search completed", "collection", collection, "k", k, "results", len(results))
	return results, nil
}

// Delete removes points by their IDs. Like Upsert, it is persisted by Commit.
func (s *DiskStore) Delete(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.open(collection, false)
	if err != nil {
		return err
	}
	if err := c.embeddings.Delete(ctx, ids); err != nil {
		return fmt.Errorf("failed to delete points: %w", err)
	}
	for _, id := range ids {
		delete(c.docs, id)
	}
	c.vectors = nil
	c.args.Count = len(c.docs)
	return nil
}

// open returns the cached collection, loading it from disk if needed.
// Callers must hold s.mu.
func (s *DiskStore) open(collection string, create bool) (*diskCollection, error) {
	if c, ok := s.collections[collection]; ok {
		return c, nil
	}

	dir := s.Dir(collection)
	if !create {
		if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
		}
	}

	c := &diskCollection{
		dir:  dir,
		args: Args{Space: "cosine"},
		docs: make(map[string]map[string]any),
	}
	if err := readJSON(filepath.Join(dir, ArgsFile), &c.args); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, DocstoreFile), &c.docs); err != nil {
		return nil, err
	}

	db, err := storage.Open(filepath.Join(dir, IndexFile))
	if err != nil {
		return nil, err
	}
	c.db = db
	c.embeddings = storage.NewEmbeddingRepo(db)

	s.collections[collection] = c
	return c, nil
}

// readJSON decodes path into v. A missing file leaves v untouched.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// writeJSON replaces path atomically.
func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
