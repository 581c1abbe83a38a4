package retrieval

import (
	"context"
	"fmt"
	"maps"

	"github.com/google/uuid"

	"repoqa/internal/contextutil"
	"repoqa/internal/vectorstore"
)

// DefaultK is the number of documents a retriever returns when none is configured.
const DefaultK = 4

// Index binds a vector store collection to an embedder.
type Index struct {
	embedder   Embedder
	store      vectorstore.VectorStore
	collection string
}

// NewIndex creates an index over collection.
func NewIndex(embedder Embedder, store vectorstore.VectorStore, collection string) *Index {
	return &Index{
		embedder:   embedder,
		store:      store,
		collection: collection,
	}
}

// FromDocuments embeds docs into a fresh in-memory index.
func FromDocuments(ctx context.Context, docs []Document, embedder Embedder) (*Index, error) {
	store := vectorstore.NewMemoryStore()
	idx := NewIndex(embedder, store, "documents")
	if err := idx.AddDocuments(ctx, docs); err != nil {
		return nil, err
	}
	return idx, nil
}

// Collection returns the collection name.
func (i *Index) Collection() string {
	return i.collection
}

// AddDocuments embeds the documents and stores them under new IDs.
func (i *Index) AddDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for j, doc := range docs {
		texts[j] = doc.PageContent
	}
	vectors, err := i.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("expected %d embeddings, got %d", len(docs), len(vectors))
	}

	points := make([]vectorstore.Point, len(docs))
	for j, doc := range docs {
		meta := make(map[string]any, len(doc.Metadata)+1)
		maps.Copy(meta, doc.Metadata)
		meta[ContentKey] = doc.PageContent
		points[j] = vectorstore.Point{
			ID:   uuid.NewString(),
			Vec:  vectors[j],
			Meta: meta,
		}
	}

	if err := i.store.Upsert(ctx, i.collection, points); err != nil {
		return fmt.Errorf("failed to store documents: %w", err)
	}
	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "documents added", "collection", i.collection, "count", len(docs))
	return nil
}

// SimilaritySearch returns the k documents closest to query that match filter.
func (i *Index) SimilaritySearch(ctx context.Context, query string, k int, filter map[string]any) ([]Document, error) {
	vectors, err := i.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}

	results, err := i.store.Search(ctx, i.collection, vectors[0], k, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", i.collection, err)
	}

	docs := make([]Document, 0, len(results))
	for _, r := range results {
		docs = append(docs, documentFromMeta(r.Meta))
	}
	return docs, nil
}

// AsRetriever returns a retriever that runs unfiltered searches for k documents.
// A k of zero or less uses DefaultK.
func (i *Index) AsRetriever(k int) Retriever {
	if k <= 0 {
		k = DefaultK
	}
	return &indexRetriever{index: i, k: k}
}

type indexRetriever struct {
	index *Index
	k     int
}

func (r *indexRetriever) Retrieve(ctx context.Context, query string) ([]Document, error) {
	return r.index.SimilaritySearch(ctx, query, r.k, nil)
}

func documentFromMeta(meta map[string]any) Document {
	doc := Document{Metadata: make(map[string]any, len(meta))}
	for k, v := range meta {
		if k == ContentKey {
			doc.PageContent, _ = v.(string)
			continue
		}
		doc.Metadata[k] = v
	}
	return doc
}
