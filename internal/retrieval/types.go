package retrieval

import "context"

// ContentKey is the metadata key that carries a document's page content in a vector store payload.
const ContentKey = "text"

// SourceKey is the metadata key holding the repository-relative file path.
const SourceKey = "source"

// Document is a chunk of text with metadata.
type Document struct {
	PageContent string         `json:"pageContent"`
	Metadata    map[string]any `json:"metadata"`
}

// Source returns the document's source path, or "" if it has none.
func (d Document) Source() string {
	s, _ := d.Metadata[SourceKey].(string)
	return s
}

// Embedder turns texts into vectors.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer sends a single prompt to a model and returns its reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Retriever returns documents relevant to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]Document, error)
}

// Compressor filters or shortens documents with respect to a query.
type Compressor interface {
	Compress(ctx context.Context, docs []Document, query string) ([]Document, error)
}
