package storage

import "time"

// EmbeddingRecord is a stored vector keyed by its document ID.
type EmbeddingRecord struct {
	ID     string
	Vector []float32
}

// FileRecord is the manifest entry of one indexed repository file.
type FileRecord struct {
	Path       string // Repository-relative path
	Kind       string // "typescript", "html" or "json"
	Hash       string // xxh3 hex digest of the file content
	CodeChunks int    // Chunks written to the code store
	ASTChunks  int    // Chunks written to the AST store
	// ChunkTokens holds the token count of every chunk of the file, code chunks first.
	ChunkTokens []int
	IndexedAt   time.Time
}
