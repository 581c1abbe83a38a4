package indexer

import "time"

// Collections written by the indexer.
const (
	CodeCollection = "repo"
	ASTCollection  = "ast"
)

// Chunk is a token window of a document.
type Chunk struct {
	Index  int    // Chunk index within the document (starts at 0)
	Text   string // Decoded chunk text
	Tokens int    // Token count of the chunk
}

// Result summarises one IndexAll run.
type Result struct {
	Files      int           `json:"files"`
	Parsed     int           `json:"parsed"`
	CodeChunks int           `json:"code_chunks"`
	ASTChunks  int           `json:"ast_chunks"`
	ASTTime    time.Duration `json:"ast_time"`
	DocTime    time.Duration `json:"doc_time"`
	StoreTime  time.Duration `json:"store_time"`
}
