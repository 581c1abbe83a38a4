package indexer

import (
	"encoding/json"
	"fmt"

	"repoqa/internal/codebase"
	"repoqa/internal/retrieval"
)

// CodeText wraps a file's content with its path the way code documents are indexed.
func CodeText(fileName string, content []byte) string {
	return fmt.Sprintf("file-path: %s\n    \n    %s\n    ", fileName, content)
}

// ASTText is the compact JSON of a file's AST record.
func ASTText(info codebase.FileInfo) (string, error) {
	data, err := json.Marshal(info)
	if err != nil {
		return "", fmt.Errorf("failed to encode AST record for %s: %w", info.FileName, err)
	}
	return string(data), nil
}

// Documents splits text into chunk documents that all carry source as metadata.
func (c *TokenChunker) Documents(text, source string) ([]retrieval.Document, []int) {
	chunks := c.Split(text)
	docs := make([]retrieval.Document, len(chunks))
	tokens := make([]int, len(chunks))
	for i, chunk := range chunks {
		docs[i] = retrieval.Document{
			PageContent: chunk.Text,
			Metadata:    map[string]any{retrieval.SourceKey: source},
		}
		tokens[i] = chunk.Tokens
	}
	return docs, tokens
}
