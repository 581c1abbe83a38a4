package indexer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

const (
	// Encoding is the GPT-2 byte pair encoding.
	Encoding = "r50k_base"
	// ChunkSize is the maximum number of tokens per chunk.
	ChunkSize = 2000
	// ChunkOverlap is the number of tokens shared by consecutive chunks.
	ChunkOverlap = 100
)

func init() {
	// BPE ranks are embedded; nothing is downloaded at runtime.
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// TokenChunker splits text into overlapping windows of BPE tokens.
type TokenChunker struct {
	enc     *tiktoken.Tiktoken
	size    int
	overlap int
}

// NewTokenChunker creates a chunker with the given window and overlap, in tokens.
func NewTokenChunker(size, overlap int) (*TokenChunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be greater than 0")
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", size, overlap)
	}
	enc, err := tiktoken.GetEncoding(Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s encoding: %w", Encoding, err)
	}
	return &TokenChunker{enc: enc, size: size, overlap: overlap}, nil
}

// CountTokens returns the number of tokens in text.
func (c *TokenChunker) CountTokens(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// Split returns the token windows of text. Each window after the first
// starts overlap tokens before the end of the previous one. Empty text has no chunks.
func (c *TokenChunker) Split(text string) []Chunk {
	ids := c.enc.Encode(text, nil, nil)

	var chunks []Chunk
	start := 0
	for start < len(ids) {
		if start > 0 {
			start -= c.overlap
		}
		end := min(start+c.size, len(ids))
		window := ids[start:end]
		chunks = append(chunks, Chunk{
			Index:  len(chunks),
			Text:   c.enc.Decode(window),
			Tokens: len(window),
		})
		start = end
	}
	return chunks
}
