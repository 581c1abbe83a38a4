package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"sort"

	"repoqa/internal/storage"
)

// ChunkerVersion is the version identifier for the chunker implementation.
// Update this when chunking logic changes significantly.
const ChunkerVersion = "v2.0-tokens"

// IndexingCoverageStats contains statistics about the last indexing run.
type IndexingCoverageStats struct {
	// DocsProcessed is the number of repository files that were parsed and indexed.
	DocsProcessed int `json:"docs_processed"`
	// DocsWith0Chunks is the number of files that produced no code chunks.
	DocsWith0Chunks int `json:"docs_with_0_chunks"`
	// DocsByKind counts indexed files per parser.
	DocsByKind map[string]int `json:"docs_by_kind"`
	// CodeChunks is the number of chunks in the code store.
	CodeChunks int `json:"code_chunks"`
	// ASTChunks is the number of chunks in the AST store.
	ASTChunks int `json:"ast_chunks"`
	// ChunkTokenStats contains statistics about token counts per chunk.
	ChunkTokenStats ChunkTokenStats `json:"chunk_token_stats"`
	// ChunkerVersion is the version of the chunker used.
	ChunkerVersion string `json:"chunker_version"`
	// IndexVersion identifies the index build (chunker + embedding model + params).
	IndexVersion string `json:"index_version"`
	// EmbeddingModel is the model the stores were embedded with.
	EmbeddingModel string `json:"embedding_model,omitempty"`
	// IndexedAt is when the last run finished, RFC 3339.
	IndexedAt string `json:"indexed_at,omitempty"`
}

// ChunkTokenStats contains statistics about token counts in chunks.
type ChunkTokenStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

// IndexVersion hashes the chunker version, the embedding model and the chunk parameters.
func IndexVersion(embeddingModel string) string {
	input := fmt.Sprintf("%s|%s|encoding=%s|chunkSize=%d|chunkOverlap=%d",
		ChunkerVersion, embeddingModel, Encoding, ChunkSize, ChunkOverlap)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:16]
}

// Stats computes coverage statistics from the manifest of the last run.
func Stats(ctx context.Context, manifest storage.FileStore) (*IndexingCoverageStats, error) {
	files, err := manifest.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list manifest: %w", err)
	}

	stats := &IndexingCoverageStats{
		DocsProcessed:  len(files),
		DocsByKind:     make(map[string]int),
		ChunkerVersion: ChunkerVersion,
	}

	var tokenCounts []int
	for _, f := range files {
		stats.DocsByKind[f.Kind]++
		stats.CodeChunks += f.CodeChunks
		stats.ASTChunks += f.ASTChunks
		if f.CodeChunks == 0 {
			stats.DocsWith0Chunks++
		}
		tokenCounts = append(tokenCounts, f.ChunkTokens...)
	}
	stats.ChunkTokenStats = computeTokenStats(tokenCounts)

	for key, dst := range map[string]*string{
		MetaIndexVersion:   &stats.IndexVersion,
		MetaEmbeddingModel: &stats.EmbeddingModel,
		MetaIndexedAt:      &stats.IndexedAt,
	} {
		value, err := manifest.GetMeta(ctx, key)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("failed to read %s: %w", key, err)
		}
		*dst = value
	}
	return stats, nil
}

// computeTokenStats computes min, max, mean, and p95 from token counts.
func computeTokenStats(tokenCounts []int) ChunkTokenStats {
	if len(tokenCounts) == 0 {
		return ChunkTokenStats{}
	}

	sorted := make([]int, len(tokenCounts))
	copy(sorted, tokenCounts)
	sort.Ints(sorted)

	sum := 0
	for _, count := range sorted {
		sum += count
	}
	mean := float64(sum) / float64(len(sorted))

	p95Index := int(math.Ceil(float64(len(sorted))*0.95)) - 1
	if p95Index < 0 {
		p95Index = 0
	}

	return ChunkTokenStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100, // Round to 2 decimal places
		P95:  sorted[p95Index],
	}
}
