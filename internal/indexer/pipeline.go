package indexer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zeebo/xxh3"

	"repoqa/internal/codebase"
	"repoqa/internal/contextutil"
	"repoqa/internal/retrieval"
	"repoqa/internal/storage"
	"repoqa/internal/vectorstore"
)

// Manifest metadata keys.
const (
	MetaIndexVersion   = "index_version"
	MetaEmbeddingModel = "embedding_model"
	MetaIndexedAt      = "indexed_at"
)

const (
	// upsertBatchSize bounds the number of documents written per store call.
	upsertBatchSize = 256
	// batchTokenBudget bounds the tokens sent in one embeddings request.
	// The API rejects requests above 300k tokens summed over all inputs.
	batchTokenBudget = 200_000
)

// Source lists and reads repository files.
type Source interface {
	Files(ctx context.Context) ([]string, error)
	ReadFile(relPath string) ([]byte, error)
}

// Config configures a Pipeline.
type Config struct {
	ASTPath        string // Where the AST summary dump is written
	VectorSize     int
	EmbeddingModel string
}

// Pipeline builds the AST summary and the two vector stores for a repository.
type Pipeline struct {
	source   Source
	embedder retrieval.Embedder
	store    vectorstore.Store
	manifest storage.FileStore
	chunker  *TokenChunker
	cfg      Config
}

// NewPipeline creates a new indexing pipeline.
func NewPipeline(
	source Source,
	embedder retrieval.Embedder,
	store vectorstore.Store,
	manifest storage.FileStore,
	chunker *TokenChunker,
	cfg Config,
) *Pipeline {
	return &Pipeline{
		source:   source,
		embedder: embedder,
		store:    store,
		manifest: manifest,
		chunker:  chunker,
		cfg:      cfg,
	}
}

// HasVectorStoreSetup reports whether both stores are fully written. The
// manifest is written after both stores are committed, so a run that failed
// part way leaves it without indexed_at.
func (p *Pipeline) HasVectorStoreSetup(ctx context.Context) bool {
	logger := contextutil.LoggerFromContext(ctx)
	for _, collection := range []string{CodeCollection, ASTCollection} {
		ready, err := p.store.IsReady(ctx, collection)
		if err != nil {
			logger.WarnContext(ctx, "failed to check vector store", "collection", collection, "error", err)
			return false
		}
		if !ready {
			return false
		}
	}

	if _, err := p.manifest.GetMeta(ctx, MetaIndexedAt); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.WarnContext(ctx, "failed to read index manifest", "error", err)
		}
		return false
	}
	return true
}

// IndexAll lists the repository, writes the AST summary and replaces both vector stores.
func (p *Pipeline) IndexAll(ctx context.Context) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx)
	result := &Result{}

	files, err := p.source.Files(ctx)
	if err != nil {
		return nil, err
	}
	result.Files = len(files)
	logger.InfoContext(ctx, "starting indexing", "total_files", len(files))

	// AST
	start := time.Now()
	logger.InfoContext(ctx, "generating AST")
	ast, err := codebase.Build(ctx, p.source, files)
	if err != nil {
		return nil, fmt.Errorf("failed to build AST: %w", err)
	}
	if err := codebase.WriteFile(p.cfg.ASTPath, ast); err != nil {
		return nil, err
	}
	result.Parsed = len(ast.CodebaseInfo)
	result.ASTTime = time.Since(start)
	logger.InfoContext(ctx, "AST written", "path", p.cfg.ASTPath, "files", result.Parsed, "duration", result.ASTTime)

	// Documents
	start = time.Now()
	logger.InfoContext(ctx, "creating documents")
	var codeDocs, astDocs []retrieval.Document
	var codeDocTokens, astDocTokens []int
	records := make([]*storage.FileRecord, 0, len(ast.CodebaseInfo))
	for _, info := range ast.CodebaseInfo {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := p.source.ReadFile(info.FileName)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", info.FileName, err)
		}
		code, codeTokens := p.chunker.Documents(CodeText(info.FileName, content), info.FileName)

		astText, err := ASTText(info)
		if err != nil {
			return nil, err
		}
		astChunks, astTokens := p.chunker.Documents(astText, info.FileName)

		codeDocs = append(codeDocs, code...)
		codeDocTokens = append(codeDocTokens, codeTokens...)
		astDocs = append(astDocs, astChunks...)
		astDocTokens = append(astDocTokens, astTokens...)
		records = append(records, &storage.FileRecord{
			Path:        info.FileName,
			Kind:        info.Kind.String(),
			Hash:        fmt.Sprintf("%016x", xxh3.Hash(content)),
			CodeChunks:  len(code),
			ASTChunks:   len(astChunks),
			ChunkTokens: append(codeTokens, astTokens...),
			IndexedAt:   time.Now().UTC(),
		})
	}
	result.CodeChunks = len(codeDocs)
	result.ASTChunks = len(astDocs)
	result.DocTime = time.Since(start)
	logger.InfoContext(ctx, "documents created", "code_chunks", result.CodeChunks, "ast_chunks", result.ASTChunks, "duration", result.DocTime)

	// Vector stores
	start = time.Now()
	logger.InfoContext(ctx, "creating vector store")
	if err := p.invalidate(ctx); err != nil {
		return nil, err
	}
	if err := p.write(ctx, CodeCollection, codeDocs, codeDocTokens); err != nil {
		return nil, err
	}
	if err := p.write(ctx, ASTCollection, astDocs, astDocTokens); err != nil {
		return nil, err
	}
	for _, collection := range []string{CodeCollection, ASTCollection} {
		if err := p.store.Commit(ctx, collection); err != nil {
			return nil, fmt.Errorf("failed to commit %s store: %w", collection, err)
		}
	}
	result.StoreTime = time.Since(start)
	logger.InfoContext(ctx, "vector stores written", "duration", result.StoreTime)

	if err := p.writeManifest(ctx, records); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "indexing completed",
		"files", result.Files,
		"parsed", result.Parsed,
		"code_chunks", result.CodeChunks,
		"ast_chunks", result.ASTChunks,
	)
	return result, nil
}

// invalidate clears the manifest and drops both stores, so neither counts as
// set up until the whole run has finished.
func (p *Pipeline) invalidate(ctx context.Context) error {
	if err := p.manifest.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear manifest: %w", err)
	}
	for _, collection := range []string{CodeCollection, ASTCollection} {
		if err := p.store.DropCollection(ctx, collection); err != nil {
			return fmt.Errorf("failed to drop %s store: %w", collection, err)
		}
	}
	return nil
}

// write creates the collection and embeds docs into it batch by batch.
// tokens holds the token count of each document.
func (p *Pipeline) write(ctx context.Context, collection string, docs []retrieval.Document, tokens []int) error {
	if err := p.store.EnsureCollection(ctx, collection, p.cfg.VectorSize); err != nil {
		return fmt.Errorf("failed to create %s store: %w", collection, err)
	}

	index := retrieval.NewIndex(p.embedder, p.store, collection)
	for _, b := range batchBounds(tokens, upsertBatchSize, batchTokenBudget) {
		start, end := b[0], b[1]
		if err := index.AddDocuments(ctx, docs[start:end]); err != nil {
			return fmt.Errorf("failed to index %s documents %d-%d: %w", collection, start, end, err)
		}
		contextutil.LoggerFromContext(ctx).DebugContext(ctx, "documents stored", "collection", collection, "done", end, "total", len(docs))
	}
	return nil
}

// batchBounds splits documents into [start, end) ranges of at most maxDocs
// documents and maxTokens tokens. A document larger than maxTokens gets a batch of its own.
func batchBounds(tokens []int, maxDocs, maxTokens int) [][2]int {
	var bounds [][2]int
	start, sum := 0, 0
	for i, n := range tokens {
		if i > start && (i-start >= maxDocs || sum+n > maxTokens) {
			bounds = append(bounds, [2]int{start, i})
			start, sum = i, 0
		}
		sum += n
	}
	if start < len(tokens) {
		bounds = append(bounds, [2]int{start, len(tokens)})
	}
	return bounds
}

func (p *Pipeline) writeManifest(ctx context.Context, records []*storage.FileRecord) error {
	for _, rec := range records {
		if err := p.manifest.Upsert(ctx, rec); err != nil {
			return fmt.Errorf("failed to record %s: %w", rec.Path, err)
		}
	}

	// indexed_at goes last: HasVectorStoreSetup treats it as the completion mark.
	meta := [][2]string{
		{MetaIndexVersion, IndexVersion(p.cfg.EmbeddingModel)},
		{MetaEmbeddingModel, p.cfg.EmbeddingModel},
		{MetaIndexedAt, time.Now().UTC().Format(time.RFC3339)},
	}
	for _, kv := range meta {
		if err := p.manifest.SetMeta(ctx, kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to set %s: %w", kv[0], err)
		}
	}
	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "manifest written", "files", len(records))
	return nil
}
