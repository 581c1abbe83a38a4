package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"repoqa/internal/agent"
	"repoqa/internal/config"
	"repoqa/internal/contextutil"
	"repoqa/internal/indexer"
	"repoqa/internal/llm"
	"repoqa/internal/logging"
	"repoqa/internal/repo"
	"repoqa/internal/retrieval"
	"repoqa/internal/service"
	"repoqa/internal/storage"
	"repoqa/internal/tools"
	"repoqa/internal/vectorstore"
)

// App holds the wired application.
type App struct {
	Config *config.Config
	Repo   *repo.Repository
	// QA keeps one agent, with its memory and tool caches, for the whole process.
	QA service.QAService
	// ServeQA builds a fresh agent per question for concurrent HTTP callers.
	ServeQA service.QAService

	closers []func() error
}

// NewApp loads configuration, configures logging and wires every component.
// The returned context carries the application logger.
func NewApp(ctx context.Context) (context.Context, *App, error) {
	cfg, err := config.Load()
	if err != nil {
		return ctx, nil, err
	}

	app := &App{Config: cfg}

	logger, logFile, err := logging.Setup(logging.Options{
		Dir:    cfg.LogDir,
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	}, time.Now())
	if err != nil {
		return ctx, nil, err
	}
	app.closers = append(app.closers, logFile.Close)
	ctx = contextutil.WithLogger(ctx, logger)

	if err := app.wire(ctx); err != nil {
		_ = app.Close()
		return ctx, nil, err
	}
	return ctx, app, nil
}

func (a *App) wire(ctx context.Context) error {
	cfg := a.Config
	logger := contextutil.LoggerFromContext(ctx)

	repository, err := repo.New(cfg.RepoPath)
	if err != nil {
		return err
	}
	a.Repo = repository

	db, err := storage.Open(cfg.ManifestPath())
	if err != nil {
		return err
	}
	a.closers = append(a.closers, db.Close)
	manifest := storage.NewFileRepo(db)

	var store vectorstore.Store
	if cfg.UseQdrant() {
		qdrant, err := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantCollectionPrefix)
		if err != nil {
			return fmt.Errorf("failed to create Qdrant client: %w", err)
		}
		store = qdrant
		logger.InfoContext(ctx, "using qdrant vector store", "url", cfg.QdrantURL)
	} else {
		store = vectorstore.NewDiskStore(cfg.StorePath)
		logger.InfoContext(ctx, "using disk vector store", "path", cfg.StorePath)
	}
	a.closers = append(a.closers, func() error { return vectorstore.Close(store) })

	smart, err := llm.NewClient(a.llmConfig(cfg.SmartModel))
	if err != nil {
		return fmt.Errorf("failed to create smart model client: %w", err)
	}
	dumb, err := llm.NewClient(a.llmConfig(cfg.DumbModel))
	if err != nil {
		return fmt.Errorf("failed to create dumb model client: %w", err)
	}
	embedder, err := llm.NewEmbeddingsClient(a.llmConfig(cfg.EmbeddingModel), cfg.EmbeddingVectorSize)
	if err != nil {
		return fmt.Errorf("failed to create embeddings client: %w", err)
	}

	chunker, err := indexer.NewTokenChunker(indexer.ChunkSize, indexer.ChunkOverlap)
	if err != nil {
		return err
	}
	pipeline := indexer.NewPipeline(repository, embedder, store, manifest, chunker, indexer.Config{
		ASTPath:        cfg.ASTPath(),
		VectorSize:     cfg.EmbeddingVectorSize,
		EmbeddingModel: cfg.EmbeddingModel,
	})

	newAgent := func() service.Agent {
		toolbox := tools.NewToolbox(
			tools.NewCodeQueryTool(retrieval.NewIndex(embedder, store, indexer.CodeCollection), smart, embedder),
			tools.NewASTQueryTool(retrieval.NewIndex(embedder, store, indexer.ASTCollection), dumb, embedder),
		)
		return agent.NewExecutor(smart, toolbox, agent.NewBufferMemory(), agent.LogCallbacks{})
	}

	a.QA = service.NewQAService(newAgent(), pipeline, manifest)
	a.ServeQA = service.NewQAServiceWithFactory(newAgent, pipeline, manifest)

	logger.DebugContext(ctx, "application wired",
		"smart_model", cfg.SmartModel,
		"dumb_model", cfg.DumbModel,
		"embedding_model", cfg.EmbeddingModel)
	return nil
}

func (a *App) llmConfig(model string) llm.Config {
	return llm.Config{
		APIKey:  a.Config.OpenAIAPIKey,
		BaseURL: a.Config.OpenAIBaseURL,
		Model:   model,
	}
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && !errors.Is(err, os.ErrClosed) {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
