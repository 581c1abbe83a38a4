package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_agent.go -package=mocks repoqa/internal/service Agent,Indexer
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_qa_service.go -package=mocks -mock_names=QAService=MockQAService repoqa/internal/service QAService

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"repoqa/internal/contextutil"
	"repoqa/internal/indexer"
	"repoqa/internal/storage"
)

// MaxQuestionLength is the longest question accepted, in characters.
const MaxQuestionLength = 4000

// Agent answers questions about the repository.
// This interface is defined from the service layer's perspective (consumer-first).
type Agent interface {
	Run(ctx context.Context, input string) (string, error)
}

// AgentFactory builds an Agent for a single question.
type AgentFactory func() Agent

// Indexer builds and inspects the vector stores.
type Indexer interface {
	// IndexAll rebuilds the AST summary and both vector stores.
	IndexAll(ctx context.Context) (*indexer.Result, error)
	// HasVectorStoreSetup reports whether both stores are fully written.
	HasVectorStoreSetup(ctx context.Context) bool
}

// AskRequest represents a question in the domain layer.
type AskRequest struct {
	Question string
}

// AskResponse represents an answer in the domain layer.
type AskResponse struct {
	Answer string
}

// QAService answers questions and manages the index they are answered from.
type QAService interface {
	// Ask validates the question and runs the agent on it.
	Ask(ctx context.Context, req AskRequest) (AskResponse, error)
	// Ready reports whether the vector stores can serve questions.
	Ready(ctx context.Context) bool
	// Reindex rebuilds the index. Only one rebuild runs at a time.
	Reindex(ctx context.Context) (*indexer.Result, error)
	// StartReindex claims the rebuild and runs it in the background, calling
	// done when it finishes. It returns ErrIndexInProgress without starting
	// anything if a rebuild is already running.
	StartReindex(ctx context.Context, done func(*indexer.Result, error)) error
	// IndexStats summarizes the last index build.
	IndexStats(ctx context.Context) (*indexer.IndexingCoverageStats, error)
}

// qaService implements QAService.
type qaService struct {
	newAgent AgentFactory
	indexer  Indexer
	manifest storage.FileStore
	indexing atomic.Bool
}

// NewQAService creates a QAService that answers every question with agent,
// so conversation memory carries over between questions.
func NewQAService(agent Agent, idx Indexer, manifest storage.FileStore) QAService {
	return NewQAServiceWithFactory(func() Agent { return agent }, idx, manifest)
}

// NewQAServiceWithFactory creates a QAService that builds a new agent for
// each question. Concurrent callers share no memory or tool caches.
func NewQAServiceWithFactory(newAgent AgentFactory, idx Indexer, manifest storage.FileStore) QAService {
	return &qaService{
		newAgent: newAgent,
		indexer:  idx,
		manifest: manifest,
	}
}

// Ask answers a question.
func (s *qaService) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	question := strings.TrimSpace(req.Question)
	if question == "" {
		logger.WarnContext(ctx, "empty question in ask request")
		return AskResponse{}, &ValidationError{
			Field:   "question",
			Message: "cannot be empty",
		}
	}
	if n := utf8.RuneCountInString(question); n > MaxQuestionLength {
		logger.WarnContext(ctx, "question too long", "length", n)
		return AskResponse{}, &ValidationError{
			Field:   "question",
			Message: fmt.Sprintf("must be at most %d characters", MaxQuestionLength),
		}
	}

	if !s.indexer.HasVectorStoreSetup(ctx) {
		return AskResponse{}, fmt.Errorf("vector stores are not set up, run the index command first: %w", ErrNotFound)
	}

	answer, err := s.newAgent().Run(ctx, question)
	if err != nil {
		logger.ErrorContext(ctx, "failed to get agent answer", "error", err)
		return AskResponse{}, WrapError(fmt.Errorf("%w: %w", ErrExternalService, err), "failed to answer question")
	}

	logger.InfoContext(ctx, "question answered", "question_length", len(question), "answer_length", len(answer))
	return AskResponse{Answer: answer}, nil
}

// Ready reports whether both vector stores are set up.
func (s *qaService) Ready(ctx context.Context) bool {
	return s.indexer.HasVectorStoreSetup(ctx)
}

// Reindex rebuilds the index unless a rebuild is already running.
func (s *qaService) Reindex(ctx context.Context) (*indexer.Result, error) {
	if !s.indexing.CompareAndSwap(false, true) {
		return nil, ErrIndexInProgress
	}
	defer s.indexing.Store(false)

	return s.indexAll(ctx)
}

// StartReindex rebuilds the index in the background. The rebuild is claimed
// before it returns, so a second call fails even if the first has not started yet.
func (s *qaService) StartReindex(ctx context.Context, done func(*indexer.Result, error)) error {
	if !s.indexing.CompareAndSwap(false, true) {
		return ErrIndexInProgress
	}

	go func() {
		result, err := s.indexAll(ctx)
		s.indexing.Store(false)
		if done != nil {
			done(result, err)
		}
	}()
	return nil
}

func (s *qaService) indexAll(ctx context.Context) (*indexer.Result, error) {
	result, err := s.indexer.IndexAll(ctx)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "indexing failed", "error", err)
		return nil, WrapError(fmt.Errorf("%w: %w", ErrInternal, err), "failed to index repository")
	}
	return result, nil
}

// IndexStats reads coverage statistics from the manifest.
func (s *qaService) IndexStats(ctx context.Context) (*indexer.IndexingCoverageStats, error) {
	stats, err := indexer.Stats(ctx, s.manifest)
	if err != nil {
		return nil, WrapError(fmt.Errorf("%w: %w", ErrInternal, err), "failed to read index stats")
	}
	return stats, nil
}
