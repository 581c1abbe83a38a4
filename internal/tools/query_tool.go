package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"repoqa/internal/contextutil"
	"repoqa/internal/llm"
	"repoqa/internal/retrieval"
)

const (
	// searchK is the number of documents each similarity search returns.
	searchK = 200
	// compressedK is the number of documents handed to the extractor.
	compressedK = retrieval.DefaultK
	// fallbackDocs caps the documents refined when compression keeps nothing.
	fallbackDocs = 15
)

// RepeatFunc builds the reply to a query the tool has already run.
type RepeatFunc func(entry *Entry) string

// QueryTool answers a question from one vector store: it collects documents
// through self-query and similarity searches, compresses them against the
// question and refines an answer over what is left.
type QueryTool struct {
	name        string
	description string
	schema      any
	index       *retrieval.Index
	model       retrieval.Completer
	embedder    retrieval.Embedder
	selfQuery   *retrieval.SelfQueryRetriever
	cache       *Cache
	repeat      RepeatFunc
}

// NewCodeQueryTool creates the monorepo-qa tool over the code store.
func NewCodeQueryTool(index *retrieval.Index, smart retrieval.Completer, embedder retrieval.Embedder) *QueryTool {
	return newQueryTool(CodeQueryToolName, CodeQueryDescription, codeQuerySchema{}, index, smart, embedder, RepoStoreContents,
		func(entry *Entry) string {
			return fmt.Sprintf("You already have all the information you can get from this tool. unless you have a different question from %s\n%s", entry.Question, entry.Answer)
		})
}

// NewASTQueryTool creates the monorepo-ast-search tool over the AST store.
func NewASTQueryTool(index *retrieval.Index, dumb retrieval.Completer, embedder retrieval.Embedder) *QueryTool {
	return newQueryTool(ASTQueryToolName, ASTQueryDescription, astQuerySchema{}, index, dumb, embedder, ASTStoreContents,
		func(entry *Entry) string {
			return fmt.Sprintf("Try to change your question, You have asked this question before and here was the answer:\n%s", entry.Answer)
		})
}

func newQueryTool(
	name, description string,
	schema any,
	index *retrieval.Index,
	model retrieval.Completer,
	embedder retrieval.Embedder,
	contents string,
	repeat RepeatFunc,
) *QueryTool {
	attributes := []retrieval.AttributeInfo{
		{Name: retrieval.SourceKey, Description: sourceAttributeDescription, Type: "string"},
	}
	return &QueryTool{
		name:        name,
		description: description,
		schema:      llm.GenerateSchemaFrom(schema),
		index:       index,
		model:       model,
		embedder:    embedder,
		selfQuery:   retrieval.NewSelfQueryRetriever(model, index, contents, attributes),
		cache:       NewCache(),
		repeat:      repeat,
	}
}

// Name returns the tool name.
func (t *QueryTool) Name() string {
	return t.name
}

// Definition returns the tool definition for the model.
func (t *QueryTool) Definition() llm.Tool {
	return llm.Tool{
		Name:        t.name,
		Description: t.description,
		Parameters:  t.schema,
	}
}

// Cache returns the tool's query cache.
func (t *QueryTool) Cache() *Cache {
	return t.cache
}

// Run answers params. Retrieval failures are logged and skipped; only
// compression and answer synthesis errors are returned.
func (t *QueryTool) Run(ctx context.Context, params QueryParams) (string, error) {
	ctx = contextutil.WithLogFields(ctx, "tool", t.name)
	logger := contextutil.LoggerFromContext(ctx)

	metaData, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	entry, seen := t.cache.LoadOrAdd(params.Question, string(metaData))
	if seen {
		reply := t.repeat(&Entry{Question: entry.Question, Answer: t.cache.Answer(entry)})
		logger.InfoContext(ctx, "repeated query", "question", params.Question)
		return reply, nil
	}

	docs := t.collect(ctx, params)
	logger.DebugContext(ctx, "documents collected", "count", len(docs))

	if len(docs) == 0 {
		t.cache.SetAnswer(entry, NoDocumentsAnswer)
		return NoDocumentsAnswer, nil
	}

	compressed, err := t.compress(ctx, docs, params.Question)
	if err != nil {
		return "", err
	}

	input := compressed
	if len(input) == 0 {
		input = docs[:min(fallbackDocs, len(docs))]
	}
	answer, err := retrieval.NewRefineChain(t.model).Run(ctx, input, params.Question)
	if err != nil {
		return "", fmt.Errorf("failed to answer question: %w", err)
	}

	t.cache.SetAnswer(entry, answer)
	logger.InfoContext(ctx, "tool answered", "documents", len(docs), "compressed", len(compressed), "answer", answer)
	return answer, nil
}

// collect runs the three retrieval steps in order. A failing step keeps what
// it already found and hands over to the next one.
func (t *QueryTool) collect(ctx context.Context, params QueryParams) []retrieval.Document {
	logger := contextutil.LoggerFromContext(ctx)
	var docs []retrieval.Document

	for _, file := range params.Files {
		found, err := t.selfQuery.Retrieve(ctx, fmt.Sprintf(selfQueryTemplate, file, params.Question))
		if err != nil {
			logger.WarnContext(ctx, "self-query search failed", "file", file, "error", err)
			break
		}
		docs = append(docs, found...)
	}

	for _, info := range params.CodebaseInfo {
		query, err := json.Marshal(info)
		if err != nil {
			logger.WarnContext(ctx, "failed to encode codebase info", "file", info.FileName, "error", err)
			break
		}
		found, err := t.index.SimilaritySearch(ctx, string(query), searchK, nil)
		if err != nil {
			logger.WarnContext(ctx, "codebase info search failed", "file", info.FileName, "error", err)
			break
		}
		docs = append(docs, found...)
	}

	query, err := json.Marshal(params.Question)
	if err != nil {
		logger.WarnContext(ctx, "failed to encode question", "error", err)
		return docs
	}
	found, err := t.index.SimilaritySearch(ctx, string(query), searchK, nil)
	if err != nil {
		logger.WarnContext(ctx, "question search failed", "error", err)
		return docs
	}
	return append(docs, found...)
}

// compress indexes docs in memory and keeps the extracted parts of the
// ones closest to question.
func (t *QueryTool) compress(ctx context.Context, docs []retrieval.Document, question string) ([]retrieval.Document, error) {
	scratch, err := retrieval.FromDocuments(ctx, docs, t.embedder)
	if err != nil {
		return nil, fmt.Errorf("failed to index retrieved documents: %w", err)
	}
	retriever := retrieval.NewContextualCompressionRetriever(
		scratch.AsRetriever(compressedK),
		retrieval.NewChainExtractor(t.model),
	)
	compressed, err := retriever.Retrieve(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to compress documents: %w", err)
	}
	return compressed, nil
}
