package retrieval

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// NoOutput is the marker a model replies with when nothing in a document is relevant.
const NoOutput = "NO_OUTPUT"

const extractPrompt = `Given the following question and context, extract any part of the context *AS IS* that is relevant to answer the question. If none of the context is relevant return %s.

Remember, *DO NOT* edit the extracted parts of the context.

> Question: %s
> Context:
>>>
%s
>>>
Extracted relevant parts:`

// ChainExtractor keeps only the passages of each document a model judges relevant.
type ChainExtractor struct {
	llm         Completer
	concurrency int
}

// NewChainExtractor creates an extractor that runs up to four model calls at once.
func NewChainExtractor(llm Completer) *ChainExtractor {
	return &ChainExtractor{llm: llm, concurrency: 4}
}

// Compress returns the extracted parts of docs in input order. Documents
// whose reply is empty or NO_OUTPUT are dropped.
func (e *ChainExtractor) Compress(ctx context.Context, docs []Document, query string) ([]Document, error) {
	extracted := make([]string, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, doc := range docs {
		g.Go(func() error {
			reply, err := e.llm.Complete(gctx, fmt.Sprintf(extractPrompt, NoOutput, query, doc.PageContent))
			if err != nil {
				return fmt.Errorf("failed to extract document %d: %w", i, err)
			}
			extracted[i] = strings.TrimSpace(reply)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Document, 0, len(docs))
	for i, text := range extracted {
		if text == "" || text == NoOutput {
			continue
		}
		out = append(out, Document{PageContent: text, Metadata: docs[i].Metadata})
	}
	return out, nil
}

// ContextualCompressionRetriever runs a base retriever and compresses its results.
type ContextualCompressionRetriever struct {
	base       Retriever
	compressor Compressor
}

// NewContextualCompressionRetriever creates a compression retriever.
func NewContextualCompressionRetriever(base Retriever, compressor Compressor) *ContextualCompressionRetriever {
	return &ContextualCompressionRetriever{base: base, compressor: compressor}
}

// Retrieve returns the compressed documents for query.
func (r *ContextualCompressionRetriever) Retrieve(ctx context.Context, query string) ([]Document, error) {
	docs, err := r.base.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return r.compressor.Compress(ctx, docs, query)
}
