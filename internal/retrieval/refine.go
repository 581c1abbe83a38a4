package retrieval

import (
	"context"
	"fmt"

	"repoqa/internal/contextutil"
)

const questionPrompt = `Context information is below.
---------------------
%s
---------------------
Given the context information and no prior knowledge, answer the question: %s`

const refinePrompt = `The original question is as follows: %s
We have provided an existing answer: %s
We have the opportunity to refine the existing answer (only if needed) with some more context below.
------------
%s
------------
Given the new context, refine the original answer to better answer the question. If the context isn't useful, return the original answer.`

// RefineChain answers a question from the first document, then refines the
// answer with each following document in turn.
type RefineChain struct {
	llm Completer
}

// NewRefineChain creates a refine chain.
func NewRefineChain(llm Completer) *RefineChain {
	return &RefineChain{llm: llm}
}

// Run returns the final answer. With no documents it returns "".
func (c *RefineChain) Run(ctx context.Context, docs []Document, question string) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	var answer string
	for i, doc := range docs {
		var prompt string
		if i == 0 {
			prompt = fmt.Sprintf(questionPrompt, doc.PageContent, question)
		} else {
			prompt = fmt.Sprintf(refinePrompt, question, answer, doc.PageContent)
		}

		reply, err := c.llm.Complete(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("failed to refine answer at document %d: %w", i, err)
		}
		answer = reply
		logger.DebugContext(ctx, "refine step", "step", i+1, "of", len(docs), "answer_length", len(answer))
	}
	return answer, nil
}
