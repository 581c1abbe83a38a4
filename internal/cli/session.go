package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"repoqa/internal/contextutil"
	"repoqa/internal/service"
)

const (
	reindexPrompt  = "You have the vector stores setup. Would you want to re-index it? (will take about 8 mins)"
	questionPrompt = "Enter your question"
)

// FileLister enumerates the files of the repository.
type FileLister interface {
	Files(ctx context.Context) ([]string, error)
}

// Session runs one interactive question against the repository.
type Session struct {
	Out      io.Writer
	Files    FileLister
	QA       service.QAService
	Prompter Prompter
}

// Run lists the repository, offers to (re)build the index, then asks for a
// question and prints the agent's answer.
func (s *Session) Run(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)
	start := time.Now()

	files, err := s.Files.Files(ctx)
	if err != nil {
		return fmt.Errorf("failed to list repository files: %w", err)
	}
	logger.InfoContext(ctx, "repository files listed", "count", len(files))
	fmt.Fprintln(s.Out, infoStyle.Render(fmt.Sprintf("Found %d files", len(files))))

	index := true
	if s.QA.Ready(ctx) {
		index, err = s.Prompter.Confirm(reindexPrompt)
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
	}
	if index {
		if err := reindex(ctx, s.Out, s.QA); err != nil {
			return err
		}
	}

	fmt.Fprintln(s.Out, infoStyle.Render(fmt.Sprintf("Total time: %s", time.Since(start).Round(time.Millisecond))))

	question, err := s.Prompter.Input(questionPrompt)
	if err != nil {
		return fmt.Errorf("failed to read question: %w", err)
	}

	sp := startSpinner(s.Out, "Thinking...")
	resp, err := s.QA.Ask(ctx, service.AskRequest{Question: strings.TrimSpace(question)})
	sp.Stop()
	if err != nil {
		return err
	}

	fmt.Fprintln(s.Out, boxStyle.Render(resp.Answer))
	return nil
}

// reindex rebuilds both vector stores and prints a summary.
func reindex(ctx context.Context, out io.Writer, qa service.QAService) error {
	sp := startSpinner(out, "Indexing repository...")
	result, err := qa.Reindex(ctx)
	sp.Stop()
	if err != nil {
		return fmt.Errorf("failed to index repository: %w", err)
	}

	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf(
		"Indexed %d files (%d parsed): %d code chunks, %d AST chunks",
		result.Files, result.Parsed, result.CodeChunks, result.ASTChunks)))
	fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf(
		"AST %s, documents %s, stores %s",
		result.ASTTime.Round(time.Millisecond),
		result.DocTime.Round(time.Millisecond),
		result.StoreTime.Round(time.Millisecond))))
	return nil
}
