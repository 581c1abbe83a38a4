package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	nethttp "net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"repoqa/internal/contextutil"
	apphttp "repoqa/internal/http"
	"repoqa/internal/indexer"
	"repoqa/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Execute runs the root command and returns the process exit code.
// Errors are printed in red.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}
	return 0
}

// NewRootCommand builds the repoqa command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "repoqa",
		Short: "Ask questions about a code repository",
		Long: `repoqa indexes a git repository into two vector stores, one over source
chunks and one over an AST summary, and answers questions about it with a
tool-using agent.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, app *App) error {
				session := &Session{
					Out:      cmd.OutOrStdout(),
					Files:    app.Repo,
					QA:       app.QA,
					Prompter: ptermPrompter{},
				}
				return session.Run(ctx)
			})
		},
	}

	root.AddCommand(newIndexCommand(), newServeCommand(), newStatsCommand())
	return root
}

func newIndexCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the vector stores without prompting",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, app *App) error {
				return runIndex(ctx, cmd.OutOrStdout(), app.QA, force)
			})
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "re-index even if the vector stores are set up")
	return cmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the question answering HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, app *App) error {
				return serve(ctx, ":"+app.Config.APIPort, app.ServeQA)
			})
		},
	}
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print statistics about the last index build",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, app *App) error {
				return printStats(ctx, cmd.OutOrStdout(), app.QA)
			})
		},
	}
}

func withApp(cmd *cobra.Command, fn func(context.Context, *App) error) error {
	ctx, app, err := NewApp(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		_ = app.Close()
	}()
	return fn(ctx, app)
}

func runIndex(ctx context.Context, out io.Writer, qa service.QAService, force bool) error {
	if !force && qa.Ready(ctx) {
		fmt.Fprintln(out, warnStyle.Render("Vector stores are already set up. Use --force to re-index."))
		return nil
	}
	return reindex(ctx, out, qa)
}

func printStats(ctx context.Context, out io.Writer, qa service.QAService) error {
	stats, err := qa.IndexStats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, boxStyle.Render(formatStats(stats)))
	return nil
}

func formatStats(stats *indexer.IndexingCoverageStats) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Index statistics"))
	fmt.Fprintf(&b, "\nFiles processed:   %d", stats.DocsProcessed)
	fmt.Fprintf(&b, "\nFiles, no chunks:  %d", stats.DocsWith0Chunks)
	for _, kind := range slices.Sorted(maps.Keys(stats.DocsByKind)) {
		fmt.Fprintf(&b, "\n  %-16s %d", kind, stats.DocsByKind[kind])
	}
	fmt.Fprintf(&b, "\nCode chunks:       %d", stats.CodeChunks)
	fmt.Fprintf(&b, "\nAST chunks:        %d", stats.ASTChunks)
	fmt.Fprintf(&b, "\nChunk tokens:      min %d, mean %.1f, p95 %d, max %d",
		stats.ChunkTokenStats.Min, stats.ChunkTokenStats.Mean, stats.ChunkTokenStats.P95, stats.ChunkTokenStats.Max)
	fmt.Fprintf(&b, "\nChunker:           %s", stats.ChunkerVersion)
	fmt.Fprintf(&b, "\nIndex version:     %s", stats.IndexVersion)
	fmt.Fprintf(&b, "\nEmbedding model:   %s", stats.EmbeddingModel)
	fmt.Fprintf(&b, "\nIndexed at:        %s", stats.IndexedAt)
	return b.String()
}

func serve(ctx context.Context, addr string, qa service.QAService) error {
	logger := contextutil.LoggerFromContext(ctx)

	srv := &nethttp.Server{
		Addr:              addr,
		Handler:           apphttp.NewRouter(&apphttp.Deps{QAService: qa, BaseCtx: ctx}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "starting API server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("API server failed: %w", err)
	case <-ctx.Done():
	}

	logger.InfoContext(ctx, "shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down API server: %w", err)
	}
	return nil
}
