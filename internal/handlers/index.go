package handlers

import (
	"context"
	"net/http"

	"repoqa/internal/contextutil"
	"repoqa/internal/indexer"
	"repoqa/internal/service"
)

// IndexHandler handles HTTP requests for triggering re-indexing.
type IndexHandler struct {
	qaService service.QAService
	// baseCtx outlives the request so indexing continues after the response.
	baseCtx context.Context
}

// NewIndexHandler creates a new IndexHandler. Background indexing runs under baseCtx.
func NewIndexHandler(baseCtx context.Context, qaService service.QAService) *IndexHandler {
	return &IndexHandler{
		qaService: qaService,
		baseCtx:   baseCtx,
	}
}

// IndexResponse represents the response from the index endpoint.
type IndexResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ServeHTTP handles HTTP requests for triggering re-indexing.
// Without ?force=true an existing index is kept.
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	force := r.URL.Query().Get("force") == "true"
	if !force && h.qaService.Ready(ctx) {
		writeJSON(w, ctx, http.StatusOK, IndexResponse{
			Message: "Vector stores are already set up. Use ?force=true to re-index.",
			Status:  "skipped",
		})
		return
	}

	logger.InfoContext(ctx, "re-indexing triggered via API", "force", force)

	indexCtx := contextutil.WithLogger(h.baseCtx, logger)
	err := h.qaService.StartReindex(indexCtx, func(result *indexer.Result, err error) {
		if err != nil {
			logger.ErrorContext(indexCtx, "re-indexing failed", "error", err)
			return
		}
		logger.InfoContext(indexCtx, "re-indexing completed successfully",
			"files", result.Files,
			"code_chunks", result.CodeChunks,
			"ast_chunks", result.ASTChunks)
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to start indexing")
		return
	}

	writeJSON(w, ctx, http.StatusAccepted, IndexResponse{
		Message: "Indexing started. Check server logs for progress.",
		Status:  "accepted",
	})
}
