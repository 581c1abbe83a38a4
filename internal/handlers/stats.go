package handlers

import (
	"net/http"

	"repoqa/internal/contextutil"
	"repoqa/internal/service"
)

// StatsHandler serves statistics about the last index build.
type StatsHandler struct {
	qaService service.QAService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(qaService service.QAService) *StatsHandler {
	return &StatsHandler{qaService: qaService}
}

// ServeHTTP handles GET /api/stats.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	stats, err := h.qaService.IndexStats(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to read index stats")
		return
	}
	writeJSON(w, ctx, http.StatusOK, stats)
}
