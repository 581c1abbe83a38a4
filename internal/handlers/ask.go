package handlers

import (
	"encoding/json"
	"net/http"

	"repoqa/internal/contextutil"
	"repoqa/internal/service"
)

// AskHandler handles HTTP requests for repository questions.
type AskHandler struct {
	qaService service.QAService
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(qaService service.QAService) *AskHandler {
	return &AskHandler{qaService: qaService}
}

// AskRequest represents the HTTP request payload for a question.
//
// swagger:model AskRequest
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse represents the HTTP response payload for a question.
//
// swagger:model AskResponse
type AskResponse struct {
	// The agent's answer
	Answer string `json:"answer"`
}

// ServeHTTP handles HTTP requests for repository questions.
//
// swagger:route POST /api/ask askQuestion
//
// # Ask a question about the indexed repository
//
// ---
// responses:
//
//	'200':
//	  schema:
//	    "$ref": "#/definitions/AskResponse"
//	'400':
//	  description: Invalid request body or question
//	'502':
//	  description: The model API failed
//	'503':
//	  description: The vector stores are not set up
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.qaService.Ask(ctx, service.AskRequest{Question: req.Question})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to answer question")
		return
	}

	writeJSON(w, ctx, http.StatusOK, AskResponse{Answer: resp.Answer})
}
