package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"repoqa/internal/indexer"
	"repoqa/internal/service"
	"repoqa/internal/service/mocks"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp.Error
}

func TestAskHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		body       string
		mockSetup  func(*mocks.MockQAService)
		wantStatus int
		wantBody   string
	}{
		{
			name:   "successful question",
			method: http.MethodPost,
			body:   `{"question":"where is the router?"}`,
			mockSetup: func(m *mocks.MockQAService) {
				m.EXPECT().
					Ask(gomock.Any(), service.AskRequest{Question: "where is the router?"}).
					Return(service.AskResponse{Answer: "src/app.routes.ts"}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   "src/app.routes.ts",
		},
		{
			name:       "method not allowed",
			method:     http.MethodGet,
			mockSetup:  func(*mocks.MockQAService) {},
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "invalid JSON body",
			method:     http.MethodPost,
			body:       `{"question":`,
			mockSetup:  func(*mocks.MockQAService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   "Invalid request body",
		},
		{
			name:   "validation error",
			method: http.MethodPost,
			body:   `{"question":""}`,
			mockSetup: func(m *mocks.MockQAService) {
				m.EXPECT().Ask(gomock.Any(), gomock.Any()).
					Return(service.AskResponse{}, &service.ValidationError{Field: "question", Message: "cannot be empty"})
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   "question: cannot be empty",
		},
		{
			name:   "stores not set up",
			method: http.MethodPost,
			body:   `{"question":"q"}`,
			mockSetup: func(m *mocks.MockQAService) {
				m.EXPECT().Ask(gomock.Any(), gomock.Any()).
					Return(service.AskResponse{}, fmt.Errorf("no stores: %w", service.ErrNotFound))
			},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:   "external service error",
			method: http.MethodPost,
			body:   `{"question":"q"}`,
			mockSetup: func(m *mocks.MockQAService) {
				m.EXPECT().Ask(gomock.Any(), gomock.Any()).
					Return(service.AskResponse{}, fmt.Errorf("%w: timeout", service.ErrExternalService))
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:   "unexpected error",
			method: http.MethodPost,
			body:   `{"question":"q"}`,
			mockSetup: func(m *mocks.MockQAService) {
				m.EXPECT().Ask(gomock.Any(), gomock.Any()).Return(service.AskResponse{}, errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Failed to answer question",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockQAService(ctrl)
			tt.mockSetup(svc)

			req := httptest.NewRequest(tt.method, "/api/ask", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			NewAskHandler(svc).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body = %s, want it to contain %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

// notifyingService closes finished once a background rebuild completes.
type notifyingService struct {
	service.QAService
	finished chan struct{}
}

func (s *notifyingService) StartReindex(ctx context.Context, done func(*indexer.Result, error)) error {
	return s.QAService.StartReindex(ctx, func(result *indexer.Result, err error) {
		done(result, err)
		close(s.finished)
	})
}

func TestIndexHandler_ServeHTTP(t *testing.T) {
	t.Run("starts indexing when not set up", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockQAService(ctrl)
		svc.EXPECT().Ready(gomock.Any()).Return(false)
		svc.EXPECT().StartReindex(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, done func(*indexer.Result, error)) error {
			done(&indexer.Result{Files: 3}, nil)
			return nil
		})

		w := httptest.NewRecorder()
		NewIndexHandler(context.Background(), svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/index", nil))

		if w.Code != http.StatusAccepted {
			t.Errorf("status = %d, want %d", w.Code, http.StatusAccepted)
		}
	})

	t.Run("force skips the readiness check", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockQAService(ctrl)
		svc.EXPECT().StartReindex(gomock.Any(), gomock.Any()).Return(nil)

		w := httptest.NewRecorder()
		NewIndexHandler(context.Background(), svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/index?force=true", nil))

		if w.Code != http.StatusAccepted {
			t.Errorf("status = %d, want %d", w.Code, http.StatusAccepted)
		}
	})

	t.Run("conflicts while indexing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockQAService(ctrl)
		svc.EXPECT().StartReindex(gomock.Any(), gomock.Any()).Return(service.ErrIndexInProgress)

		w := httptest.NewRecorder()
		NewIndexHandler(context.Background(), svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/index?force=true", nil))

		if w.Code != http.StatusConflict {
			t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
		}
		if msg := decodeError(t, w); msg != "Indexing already in progress" {
			t.Errorf("error = %q", msg)
		}
	})

	t.Run("second request conflicts with the first", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		idx := mocks.NewMockIndexer(ctrl)
		release := make(chan struct{})
		finished := make(chan struct{})
		idx.EXPECT().IndexAll(gomock.Any()).DoAndReturn(func(context.Context) (*indexer.Result, error) {
			<-release
			return &indexer.Result{}, nil
		})

		svc := &notifyingService{QAService: service.NewQAService(mocks.NewMockAgent(ctrl), idx, nil), finished: finished}
		handler := NewIndexHandler(context.Background(), svc)

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/api/index?force=true", nil))
		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/api/index?force=true", nil))

		if first.Code != http.StatusAccepted {
			t.Errorf("first status = %d, want %d", first.Code, http.StatusAccepted)
		}
		if second.Code != http.StatusConflict {
			t.Errorf("second status = %d, want %d", second.Code, http.StatusConflict)
		}

		close(release)
		select {
		case <-finished:
		case <-time.After(5 * time.Second):
			t.Fatal("background indexing did not finish")
		}
	})

	t.Run("keeps an existing index", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockQAService(ctrl)
		svc.EXPECT().Ready(gomock.Any()).Return(true)

		w := httptest.NewRecorder()
		NewIndexHandler(context.Background(), svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/index", nil))

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
		var resp IndexResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil || resp.Status != "skipped" {
			t.Errorf("response = %+v (%v), want skipped", resp, err)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		w := httptest.NewRecorder()
		NewIndexHandler(context.Background(), mocks.NewMockQAService(ctrl)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/index", nil))

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
		}
		if msg := decodeError(t, w); msg != "Method not allowed" {
			t.Errorf("error = %q", msg)
		}
	})
}

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		wantStatus int
		wantState  string
	}{
		{name: "healthy", ready: true, wantStatus: http.StatusOK, wantState: "healthy"},
		{name: "unhealthy", ready: false, wantStatus: http.StatusServiceUnavailable, wantState: "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockQAService(ctrl)
			svc.EXPECT().Ready(gomock.Any()).Return(tt.ready)

			w := httptest.NewRecorder()
			NewHealthHandler(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantState {
				t.Errorf("status field = %q, want %q", resp.Status, tt.wantState)
			}
			if !tt.ready && len(resp.Issues) == 0 {
				t.Error("unhealthy response should list issues")
			}
		})
	}
}

func TestStatsHandler_ServeHTTP(t *testing.T) {
	t.Run("returns stats", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockQAService(ctrl)
		svc.EXPECT().IndexStats(gomock.Any()).Return(&indexer.IndexingCoverageStats{DocsProcessed: 12, CodeChunks: 20}, nil)

		w := httptest.NewRecorder()
		NewStatsHandler(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
		var stats indexer.IndexingCoverageStats
		if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if stats.DocsProcessed != 12 || stats.CodeChunks != 20 {
			t.Errorf("stats = %+v", stats)
		}
	})

	t.Run("service error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockQAService(ctrl)
		svc.EXPECT().IndexStats(gomock.Any()).Return(nil, fmt.Errorf("%w: locked", service.ErrInternal))

		w := httptest.NewRecorder()
		NewStatsHandler(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats", bytes.NewReader(nil)))

		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
	})
}
