package vectorstore

import (
	"context"
	"testing"

	"github.com/qdrant/go-client/qdrant"
)

func TestGRPCAddress(t *testing.T) {
	tests := []struct {
		name     string
		urlStr   string
		wantErr  bool
		wantHost string
		wantPort int
	}{
		{
			name:     "valid URL",
			urlStr:   "http://localhost:6333",
			wantHost: "localhost",
			wantPort: 6334, // gRPC port is HTTP port + 1
		},
		{
			name:     "URL with custom port",
			urlStr:   "http://qdrant.internal:9000",
			wantHost: "qdrant.internal",
			wantPort: 9001,
		},
		{
			name:    "invalid URL",
			urlStr:  "://invalid",
			wantErr: true,
		},
		{
			name:     "URL without port",
			urlStr:   "http://localhost",
			wantHost: "localhost",
			wantPort: 6334,
		},
		{
			name:     "URL without hostname",
			urlStr:   "http://:6333",
			wantHost: "localhost",
			wantPort: 6334,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port, err := grpcAddress(tt.urlStr)
			if tt.wantErr {
				if err == nil {
					t.Error("grpcAddress() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("grpcAddress() unexpected error: %v", err)
			}
			if host != tt.wantHost {
				t.Errorf("host = %v, want %v", host, tt.wantHost)
			}
			if port != tt.wantPort {
				t.Errorf("port = %v, want %v", port, tt.wantPort)
			}
		})
	}
}

func TestNewQdrantStore_InvalidURL(t *testing.T) {
	_, err := NewQdrantStore("://invalid", "repoqa_")
	if err == nil {
		t.Error("NewQdrantStore() with invalid URL should return error")
	}
}

func TestQdrantStore_Name(t *testing.T) {
	store := &QdrantStore{prefix: "repoqa_"}
	if got := store.name("ast"); got != "repoqa_ast" {
		t.Errorf("name() = %q, want repoqa_ast", got)
	}
}

func TestQdrantStore_Upsert_EmptyPoints(t *testing.T) {
	store := &QdrantStore{}

	err := store.Upsert(context.Background(), "repo", []Point{})
	if err != nil {
		t.Errorf("Upsert() with empty points should return early without error, got: %v", err)
	}
}

func TestQdrantStore_Delete_EmptyIDs(t *testing.T) {
	store := &QdrantStore{}

	err := store.Delete(context.Background(), "repo", []string{})
	if err != nil {
		t.Errorf("Delete() with empty IDs should return early without error, got: %v", err)
	}
}

func TestQdrantStore_Search_InvalidK(t *testing.T) {
	store := &QdrantStore{}
	ctx := context.Background()

	if _, err := store.Search(ctx, "repo", []float32{1.0, 2.0}, 0, nil); err == nil {
		t.Error("Search() with k=0 should return error")
	}
	if _, err := store.Search(ctx, "repo", []float32{1.0, 2.0}, -1, nil); err == nil {
		t.Error("Search() with k=-1 should return error")
	}
}

func TestBuildFilter(t *testing.T) {
	if buildFilter(nil) != nil {
		t.Error("buildFilter(nil) should return nil")
	}

	filter := buildFilter(map[string]any{"source": "src/app.ts"})
	if filter == nil || len(filter.Must) != 1 {
		t.Fatalf("buildFilter() = %+v, want one condition", filter)
	}
	field := filter.Must[0].GetField()
	if field.GetKey() != "source" {
		t.Errorf("condition key = %q, want source", field.GetKey())
	}
	if field.GetMatch().GetKeyword() != "src/app.ts" {
		t.Errorf("condition keyword = %q, want src/app.ts", field.GetMatch().GetKeyword())
	}

	filter = buildFilter(map[string]any{"source": []string{"a.ts", "b.ts"}})
	keywords := filter.Must[0].GetField().GetMatch().GetKeywords().GetStrings()
	if len(keywords) != 2 || keywords[0] != "a.ts" || keywords[1] != "b.ts" {
		t.Errorf("condition keywords = %v, want [a.ts b.ts]", keywords)
	}
}

func TestConvertPayloadToMap(t *testing.T) {
	result := convertPayloadToMap(nil)
	if result == nil {
		t.Error("convertPayloadToMap() should return empty map, not nil")
	}
	if len(result) != 0 {
		t.Errorf("convertPayloadToMap() with nil should return empty map, got %d items", len(result))
	}

	payload := qdrant.NewValueMap(map[string]any{
		"text":   "file-path: a.ts",
		"source": "a.ts",
		"count":  int64(3),
	})
	result = convertPayloadToMap(payload)
	if result["text"] != "file-path: a.ts" || result["source"] != "a.ts" {
		t.Errorf("convertPayloadToMap() = %v", result)
	}
	if result["count"] != int64(3) {
		t.Errorf("count = %#v, want int64(3)", result["count"])
	}
}
