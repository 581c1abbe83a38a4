package retrieval

import (
	"context"
	"strings"
	"testing"
)

var sourceAttribute = []AttributeInfo{{Name: SourceKey, Description: "file names to narrow down the search", Type: "string"}}

func TestParseStructuredQuery(t *testing.T) {
	tests := []struct {
		name       string
		reply      string
		wantQuery  string
		wantFilter bool
		wantErr    bool
	}{
		{
			name:      "plain JSON without filter",
			reply:     `{"query": "user service", "filter": null}`,
			wantQuery: "user service",
		},
		{
			name:       "fenced JSON with filter",
			reply:      "```json\n{\"query\": \"login\", \"filter\": {\"comparator\": \"eq\", \"attribute\": \"source\", \"value\": \"src/app.ts\"}}\n```",
			wantQuery:  "login",
			wantFilter: true,
		},
		{
			name:      "empty filter object",
			reply:     `{"query": "x", "filter": {}}`,
			wantQuery: "x",
		},
		{
			name:    "not JSON",
			reply:   "I cannot help with that",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStructuredQuery(tt.reply)
			if tt.wantErr {
				if err == nil {
					t.Error("ParseStructuredQuery() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStructuredQuery() unexpected error: %v", err)
			}
			if got.Query != tt.wantQuery {
				t.Errorf("Query = %q, want %q", got.Query, tt.wantQuery)
			}
			if (got.Filter != nil) != tt.wantFilter {
				t.Errorf("Filter = %+v, want present=%v", got.Filter, tt.wantFilter)
			}
		})
	}
}

func TestSelfQueryRetriever_Retrieve(t *testing.T) {
	ctx := context.Background()
	idx, err := FromDocuments(ctx, sampleDocs(), &keywordEmbedder{})
	if err != nil {
		t.Fatalf("FromDocuments() error = %v", err)
	}

	tests := []struct {
		name        string
		reply       string
		wantSources []string
		wantErr     bool
	}{
		{
			name:        "eq filter is pushed down",
			reply:       `{"query": "alpha", "filter": {"comparator": "eq", "attribute": "source", "value": "src/beta.ts"}}`,
			wantSources: []string{"src/beta.ts"},
		},
		{
			name:        "in filter keeps listed files",
			reply:       `{"query": "gamma", "filter": {"comparator": "in", "attribute": "source", "value": ["src/gamma.ts", "src/alpha.ts"]}}`,
			wantSources: []string{"src/gamma.ts", "src/alpha.ts"},
		},
		{
			name:        "contain filter applied in process",
			reply:       `{"query": "alpha", "filter": {"comparator": "contain", "attribute": "source", "value": "gam"}}`,
			wantSources: []string{"src/gamma.ts"},
		},
		{
			name:        "ne filter applied in process",
			reply:       `{"query": "alpha", "filter": {"comparator": "ne", "attribute": "source", "value": "src/alpha.ts"}}`,
			wantSources: []string{"src/beta.ts", "src/gamma.ts"},
		},
		{
			name:        "empty in list does not filter",
			reply:       `{"query": "alpha", "filter": {"comparator": "in", "attribute": "source", "value": []}}`,
			wantSources: []string{"src/alpha.ts", "src/beta.ts", "src/gamma.ts"},
		},
		{
			name:        "eq without value does not filter",
			reply:       `{"query": "alpha", "filter": {"comparator": "eq", "attribute": "source"}}`,
			wantSources: []string{"src/alpha.ts", "src/beta.ts", "src/gamma.ts"},
		},
		{
			name:    "unknown attribute",
			reply:   `{"query": "alpha", "filter": {"comparator": "eq", "attribute": "files", "value": "a"}}`,
			wantErr: true,
		},
		{
			name:    "unknown comparator",
			reply:   `{"query": "alpha", "filter": {"comparator": "gt", "attribute": "source", "value": "a"}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &funcCompleter{reply: func(string) (string, error) { return tt.reply, nil }}
			r := NewSelfQueryRetriever(llm, idx, "code files", sourceAttribute)

			docs, err := r.Retrieve(ctx, "find this file: x related to this question: y")
			if tt.wantErr {
				if err == nil {
					t.Error("Retrieve() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Retrieve() unexpected error: %v", err)
			}

			got := map[string]bool{}
			for _, d := range docs {
				got[d.Source()] = true
			}
			if len(got) != len(tt.wantSources) {
				t.Errorf("Retrieve() sources = %v, want %v", got, tt.wantSources)
			}
			for _, s := range tt.wantSources {
				if !got[s] {
					t.Errorf("Retrieve() missing source %s, got %v", s, got)
				}
			}
		})
	}
}

func TestSelfQueryRetriever_PromptDescribesAttributes(t *testing.T) {
	llm := &funcCompleter{reply: func(string) (string, error) { return `{"query":"q","filter":null}`, nil }}
	idx, _ := FromDocuments(context.Background(), sampleDocs(), &keywordEmbedder{})
	r := NewSelfQueryRetriever(llm, idx, "  code files  ", sourceAttribute)

	if _, err := r.Retrieve(context.Background(), "where is alpha"); err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	prompt := llm.prompts[0]
	for _, want := range []string{"file names to narrow down the search", `"content": "code files"`, "where is alpha"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestSelfQueryRetriever_ModelError(t *testing.T) {
	llm := &funcCompleter{reply: func(string) (string, error) { return "", errModel }}
	idx, _ := FromDocuments(context.Background(), sampleDocs(), &keywordEmbedder{})
	r := NewSelfQueryRetriever(llm, idx, "code", sourceAttribute)

	if _, err := r.Retrieve(context.Background(), "q"); err == nil {
		t.Error("Retrieve() should fail when the model fails")
	}
}
