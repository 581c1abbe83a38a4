package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"go.uber.org/mock/gomock"

	"repoqa/internal/indexer"
	"repoqa/internal/service"
	"repoqa/internal/service/mocks"
)

func TestMain(m *testing.M) {
	pterm.DisableOutput()
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

type staticFiles struct {
	files []string
	err   error
}

func (s staticFiles) Files(context.Context) ([]string, error) {
	return s.files, s.err
}

type scriptedPrompter struct {
	confirm   bool
	question  string
	confirmed []string
	asked     []string
}

func (p *scriptedPrompter) Confirm(message string) (bool, error) {
	p.confirmed = append(p.confirmed, message)
	return p.confirm, nil
}

func (p *scriptedPrompter) Input(message string) (string, error) {
	p.asked = append(p.asked, message)
	return p.question, nil
}

var indexResult = &indexer.Result{Files: 4, Parsed: 3, CodeChunks: 9, ASTChunks: 3}

func TestSession_Run(t *testing.T) {
	tests := []struct {
		name        string
		ready       bool
		confirm     bool
		wantConfirm bool
		wantIndex   bool
	}{
		{name: "indexes when stores are missing", ready: false, wantIndex: true},
		{name: "keeps stores when declined", ready: true, confirm: false, wantConfirm: true},
		{name: "re-indexes when confirmed", ready: true, confirm: true, wantConfirm: true, wantIndex: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			qa := mocks.NewMockQAService(ctrl)
			qa.EXPECT().Ready(gomock.Any()).Return(tt.ready)
			if tt.wantIndex {
				qa.EXPECT().Reindex(gomock.Any()).Return(indexResult, nil)
			}
			qa.EXPECT().
				Ask(gomock.Any(), service.AskRequest{Question: "where is the router?"}).
				Return(service.AskResponse{Answer: "in src/app.routes.ts"}, nil)

			prompter := &scriptedPrompter{confirm: tt.confirm, question: "  where is the router?\n"}
			var out bytes.Buffer
			session := &Session{
				Out:      &out,
				Files:    staticFiles{files: []string{"a.ts", "b.html"}},
				QA:       qa,
				Prompter: prompter,
			}

			if err := session.Run(context.Background()); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if got := len(prompter.confirmed) == 1; got != tt.wantConfirm {
				t.Errorf("confirm prompts = %v, want confirm %v", prompter.confirmed, tt.wantConfirm)
			}
			if tt.wantConfirm && prompter.confirmed[0] != reindexPrompt {
				t.Errorf("confirm prompt = %q", prompter.confirmed[0])
			}
			if len(prompter.asked) != 1 || prompter.asked[0] != questionPrompt {
				t.Errorf("question prompts = %v", prompter.asked)
			}

			text := out.String()
			for _, want := range []string{"Found 2 files", "Total time:", "in src/app.routes.ts"} {
				if !strings.Contains(text, want) {
					t.Errorf("output missing %q:\n%s", want, text)
				}
			}
			if indexed := strings.Contains(text, "9 code chunks"); indexed != tt.wantIndex {
				t.Errorf("index summary printed = %v, want %v", indexed, tt.wantIndex)
			}
		})
	}
}

func TestSession_Run_Errors(t *testing.T) {
	t.Run("file listing failure is fatal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		session := &Session{
			Out:      io.Discard,
			Files:    staticFiles{err: errors.New("no repository folder found")},
			QA:       mocks.NewMockQAService(ctrl),
			Prompter: &scriptedPrompter{},
		}
		err := session.Run(context.Background())
		if err == nil || !strings.Contains(err.Error(), "no repository folder found") {
			t.Errorf("Run() error = %v", err)
		}
	})

	t.Run("index failure stops before the question", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		qa := mocks.NewMockQAService(ctrl)
		qa.EXPECT().Ready(gomock.Any()).Return(false)
		qa.EXPECT().Reindex(gomock.Any()).Return(nil, service.ErrIndexInProgress)

		prompter := &scriptedPrompter{}
		session := &Session{Out: io.Discard, Files: staticFiles{files: []string{"a.ts"}}, QA: qa, Prompter: prompter}

		if err := session.Run(context.Background()); !errors.Is(err, service.ErrIndexInProgress) {
			t.Errorf("Run() error = %v, want ErrIndexInProgress", err)
		}
		if len(prompter.asked) != 0 {
			t.Error("question should not be asked after a failed index")
		}
	})

	t.Run("ask failure is returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		qa := mocks.NewMockQAService(ctrl)
		qa.EXPECT().Ready(gomock.Any()).Return(true)
		qa.EXPECT().Ask(gomock.Any(), gomock.Any()).
			Return(service.AskResponse{}, &service.ValidationError{Field: "question", Message: "cannot be empty"})

		session := &Session{Out: io.Discard, Files: staticFiles{files: []string{"a.ts"}}, QA: qa, Prompter: &scriptedPrompter{}}

		if err := session.Run(context.Background()); !errors.Is(err, service.ErrInvalidInput) {
			t.Errorf("Run() error = %v, want ErrInvalidInput", err)
		}
	})
}

func TestStartSpinner_FrameDelay(t *testing.T) {
	sp := startSpinner(io.Discard, "Thinking...")
	defer sp.Stop()

	if sp.printer == nil {
		t.Fatal("startSpinner() did not start a spinner")
	}
	if sp.printer.Delay != 100*time.Millisecond {
		t.Errorf("spinner delay = %v, want 100ms", sp.printer.Delay)
	}
}

func TestRunIndex(t *testing.T) {
	tests := []struct {
		name      string
		force     bool
		ready     bool
		wantIndex bool
		wantText  string
	}{
		{name: "skips when ready", ready: true, wantText: "--force"},
		{name: "indexes when not ready", wantIndex: true, wantText: "Indexed 4 files"},
		{name: "force re-indexes", force: true, ready: true, wantIndex: true, wantText: "Indexed 4 files"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			qa := mocks.NewMockQAService(ctrl)
			if !tt.force {
				qa.EXPECT().Ready(gomock.Any()).Return(tt.ready)
			}
			if tt.wantIndex {
				qa.EXPECT().Reindex(gomock.Any()).Return(indexResult, nil)
			}

			var out bytes.Buffer
			if err := runIndex(context.Background(), &out, qa, tt.force); err != nil {
				t.Fatalf("runIndex() error = %v", err)
			}
			if !strings.Contains(out.String(), tt.wantText) {
				t.Errorf("output = %q, want it to contain %q", out.String(), tt.wantText)
			}
		})
	}
}

func TestPrintStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	qa := mocks.NewMockQAService(ctrl)
	qa.EXPECT().IndexStats(gomock.Any()).Return(&indexer.IndexingCoverageStats{
		DocsProcessed:  3,
		DocsByKind:     map[string]int{"typescript": 2, "html": 1},
		CodeChunks:     7,
		ASTChunks:      3,
		ChunkerVersion: indexer.ChunkerVersion,
		EmbeddingModel: "text-embedding-ada-002",
	}, nil)

	var out bytes.Buffer
	if err := printStats(context.Background(), &out, qa); err != nil {
		t.Fatalf("printStats() error = %v", err)
	}

	text := out.String()
	for _, want := range []string{"Index statistics", "typescript", "text-embedding-ada-002", indexer.ChunkerVersion} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Index(text, "html") > strings.Index(text, "typescript") {
		t.Error("kinds should be listed in sorted order")
	}
}

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()

	want := map[string]bool{"index": false, "serve": false, "stats": false}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	index, _, err := root.Find([]string{"index"})
	if err != nil {
		t.Fatalf("Find(index) error = %v", err)
	}
	if index.Flags().Lookup("force") == nil {
		t.Error("index command should have a --force flag")
	}
}
