package codebase

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"repoqa/internal/contextutil"
)

// FileReader reads repository-relative files.
type FileReader interface {
	ReadFile(relPath string) ([]byte, error)
}

// Build parses every routed file and assembles the AST summary.
// Records are ordered TypeScript first, then HTML, then JSON, each group in file order.
// A file that cannot be read or parsed fails the build.
func Build(ctx context.Context, reader FileReader, files []string) (*AST, error) {
	logger := contextutil.LoggerFromContext(ctx)
	groups := Partition(files)

	ast := &AST{
		Files:        files,
		CodebaseInfo: make([]FileInfo, 0, len(groups[KindTypeScript])+len(groups[KindHTML])+len(groups[KindJSON])),
	}

	for _, kind := range []Kind{KindTypeScript, KindHTML, KindJSON} {
		for _, file := range groups[kind] {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			content, err := reader.ReadFile(file)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", file, err)
			}

			info, err := parseFile(ctx, kind, file, content)
			if err != nil {
				return nil, err
			}
			ast.CodebaseInfo = append(ast.CodebaseInfo, info)
		}
	}

	logger.InfoContext(ctx, "AST generated",
		"files", len(files),
		"typescript", len(groups[KindTypeScript]),
		"html", len(groups[KindHTML]),
		"json", len(groups[KindJSON]),
	)
	return ast, nil
}

func parseFile(ctx context.Context, kind Kind, file string, content []byte) (FileInfo, error) {
	switch kind {
	case KindTypeScript:
		return ParseTypeScript(ctx, file, content)
	case KindHTML:
		return ParseHTML(file, content)
	case KindJSON:
		return ParseJSON(file, content), nil
	default:
		return FileInfo{}, fmt.Errorf("no parser for %s", file)
	}
}

// WriteFile writes the AST summary as JSON indented by two spaces.
func WriteFile(path string, ast *AST) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	data, err := json.MarshalIndent(ast, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode AST: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadFile loads an AST summary previously written by WriteFile.
func ReadFile(path string) (*AST, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var ast AST
	if err := json.Unmarshal(data, &ast); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &ast, nil
}
