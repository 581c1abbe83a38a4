package repo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Repository resolves and reads files of the repository being indexed.
type Repository struct {
	root string
}

// New creates a Repository rooted at root. The directory must exist.
func New(root string) (*Repository, error) {
	if root == "" {
		return nil, ErrNoRepository
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoRepository, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNoRepository, abs)
	}
	return &Repository{root: abs}, nil
}

// Root returns the absolute repository root.
func (r *Repository) Root() string {
	return r.root
}

// Files lists the version-controlled files of the repository.
func (r *Repository) Files(ctx context.Context) ([]string, error) {
	return ListFiles(ctx, r.root)
}

// AbsPath returns the absolute path of a repository-relative file.
// Paths that would escape the repository root are rejected.
func (r *Repository) AbsPath(relPath string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes repository root: %s", relPath)
	}
	return filepath.Join(r.root, clean), nil
}

// ReadFile reads a repository-relative file.
func (r *Repository) ReadFile(relPath string) ([]byte, error) {
	abs, err := r.AbsPath(relPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", relPath, err)
	}
	return data, nil
}
