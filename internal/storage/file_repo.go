package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_file_store.go -package=mocks repoqa/internal/storage FileStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// FileStore defines the interface for the index manifest.
type FileStore interface {
	// Get gets a manifest entry by path. Returns nil and ErrNotFound if not found.
	Get(ctx context.Context, path string) (*FileRecord, error)
	// Upsert inserts a manifest entry or replaces the existing one for the same path.
	Upsert(ctx context.Context, file *FileRecord) error
	// List returns all manifest entries ordered by path.
	List(ctx context.Context) ([]FileRecord, error)
	// Clear removes every manifest entry and metadata value.
	Clear(ctx context.Context) error
	// SetMeta stores a metadata value.
	SetMeta(ctx context.Context, key, value string) error
	// GetMeta reads a metadata value. Returns "" and ErrNotFound if unset.
	GetMeta(ctx context.Context, key string) (string, error)
}

// FileRepo provides methods for manifest operations.
// It implements the FileStore interface.
type FileRepo struct {
	db *sql.DB
}

// NewFileRepo creates a new FileRepo.
func NewFileRepo(db *sql.DB) *FileRepo {
	return &FileRepo{db: db}
}

// Get gets a manifest entry by path.
func (r *FileRepo) Get(ctx context.Context, path string) (*FileRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT path, kind, hash, code_chunks, ast_chunks, chunk_tokens, indexed_at FROM indexed_files WHERE path = ?",
		path,
	)
	rec, err := scanFile(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query file: %w", err)
	}
	return rec, nil
}

// Upsert inserts or replaces a manifest entry, stamping indexed_at with the current time.
func (r *FileRepo) Upsert(ctx context.Context, file *FileRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO indexed_files (path, kind, hash, code_chunks, ast_chunks, chunk_tokens, indexed_at)
		 VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (path) DO UPDATE SET
		 kind = excluded.kind, hash = excluded.hash, code_chunks = excluded.code_chunks,
		 ast_chunks = excluded.ast_chunks, chunk_tokens = excluded.chunk_tokens, indexed_at = CURRENT_TIMESTAMP`,
		file.Path, file.Kind, file.Hash, file.CodeChunks, file.ASTChunks, joinInts(file.ChunkTokens),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert file: %w", err)
	}
	return nil
}

// List returns all manifest entries ordered by path.
func (r *FileRepo) List(ctx context.Context) ([]FileRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT path, kind, hash, code_chunks, ast_chunks, chunk_tokens, indexed_at FROM indexed_files ORDER BY path",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var files []FileRecord
	for rows.Next() {
		rec, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate files: %w", err)
	}
	return files, nil
}

// Clear removes every manifest entry and metadata value.
func (r *FileRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM indexed_files"); err != nil {
		return fmt.Errorf("failed to clear files: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM index_meta"); err != nil {
		return fmt.Errorf("failed to clear index metadata: %w", err)
	}
	return nil
}

// SetMeta stores a metadata value.
func (r *FileRepo) SetMeta(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO index_meta (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set index metadata %s: %w", key, err)
	}
	return nil
}

// GetMeta reads a metadata value.
func (r *FileRepo) GetMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM index_meta WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get index metadata %s: %w", key, err)
	}
	return value, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (*FileRecord, error) {
	var (
		rec          FileRecord
		tokens       string
		indexedAtStr string
	)
	if err := row.Scan(&rec.Path, &rec.Kind, &rec.Hash, &rec.CodeChunks, &rec.ASTChunks, &tokens, &indexedAtStr); err != nil {
		return nil, err
	}

	ints, err := splitInts(tokens)
	if err != nil {
		return nil, fmt.Errorf("invalid chunk_tokens for %s: %w", rec.Path, err)
	}
	rec.ChunkTokens = ints

	// Parse indexed_at DATETIME string
	rec.IndexedAt, err = time.Parse("2006-01-02 15:04:05", indexedAtStr)
	if err != nil {
		// Try alternative format (SQLite might use different format)
		rec.IndexedAt, err = time.Parse(time.RFC3339, indexedAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse indexed_at timestamp: %w", err)
		}
	}
	return &rec, nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func splitInts(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	values := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
