package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedding_store.go -package=mocks repoqa/internal/storage EmbeddingStore

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
)

// EmbeddingStore defines the interface for vector persistence.
type EmbeddingStore interface {
	// Put inserts or replaces the given vectors.
	Put(ctx context.Context, records []EmbeddingRecord) error
	// All returns every stored vector.
	All(ctx context.Context) ([]EmbeddingRecord, error)
	// Delete removes vectors by ID. Unknown IDs are ignored.
	Delete(ctx context.Context, ids []string) error
	// Count returns the number of stored vectors.
	Count(ctx context.Context) (int, error)
}

// EmbeddingRepo stores vectors as little-endian float32 blobs.
// It implements the EmbeddingStore interface.
type EmbeddingRepo struct {
	db *sql.DB
}

// NewEmbeddingRepo creates a new EmbeddingRepo.
func NewEmbeddingRepo(db *sql.DB) *EmbeddingRepo {
	return &EmbeddingRepo{db: db}
}

// Put inserts or replaces the given vectors in a single transaction.
func (r *EmbeddingRepo) Put(ctx context.Context, records []EmbeddingRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO embeddings (id, dims, vector) VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET dims = excluded.dims, vector = excluded.vector`)
	if err != nil {
		return fmt.Errorf("failed to prepare embedding insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.ID, len(rec.Vector), encodeVector(rec.Vector)); err != nil {
			return fmt.Errorf("failed to insert embedding %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit embeddings: %w", err)
	}
	return nil
}

// All returns every stored vector ordered by ID.
func (r *EmbeddingRepo) All(ctx context.Context) ([]EmbeddingRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, dims, vector FROM embeddings ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query embeddings: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []EmbeddingRecord
	for rows.Next() {
		var (
			id   string
			dims int
			blob []byte
		)
		if err := rows.Scan(&id, &dims, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan embedding: %w", err)
		}
		vec, err := decodeVector(blob, dims)
		if err != nil {
			return nil, fmt.Errorf("embedding %s: %w", id, err)
		}
		records = append(records, EmbeddingRecord{ID: id, Vector: vec})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate embeddings: %w", err)
	}
	return records, nil
}

// Delete removes vectors by ID.
func (r *EmbeddingRepo) Delete(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if _, err := r.db.ExecContext(ctx, "DELETE FROM embeddings WHERE id = ?", id); err != nil {
			return fmt.Errorf("failed to delete embedding %s: %w", id, err)
		}
	}
	return nil
}

// Count returns the number of stored vectors.
func (r *EmbeddingRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM embeddings").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count embeddings: %w", err)
	}
	return n, nil
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(b []byte, dims int) ([]float32, error) {
	if len(b) != dims*4 {
		return nil, fmt.Errorf("vector blob has %d bytes, want %d", len(b), dims*4)
	}
	v := make([]float32, dims)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}
