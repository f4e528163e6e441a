package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/swse/internal/storage"
)

// DocumentRepository stores reference documents (compendium entries) keyed by
// pack and ID.
type DocumentRepository struct {
	db *pgxpool.Pool
}

// NewDocumentRepository creates a DocumentRepository backed by the given pool.
func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Put inserts or replaces the document id in pack.
func (r *DocumentRepository) Put(ctx context.Context, pack, id string, doc json.RawMessage) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO reference_documents (pack, id, document)
		VALUES ($1, $2, $3)
		ON CONFLICT (pack, id) DO UPDATE SET document = EXCLUDED.document, updated_at = NOW()`,
		pack, id, []byte(doc),
	)
	if err != nil {
		return fmt.Errorf("upserting document %s/%s: %w", pack, id, err)
	}
	return nil
}

// Get returns the raw document id from pack.
//
// Postcondition: Returns the document or storage.ErrDocumentNotFound.
func (r *DocumentRepository) Get(ctx context.Context, pack, id string) (json.RawMessage, error) {
	var doc []byte
	err := r.db.QueryRow(ctx,
		`SELECT document FROM reference_documents WHERE pack = $1 AND id = $2`, pack, id,
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("querying document %s/%s: %w", pack, id, err)
	}
	return doc, nil
}

// IDs lists the document IDs in pack in ascending order.
func (r *DocumentRepository) IDs(ctx context.Context, pack string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM reference_documents WHERE pack = $1 ORDER BY id`, pack)
	if err != nil {
		return nil, fmt.Errorf("listing pack %s: %w", pack, err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
