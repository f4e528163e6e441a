package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/swse/internal/game/character"
	"github.com/cory-johannsen/swse/internal/storage"
)

// ActorRepository persists actors as jsonb documents.
type ActorRepository struct {
	db *pgxpool.Pool
}

// NewActorRepository creates an ActorRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewActorRepository(db *pgxpool.Pool) *ActorRepository {
	return &ActorRepository{db: db}
}

// Create inserts a new actor document.
//
// Precondition: a.ID must be a UUID string.
// Postcondition: returns storage.ErrActorExists on duplicate ID.
func (r *ActorRepository) Create(ctx context.Context, a *character.Actor) error {
	doc, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding actor: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO actors (id, name, kind, document)
		VALUES ($1, $2, $3, $4)`,
		a.ID, a.Name, string(a.Kind), doc,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrActorExists
		}
		return fmt.Errorf("inserting actor: %w", err)
	}
	return nil
}

// Get retrieves an actor by ID.
//
// Postcondition: Returns the Actor or storage.ErrActorNotFound.
func (r *ActorRepository) Get(ctx context.Context, id string) (*character.Actor, error) {
	return scanActor(r.db.QueryRow(ctx, `SELECT document FROM actors WHERE id = $1`, id))
}

// List returns every actor ordered by name.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *ActorRepository) List(ctx context.Context) ([]*character.Actor, error) {
	rows, err := r.db.Query(ctx, `SELECT document FROM actors ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing actors: %w", err)
	}
	defer rows.Close()

	out := make([]*character.Actor, 0)
	for rows.Next() {
		a, err := scanActor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateActor locks the actor row, applies fn, and writes the result in the
// same transaction. Credit deductions and item changes made by fn commit
// together or not at all.
func (r *ActorRepository) UpdateActor(ctx context.Context, id string, fn func(*character.Actor) error) (*character.Actor, error) {
	var out *character.Actor
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		a, err := scanActor(tx.QueryRow(ctx, `SELECT document FROM actors WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		if err := fn(a); err != nil {
			return err
		}
		a.ID = id
		doc, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("encoding actor: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			UPDATE actors
			SET name = $2, kind = $3, document = $4, version = version + 1, updated_at = NOW()
			WHERE id = $1`,
			id, a.Name, string(a.Kind), doc,
		); err != nil {
			return fmt.Errorf("updating actor: %w", err)
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func scanActor(row pgx.Row) (*character.Actor, error) {
	var doc []byte
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrActorNotFound
		}
		return nil, fmt.Errorf("querying actor: %w", err)
	}
	var a character.Actor
	if err := json.Unmarshal(doc, &a); err != nil {
		return nil, fmt.Errorf("decoding actor document: %w", err)
	}
	return &a, nil
}

func isDuplicateKeyError(err error) bool {
	// SQLSTATE 23505 is unique_violation.
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}

var _ storage.ActorRepository = (*ActorRepository)(nil)
