package gallery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const itemColumns = "id, title, description, image_url, created_at, updated_at"

// Repository handles item persistence for one resource table.
type Repository struct {
	db    *pgxpool.Pool
	table string
}

// NewRepository creates a Repository bound to the given table. The table name
// is a compile-time constant chosen at wiring time, never user input.
func NewRepository(db *pgxpool.Pool, table string) *Repository {
	return &Repository{db: db, table: table}
}

// Create inserts a new item and returns the stored record.
func (r *Repository) Create(ctx context.Context, title, description, imageURL string) (*Item, error) {
	it := &Item{}
	err := r.db.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO %s (title, description, image_url)
		 VALUES ($1, $2, $3)
		 RETURNING %s`, r.table, itemColumns),
		title, description, imageURL,
	).Scan(&it.ID, &it.Title, &it.Description, &it.ImageURL, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", r.table, err)
	}
	return it, nil
}

// List returns every item in the table. No pagination, no ordering guarantee.
func (r *Repository) List(ctx context.Context) ([]Item, error) {
	rows, err := r.db.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM %s`, itemColumns, r.table))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Title, &it.Description, &it.ImageURL, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", r.table, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", r.table, err)
	}
	return items, nil
}

// GetByID fetches a single item by its UUID.
func (r *Repository) GetByID(ctx context.Context, id string) (*Item, error) {
	it := &Item{}
	err := r.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, itemColumns, r.table),
		id,
	).Scan(&it.ID, &it.Title, &it.Description, &it.ImageURL, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s by id: %w", r.table, err)
	}
	return it, nil
}

// Update applies the non-nil fields of upd to the item and returns the updated
// record. updated_at is always refreshed.
func (r *Repository) Update(ctx context.Context, id string, upd ItemUpdate) (*Item, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{}
	next := 1

	if upd.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", next))
		args = append(args, *upd.Title)
		next++
	}
	if upd.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", next))
		args = append(args, *upd.Description)
		next++
	}
	if upd.ImageURL != nil {
		sets = append(sets, fmt.Sprintf("image_url = $%d", next))
		args = append(args, *upd.ImageURL)
		next++
	}

	args = append(args, id)

	it := &Item{}
	err := r.db.QueryRow(ctx,
		fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d RETURNING %s`,
			r.table, strings.Join(sets, ", "), next, itemColumns),
		args...,
	).Scan(&it.ID, &it.Title, &it.Description, &it.ImageURL, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", r.table, err)
	}
	return it, nil
}

// Delete removes the item with the given id. Deleting an id that does not
// exist is a silent no-op: the store reports zero rows affected and no error,
// and that behavior is kept.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table), id)
	if isInvalidUUID(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete from %s: %w", r.table, err)
	}
	return nil
}

// isInvalidUUID checks whether an error is a PostgreSQL invalid_text_representation
// (code 22P02), raised when a path parameter is not a well-formed UUID.
func isInvalidUUID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}
