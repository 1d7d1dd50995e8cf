package feedback

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound  = errors.New("feedback: not found")
	ErrBadStatus = errors.New("feedback: entry already resolved")
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) List(ctx context.Context, status Status) ([]Entry, error) {
	query := `
		SELECT id, kind::text, title, detail, status::text, created_by, created_at, updated_at, resolved_at
		FROM feedback_entries
	`
	args := []any{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("feedback: list: %w", err)
	}
	defer rows.Close()

	out := make([]Entry, 0, 8)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Title, &e.Detail, &e.Status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt, &e.ResolvedAt); err != nil {
			return nil, fmt.Errorf("feedback: scan: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("feedback: iterate: %w", err)
	}
	return out, nil
}

func (r *Repository) Create(ctx context.Context, kind Kind, title, detail, createdBy string) (Entry, error) {
	const query = `
		INSERT INTO feedback_entries (kind, title, detail, status, created_by)
		VALUES ($1, $2, $3, 'open', $4)
		RETURNING id, kind::text, title, detail, status::text, created_by, created_at, updated_at, resolved_at
	`

	var e Entry
	err := r.pool.QueryRow(ctx, query, kind, title, detail, createdBy).
		Scan(&e.ID, &e.Kind, &e.Title, &e.Detail, &e.Status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt, &e.ResolvedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("feedback: create: %w", err)
	}
	return e, nil
}

func (r *Repository) Resolve(ctx context.Context, entryID string) (Entry, error) {
	const query = `
		UPDATE feedback_entries
		SET status = 'resolved', resolved_at = now(), updated_at = now()
		WHERE id = $1 AND status <> 'resolved'
		RETURNING id, kind::text, title, detail, status::text, created_by, created_at, updated_at, resolved_at
	`

	var e Entry
	err := r.pool.QueryRow(ctx, query, entryID).
		Scan(&e.ID, &e.Kind, &e.Title, &e.Detail, &e.Status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt, &e.ResolvedAt)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, fmt.Errorf("feedback: resolve: %w", err)
	}

	const check = `SELECT status::text FROM feedback_entries WHERE id = $1`
	var status Status
	if err := r.pool.QueryRow(ctx, check, entryID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("feedback: resolve fetch: %w", err)
	}
	if status == StatusResolved {
		return Entry{}, ErrBadStatus
	}
	return Entry{}, ErrNotFound
}
