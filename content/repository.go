package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("content: draft not found")

const draftColumns = "id, title, body, platform::text, status::text, scheduled_for, published_at, created_by, created_at, updated_at"

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) List(ctx context.Context, status Status) ([]Draft, error) {
	query := "SELECT " + draftColumns + " FROM content_drafts"
	args := []any{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY updated_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("content: list: %w", err)
	}
	defer rows.Close()

	out := make([]Draft, 0, 16)
	for rows.Next() {
		var d Draft
		if err := scanDraft(rows, &d); err != nil {
			return nil, fmt.Errorf("content: scan: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("content: iterate: %w", err)
	}
	return out, nil
}

func (r *PGRepository) Create(ctx context.Context, d Draft) (Draft, error) {
	const query = `
		INSERT INTO content_drafts (id, title, body, platform, status, scheduled_for, published_at, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + draftColumns

	var out Draft
	row := r.pool.QueryRow(ctx, query,
		d.ID, d.Title, d.Body, d.Platform, d.Status, d.ScheduledFor, d.PublishedAt, d.CreatedBy, d.CreatedAt, d.UpdatedAt)
	if err := scanDraft(row, &out); err != nil {
		return Draft{}, fmt.Errorf("content: create: %w", err)
	}
	return out, nil
}

func (r *PGRepository) Update(ctx context.Context, d Draft) (Draft, error) {
	const query = `
		UPDATE content_drafts
		SET title = $2, body = $3, status = $4, scheduled_for = $5, published_at = $6, updated_at = $7
		WHERE id = $1
		RETURNING ` + draftColumns

	var out Draft
	row := r.pool.QueryRow(ctx, query,
		d.ID, d.Title, d.Body, d.Status, d.ScheduledFor, d.PublishedAt, d.UpdatedAt)
	if err := scanDraft(row, &out); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Draft{}, ErrNotFound
		}
		return Draft{}, fmt.Errorf("content: update: %w", err)
	}
	return out, nil
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (Draft, error) {
	const query = "SELECT " + draftColumns + " FROM content_drafts WHERE id = $1"

	var d Draft
	if err := scanDraft(r.pool.QueryRow(ctx, query, id), &d); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Draft{}, ErrNotFound
		}
		return Draft{}, fmt.Errorf("content: get: %w", err)
	}
	return d, nil
}

func scanDraft(row pgx.Row, d *Draft) error {
	return row.Scan(&d.ID, &d.Title, &d.Body, &d.Platform, &d.Status, &d.ScheduledFor, &d.PublishedAt, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt)
}
