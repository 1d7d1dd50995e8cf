package task

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("task: not found")

const taskColumns = "id, title, notes, status::text, priority::text, assignee_id, due_date, created_by, created_at, updated_at"

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) List(ctx context.Context, filters Filters) ([]Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks"
	conds := []string{}
	args := []any{}
	if filters.Status != "" {
		args = append(args, filters.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filters.AssigneeID != "" {
		args = append(args, filters.AssigneeID)
		conds = append(conds, fmt.Sprintf("assignee_id = $%d", len(args)))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += `
		ORDER BY
			CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END,
			due_date ASC NULLS LAST,
			created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("task: list: %w", err)
	}
	defer rows.Close()

	out := make([]Task, 0, 16)
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Notes, &t.Status, &t.Priority, &t.AssigneeID, &t.DueDate, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("task: scan: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task: iterate: %w", err)
	}
	return out, nil
}

func (r *PGRepository) Create(ctx context.Context, t Task) (Task, error) {
	const query = `
		INSERT INTO tasks (id, title, notes, status, priority, assignee_id, due_date, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + taskColumns

	var out Task
	err := r.pool.QueryRow(ctx, query,
		t.ID, t.Title, t.Notes, t.Status, t.Priority, t.AssigneeID, t.DueDate, t.CreatedBy, t.CreatedAt, t.UpdatedAt).
		Scan(&out.ID, &out.Title, &out.Notes, &out.Status, &out.Priority, &out.AssigneeID, &out.DueDate, &out.CreatedBy, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return Task{}, fmt.Errorf("task: create: %w", err)
	}
	return out, nil
}

func (r *PGRepository) Update(ctx context.Context, t Task) (Task, error) {
	const query = `
		UPDATE tasks
		SET title = $2, notes = $3, status = $4, priority = $5, assignee_id = $6, due_date = $7, updated_at = $8
		WHERE id = $1
		RETURNING ` + taskColumns

	var out Task
	err := r.pool.QueryRow(ctx, query,
		t.ID, t.Title, t.Notes, t.Status, t.Priority, t.AssigneeID, t.DueDate, t.UpdatedAt).
		Scan(&out.ID, &out.Title, &out.Notes, &out.Status, &out.Priority, &out.AssigneeID, &out.DueDate, &out.CreatedBy, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, fmt.Errorf("task: update: %w", err)
	}
	return out, nil
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (Task, error) {
	const query = "SELECT " + taskColumns + " FROM tasks WHERE id = $1"

	var t Task
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&t.ID, &t.Title, &t.Notes, &t.Status, &t.Priority, &t.AssigneeID, &t.DueDate, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, fmt.Errorf("task: get: %w", err)
	}
	return t, nil
}
