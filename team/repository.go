package team

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProfileNotFound = errors.New("team: profile not found")

// PGRepository reads team member profiles from the users table.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (Profile, error) {
	const query = `
		SELECT id, full_name, email, active, created_at
		FROM users
		WHERE id = $1
	`
	var p Profile
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.FullName, &p.Email, &p.Active, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrProfileNotFound
		}
		return Profile{}, fmt.Errorf("team: get profile: %w", err)
	}
	return p, nil
}

func (r *PGRepository) List(ctx context.Context, limit int) ([]Profile, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	const query = `
		SELECT id, full_name, email, active, created_at
		FROM users
		WHERE active
		ORDER BY full_name ASC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("team: list profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]Profile, 0, limit)
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.FullName, &p.Email, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("team: scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("team: iterate profiles: %w", err)
	}
	return profiles, nil
}
