package funding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("funding: recap not found")

const recapColumns = "id, week_start, deals_funded, total_funded_cents, total_commission_cents, notes, created_at, updated_at"

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Upsert writes the recap for its week, replacing any existing row.
// week_start carries a unique constraint.
func (r *PGRepository) Upsert(ctx context.Context, recap WeeklyRecap) (WeeklyRecap, error) {
	const query = `
		INSERT INTO weekly_recaps (id, week_start, deals_funded, total_funded_cents, total_commission_cents, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (week_start) DO UPDATE
		SET deals_funded = EXCLUDED.deals_funded,
		    total_funded_cents = EXCLUDED.total_funded_cents,
		    total_commission_cents = EXCLUDED.total_commission_cents,
		    notes = EXCLUDED.notes,
		    updated_at = EXCLUDED.updated_at
		RETURNING ` + recapColumns

	var out WeeklyRecap
	row := r.pool.QueryRow(ctx, query,
		recap.ID, recap.WeekStart, recap.DealsFunded, recap.TotalFunded, recap.TotalCommission, recap.Notes, recap.CreatedAt, recap.UpdatedAt)
	if err := scanRecap(row, &out); err != nil {
		return WeeklyRecap{}, fmt.Errorf("funding: upsert recap: %w", err)
	}
	return out, nil
}

func (r *PGRepository) ListRecent(ctx context.Context, limit int) ([]WeeklyRecap, error) {
	if limit <= 0 || limit > 52 {
		limit = 12
	}
	const query = `
		SELECT ` + recapColumns + `
		FROM weekly_recaps
		ORDER BY week_start DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("funding: list recaps: %w", err)
	}
	defer rows.Close()

	out := make([]WeeklyRecap, 0, limit)
	for rows.Next() {
		var recap WeeklyRecap
		if err := scanRecap(rows, &recap); err != nil {
			return nil, fmt.Errorf("funding: scan recap: %w", err)
		}
		out = append(out, recap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("funding: iterate recaps: %w", err)
	}
	return out, nil
}

func (r *PGRepository) GetByWeek(ctx context.Context, weekStart time.Time) (WeeklyRecap, error) {
	const query = "SELECT " + recapColumns + " FROM weekly_recaps WHERE week_start = $1"

	var recap WeeklyRecap
	if err := scanRecap(r.pool.QueryRow(ctx, query, weekStart), &recap); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return WeeklyRecap{}, ErrNotFound
		}
		return WeeklyRecap{}, fmt.Errorf("funding: get recap: %w", err)
	}
	return recap, nil
}

// AggregateWeek totals the deals funded during the week beginning at
// weekStart.
func (r *PGRepository) AggregateWeek(ctx context.Context, weekStart time.Time) (deals int, funded int64, commission int64, err error) {
	const query = `
		SELECT COUNT(*),
		       COALESCE(SUM(funded_amount_cents), 0),
		       COALESCE(SUM(commission_cents), 0)
		FROM deals
		WHERE stage = 'funded'
		  AND updated_at >= $1
		  AND updated_at < $1 + INTERVAL '7 days'
	`
	if err := r.pool.QueryRow(ctx, query, weekStart).Scan(&deals, &funded, &commission); err != nil {
		return 0, 0, 0, fmt.Errorf("funding: aggregate week: %w", err)
	}
	return deals, funded, commission, nil
}

func scanRecap(row pgx.Row, recap *WeeklyRecap) error {
	return row.Scan(&recap.ID, &recap.WeekStart, &recap.DealsFunded, &recap.TotalFunded, &recap.TotalCommission, &recap.Notes, &recap.CreatedAt, &recap.UpdatedAt)
}
