package deal

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("deal: not found")
	ErrBadTransition = errors.New("deal: invalid stage transition")
)

const dealColumns = "id, business_name, lender_category, lender_id, requested_amount_cents, funded_amount_cents, commission_cents, stage::text, created_by, created_at, updated_at"

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) List(ctx context.Context, stage Stage) ([]Deal, error) {
	query := "SELECT " + dealColumns + " FROM deals"
	args := []any{}
	if stage != "" {
		query += " WHERE stage = $1"
		args = append(args, stage)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("deal: list: %w", err)
	}
	defer rows.Close()

	out := make([]Deal, 0, 16)
	for rows.Next() {
		var d Deal
		if err := scanDeal(rows, &d); err != nil {
			return nil, fmt.Errorf("deal: scan: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("deal: iterate: %w", err)
	}
	return out, nil
}

func (r *PGRepository) Create(ctx context.Context, d Deal) (Deal, error) {
	const query = `
		INSERT INTO deals (id, business_name, lender_category, lender_id, requested_amount_cents, stage, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + dealColumns

	var out Deal
	row := r.pool.QueryRow(ctx, query,
		d.ID, d.BusinessName, d.LenderCategory, d.LenderID, d.RequestedAmount, d.Stage, d.CreatedBy, d.CreatedAt, d.UpdatedAt)
	if err := scanDeal(row, &out); err != nil {
		return Deal{}, fmt.Errorf("deal: create: %w", err)
	}
	return out, nil
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (Deal, error) {
	const query = "SELECT " + dealColumns + " FROM deals WHERE id = $1"

	var d Deal
	if err := scanDeal(r.pool.QueryRow(ctx, query, id), &d); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Deal{}, ErrNotFound
		}
		return Deal{}, fmt.Errorf("deal: get: %w", err)
	}
	return d, nil
}

// Transition moves a deal to the next stage, writing the deal row and
// its timeline event in one transaction. The row is locked so two
// concurrent transitions cannot both observe the same current stage.
func (r *PGRepository) Transition(ctx context.Context, params TransitionParams) (Deal, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Deal{}, fmt.Errorf("deal: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var current Stage
	err = tx.QueryRow(ctx, `SELECT stage::text FROM deals WHERE id = $1 FOR UPDATE`, params.DealID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Deal{}, ErrNotFound
		}
		return Deal{}, fmt.Errorf("deal: fetch current stage: %w", err)
	}
	if !canTransition(current, params.NextStage) {
		return Deal{}, fmt.Errorf("%w: %s -> %s", ErrBadTransition, current, params.NextStage)
	}

	var out Deal
	row := tx.QueryRow(ctx, `
		UPDATE deals
		SET stage = $2,
		    funded_amount_cents = COALESCE($3, funded_amount_cents),
		    commission_cents = COALESCE($4, commission_cents),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+dealColumns,
		params.DealID, params.NextStage, params.FundedAmount, params.Commission)
	if err := scanDeal(row, &out); err != nil {
		return Deal{}, fmt.Errorf("deal: update stage: %w", err)
	}

	var actor *string
	if params.ActorID != "" {
		actor = &params.ActorID
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO deal_timeline (deal_id, from_stage, to_stage, actor_id, note)
		VALUES ($1, $2, $3, $4, $5)
	`, params.DealID, current, params.NextStage, actor, params.Note); err != nil {
		return Deal{}, fmt.Errorf("deal: insert timeline: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Deal{}, fmt.Errorf("deal: commit transition: %w", err)
	}
	return out, nil
}

func (r *PGRepository) Timeline(ctx context.Context, dealID string) ([]TimelineEvent, error) {
	const query = `
		SELECT id, deal_id, from_stage::text, to_stage::text, actor_id, note, created_at
		FROM deal_timeline
		WHERE deal_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, dealID)
	if err != nil {
		return nil, fmt.Errorf("deal: timeline: %w", err)
	}
	defer rows.Close()

	out := make([]TimelineEvent, 0, 8)
	for rows.Next() {
		var e TimelineEvent
		if err := rows.Scan(&e.ID, &e.DealID, &e.FromStage, &e.ToStage, &e.ActorID, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("deal: scan timeline: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("deal: iterate timeline: %w", err)
	}
	return out, nil
}

func scanDeal(row pgx.Row, d *Deal) error {
	return row.Scan(&d.ID, &d.BusinessName, &d.LenderCategory, &d.LenderID, &d.RequestedAmount, &d.FundedAmount, &d.CommissionCents, &d.Stage, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt)
}
