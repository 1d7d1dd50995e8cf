package infra

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"hugecapital/lender"
)

// BootstrapSchema creates every table the dashboard needs. Lender table
// DDL is generated from the category registry so the two never drift.
func BootstrapSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := append(lenderTableDDL(), domainDDL...)
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}

func lenderTables() []string {
	out := make([]string, 0, 8)
	for _, cat := range lender.Categories() {
		sch, err := lender.Lookup(cat)
		if err != nil {
			continue
		}
		out = append(out, sch.Table)
	}
	return out
}

func lenderTableDDL() []string {
	out := make([]string, 0, 8)
	for _, cat := range lender.Categories() {
		sch, err := lender.Lookup(cat)
		if err != nil {
			continue
		}

		var b strings.Builder
		fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", sch.Table)
		b.WriteString("\tid text PRIMARY KEY,\n")
		for _, f := range sch.Fields {
			fmt.Fprintf(&b, "\t%s text,\n", f.Name)
		}
		b.WriteString("\tstatus text NOT NULL DEFAULT 'active',\n")
		b.WriteString("\trelationship text NOT NULL DEFAULT 'Huge Capital',\n")
		if sch.HasSortOrder {
			b.WriteString("\tsort_order integer NOT NULL DEFAULT 0,\n")
		}
		b.WriteString("\tcreated_by text,\n")
		b.WriteString("\tupdated_by text,\n")
		b.WriteString("\tcreated_at timestamptz NOT NULL DEFAULT now(),\n")
		b.WriteString("\tupdated_at timestamptz NOT NULL DEFAULT now(),\n")
		fmt.Fprintf(&b, "\tCONSTRAINT %s_lender_name_key UNIQUE (lender_name)\n", sch.Table)
		b.WriteString(")")
		out = append(out, b.String())
	}
	return out
}

var domainDDL = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		email text NOT NULL UNIQUE,
		full_name text NOT NULL,
		password_hash text NOT NULL,
		role text NOT NULL DEFAULT 'member',
		active boolean NOT NULL DEFAULT true,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id text PRIMARY KEY,
		title text NOT NULL,
		notes text NOT NULL DEFAULT '',
		status text NOT NULL DEFAULT 'todo',
		priority text NOT NULL DEFAULT 'medium',
		assignee_id uuid REFERENCES users(id),
		due_date timestamptz,
		created_by text NOT NULL DEFAULT '',
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS content_drafts (
		id text PRIMARY KEY,
		title text NOT NULL,
		body text NOT NULL DEFAULT '',
		platform text NOT NULL,
		status text NOT NULL DEFAULT 'draft',
		scheduled_for timestamptz,
		published_at timestamptz,
		created_by text NOT NULL DEFAULT '',
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS deals (
		id text PRIMARY KEY,
		business_name text NOT NULL,
		lender_category text NOT NULL,
		lender_id text,
		requested_amount_cents bigint NOT NULL,
		funded_amount_cents bigint,
		commission_cents bigint,
		stage text NOT NULL DEFAULT 'submitted',
		created_by text NOT NULL DEFAULT '',
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS deal_timeline (
		id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		deal_id text NOT NULL REFERENCES deals(id),
		from_stage text NOT NULL,
		to_stage text NOT NULL,
		actor_id text,
		note text NOT NULL DEFAULT '',
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS weekly_recaps (
		id text PRIMARY KEY,
		week_start timestamptz NOT NULL UNIQUE,
		deals_funded integer NOT NULL DEFAULT 0,
		total_funded_cents bigint NOT NULL DEFAULT 0,
		total_commission_cents bigint NOT NULL DEFAULT 0,
		notes text NOT NULL DEFAULT '',
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS feedback_entries (
		id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		kind text NOT NULL,
		title text NOT NULL,
		detail text NOT NULL DEFAULT '',
		status text NOT NULL DEFAULT 'open',
		created_by text NOT NULL DEFAULT '',
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now(),
		resolved_at timestamptz
	)`,
}
