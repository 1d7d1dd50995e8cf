package lender

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements Store backed by PostgreSQL, one table per category.
// Table names come from the schema registry, never from callers, so the
// dynamic SQL below cannot be driven by external input.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) Select(ctx context.Context, category Category) ([]map[string]any, error) {
	sch, err := Lookup(category)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT * FROM %s`, sch.Table))
	if err != nil {
		return nil, fmt.Errorf("lender: select %s: %w", sch.Table, err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("lender: collect %s rows: %w", sch.Table, err)
	}
	return out, nil
}

func (s *PGStore) Insert(ctx context.Context, category Category, row map[string]any) (map[string]any, error) {
	sch, err := Lookup(category)
	if err != nil {
		return nil, err
	}

	cols := sortedKeys(row)
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = row[col]
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING *`,
		sch.Table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, insertErr(sch.Table, err)
	}
	stored, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, insertErr(sch.Table, err)
	}
	return stored, nil
}

func (s *PGStore) UpdateByID(ctx context.Context, category Category, id string, fields map[string]any) (map[string]any, error) {
	sch, err := Lookup(category)
	if err != nil {
		return nil, err
	}

	cols := sortedKeys(fields)
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	args = append(args, id)
	for i, col := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+2)
		args = append(args, fields[col])
	}

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $1 RETURNING *`,
		sch.Table, strings.Join(sets, ", "))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("lender: update %s: %w", sch.Table, err)
	}
	stored, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %q in %s", ErrNotFound, id, sch.Table)
		}
		return nil, fmt.Errorf("lender: update %s: %w", sch.Table, err)
	}
	return stored, nil
}

func insertErr(table string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrDuplicate, table)
	}
	return fmt.Errorf("lender: insert %s: %w", table, err)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
