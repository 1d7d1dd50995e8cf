package lender

import "context"

// Store is the backing-store boundary. Rows cross it as untyped key-value
// maps; only the Normalizer is allowed to interpret them. Implementations
// must guarantee per-table uniqueness of "id" and nothing more.
type Store interface {
	// Select returns every row of the category's table.
	Select(ctx context.Context, category Category) ([]map[string]any, error)
	// Insert writes one row and returns the stored representation.
	Insert(ctx context.Context, category Category, row map[string]any) (map[string]any, error)
	// UpdateByID applies a partial column update and returns the stored row.
	// A missing id yields ErrNotFound.
	UpdateByID(ctx context.Context, category Category, id string, fields map[string]any) (map[string]any, error)
}
