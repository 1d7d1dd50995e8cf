package feedback

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestService_CreateValidation(t *testing.T) {
	svc := NewService(newFakeStore())

	if _, err := svc.Create(context.Background(), "complaint", "Slow dashboard", "", "user-1"); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("expected ErrInvalidEntry for unknown kind, got %v", err)
	}
	if _, err := svc.Create(context.Background(), KindBug, "   ", "", "user-1"); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("expected ErrInvalidEntry for blank title, got %v", err)
	}

	entry, err := svc.Create(context.Background(), KindIdea, "  Bulk archive  ", "Archive many lenders at once", "user-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if entry.Title != "Bulk archive" {
		t.Fatalf("expected trimmed title, got %q", entry.Title)
	}
	if entry.Status != StatusOpen {
		t.Fatalf("expected new entry to be open, got %s", entry.Status)
	}
}

func TestService_ResolveTwice(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	entry, err := svc.Create(context.Background(), KindBug, "Sort order resets", "", "user-2")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	resolved, err := svc.Resolve(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Status != StatusResolved || resolved.ResolvedAt == nil {
		t.Fatalf("expected resolved entry with timestamp, got %+v", resolved)
	}

	if _, err := svc.Resolve(context.Background(), entry.ID); !errors.Is(err, ErrBadStatus) {
		t.Fatalf("expected ErrBadStatus on second resolve, got %v", err)
	}
	if _, err := svc.Resolve(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_ListFiltersByStatus(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	first, _ := svc.Create(context.Background(), KindBug, "Broken filter", "", "user-1")
	if _, err := svc.Create(context.Background(), KindIdea, "Dark mode", "", "user-1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), first.ID); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	open, err := svc.List(context.Background(), StatusOpen)
	if err != nil {
		t.Fatalf("list open: %v", err)
	}
	if len(open) != 1 || open[0].Title != "Dark mode" {
		t.Fatalf("expected single open entry, got %+v", open)
	}

	all, err := svc.List(context.Background(), "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(all))
	}

	if _, err := svc.List(context.Background(), "stale"); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("expected ErrInvalidEntry for bogus status filter, got %v", err)
	}
}

type fakeStore struct {
	entries map[string]Entry
	nextID  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[string]Entry), nextID: 1}
}

func (f *fakeStore) List(ctx context.Context, status Status) ([]Entry, error) {
	out := make([]Entry, 0, len(f.entries))
	for _, e := range f.entries {
		if status == "" || e.Status == status {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) Create(ctx context.Context, kind Kind, title, detail, createdBy string) (Entry, error) {
	now := time.Now().UTC()
	e := Entry{
		ID:        fmt.Sprintf("fb-%d", f.nextID),
		Kind:      kind,
		Title:     title,
		Detail:    detail,
		Status:    StatusOpen,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.nextID++
	f.entries[e.ID] = e
	return e, nil
}

func (f *fakeStore) Resolve(ctx context.Context, entryID string) (Entry, error) {
	e, ok := f.entries[entryID]
	if !ok {
		return Entry{}, ErrNotFound
	}
	if e.Status == StatusResolved {
		return Entry{}, ErrBadStatus
	}
	now := time.Now().UTC()
	e.Status = StatusResolved
	e.ResolvedAt = &now
	e.UpdatedAt = now
	f.entries[entryID] = e
	return e, nil
}
