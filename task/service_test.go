package task

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"hugecapital/team"
)

func TestService_CreateDefaults(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create(context.Background(), CreateRequest{
		Title: "  Call Riverside Capital  ",
		Actor: "user-amanda",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Title != "Call Riverside Capital" {
		t.Fatalf("expected trimmed title, got %q", created.Title)
	}
	if created.Status != StatusTodo {
		t.Fatalf("expected new task in todo, got %s", created.Status)
	}
	if created.Priority != PriorityMedium {
		t.Fatalf("expected default priority medium, got %s", created.Priority)
	}
	if created.AssigneeID != nil {
		t.Fatalf("expected unassigned task, got %v", *created.AssigneeID)
	}
	if created.CreatedBy != "user-amanda" {
		t.Fatalf("expected creator recorded, got %q", created.CreatedBy)
	}
}

func TestService_CreateValidation(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Create(context.Background(), CreateRequest{Title: "   "}); !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask for blank title, got %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateRequest{Title: "x", Priority: "urgent"}); !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask for bad priority, got %v", err)
	}
}

func TestService_AssigneeChecks(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Create(context.Background(), CreateRequest{
		Title:      "Chase SBA docs",
		AssigneeID: "user-ghost",
	}); !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask for unknown assignee, got %v", err)
	}

	if _, err := svc.Create(context.Background(), CreateRequest{
		Title:      "Chase SBA docs",
		AssigneeID: "user-former",
	}); !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask for deactivated assignee, got %v", err)
	}

	created, err := svc.Create(context.Background(), CreateRequest{
		Title:      "Chase SBA docs",
		AssigneeID: "user-dillon",
	})
	if err != nil {
		t.Fatalf("create with assignee: %v", err)
	}
	if created.AssigneeID == nil || *created.AssigneeID != "user-dillon" {
		t.Fatalf("expected assignee user-dillon, got %v", created.AssigneeID)
	}
}

func TestService_UpdateFlow(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create(context.Background(), CreateRequest{Title: "Review MCA offers"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	status := StatusInProgress
	assignee := "user-dillon"
	updated, err := svc.Update(context.Background(), created.ID, UpdateRequest{
		Status:     &status,
		AssigneeID: &assignee,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != StatusInProgress {
		t.Fatalf("expected in_progress, got %s", updated.Status)
	}
	if updated.AssigneeID == nil || *updated.AssigneeID != "user-dillon" {
		t.Fatalf("expected assignee set, got %v", updated.AssigneeID)
	}

	empty := ""
	unassigned, err := svc.Update(context.Background(), created.ID, UpdateRequest{AssigneeID: &empty})
	if err != nil {
		t.Fatalf("unassign: %v", err)
	}
	if unassigned.AssigneeID != nil {
		t.Fatalf("expected assignee cleared, got %v", *unassigned.AssigneeID)
	}

	blank := "  "
	if _, err := svc.Update(context.Background(), created.ID, UpdateRequest{Title: &blank}); !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask for clearing title, got %v", err)
	}

	if _, err := svc.Update(context.Background(), "missing", UpdateRequest{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_DueDateHandling(t *testing.T) {
	svc, _ := newTestService()

	due := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)
	created, err := svc.Create(context.Background(), CreateRequest{Title: "Send weekly recap", DueDate: &due})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.DueDate == nil || !created.DueDate.Equal(due) {
		t.Fatalf("expected due date %v, got %v", due, created.DueDate)
	}

	cleared, err := svc.Update(context.Background(), created.ID, UpdateRequest{ClearDue: true})
	if err != nil {
		t.Fatalf("clear due: %v", err)
	}
	if cleared.DueDate != nil {
		t.Fatalf("expected due date cleared, got %v", cleared.DueDate)
	}
}

func TestService_ListFilterValidation(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.List(context.Background(), Filters{Status: "parked"}); !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask, got %v", err)
	}
}

func newTestService() (*Service, *fakeRepository) {
	repo := newFakeRepository()
	svc := NewService(repo, fakeDirectory{}).
		WithIDGenerator(repo.nextTaskID).
		WithClock(func() time.Time { return time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC) })
	return svc, repo
}

type fakeDirectory struct{}

func (fakeDirectory) GetByID(ctx context.Context, id string) (team.Profile, error) {
	switch id {
	case "user-dillon":
		return team.Profile{ID: id, FullName: "Dillon Sales", Active: true}, nil
	case "user-former":
		return team.Profile{ID: id, FullName: "Former Member", Active: false}, nil
	default:
		return team.Profile{}, team.ErrProfileNotFound
	}
}

type fakeRepository struct {
	tasks  map[string]Task
	nextID int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{tasks: make(map[string]Task), nextID: 1}
}

func (f *fakeRepository) nextTaskID() string {
	id := fmt.Sprintf("task-%d", f.nextID)
	f.nextID++
	return id
}

func (f *fakeRepository) List(ctx context.Context, filters Filters) ([]Task, error) {
	out := make([]Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		if filters.Status != "" && t.Status != filters.Status {
			continue
		}
		if filters.AssigneeID != "" && (t.AssigneeID == nil || *t.AssigneeID != filters.AssigneeID) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeRepository) Create(ctx context.Context, t Task) (Task, error) {
	f.tasks[t.ID] = t
	return t, nil
}

func (f *fakeRepository) Update(ctx context.Context, t Task) (Task, error) {
	if _, ok := f.tasks[t.ID]; !ok {
		return Task{}, ErrNotFound
	}
	f.tasks[t.ID] = t
	return t, nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id string) (Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	return t, nil
}
