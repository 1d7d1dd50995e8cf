package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hugecapital/team"
)

var ErrInvalidTask = errors.New("task: invalid task")

type Repository interface {
	List(ctx context.Context, filters Filters) ([]Task, error)
	Create(ctx context.Context, t Task) (Task, error)
	Update(ctx context.Context, t Task) (Task, error)
	GetByID(ctx context.Context, id string) (Task, error)
}

// Directory resolves assignee identifiers against the team roster.
type Directory interface {
	GetByID(ctx context.Context, id string) (team.Profile, error)
}

// CreateRequest carries the caller-supplied fields for a new task.
type CreateRequest struct {
	Title      string
	Notes      string
	Priority   Priority
	AssigneeID string
	DueDate    *time.Time
	Actor      string
}

// UpdateRequest updates an existing task. Nil pointers leave the
// current value in place.
type UpdateRequest struct {
	Title      *string
	Notes      *string
	Status     *Status
	Priority   *Priority
	AssigneeID *string
	DueDate    *time.Time
	ClearDue   bool
}

type Service struct {
	repo        Repository
	directory   Directory
	idGenerator func() string
	now         func() time.Time
}

func NewService(repo Repository, directory Directory) *Service {
	return &Service{
		repo:        repo,
		directory:   directory,
		idGenerator: uuid.NewString,
		now:         time.Now,
	}
}

func (s *Service) WithIDGenerator(gen func() string) *Service {
	s.idGenerator = gen
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) List(ctx context.Context, filters Filters) ([]Task, error) {
	if filters.Status != "" && !filters.Status.Valid() {
		return nil, fmt.Errorf("%w: status %q", ErrInvalidTask, filters.Status)
	}
	return s.repo.List(ctx, filters)
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return Task{}, fmt.Errorf("%w: title is required", ErrInvalidTask)
	}
	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.Valid() {
		return Task{}, fmt.Errorf("%w: priority %q", ErrInvalidTask, req.Priority)
	}

	var assignee *string
	if req.AssigneeID != "" {
		if err := s.checkAssignee(ctx, req.AssigneeID); err != nil {
			return Task{}, err
		}
		id := req.AssigneeID
		assignee = &id
	}

	now := s.now().UTC()
	t := Task{
		ID:         s.idGenerator(),
		Title:      title,
		Notes:      strings.TrimSpace(req.Notes),
		Status:     StatusTodo,
		Priority:   priority,
		AssigneeID: assignee,
		DueDate:    req.DueDate,
		CreatedBy:  req.Actor,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return s.repo.Create(ctx, t)
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Task{}, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return Task{}, fmt.Errorf("%w: title cannot be cleared", ErrInvalidTask)
		}
		t.Title = title
	}
	if req.Notes != nil {
		t.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return Task{}, fmt.Errorf("%w: status %q", ErrInvalidTask, *req.Status)
		}
		t.Status = *req.Status
	}
	if req.Priority != nil {
		if !req.Priority.Valid() {
			return Task{}, fmt.Errorf("%w: priority %q", ErrInvalidTask, *req.Priority)
		}
		t.Priority = *req.Priority
	}
	if req.AssigneeID != nil {
		if *req.AssigneeID == "" {
			t.AssigneeID = nil
		} else {
			if err := s.checkAssignee(ctx, *req.AssigneeID); err != nil {
				return Task{}, err
			}
			id := *req.AssigneeID
			t.AssigneeID = &id
		}
	}
	if req.ClearDue {
		t.DueDate = nil
	} else if req.DueDate != nil {
		t.DueDate = req.DueDate
	}

	t.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, t)
}

func (s *Service) checkAssignee(ctx context.Context, userID string) error {
	profile, err := s.directory.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, team.ErrProfileNotFound) {
			return fmt.Errorf("%w: unknown assignee %q", ErrInvalidTask, userID)
		}
		return fmt.Errorf("task: resolve assignee: %w", err)
	}
	if !profile.Active {
		return fmt.Errorf("%w: assignee %q is deactivated", ErrInvalidTask, userID)
	}
	return nil
}
