package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidDraft     = errors.New("content: invalid draft")
	ErrAlreadyPublished = errors.New("content: draft already published")
)

type Repository interface {
	List(ctx context.Context, status Status) ([]Draft, error)
	Create(ctx context.Context, d Draft) (Draft, error)
	Update(ctx context.Context, d Draft) (Draft, error)
	GetByID(ctx context.Context, id string) (Draft, error)
}

type Service struct {
	repo        Repository
	idGenerator func() string
	now         func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:        repo,
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

func (s *Service) List(ctx context.Context, status Status) ([]Draft, error) {
	switch status {
	case "", StatusDraft, StatusScheduled, StatusPublished:
		return s.repo.List(ctx, status)
	default:
		return nil, fmt.Errorf("%w: status %q", ErrInvalidDraft, status)
	}
}

func (s *Service) Create(ctx context.Context, title, body string, platform Platform, actor string) (Draft, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Draft{}, fmt.Errorf("%w: title is required", ErrInvalidDraft)
	}
	if !platform.Valid() {
		return Draft{}, fmt.Errorf("%w: platform %q", ErrInvalidDraft, platform)
	}

	now := s.now().UTC()
	return s.repo.Create(ctx, Draft{
		ID:        s.idGenerator(),
		Title:     title,
		Body:      body,
		Platform:  platform,
		Status:    StatusDraft,
		CreatedBy: actor,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// Schedule queues a draft for a future publish time.
func (s *Service) Schedule(ctx context.Context, id string, at time.Time) (Draft, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Draft{}, err
	}
	if d.Status == StatusPublished {
		return Draft{}, ErrAlreadyPublished
	}
	now := s.now().UTC()
	if !at.After(now) {
		return Draft{}, fmt.Errorf("%w: scheduled time must be in the future", ErrInvalidDraft)
	}

	at = at.UTC()
	d.Status = StatusScheduled
	d.ScheduledFor = &at
	d.UpdatedAt = now
	return s.repo.Update(ctx, d)
}

// Publish marks a draft published immediately, clearing any schedule.
func (s *Service) Publish(ctx context.Context, id string) (Draft, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Draft{}, err
	}
	if d.Status == StatusPublished {
		return Draft{}, ErrAlreadyPublished
	}

	now := s.now().UTC()
	d.Status = StatusPublished
	d.ScheduledFor = nil
	d.PublishedAt = &now
	d.UpdatedAt = now
	return s.repo.Update(ctx, d)
}
