package feedback

import (
	"context"
	"errors"
	"strings"
)

var ErrInvalidEntry = errors.New("feedback: invalid entry")

type Store interface {
	List(ctx context.Context, status Status) ([]Entry, error)
	Create(ctx context.Context, kind Kind, title, detail, createdBy string) (Entry, error)
	Resolve(ctx context.Context, entryID string) (Entry, error)
}

type Service struct {
	repo Store
}

func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, status Status) ([]Entry, error) {
	if status != "" && status != StatusOpen && status != StatusResolved {
		return nil, ErrInvalidEntry
	}
	return s.repo.List(ctx, status)
}

func (s *Service) Create(ctx context.Context, kind Kind, title, detail, createdBy string) (Entry, error) {
	if kind != KindBug && kind != KindIdea {
		return Entry{}, ErrInvalidEntry
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return Entry{}, ErrInvalidEntry
	}
	return s.repo.Create(ctx, kind, title, strings.TrimSpace(detail), createdBy)
}

func (s *Service) Resolve(ctx context.Context, entryID string) (Entry, error) {
	return s.repo.Resolve(ctx, entryID)
}
