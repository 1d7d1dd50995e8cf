package funding

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Upsert(ctx context.Context, recap WeeklyRecap) (WeeklyRecap, error)
	ListRecent(ctx context.Context, limit int) ([]WeeklyRecap, error)
	GetByWeek(ctx context.Context, weekStart time.Time) (WeeklyRecap, error)
	AggregateWeek(ctx context.Context, weekStart time.Time) (deals int, funded int64, commission int64, err error)
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

func (s *Service) ListRecent(ctx context.Context, limit int) ([]WeeklyRecap, error) {
	return s.repo.ListRecent(ctx, limit)
}

// SnapshotWeek recomputes the recap for the week containing at from the
// funded deals and writes it, keeping any notes already on the row.
func (s *Service) SnapshotWeek(ctx context.Context, at time.Time, notes string) (WeeklyRecap, error) {
	weekStart := WeekStart(at)

	deals, funded, commission, err := s.repo.AggregateWeek(ctx, weekStart)
	if err != nil {
		return WeeklyRecap{}, err
	}

	now := s.now().UTC()
	recap := WeeklyRecap{
		ID:              s.idGenerator(),
		WeekStart:       weekStart,
		DealsFunded:     deals,
		TotalFunded:     funded,
		TotalCommission: commission,
		Notes:           strings.TrimSpace(notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if recap.Notes == "" {
		if existing, err := s.repo.GetByWeek(ctx, weekStart); err == nil {
			recap.Notes = existing.Notes
		}
	}

	return s.repo.Upsert(ctx, recap)
}

// CurrentWeek returns the live aggregate for this week without writing
// a recap row.
func (s *Service) CurrentWeek(ctx context.Context) (WeeklyRecap, error) {
	weekStart := WeekStart(s.now())
	deals, funded, commission, err := s.repo.AggregateWeek(ctx, weekStart)
	if err != nil {
		return WeeklyRecap{}, err
	}
	return WeeklyRecap{
		WeekStart:       weekStart,
		DealsFunded:     deals,
		TotalFunded:     funded,
		TotalCommission: commission,
	}, nil
}
