package deal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hugecapital/lender"
)

var ErrInvalidDeal = errors.New("deal: invalid deal")

// TransitionParams carries a stage change request into the repository.
type TransitionParams struct {
	DealID       string
	NextStage    Stage
	ActorID      string
	Note         string
	FundedAmount *int64
	Commission   *int64
}

type Repository interface {
	List(ctx context.Context, stage Stage) ([]Deal, error)
	Create(ctx context.Context, d Deal) (Deal, error)
	GetByID(ctx context.Context, id string) (Deal, error)
	Transition(ctx context.Context, params TransitionParams) (Deal, error)
	Timeline(ctx context.Context, dealID string) ([]TimelineEvent, error)
}

// CreateRequest carries the caller-supplied fields for a new deal.
type CreateRequest struct {
	BusinessName    string
	LenderCategory  string
	LenderID        string
	RequestedAmount int64
	Actor           string
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

func (s *Service) List(ctx context.Context, stage Stage) ([]Deal, error) {
	if stage != "" && !stage.Valid() {
		return nil, fmt.Errorf("%w: stage %q", ErrInvalidDeal, stage)
	}
	return s.repo.List(ctx, stage)
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Deal, error) {
	name := strings.TrimSpace(req.BusinessName)
	if name == "" {
		return Deal{}, fmt.Errorf("%w: business_name is required", ErrInvalidDeal)
	}
	if _, err := lender.Lookup(lender.Category(req.LenderCategory)); err != nil {
		return Deal{}, fmt.Errorf("%w: lender_category %q", ErrInvalidDeal, req.LenderCategory)
	}
	if req.RequestedAmount <= 0 {
		return Deal{}, fmt.Errorf("%w: requested amount must be positive", ErrInvalidDeal)
	}

	var lenderID *string
	if req.LenderID != "" {
		id := req.LenderID
		lenderID = &id
	}

	now := s.now().UTC()
	return s.repo.Create(ctx, Deal{
		ID:              s.idGenerator(),
		BusinessName:    name,
		LenderCategory:  req.LenderCategory,
		LenderID:        lenderID,
		RequestedAmount: req.RequestedAmount,
		Stage:           StageSubmitted,
		CreatedBy:       req.Actor,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
}

// Transition advances a deal through the pipeline. Moving to funded
// requires the funded amount.
func (s *Service) Transition(ctx context.Context, params TransitionParams) (Deal, error) {
	if !params.NextStage.Valid() || params.NextStage == StageSubmitted {
		return Deal{}, fmt.Errorf("%w: stage %q", ErrInvalidDeal, params.NextStage)
	}
	if params.NextStage == StageFunded {
		if params.FundedAmount == nil || *params.FundedAmount <= 0 {
			return Deal{}, fmt.Errorf("%w: funded amount is required to mark a deal funded", ErrInvalidDeal)
		}
	}
	return s.repo.Transition(ctx, params)
}

func (s *Service) GetByID(ctx context.Context, id string) (Deal, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Timeline(ctx context.Context, dealID string) ([]TimelineEvent, error) {
	return s.repo.Timeline(ctx, dealID)
}
