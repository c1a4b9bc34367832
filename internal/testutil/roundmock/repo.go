package roundmock

import (
	"context"

	domain "horizon-backend/internal/domain/round"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only methods you need are included; add more as tests require.
type Repo struct {
	CreateFn                func(ctx context.Context, r *domain.Round) error
	GetByRoundIDFn          func(ctx context.Context, org, roundID string) (*domain.Round, error)
	GetByRoundIDForUpdateFn func(ctx context.Context, org, roundID string) (*domain.Round, error)
	ListFn                  func(ctx context.Context, org string) ([]domain.Round, error)
	SaveFn                  func(ctx context.Context, r *domain.Round) error
	DeleteFn                func(ctx context.Context, org, roundID string) error
	AggregateByStatusFn     func(ctx context.Context, org string) ([]domain.StatusAggregate, error)
}

func (m *Repo) Create(ctx context.Context, r *domain.Round) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByRoundID(ctx context.Context, org, roundID string) (*domain.Round, error) {
	if m.GetByRoundIDFn != nil {
		return m.GetByRoundIDFn(ctx, org, roundID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByRoundIDForUpdate(ctx context.Context, org, roundID string) (*domain.Round, error) {
	if m.GetByRoundIDForUpdateFn != nil {
		return m.GetByRoundIDForUpdateFn(ctx, org, roundID)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, org string) ([]domain.Round, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, org)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, r *domain.Round) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, r)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, org, roundID string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, org, roundID)
	}
	return nil
}

func (m *Repo) AggregateByStatus(ctx context.Context, org string) ([]domain.StatusAggregate, error) {
	if m.AggregateByStatusFn != nil {
		return m.AggregateByStatusFn(ctx, org)
	}
	return nil, nil
}
