package captablemock

import (
	"context"

	domain "horizon-backend/internal/domain/captable"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only methods you need are included; add more as tests require.
type Repo struct {
	CreateFn                 func(ctx context.Context, e *domain.Entry) error
	SaveFn                   func(ctx context.Context, e *domain.Entry) error
	GetByLinkedInvestorFn    func(ctx context.Context, org, investorID, roundID string) (*domain.Entry, error)
	ListFn                   func(ctx context.Context, org string) ([]domain.Entry, error)
	ListByRoundFn            func(ctx context.Context, org, roundID string) ([]domain.Entry, error)
	ListEquityHoldersFn      func(ctx context.Context, org string) ([]domain.Entry, error)
	DeleteByLinkedInvestorFn func(ctx context.Context, org, investorID string) error
	DeleteByRoundFn          func(ctx context.Context, org, roundID string) error
	SumByRoundFn             func(ctx context.Context, org, roundID string) (domain.RoundSums, error)
	AggregateByTypeFn        func(ctx context.Context, org string) ([]domain.TypeAggregate, error)
}

func (m *Repo) Create(ctx context.Context, e *domain.Entry) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, e *domain.Entry) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, e)
	}
	return nil
}

func (m *Repo) GetByLinkedInvestor(ctx context.Context, org, investorID, roundID string) (*domain.Entry, error) {
	if m.GetByLinkedInvestorFn != nil {
		return m.GetByLinkedInvestorFn(ctx, org, investorID, roundID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) List(ctx context.Context, org string) ([]domain.Entry, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, org)
	}
	return nil, nil
}

func (m *Repo) ListByRound(ctx context.Context, org, roundID string) ([]domain.Entry, error) {
	if m.ListByRoundFn != nil {
		return m.ListByRoundFn(ctx, org, roundID)
	}
	return nil, nil
}

func (m *Repo) ListEquityHolders(ctx context.Context, org string) ([]domain.Entry, error) {
	if m.ListEquityHoldersFn != nil {
		return m.ListEquityHoldersFn(ctx, org)
	}
	return nil, nil
}

func (m *Repo) DeleteByLinkedInvestor(ctx context.Context, org, investorID string) error {
	if m.DeleteByLinkedInvestorFn != nil {
		return m.DeleteByLinkedInvestorFn(ctx, org, investorID)
	}
	return nil
}

func (m *Repo) DeleteByRound(ctx context.Context, org, roundID string) error {
	if m.DeleteByRoundFn != nil {
		return m.DeleteByRoundFn(ctx, org, roundID)
	}
	return nil
}

func (m *Repo) SumByRound(ctx context.Context, org, roundID string) (domain.RoundSums, error) {
	if m.SumByRoundFn != nil {
		return m.SumByRoundFn(ctx, org, roundID)
	}
	return domain.RoundSums{}, nil
}

func (m *Repo) AggregateByType(ctx context.Context, org string) ([]domain.TypeAggregate, error) {
	if m.AggregateByTypeFn != nil {
		return m.AggregateByTypeFn(ctx, org)
	}
	return nil, nil
}
