package investormock

import (
	"context"

	domain "horizon-backend/internal/domain/investor"
	"horizon-backend/internal/domain/round"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only methods you need are included; add more as tests require.
type Repo struct {
	CreateFn                   func(ctx context.Context, inv *domain.Investor) error
	GetByInvestorIDFn          func(ctx context.Context, org, investorID string) (*domain.Investor, error)
	GetByInvestorIDForUpdateFn func(ctx context.Context, org, investorID string) (*domain.Investor, error)
	ListFn                     func(ctx context.Context, org string) ([]domain.Investor, error)
	ListByRoundFn              func(ctx context.Context, org, roundID string) ([]domain.Investor, error)
	SaveFn                     func(ctx context.Context, inv *domain.Investor) error
	ReplaceTranchesFn          func(ctx context.Context, inv *domain.Investor, tranches []domain.Tranche) error
	DeleteTrancheFn            func(ctx context.Context, inv *domain.Investor, trancheID string) error
	DeleteFn                   func(ctx context.Context, org, investorID string) error
	DeleteByRoundFn            func(ctx context.Context, org, roundID string) error
	FundingStatsFn             func(ctx context.Context, org, roundID string) (round.FundingStats, error)
	AnyFundedInRoundFn         func(ctx context.Context, org, roundID string) (bool, error)
	AggregateByStatusFn        func(ctx context.Context, org string) ([]domain.StatusAggregate, error)
}

func (m *Repo) Create(ctx context.Context, inv *domain.Investor) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, inv)
	}
	return nil
}

func (m *Repo) GetByInvestorID(ctx context.Context, org, investorID string) (*domain.Investor, error) {
	if m.GetByInvestorIDFn != nil {
		return m.GetByInvestorIDFn(ctx, org, investorID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByInvestorIDForUpdate(ctx context.Context, org, investorID string) (*domain.Investor, error) {
	if m.GetByInvestorIDForUpdateFn != nil {
		return m.GetByInvestorIDForUpdateFn(ctx, org, investorID)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, org string) ([]domain.Investor, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, org)
	}
	return nil, nil
}

func (m *Repo) ListByRound(ctx context.Context, org, roundID string) ([]domain.Investor, error) {
	if m.ListByRoundFn != nil {
		return m.ListByRoundFn(ctx, org, roundID)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, inv *domain.Investor) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, inv)
	}
	return nil
}

func (m *Repo) ReplaceTranches(ctx context.Context, inv *domain.Investor, tranches []domain.Tranche) error {
	if m.ReplaceTranchesFn != nil {
		return m.ReplaceTranchesFn(ctx, inv, tranches)
	}
	return nil
}

func (m *Repo) DeleteTranche(ctx context.Context, inv *domain.Investor, trancheID string) error {
	if m.DeleteTrancheFn != nil {
		return m.DeleteTrancheFn(ctx, inv, trancheID)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, org, investorID string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, org, investorID)
	}
	return nil
}

func (m *Repo) DeleteByRound(ctx context.Context, org, roundID string) error {
	if m.DeleteByRoundFn != nil {
		return m.DeleteByRoundFn(ctx, org, roundID)
	}
	return nil
}

func (m *Repo) FundingStats(ctx context.Context, org, roundID string) (round.FundingStats, error) {
	if m.FundingStatsFn != nil {
		return m.FundingStatsFn(ctx, org, roundID)
	}
	return round.FundingStats{}, nil
}

func (m *Repo) AnyFundedInRound(ctx context.Context, org, roundID string) (bool, error) {
	if m.AnyFundedInRoundFn != nil {
		return m.AnyFundedInRoundFn(ctx, org, roundID)
	}
	return false, nil
}

func (m *Repo) AggregateByStatus(ctx context.Context, org string) ([]domain.StatusAggregate, error) {
	if m.AggregateByStatusFn != nil {
		return m.AggregateByStatusFn(ctx, org)
	}
	return nil, nil
}
