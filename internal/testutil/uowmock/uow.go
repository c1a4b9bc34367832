package uowmock

import (
	"context"
	"errors"

	"horizon-backend/internal/domain/investor"
	"horizon-backend/internal/domain/round"
	"horizon-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn         func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinRoundTxFn    func(ctx context.Context, org, roundID string, fn func(r uow.Repos, rnd *round.Round) error) error
	WithinInvestorTxFn func(ctx context.Context, org, investorID string, fn func(r uow.Repos, rnd *round.Round, inv *investor.Investor) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough wires the methods straight to the given repos without any
// transaction, resolving rounds and investors via the ForUpdate getters.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(r uow.Repos) error) error {
			return fn(repos)
		},
		WithinRoundTxFn: func(ctx context.Context, org, roundID string, fn func(r uow.Repos, rnd *round.Round) error) error {
			rnd, err := repos.Rounds.GetByRoundIDForUpdate(ctx, org, roundID)
			if err != nil {
				return err
			}
			return fn(repos, rnd)
		},
		WithinInvestorTxFn: func(ctx context.Context, org, investorID string, fn func(r uow.Repos, rnd *round.Round, inv *investor.Investor) error) error {
			inv, err := repos.Investors.GetByInvestorIDForUpdate(ctx, org, investorID)
			if err != nil {
				return err
			}
			rnd, err := repos.Rounds.GetByRoundIDForUpdate(ctx, org, inv.RoundID)
			if err != nil {
				return err
			}
			return fn(repos, rnd, inv)
		},
	}
}

func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinRoundTx(ctx context.Context, org, roundID string, fn func(r uow.Repos, rnd *round.Round) error) error {
	if m.WithinRoundTxFn != nil {
		return m.WithinRoundTxFn(ctx, org, roundID, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinInvestorTx(ctx context.Context, org, investorID string, fn func(r uow.Repos, rnd *round.Round, inv *investor.Investor) error) error {
	if m.WithinInvestorTxFn != nil {
		return m.WithinInvestorTxFn(ctx, org, investorID, fn)
	}
	return errUnimplemented
}
