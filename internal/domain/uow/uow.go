package uow

import (
	"context"

	"horizon-backend/internal/domain/captable"
	"horizon-backend/internal/domain/investor"
	"horizon-backend/internal/domain/round"
)

type Repos struct {
	Rounds    round.Repository
	Investors investor.Repository
	CapTable  captable.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the round row first, then pass it in
	WithinRoundTx(ctx context.Context, org, roundID string, fn func(r Repos, rnd *round.Round) error) error
	// convenience: resolve the investor's round, then lock round and investor
	// in that order. All investor mutations go through here so locks are
	// always acquired round first, matching WithinRoundTx.
	WithinInvestorTx(ctx context.Context, org, investorID string, fn func(r Repos, rnd *round.Round, inv *investor.Investor) error) error
}
