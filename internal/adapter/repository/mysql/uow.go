package mysql

import (
	"context"

	"gorm.io/gorm"

	"horizon-backend/internal/domain/investor"
	"horizon-backend/internal/domain/round"
	"horizon-backend/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

// NewRepos builds the non-transactional repo set used by read paths.
func NewRepos(db *gorm.DB) uow.Repos { return repos(db) }

func repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Rounds:    &RoundRepository{db: tx},
		Investors: &InvestorRepository{db: tx},
		CapTable:  &CapTableRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repos(tx))
	})
}

func (u *GormUoW) WithinRoundTx(ctx context.Context, org, roundID string, fn func(r uow.Repos, rnd *round.Round) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := repos(tx)
		// lock the round row up-front to prevent races on its totals
		rnd, err := r.Rounds.GetByRoundIDForUpdate(ctx, org, roundID)
		if err != nil {
			return err
		}
		return fn(r, rnd)
	})
}

func (u *GormUoW) WithinInvestorTx(ctx context.Context, org, investorID string, fn func(r uow.Repos, rnd *round.Round, inv *investor.Investor) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := repos(tx)
		// resolve the round without locking so the round lock is always
		// taken before the investor lock, same order as WithinRoundTx
		peek, err := r.Investors.GetByInvestorID(ctx, org, investorID)
		if err != nil {
			return err
		}
		rnd, err := r.Rounds.GetByRoundIDForUpdate(ctx, org, peek.RoundID)
		if err != nil {
			return err
		}
		inv, err := r.Investors.GetByInvestorIDForUpdate(ctx, org, investorID)
		if err != nil {
			return err
		}
		return fn(r, rnd, inv)
	})
}
