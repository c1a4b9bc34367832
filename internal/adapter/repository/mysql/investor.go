package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	investorDomain "horizon-backend/internal/domain/investor"
	roundDomain "horizon-backend/internal/domain/round"
)

type InvestorRepository struct{ db *gorm.DB }

func NewInvestorRepository(db *gorm.DB) *InvestorRepository { return &InvestorRepository{db: db} }

func (r *InvestorRepository) Create(ctx context.Context, inv *investorDomain.Investor) error {
	for i := range inv.Tranches {
		inv.Tranches[i].Organization = inv.Organization
	}
	err := r.db.WithContext(ctx).Create(inv).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return investorDomain.ErrDuplicateEmail
	}
	return err
}

// Save persists the investor row and upserts every owned tranche.
func (r *InvestorRepository) Save(ctx context.Context, inv *investorDomain.Investor) error {
	for i := range inv.Tranches {
		inv.Tranches[i].Organization = inv.Organization
		inv.Tranches[i].InvestorRef = inv.ID
	}
	err := r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(inv).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return investorDomain.ErrDuplicateEmail
	}
	return err
}

func (r *InvestorRepository) ReplaceTranches(ctx context.Context, inv *investorDomain.Investor, tranches []investorDomain.Tranche) error {
	if err := r.db.WithContext(ctx).
		Where("investor_ref = ?", inv.ID).
		Delete(&investorDomain.Tranche{}).Error; err != nil {
		return err
	}
	for i := range tranches {
		tranches[i].ID = 0
		tranches[i].InvestorRef = inv.ID
		tranches[i].Organization = inv.Organization
	}
	if len(tranches) > 0 {
		if err := r.db.WithContext(ctx).Create(&tranches).Error; err != nil {
			return err
		}
	}
	inv.Tranches = tranches
	return nil
}

func (r *InvestorRepository) DeleteTranche(ctx context.Context, inv *investorDomain.Investor, trancheID string) error {
	res := r.db.WithContext(ctx).
		Where("investor_ref = ? AND tranche_id = ?", inv.ID, trancheID).
		Delete(&investorDomain.Tranche{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return investorDomain.ErrTrancheNotFound
	}
	kept := inv.Tranches[:0]
	for _, t := range inv.Tranches {
		if t.TrancheID != trancheID {
			kept = append(kept, t)
		}
	}
	inv.Tranches = kept
	return nil
}

func (r *InvestorRepository) GetByInvestorID(ctx context.Context, org, investorID string) (*investorDomain.Investor, error) {
	return r.get(ctx, org, investorID, false)
}

func (r *InvestorRepository) GetByInvestorIDForUpdate(ctx context.Context, org, investorID string) (*investorDomain.Investor, error) {
	return r.get(ctx, org, investorID, true)
}

func (r *InvestorRepository) get(ctx context.Context, org, investorID string, lock bool) (*investorDomain.Investor, error) {
	var out investorDomain.Investor
	q := r.db.WithContext(ctx).
		Preload("Tranches", func(db *gorm.DB) *gorm.DB { return db.Order("tranche_number ASC") }).
		Where("organization = ? AND investor_id = ?", org, investorID)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	res := q.First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, investorDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *InvestorRepository) List(ctx context.Context, org string) ([]investorDomain.Investor, error) {
	var out []investorDomain.Investor
	res := r.db.WithContext(ctx).
		Preload("Tranches", func(db *gorm.DB) *gorm.DB { return db.Order("tranche_number ASC") }).
		Where("organization = ?", org).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *InvestorRepository) ListByRound(ctx context.Context, org, roundID string) ([]investorDomain.Investor, error) {
	var out []investorDomain.Investor
	res := r.db.WithContext(ctx).
		Preload("Tranches", func(db *gorm.DB) *gorm.DB { return db.Order("tranche_number ASC") }).
		Where("organization = ? AND round_id = ?", org, roundID).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *InvestorRepository) Delete(ctx context.Context, org, investorID string) error {
	inv, err := r.get(ctx, org, investorID, false)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).
		Where("investor_ref = ?", inv.ID).
		Delete(&investorDomain.Tranche{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(inv).Error
}

func (r *InvestorRepository) DeleteByRound(ctx context.Context, org, roundID string) error {
	invs, err := r.ListByRound(ctx, org, roundID)
	if err != nil {
		return err
	}
	for i := range invs {
		if err := r.db.WithContext(ctx).
			Where("investor_ref = ?", invs[i].ID).
			Delete(&investorDomain.Tranche{}).Error; err != nil {
			return err
		}
	}
	return r.db.WithContext(ctx).
		Where("organization = ? AND round_id = ?", org, roundID).
		Delete(&investorDomain.Investor{}).Error
}

func (r *InvestorRepository) FundingStats(ctx context.Context, org, roundID string) (roundDomain.FundingStats, error) {
	var funded int64
	res := r.db.WithContext(ctx).
		Model(&investorDomain.Investor{}).
		Where("organization = ? AND round_id = ? AND total_received_amount > 0", org, roundID).
		Count(&funded)
	if res.Error != nil {
		return roundDomain.FundingStats{}, res.Error
	}

	stats := roundDomain.FundingStats{FundedCount: funded}
	// sum via a typed query so decimal precision survives the scan
	var sums []investorDomain.Investor
	if err := r.db.WithContext(ctx).
		Select("total_received_amount").
		Where("organization = ? AND round_id = ? AND total_received_amount > 0", org, roundID).
		Find(&sums).Error; err != nil {
		return roundDomain.FundingStats{}, err
	}
	for i := range sums {
		stats.SumReceived = stats.SumReceived.Add(sums[i].TotalReceivedAmount)
	}

	var latest []investorDomain.Tranche
	if err := r.db.WithContext(ctx).
		Model(&investorDomain.Tranche{}).
		Select("tranches.*").
		Joins("JOIN investors ON investors.id = tranches.investor_ref").
		Where("investors.organization = ? AND investors.round_id = ? AND investors.deleted_at IS NULL AND tranches.date_received IS NOT NULL", org, roundID).
		Order("tranches.date_received DESC").
		Limit(1).
		Find(&latest).Error; err != nil {
		return roundDomain.FundingStats{}, err
	}
	if len(latest) == 1 {
		stats.LastInvestment = latest[0].DateReceived
	}
	return stats, nil
}

func (r *InvestorRepository) AnyFundedInRound(ctx context.Context, org, roundID string) (bool, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&investorDomain.Investor{}).
		Where("organization = ? AND round_id = ? AND total_received_amount > 0", org, roundID).
		Count(&n)
	return n > 0, res.Error
}

func (r *InvestorRepository) AggregateByStatus(ctx context.Context, org string) ([]investorDomain.StatusAggregate, error) {
	var out []investorDomain.StatusAggregate
	res := r.db.WithContext(ctx).
		Model(&investorDomain.Investor{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_committed_amount),0) AS committed_sum, COALESCE(SUM(total_received_amount),0) AS received_sum").
		Where("organization = ?", org).
		Group("status").
		Scan(&out)
	return out, res.Error
}
