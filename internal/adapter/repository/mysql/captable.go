package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	captableDomain "horizon-backend/internal/domain/captable"
)

type CapTableRepository struct{ db *gorm.DB }

func NewCapTableRepository(db *gorm.DB) *CapTableRepository { return &CapTableRepository{db: db} }

func (r *CapTableRepository) Create(ctx context.Context, e *captableDomain.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *CapTableRepository) Save(ctx context.Context, e *captableDomain.Entry) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *CapTableRepository) GetByLinkedInvestor(ctx context.Context, org, investorID, roundID string) (*captableDomain.Entry, error) {
	var out captableDomain.Entry
	res := r.db.WithContext(ctx).
		Where("organization = ? AND linked_investor_id = ? AND round_id = ?", org, investorID, roundID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, captableDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *CapTableRepository) List(ctx context.Context, org string) ([]captableDomain.Entry, error) {
	var out []captableDomain.Entry
	res := r.db.WithContext(ctx).
		Where("organization = ?", org).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *CapTableRepository) ListByRound(ctx context.Context, org, roundID string) ([]captableDomain.Entry, error) {
	var out []captableDomain.Entry
	res := r.db.WithContext(ctx).
		Where("organization = ? AND round_id = ?", org, roundID).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *CapTableRepository) ListEquityHolders(ctx context.Context, org string) ([]captableDomain.Entry, error) {
	var out []captableDomain.Entry
	res := r.db.WithContext(ctx).
		Where("organization = ? AND status IN ? AND security_type NOT IN ?",
			org,
			[]captableDomain.EntryStatus{captableDomain.StatusActive, captableDomain.StatusExercised},
			[]captableDomain.SecurityType{captableDomain.SecuritySAFE, captableDomain.SecurityConvertibleNote}).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *CapTableRepository) DeleteByLinkedInvestor(ctx context.Context, org, investorID string) error {
	return r.db.WithContext(ctx).
		Where("organization = ? AND linked_investor_id = ?", org, investorID).
		Delete(&captableDomain.Entry{}).Error
}

func (r *CapTableRepository) DeleteByRound(ctx context.Context, org, roundID string) error {
	return r.db.WithContext(ctx).
		Where("organization = ? AND round_id = ?", org, roundID).
		Delete(&captableDomain.Entry{}).Error
}

func (r *CapTableRepository) SumByRound(ctx context.Context, org, roundID string) (captableDomain.RoundSums, error) {
	entries, err := r.ListByRound(ctx, org, roundID)
	if err != nil {
		return captableDomain.RoundSums{}, err
	}
	var sums captableDomain.RoundSums
	for i := range entries {
		sums.Shares += entries[i].NumberOfShares
		sums.InvestmentSum = sums.InvestmentSum.Add(entries[i].InvestmentAmount)
	}
	return sums, nil
}

func (r *CapTableRepository) AggregateByType(ctx context.Context, org string) ([]captableDomain.TypeAggregate, error) {
	var out []captableDomain.TypeAggregate
	res := r.db.WithContext(ctx).
		Model(&captableDomain.Entry{}).
		Select("shareholder_type, COUNT(*) AS count, COALESCE(SUM(number_of_shares),0) AS shares, COALESCE(SUM(investment_amount),0) AS investment_sum, COALESCE(SUM(current_value),0) AS current_value_sum, COALESCE(SUM(equity_percentage),0) AS equity_sum").
		Where("organization = ?", org).
		Group("shareholder_type").
		Scan(&out)
	return out, res.Error
}
