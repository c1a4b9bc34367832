package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	roundDomain "horizon-backend/internal/domain/round"
)

type RoundRepository struct{ db *gorm.DB }

func NewRoundRepository(db *gorm.DB) *RoundRepository { return &RoundRepository{db: db} }

func (r *RoundRepository) Create(ctx context.Context, rnd *roundDomain.Round) error {
	err := r.db.WithContext(ctx).Create(rnd).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return roundDomain.ErrDuplicateName
	}
	return err
}

func (r *RoundRepository) Save(ctx context.Context, rnd *roundDomain.Round) error {
	err := r.db.WithContext(ctx).Save(rnd).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return roundDomain.ErrDuplicateName
	}
	return err
}

func (r *RoundRepository) GetByRoundID(ctx context.Context, org, roundID string) (*roundDomain.Round, error) {
	var out roundDomain.Round
	res := r.db.WithContext(ctx).
		Where("organization = ? AND round_id = ?", org, roundID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, roundDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *RoundRepository) GetByRoundIDForUpdate(ctx context.Context, org, roundID string) (*roundDomain.Round, error) {
	var out roundDomain.Round
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("organization = ? AND round_id = ?", org, roundID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, roundDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *RoundRepository) List(ctx context.Context, org string) ([]roundDomain.Round, error) {
	var out []roundDomain.Round
	res := r.db.WithContext(ctx).
		Where("organization = ?", org).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *RoundRepository) Delete(ctx context.Context, org, roundID string) error {
	res := r.db.WithContext(ctx).
		Where("organization = ? AND round_id = ?", org, roundID).
		Delete(&roundDomain.Round{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return roundDomain.ErrNotFound
	}
	return nil
}

func (r *RoundRepository) AggregateByStatus(ctx context.Context, org string) ([]roundDomain.StatusAggregate, error) {
	var out []roundDomain.StatusAggregate
	res := r.db.WithContext(ctx).
		Model(&roundDomain.Round{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(target_amount),0) AS target_sum, COALESCE(SUM(total_funds_received),0) AS received_sum").
		Where("organization = ?", org).
		Group("status").
		Scan(&out)
	return out, res.Error
}
