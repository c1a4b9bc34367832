package round

import (
	"context"

	"github.com/shopspring/decimal"
)

// StatusAggregate is one dashboard bucket of rounds sharing a status.
type StatusAggregate struct {
	Status      Status          `json:"status"`
	Count       int64           `json:"count"`
	TargetSum   decimal.Decimal `json:"target_sum"`
	ReceivedSum decimal.Decimal `json:"received_sum"`
}

// Repository is the organization-scoped store for rounds. Every method takes
// the caller's organization and never returns rows outside it.
type Repository interface {
	Create(ctx context.Context, r *Round) error
	GetByRoundID(ctx context.Context, org, roundID string) (*Round, error)
	GetByRoundIDForUpdate(ctx context.Context, org, roundID string) (*Round, error)
	List(ctx context.Context, org string) ([]Round, error)
	Save(ctx context.Context, r *Round) error
	Delete(ctx context.Context, org, roundID string) error
	AggregateByStatus(ctx context.Context, org string) ([]StatusAggregate, error)
}
