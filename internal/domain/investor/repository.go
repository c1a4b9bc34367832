package investor

import (
	"context"

	"github.com/shopspring/decimal"

	"horizon-backend/internal/domain/round"
)

// StatusAggregate is one dashboard bucket of investors sharing a status.
type StatusAggregate struct {
	Status       Status          `json:"status"`
	Count        int64           `json:"count"`
	CommittedSum decimal.Decimal `json:"committed_sum"`
	ReceivedSum  decimal.Decimal `json:"received_sum"`
}

// Repository is the organization-scoped store for investors and their owned
// tranches. Reads preload tranches ordered by tranche number.
type Repository interface {
	Create(ctx context.Context, inv *Investor) error
	GetByInvestorID(ctx context.Context, org, investorID string) (*Investor, error)
	GetByInvestorIDForUpdate(ctx context.Context, org, investorID string) (*Investor, error)
	List(ctx context.Context, org string) ([]Investor, error)
	ListByRound(ctx context.Context, org, roundID string) ([]Investor, error)
	// Save persists the investor and upserts its tranches.
	Save(ctx context.Context, inv *Investor) error
	// ReplaceTranches swaps the owned tranche set wholesale.
	ReplaceTranches(ctx context.Context, inv *Investor, tranches []Tranche) error
	DeleteTranche(ctx context.Context, inv *Investor, trancheID string) error
	Delete(ctx context.Context, org, investorID string) error
	DeleteByRound(ctx context.Context, org, roundID string) error
	// FundingStats aggregates ground truth for a round's progress line.
	FundingStats(ctx context.Context, org, roundID string) (round.FundingStats, error)
	AnyFundedInRound(ctx context.Context, org, roundID string) (bool, error)
	AggregateByStatus(ctx context.Context, org string) ([]StatusAggregate, error)
}
