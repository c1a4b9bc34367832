package captable

import (
	"context"

	"github.com/shopspring/decimal"
)

// TypeAggregate is one dashboard bucket of entries sharing a shareholder type.
type TypeAggregate struct {
	ShareholderType ShareholderType `json:"shareholder_type"`
	Count           int64           `json:"count"`
	Shares          int64           `json:"shares"`
	InvestmentSum   decimal.Decimal `json:"investment_sum"`
	CurrentValueSum decimal.Decimal `json:"current_value_sum"`
	EquitySum       decimal.Decimal `json:"equity_sum"`
}

// RoundSums is the cap-table side of a round integrity check.
type RoundSums struct {
	Shares        int64
	InvestmentSum decimal.Decimal
}

// Repository is the organization-scoped store for cap table entries.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	Save(ctx context.Context, e *Entry) error
	GetByLinkedInvestor(ctx context.Context, org, investorID, roundID string) (*Entry, error)
	List(ctx context.Context, org string) ([]Entry, error)
	ListByRound(ctx context.Context, org, roundID string) ([]Entry, error)
	// ListEquityHolders returns Active/Exercised entries whose security type
	// participates in equity percentages.
	ListEquityHolders(ctx context.Context, org string) ([]Entry, error)
	DeleteByLinkedInvestor(ctx context.Context, org, investorID string) error
	DeleteByRound(ctx context.Context, org, roundID string) error
	SumByRound(ctx context.Context, org, roundID string) (RoundSums, error)
	AggregateByType(ctx context.Context, org string) ([]TypeAggregate, error)
}
