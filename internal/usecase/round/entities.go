package round

import (
	"time"

	"github.com/shopspring/decimal"

	captableDomain "horizon-backend/internal/domain/captable"
	investorDomain "horizon-backend/internal/domain/investor"
	roundDomain "horizon-backend/internal/domain/round"
)

type InitializeInput struct {
	Name                    string
	TargetAmount            decimal.Decimal
	EquityPercentageOffered decimal.Decimal
	ExistingSharesPreRound  int64
	Currency                string
	RoundType               string
	Status                  roundDomain.Status
	OpenDate                *time.Time
	TargetCloseDate         *time.Time
}

type UpdateInput struct {
	Name                    *string
	TargetAmount            *decimal.Decimal
	EquityPercentageOffered *decimal.Decimal
	ExistingSharesPreRound  *int64
	RoundType               *string
	Status                  *roundDomain.Status
	TargetCloseDate         *time.Time
}

// Detail is the round read model with its related aggregates.
type Detail struct {
	Round     *roundDomain.Round        `json:"round"`
	Investors []investorDomain.Investor `json:"investors"`
	CapTable  []captableDomain.Entry    `json:"cap_table"`
}

// Preview is the read-only what-if result for a proposed investment.
type Preview struct {
	SharesPurchased      int64           `json:"shares_purchased"`
	EquityPercentage     decimal.Decimal `json:"equity_percentage"`
	PricePerShare        decimal.Decimal `json:"price_per_share"`
	PostMoneyValuation   decimal.Decimal `json:"post_money_valuation"`
	NewTotalShares       int64           `json:"new_total_shares"`
	FundingProgressAfter decimal.Decimal `json:"funding_progress_after"`
	ValuationChanges     bool            `json:"valuation_changes"`
}
