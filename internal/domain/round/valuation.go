package round

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// fullOfferShareMultiple spreads the share count when the round offers 100%
// equity: the divisor (1 - e/100) collapses to zero, so pre-round holders are
// left with 0.01% instead, which stays inside the cap-table rounding tolerance.
const fullOfferShareMultiple = 10_000

// Valuation holds the derived fields of a fixed-price round. All currency
// roundings are half-away-from-zero to the integer unit.
type Valuation struct {
	PostMoney     decimal.Decimal
	PreMoney      decimal.Decimal
	TotalShares   int64
	NewShares     int64
	PricePerShare decimal.Decimal
}

// CalculateValuation derives post-money, pre-money, total/new shares and the
// fixed price per share from the round inputs.
func CalculateValuation(target, equityPct decimal.Decimal, existingShares int64) (Valuation, error) {
	if !target.IsPositive() {
		return Valuation{}, fmt.Errorf("%w: target amount must be positive", ErrValidation)
	}
	if !equityPct.IsPositive() || equityPct.GreaterThan(hundred) {
		return Valuation{}, fmt.Errorf("%w: equity percentage must be in (0,100]", ErrValidation)
	}
	if existingShares <= 0 {
		return Valuation{}, fmt.Errorf("%w: existing shares must be positive", ErrValidation)
	}

	fraction := equityPct.Div(hundred)
	postMoney := target.Div(fraction).Round(0)
	preMoney := postMoney.Sub(target)

	var totalShares int64
	if equityPct.Equal(hundred) {
		totalShares = existingShares * fullOfferShareMultiple
	} else {
		retained := decimal.NewFromInt(1).Sub(fraction)
		totalShares = decimal.NewFromInt(existingShares).Div(retained).Round(0).IntPart()
	}
	newShares := totalShares - existingShares

	pps := postMoney.Div(decimal.NewFromInt(totalShares)).Round(0)

	v := Valuation{
		PostMoney:     postMoney,
		PreMoney:      preMoney,
		TotalShares:   totalShares,
		NewShares:     newShares,
		PricePerShare: pps,
	}
	if !v.PricePerShare.IsPositive() {
		return Valuation{}, fmt.Errorf("%w: price per share is not positive", ErrCalculation)
	}
	if v.TotalShares <= existingShares {
		return Valuation{}, fmt.Errorf("%w: no shares allocated to the round", ErrCalculation)
	}
	return v, nil
}

// ApplyValuation writes the derived fields onto the round.
func (r *Round) ApplyValuation(v Valuation) {
	r.PostMoneyValuation = v.PostMoney
	r.PreMoneyValuation = v.PreMoney
	r.TotalSharesOutstanding = v.TotalShares
	r.SharesAllocatedThisRound = v.NewShares
	r.PricePerShare = v.PricePerShare
}

// FundingStats is the ground-truth roll-up over a round's investors.
type FundingStats struct {
	SumReceived    decimal.Decimal
	FundedCount    int64
	LastInvestment *time.Time
}

// RefreshProgress recomputes the percentage-complete line from the current
// TotalFundsReceived plus the investor counts. Funds themselves are adjusted
// by delta beforehand, never overwritten here, so concurrent payments compose.
func (r *Round) RefreshProgress(stats FundingStats) {
	r.InvestorCount = stats.FundedCount
	// nil stats date means no funded investor remains; the cached date must
	// not survive a full reversal
	r.LastInvestmentDate = stats.LastInvestment
	if r.TargetAmount.IsPositive() {
		r.PercentageComplete = r.TotalFundsReceived.Div(r.TargetAmount).Mul(hundred).Round(2)
	}
}

// AddFundsDelta applies an additive funding update, clamped at zero.
func (r *Round) AddFundsDelta(delta decimal.Decimal) {
	r.TotalFundsReceived = r.TotalFundsReceived.Add(delta)
	if r.TotalFundsReceived.IsNegative() {
		r.TotalFundsReceived = decimal.Zero
	}
}
