package investor

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"horizon-backend/internal/domain/round"
)

var hundred = decimal.NewFromInt(100)

// DeriveTrancheStatus maps the received/agreed ratio to a status. Cancelled
// is sticky; it is never derived away.
func DeriveTrancheStatus(t *Tranche) TrancheStatus {
	if t.Status == TrancheCancelled {
		return TrancheCancelled
	}
	switch {
	case t.ReceivedAmount.IsZero():
		return TranchePending
	case t.ReceivedAmount.GreaterThanOrEqual(t.AgreedAmount):
		return TrancheFullyReceived
	default:
		return TranchePartiallyReceived
	}
}

// ValidateTranche enforces the per-tranche input rules.
func ValidateTranche(t *Tranche) error {
	if !t.AgreedAmount.IsPositive() {
		return fmt.Errorf("%w: agreed amount must be positive", ErrTrancheValidation)
	}
	if t.ReceivedAmount.IsNegative() {
		return fmt.Errorf("%w: received amount must not be negative", ErrTrancheValidation)
	}
	if t.ReceivedAmount.GreaterThan(t.AgreedAmount) {
		return fmt.Errorf("%w: received amount exceeds agreed amount", ErrTrancheValidation)
	}
	return nil
}

// ApplyRoundPricing rebuilds the tranche's share fields at the round's fixed
// price. Tranches without money carry zero shares.
func ApplyRoundPricing(t *Tranche, r *round.Round) {
	t.Status = DeriveTrancheStatus(t)
	if t.ReceivedAmount.IsPositive() && r.PricePerShare.IsPositive() {
		t.SharesAllocated = t.ReceivedAmount.Div(r.PricePerShare).Round(0).IntPart()
		t.SharePrice = r.PricePerShare
		if r.TotalSharesOutstanding > 0 {
			t.EquityPercentage = decimal.NewFromInt(t.SharesAllocated).
				Div(decimal.NewFromInt(r.TotalSharesOutstanding)).Mul(hundred).Round(4)
		}
	} else {
		t.SharesAllocated = 0
		t.SharePrice = decimal.Zero
		t.EquityPercentage = decimal.Zero
	}
}

// RecalcDerived rebuilds every cached total on the investor from its tranches
// and the round's immutable valuation. It is the pre-save rule: callers must
// run it before persisting any tranche change.
func RecalcDerived(inv *Investor, r *round.Round) {
	received := decimal.Zero
	var sharesReceived int64
	for i := range inv.Tranches {
		ApplyRoundPricing(&inv.Tranches[i], r)
		received = received.Add(inv.Tranches[i].ReceivedAmount)
		sharesReceived += inv.Tranches[i].SharesAllocated
	}
	inv.TotalReceivedAmount = received
	inv.SharesReceived = sharesReceived

	if r.PricePerShare.IsPositive() {
		inv.SharesAllocated = inv.TotalCommittedAmount.Div(r.PricePerShare).Round(0).IntPart()
	}
	if r.TotalSharesOutstanding > 0 {
		inv.EquityPercentageAllocated = decimal.NewFromInt(inv.SharesAllocated).
			Div(decimal.NewFromInt(r.TotalSharesOutstanding)).Mul(hundred).Round(4)
	}
	if sharesReceived > 0 {
		inv.AverageSharePrice = received.Div(decimal.NewFromInt(sharesReceived)).Round(4)
	} else {
		inv.AverageSharePrice = decimal.Zero
	}
	if inv.TotalCommittedAmount.IsPositive() {
		inv.InvestmentProgress = received.Div(inv.TotalCommittedAmount).Mul(hundred).Round(2)
	} else {
		inv.InvestmentProgress = decimal.Zero
	}
}

// PromoteIfInvested flips a commitment-state investor to invested once money
// has landed. Returns the prior status and whether a change happened.
func PromoteIfInvested(inv *Investor) (Status, bool) {
	if inv.TotalReceivedAmount.IsPositive() && commitmentStates[inv.Status] {
		prev := inv.Status
		inv.Status = StatusInvested
		return prev, true
	}
	return inv.Status, false
}

// FindTranche locates a tranche by its opaque id, falling back to the
// external (trancheNumber) identity when the key is numeric.
func FindTranche(inv *Investor, key string) *Tranche {
	for i := range inv.Tranches {
		if inv.Tranches[i].TrancheID == key {
			return &inv.Tranches[i]
		}
	}
	// The fallback only applies when the whole key is numeric; a hex id with
	// leading digits must not resolve to an unrelated tranche number.
	if n, err := strconv.Atoi(key); err == nil {
		for i := range inv.Tranches {
			if inv.Tranches[i].TrancheNumber == n {
				return &inv.Tranches[i]
			}
		}
	}
	return nil
}

// NextTrancheNumber returns one past the highest existing tranche number.
func NextTrancheNumber(inv *Investor) int {
	max := 0
	for i := range inv.Tranches {
		if inv.Tranches[i].TrancheNumber > max {
			max = inv.Tranches[i].TrancheNumber
		}
	}
	return max + 1
}
