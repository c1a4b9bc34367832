package integrity

import (
	"context"

	"github.com/shopspring/decimal"

	investorDomain "horizon-backend/internal/domain/investor"
	roundDomain "horizon-backend/internal/domain/round"
	"horizon-backend/internal/domain/tenant"
	"horizon-backend/internal/domain/uow"
	captableUC "horizon-backend/internal/usecase/captable"
)

// discrepancyTolerance is the currency-unit slack under which a round still
// counts as consistent; per-item roundings can legitimately drift by a unit.
var discrepancyTolerance = decimal.NewFromInt(100)

type Usecase struct {
	uow    uow.UnitOfWork
	repos  uow.Repos
	syncer *captableUC.Syncer
}

func NewUsecase(tx uow.UnitOfWork, repos uow.Repos, syncer *captableUC.Syncer) *Usecase {
	return &Usecase{uow: tx, repos: repos, syncer: syncer}
}

// Metrics is the post-recalculation snapshot of a round.
type Metrics struct {
	RoundID            string          `json:"round_id"`
	TotalFundsReceived decimal.Decimal `json:"total_funds_received"`
	PercentageComplete decimal.Decimal `json:"percentage_complete"`
	InvestorCount      int64           `json:"investor_count"`
	PricePerShare      decimal.Decimal `json:"price_per_share"`
}

// RecalculateRoundMetrics rebuilds every derived field of the round and its
// investors from ground truth. The immutable valuation fields are read, never
// written. Running it twice in a row is a no-op the second time.
func (u *Usecase) RecalculateRoundMetrics(ctx context.Context, rc tenant.RequestContext, roundID string) (*Metrics, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	var out *Metrics
	err := u.uow.WithinRoundTx(ctx, rc.OrganizationID, roundID, func(r uow.Repos, rnd *roundDomain.Round) error {
		invs, err := r.Investors.ListByRound(ctx, rc.OrganizationID, roundID)
		if err != nil {
			return err
		}
		total := decimal.Zero
		for i := range invs {
			investorDomain.RecalcDerived(&invs[i], rnd)
			if err := r.Investors.Save(ctx, &invs[i]); err != nil {
				return err
			}
			if err := u.syncer.UpsertEntryForInvestor(ctx, r, &invs[i], rnd); err != nil {
				return err
			}
			total = total.Add(invs[i].TotalReceivedAmount)
		}

		rnd.TotalFundsReceived = total
		stats, err := r.Investors.FundingStats(ctx, rc.OrganizationID, roundID)
		if err != nil {
			return err
		}
		rnd.RefreshProgress(stats)
		if err := r.Rounds.Save(ctx, rnd); err != nil {
			return err
		}
		if err := u.syncer.RecomputeEquityPercentages(ctx, r, rc.OrganizationID); err != nil {
			return err
		}
		if rnd.PricePerShare.IsPositive() {
			if err := u.syncer.UpdateCurrentValues(ctx, r, rc.OrganizationID, rnd.PricePerShare); err != nil {
				return err
			}
		}
		out = &Metrics{
			RoundID:            rnd.RoundID,
			TotalFundsReceived: rnd.TotalFundsReceived,
			PercentageComplete: rnd.PercentageComplete,
			InvestorCount:      rnd.InvestorCount,
			PricePerShare:      rnd.PricePerShare,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Discrepancy is one detected gap between a cached total and ground truth.
type Discrepancy struct {
	Kind     string          `json:"kind"`
	Expected decimal.Decimal `json:"expected"`
	Actual   decimal.Decimal `json:"actual"`
	Delta    decimal.Decimal `json:"delta"`
}

// Report is the outcome of a read-only integrity check.
type Report struct {
	RoundID       string        `json:"round_id"`
	Valid         bool          `json:"valid"`
	Discrepancies []Discrepancy `json:"discrepancies"`
}

// ValidateRoundIntegrity compares the round's cached totals against investor
// and cap-table ground truth without writing anything.
func (u *Usecase) ValidateRoundIntegrity(ctx context.Context, rc tenant.RequestContext, roundID string) (*Report, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	rnd, err := u.repos.Rounds.GetByRoundID(ctx, rc.OrganizationID, roundID)
	if err != nil {
		return nil, err
	}
	invs, err := u.repos.Investors.ListByRound(ctx, rc.OrganizationID, roundID)
	if err != nil {
		return nil, err
	}
	capSums, err := u.repos.CapTable.SumByRound(ctx, rc.OrganizationID, roundID)
	if err != nil {
		return nil, err
	}

	invReceived := decimal.Zero
	var invShares int64
	for i := range invs {
		invReceived = invReceived.Add(invs[i].TotalReceivedAmount)
		invShares += invs[i].SharesReceived
	}

	report := &Report{RoundID: roundID, Valid: true, Discrepancies: []Discrepancy{}}
	check := func(kind string, expected, actual decimal.Decimal) {
		delta := expected.Sub(actual).Abs()
		if delta.IsZero() {
			return
		}
		report.Discrepancies = append(report.Discrepancies, Discrepancy{
			Kind: kind, Expected: expected, Actual: actual, Delta: delta,
		})
		if delta.GreaterThanOrEqual(discrepancyTolerance) {
			report.Valid = false
		}
	}

	check("round_total_vs_investor_sum", invReceived, rnd.TotalFundsReceived)
	check("investor_received_vs_captable_investment", invReceived, capSums.InvestmentSum)
	check("investor_shares_vs_captable_shares",
		decimal.NewFromInt(invShares), decimal.NewFromInt(capSums.Shares))
	return report, nil
}
