package round

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	investorDomain "horizon-backend/internal/domain/investor"
	roundDomain "horizon-backend/internal/domain/round"
	"horizon-backend/internal/domain/tenant"
	"horizon-backend/internal/domain/uow"
	captableUC "horizon-backend/internal/usecase/captable"
	"horizon-backend/pkg/id"
)

var hundred = decimal.NewFromInt(100)

type Usecase struct {
	uow    uow.UnitOfWork
	repos  uow.Repos
	syncer *captableUC.Syncer
}

// NewUsecase: repos serve reads, the UoW serves mutating flows.
func NewUsecase(tx uow.UnitOfWork, repos uow.Repos, syncer *captableUC.Syncer) *Usecase {
	return &Usecase{uow: tx, repos: repos, syncer: syncer}
}

// Initialize derives the fixed valuation from the round inputs and persists
// the round. The derived price never changes afterwards.
func (u *Usecase) Initialize(ctx context.Context, rc tenant.RequestContext, in InitializeInput) (*roundDomain.Round, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", roundDomain.ErrValidation)
	}

	v, err := roundDomain.CalculateValuation(in.TargetAmount, in.EquityPercentageOffered, in.ExistingSharesPreRound)
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = roundDomain.StatusPlanning
	}
	currency := in.Currency
	if currency == "" {
		currency = "INR"
	}

	rnd := &roundDomain.Round{
		RoundID:                 id.NewID32(),
		Organization:            rc.OrganizationID,
		Name:                    name,
		NameKey:                 strings.ToLower(name),
		Currency:                currency,
		TargetAmount:            in.TargetAmount,
		EquityPercentageOffered: in.EquityPercentageOffered,
		ExistingSharesPreRound:  in.ExistingSharesPreRound,
		TotalFundsReceived:      decimal.Zero,
		Status:                  status,
		RoundType:               in.RoundType,
		OpenDate:                in.OpenDate,
		TargetCloseDate:         in.TargetCloseDate,
		CreatedBy:               rc.UserID,
	}
	rnd.ApplyValuation(v)

	if err := u.repos.Rounds.Create(ctx, rnd); err != nil {
		return nil, err
	}
	return rnd, nil
}

func (u *Usecase) List(ctx context.Context, rc tenant.RequestContext) ([]roundDomain.Round, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return u.repos.Rounds.List(ctx, rc.OrganizationID)
}

// Get returns the round with its investors and cap table entries.
func (u *Usecase) Get(ctx context.Context, rc tenant.RequestContext, roundID string) (*Detail, error) {
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
	entries, err := u.repos.CapTable.ListByRound(ctx, rc.OrganizationID, roundID)
	if err != nil {
		return nil, err
	}
	return &Detail{Round: rnd, Investors: invs, CapTable: entries}, nil
}

// Update patches round metadata. Editing the calculation inputs of a funded
// round is refused; on an unfunded round they trigger full reinitialization
// and a re-allocation of every attached investor at the new price.
func (u *Usecase) Update(ctx context.Context, rc tenant.RequestContext, roundID string, in UpdateInput) (*roundDomain.Round, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	var out *roundDomain.Round
	err := u.uow.WithinRoundTx(ctx, rc.OrganizationID, roundID, func(r uow.Repos, rnd *roundDomain.Round) error {
		calcChanged := false
		if in.TargetAmount != nil && !in.TargetAmount.Equal(rnd.TargetAmount) {
			rnd.TargetAmount = *in.TargetAmount
			calcChanged = true
		}
		if in.EquityPercentageOffered != nil && !in.EquityPercentageOffered.Equal(rnd.EquityPercentageOffered) {
			rnd.EquityPercentageOffered = *in.EquityPercentageOffered
			calcChanged = true
		}
		if in.ExistingSharesPreRound != nil && *in.ExistingSharesPreRound != rnd.ExistingSharesPreRound {
			rnd.ExistingSharesPreRound = *in.ExistingSharesPreRound
			calcChanged = true
		}

		if calcChanged {
			funded, err := r.Investors.AnyFundedInRound(ctx, rc.OrganizationID, roundID)
			if err != nil {
				return err
			}
			if funded {
				return roundDomain.ErrFunded
			}
			v, err := roundDomain.CalculateValuation(rnd.TargetAmount, rnd.EquityPercentageOffered, rnd.ExistingSharesPreRound)
			if err != nil {
				return err
			}
			rnd.ApplyValuation(v)
		}

		if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
			rnd.Name = strings.TrimSpace(*in.Name)
			rnd.NameKey = strings.ToLower(rnd.Name)
		}
		if in.RoundType != nil {
			rnd.RoundType = *in.RoundType
		}
		if in.TargetCloseDate != nil {
			rnd.TargetCloseDate = in.TargetCloseDate
		}
		if in.Status != nil && *in.Status != rnd.Status {
			if !roundDomain.CanTransition(rnd.Status, *in.Status) {
				return fmt.Errorf("%w: %s -> %s", roundDomain.ErrInvalidTransition, rnd.Status, *in.Status)
			}
			now := time.Now().UTC()
			switch *in.Status {
			case roundDomain.StatusOpen:
				if rnd.OpenDate == nil {
					rnd.OpenDate = &now
				}
			case roundDomain.StatusClosed:
				rnd.ActualCloseDate = &now
			}
			rnd.Status = *in.Status
		}

		if err := r.Rounds.Save(ctx, rnd); err != nil {
			return err
		}

		if calcChanged {
			// re-allocate commitments at the new fixed price
			invs, err := r.Investors.ListByRound(ctx, rc.OrganizationID, roundID)
			if err != nil {
				return err
			}
			for i := range invs {
				investorDomain.RecalcDerived(&invs[i], rnd)
				if err := r.Investors.Save(ctx, &invs[i]); err != nil {
					return err
				}
				if err := u.syncer.UpsertEntryForInvestor(ctx, r, &invs[i], rnd); err != nil {
					return err
				}
			}
		}
		out = rnd
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an unfunded round and cascades to its investors and cap
// table entries. Rounds with received money are refused.
func (u *Usecase) Delete(ctx context.Context, rc tenant.RequestContext, roundID string) error {
	if err := rc.Validate(); err != nil {
		return err
	}
	return u.uow.WithinRoundTx(ctx, rc.OrganizationID, roundID, func(r uow.Repos, rnd *roundDomain.Round) error {
		funded, err := r.Investors.AnyFundedInRound(ctx, rc.OrganizationID, roundID)
		if err != nil {
			return err
		}
		if funded {
			return roundDomain.ErrFunded
		}
		if err := r.CapTable.DeleteByRound(ctx, rc.OrganizationID, roundID); err != nil {
			return err
		}
		if err := r.Investors.DeleteByRound(ctx, rc.OrganizationID, roundID); err != nil {
			return err
		}
		return r.Rounds.Delete(ctx, rc.OrganizationID, roundID)
	})
}

// PreviewInvestment is the pure what-if: nothing is persisted, and the fixed
// valuation is reported unchanged.
func (u *Usecase) PreviewInvestment(ctx context.Context, rc tenant.RequestContext, roundID string, amount decimal.Decimal) (*Preview, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", roundDomain.ErrValidation)
	}
	rnd, err := u.repos.Rounds.GetByRoundID(ctx, rc.OrganizationID, roundID)
	if err != nil {
		return nil, err
	}
	if err := rnd.ValidateReadyForInvestors(); err != nil {
		return nil, err
	}

	shares := amount.Div(rnd.PricePerShare).Round(0).IntPart()
	equity := decimal.NewFromInt(shares).
		Div(decimal.NewFromInt(rnd.TotalSharesOutstanding)).Mul(hundred).Round(4)
	after := decimal.Zero
	if rnd.TargetAmount.IsPositive() {
		after = rnd.TotalFundsReceived.Add(amount).Div(rnd.TargetAmount).Mul(hundred).Round(2)
	}
	return &Preview{
		SharesPurchased:      shares,
		EquityPercentage:     equity,
		PricePerShare:        rnd.PricePerShare,
		PostMoneyValuation:   rnd.PostMoneyValuation,
		NewTotalShares:       rnd.TotalSharesOutstanding,
		FundingProgressAfter: after,
		ValuationChanges:     false,
	}, nil
}
