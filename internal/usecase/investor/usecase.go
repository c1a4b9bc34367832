package investor

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

type Usecase struct {
	uow    uow.UnitOfWork
	repos  uow.Repos
	syncer *captableUC.Syncer
}

func NewUsecase(tx uow.UnitOfWork, repos uow.Repos, syncer *captableUC.Syncer) *Usecase {
	return &Usecase{uow: tx, repos: repos, syncer: syncer}
}

func buildTranche(in TrancheInput, number int) (investorDomain.Tranche, error) {
	now := time.Now().UTC()
	t := investorDomain.Tranche{
		TrancheID:            id.NewID32(),
		TrancheNumber:        number,
		AgreedAmount:         in.AgreedAmount,
		ReceivedAmount:       in.ReceivedAmount,
		DateAgreed:           in.DateAgreed,
		DateReceived:         in.DateReceived,
		TriggerCondition:     in.TriggerCondition,
		PaymentMethod:        in.PaymentMethod,
		TransactionReference: in.TransactionRef,
		Notes:                in.Notes,
	}
	if t.DateAgreed == nil {
		t.DateAgreed = &now
	}
	if t.ReceivedAmount.IsPositive() && t.DateReceived == nil {
		t.DateReceived = &now
	}
	if err := investorDomain.ValidateTranche(&t); err != nil {
		return investorDomain.Tranche{}, err
	}
	return t, nil
}

func emailKey(email string) *string {
	e := strings.ToLower(strings.TrimSpace(email))
	if e == "" {
		return nil
	}
	return &e
}

// Add attaches an investor with its tranche schedule to a Planning/Open
// round, allocating shares from the commitment at the round's fixed price.
func (u *Usecase) Add(ctx context.Context, rc tenant.RequestContext, in AddInput) (*investorDomain.Investor, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" || in.RoundID == "" {
		return nil, fmt.Errorf("%w: name and round_id are required", investorDomain.ErrValidation)
	}
	if !in.TotalCommittedAmount.IsPositive() {
		return nil, fmt.Errorf("%w: committed amount must be positive", investorDomain.ErrValidation)
	}
	if len(in.Tranches) == 0 {
		return nil, fmt.Errorf("%w: at least one tranche is required", investorDomain.ErrTrancheValidation)
	}

	var out *investorDomain.Investor
	err := u.uow.WithinRoundTx(ctx, rc.OrganizationID, in.RoundID, func(r uow.Repos, rnd *roundDomain.Round) error {
		if !rnd.AcceptsInvestors() {
			return fmt.Errorf("%w: round status is %s", roundDomain.ErrNotReady, rnd.Status)
		}
		if err := rnd.ValidateReadyForInvestors(); err != nil {
			return err
		}

		tranches := make([]investorDomain.Tranche, 0, len(in.Tranches))
		for i, ti := range in.Tranches {
			t, err := buildTranche(ti, i+1)
			if err != nil {
				return err
			}
			tranches = append(tranches, t)
		}

		status := in.Status
		if status == "" {
			status = investorDomain.StatusLead
		}
		vehicle := in.InvestmentVehicle
		if vehicle == "" {
			vehicle = investorDomain.VehicleEquity
		}
		currency := in.Currency
		if currency == "" {
			currency = rnd.Currency
		}

		inv := &investorDomain.Investor{
			InvestorID:           id.NewID32(),
			Organization:         rc.OrganizationID,
			RoundID:              in.RoundID,
			Name:                 strings.TrimSpace(in.Name),
			ContactPerson:        in.ContactPerson,
			Email:                strings.TrimSpace(in.Email),
			EmailKey:             emailKey(in.Email),
			EntityName:           in.EntityName,
			InvestorType:         in.InvestorType,
			InvestmentVehicle:    vehicle,
			MaturityDate:         in.MaturityDate,
			TotalCommittedAmount: in.TotalCommittedAmount,
			Currency:             currency,
			Status:               status,
			Tranches:             tranches,
			CreatedBy:            rc.UserID,
		}
		if in.ValuationCap != nil {
			inv.ValuationCap = decimal.NewNullDecimal(*in.ValuationCap)
		}
		if in.DiscountPercentage != nil {
			inv.DiscountPercentage = decimal.NewNullDecimal(*in.DiscountPercentage)
		}
		if in.InterestRate != nil {
			inv.InterestRate = decimal.NewNullDecimal(*in.InterestRate)
		}

		investorDomain.AppendHistory(inv, "", status, "investor created", rc.UserID)
		investorDomain.RecalcDerived(inv, rnd)
		if prev, promoted := investorDomain.PromoteIfInvested(inv); promoted {
			investorDomain.AppendHistory(inv, prev, inv.Status, "funds received", rc.UserID)
		}

		if err := r.Investors.Create(ctx, inv); err != nil {
			return err
		}
		if err := u.syncer.SettleInvestorFunding(ctx, r, inv, rnd, inv.TotalReceivedAmount); err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, rc tenant.RequestContext, investorID string) (*investorDomain.Investor, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return u.repos.Investors.GetByInvestorID(ctx, rc.OrganizationID, investorID)
}

// List returns the organization's investors, optionally scoped to a round.
func (u *Usecase) List(ctx context.Context, rc tenant.RequestContext, roundID string) ([]investorDomain.Investor, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	if roundID != "" {
		return u.repos.Investors.ListByRound(ctx, rc.OrganizationID, roundID)
	}
	return u.repos.Investors.List(ctx, rc.OrganizationID)
}

// Update patches investor fields; a non-nil tranche list replaces the whole
// schedule and the funding delta flows through to the round and cap table.
func (u *Usecase) Update(ctx context.Context, rc tenant.RequestContext, investorID string, in UpdateInput) (*investorDomain.Investor, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	var out *investorDomain.Investor
	err := u.uow.WithinInvestorTx(ctx, rc.OrganizationID, investorID, func(r uow.Repos, rnd *roundDomain.Round, inv *investorDomain.Investor) error {
		prevReceived := inv.TotalReceivedAmount

		if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
			inv.Name = strings.TrimSpace(*in.Name)
		}
		if in.ContactPerson != nil {
			inv.ContactPerson = *in.ContactPerson
		}
		if in.Email != nil {
			inv.Email = strings.TrimSpace(*in.Email)
			inv.EmailKey = emailKey(*in.Email)
		}
		if in.EntityName != nil {
			inv.EntityName = *in.EntityName
		}
		if in.InvestorType != nil {
			inv.InvestorType = *in.InvestorType
		}
		if in.TotalCommittedAmount != nil {
			if !in.TotalCommittedAmount.IsPositive() {
				return fmt.Errorf("%w: committed amount must be positive", investorDomain.ErrValidation)
			}
			inv.TotalCommittedAmount = *in.TotalCommittedAmount
		}
		if in.Status != nil && *in.Status != inv.Status {
			investorDomain.AppendHistory(inv, inv.Status, *in.Status, in.StatusNote, rc.UserID)
			inv.Status = *in.Status
		}

		if in.Tranches != nil {
			if len(in.Tranches) == 0 {
				return fmt.Errorf("%w: tranche list must not be empty", investorDomain.ErrTrancheValidation)
			}
			tranches := make([]investorDomain.Tranche, 0, len(in.Tranches))
			for i, ti := range in.Tranches {
				t, err := buildTranche(ti, i+1)
				if err != nil {
					return err
				}
				tranches = append(tranches, t)
			}
			if err := r.Investors.ReplaceTranches(ctx, inv, tranches); err != nil {
				return err
			}
		}

		investorDomain.RecalcDerived(inv, rnd)
		if prev, promoted := investorDomain.PromoteIfInvested(inv); promoted {
			investorDomain.AppendHistory(inv, prev, inv.Status, "funds received", rc.UserID)
		}
		if err := r.Investors.Save(ctx, inv); err != nil {
			return err
		}

		delta := inv.TotalReceivedAmount.Sub(prevReceived)
		if err := u.syncer.SettleInvestorFunding(ctx, r, inv, rnd, delta); err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete cascades: cap table entries go, the investor's money is subtracted
// from the round (not below zero) and the round metrics are rebuilt.
func (u *Usecase) Delete(ctx context.Context, rc tenant.RequestContext, investorID string) error {
	if err := rc.Validate(); err != nil {
		return err
	}
	return u.uow.WithinInvestorTx(ctx, rc.OrganizationID, investorID, func(r uow.Repos, rnd *roundDomain.Round, inv *investorDomain.Investor) error {
		if err := r.CapTable.DeleteByLinkedInvestor(ctx, rc.OrganizationID, inv.InvestorID); err != nil {
			return err
		}
		if err := r.Investors.Delete(ctx, rc.OrganizationID, investorID); err != nil {
			return err
		}
		// rebuild the round from the investors that remain
		rnd.AddFundsDelta(inv.TotalReceivedAmount.Neg())
		invs, err := r.Investors.ListByRound(ctx, rc.OrganizationID, rnd.RoundID)
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
		stats, err := r.Investors.FundingStats(ctx, rc.OrganizationID, rnd.RoundID)
		if err != nil {
			return err
		}
		rnd.RefreshProgress(stats)
		if err := r.Rounds.Save(ctx, rnd); err != nil {
			return err
		}
		return u.syncer.RecomputeEquityPercentages(ctx, r, rc.OrganizationID)
	})
}

// AddTranche appends one installment to the schedule.
func (u *Usecase) AddTranche(ctx context.Context, rc tenant.RequestContext, investorID string, in TrancheInput) (*investorDomain.Investor, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	var out *investorDomain.Investor
	err := u.uow.WithinInvestorTx(ctx, rc.OrganizationID, investorID, func(r uow.Repos, rnd *roundDomain.Round, inv *investorDomain.Investor) error {
		if in.ReceivedAmount.IsPositive() && !rnd.AcceptsPayments() {
			return roundDomain.ErrClosedForPayments
		}
		t, err := buildTranche(in, investorDomain.NextTrancheNumber(inv))
		if err != nil {
			return err
		}
		inv.Tranches = append(inv.Tranches, t)

		investorDomain.RecalcDerived(inv, rnd)
		if prev, promoted := investorDomain.PromoteIfInvested(inv); promoted {
			investorDomain.AppendHistory(inv, prev, inv.Status, "funds received", rc.UserID)
		}
		if err := r.Investors.Save(ctx, inv); err != nil {
			return err
		}
		if err := u.syncer.SettleInvestorFunding(ctx, r, inv, rnd, in.ReceivedAmount); err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateTrancheDetails patches metadata on one tranche. Received amounts are
// the payment processor's business and are rejected here.
func (u *Usecase) UpdateTrancheDetails(ctx context.Context, rc tenant.RequestContext, investorID, trancheID string, in TrancheUpdateInput) (*investorDomain.Investor, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	var out *investorDomain.Investor
	err := u.uow.WithinInvestorTx(ctx, rc.OrganizationID, investorID, func(r uow.Repos, rnd *roundDomain.Round, inv *investorDomain.Investor) error {
		t := investorDomain.FindTranche(inv, trancheID)
		if t == nil {
			return investorDomain.ErrTrancheNotFound
		}
		if in.AgreedAmount != nil {
			t.AgreedAmount = *in.AgreedAmount
		}
		if in.DateAgreed != nil {
			t.DateAgreed = in.DateAgreed
		}
		if in.TriggerCondition != nil {
			t.TriggerCondition = *in.TriggerCondition
		}
		if in.PaymentMethod != nil {
			t.PaymentMethod = *in.PaymentMethod
		}
		if in.TransactionRef != nil {
			t.TransactionReference = *in.TransactionRef
		}
		if in.Notes != nil {
			t.Notes = *in.Notes
		}
		if in.Cancelled != nil && *in.Cancelled {
			if t.ReceivedAmount.IsPositive() {
				return fmt.Errorf("%w: cannot cancel a tranche with received funds", investorDomain.ErrTrancheValidation)
			}
			t.Status = investorDomain.TrancheCancelled
		}
		if err := investorDomain.ValidateTranche(t); err != nil {
			return err
		}
		investorDomain.RecalcDerived(inv, rnd)
		if err := r.Investors.Save(ctx, inv); err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteTranche removes an installment; received money is reversed through
// the round and cap table first.
func (u *Usecase) DeleteTranche(ctx context.Context, rc tenant.RequestContext, investorID, trancheID string) (*investorDomain.Investor, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	var out *investorDomain.Investor
	err := u.uow.WithinInvestorTx(ctx, rc.OrganizationID, investorID, func(r uow.Repos, rnd *roundDomain.Round, inv *investorDomain.Investor) error {
		t := investorDomain.FindTranche(inv, trancheID)
		if t == nil {
			return investorDomain.ErrTrancheNotFound
		}
		reversed := t.ReceivedAmount
		if err := r.Investors.DeleteTranche(ctx, inv, t.TrancheID); err != nil {
			return err
		}
		investorDomain.RecalcDerived(inv, rnd)
		if err := r.Investors.Save(ctx, inv); err != nil {
			return err
		}
		if err := u.syncer.SettleInvestorFunding(ctx, r, inv, rnd, reversed.Neg()); err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Convert flips a funded SAFE/note into equity on the cap table.
func (u *Usecase) Convert(ctx context.Context, rc tenant.RequestContext, investorID string, in captableUC.ConversionInput) (*captableUC.ConversionResult, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	var out *captableUC.ConversionResult
	err := u.uow.WithinInvestorTx(ctx, rc.OrganizationID, investorID, func(r uow.Repos, rnd *roundDomain.Round, inv *investorDomain.Investor) error {
		res, err := u.syncer.Convert(ctx, r, inv, rnd, in)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
