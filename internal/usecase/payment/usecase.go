package payment

import (
	"context"
	"fmt"
	"time"

	investorDomain "horizon-backend/internal/domain/investor"
	roundDomain "horizon-backend/internal/domain/round"
	"horizon-backend/internal/domain/tenant"
	"horizon-backend/internal/domain/uow"
	captableUC "horizon-backend/internal/usecase/captable"
)

type Usecase struct {
	uow    uow.UnitOfWork
	syncer *captableUC.Syncer
}

func NewUsecase(tx uow.UnitOfWork, syncer *captableUC.Syncer) *Usecase {
	return &Usecase{uow: tx, syncer: syncer}
}

// ProcessTranchePayment applies one payment atomically: the tranche's
// received amount is overwritten with the absolute value, the delta flows to
// the investor's totals and the round's funding progress, and the cap table
// entry is upserted. A failure anywhere aborts the whole payment.
func (u *Usecase) ProcessTranchePayment(ctx context.Context, rc tenant.RequestContext, in Input) (*Result, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	if !in.AmountReceived.IsPositive() {
		return nil, investorDomain.ErrAmountInvalid
	}

	var out *Result
	err := u.uow.WithinInvestorTx(ctx, rc.OrganizationID, in.InvestorID, func(r uow.Repos, rnd *roundDomain.Round, inv *investorDomain.Investor) error {
		if !rnd.PricePerShare.IsPositive() {
			return roundDomain.ErrPriceUnset
		}
		if !rnd.AcceptsPayments() {
			return roundDomain.ErrClosedForPayments
		}

		t := investorDomain.FindTranche(inv, in.TrancheID)
		if t == nil {
			return investorDomain.ErrTrancheNotFound
		}
		if t.Status == investorDomain.TrancheCancelled {
			return fmt.Errorf("%w: tranche is cancelled", investorDomain.ErrTrancheValidation)
		}
		if in.AmountReceived.GreaterThan(t.AgreedAmount) {
			return fmt.Errorf("%w: received amount exceeds agreed amount", investorDomain.ErrTrancheValidation)
		}

		previous := t.ReceivedAmount
		t.ReceivedAmount = in.AmountReceived
		if t.DateReceived == nil {
			now := time.Now().UTC()
			if in.Details.DateReceived != nil {
				now = in.Details.DateReceived.UTC()
			}
			t.DateReceived = &now
		}
		if in.Details.PaymentMethod != "" {
			t.PaymentMethod = in.Details.PaymentMethod
		}
		if in.Details.TransactionRef != "" {
			t.TransactionReference = in.Details.TransactionRef
		}
		if in.Details.Notes != "" {
			t.Notes = in.Details.Notes
		}

		investorDomain.RecalcDerived(inv, rnd)
		if prev, promoted := investorDomain.PromoteIfInvested(inv); promoted {
			investorDomain.AppendHistory(inv, prev, inv.Status, "funds received", rc.UserID)
		}
		if err := r.Investors.Save(ctx, inv); err != nil {
			return err
		}

		delta := in.AmountReceived.Sub(previous)
		if err := u.syncer.SettleInvestorFunding(ctx, r, inv, rnd, delta); err != nil {
			return err
		}
		out = &Result{Investor: inv, Round: rnd, Delta: delta}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ProcessBulk runs payments sequentially, each in its own transaction, and
// collects per-item outcomes. It stops early only on context cancellation,
// and never mid-transaction.
func (u *Usecase) ProcessBulk(ctx context.Context, rc tenant.RequestContext, payments []Input) (*BulkResult, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	res := &BulkResult{
		Successful: []BulkItemOutcome{},
		Failed:     []BulkItemOutcome{},
	}
	for _, p := range payments {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		outcome := BulkItemOutcome{InvestorID: p.InvestorID, TrancheID: p.TrancheID}
		if _, err := u.ProcessTranchePayment(ctx, rc, p); err != nil {
			outcome.Error = err.Error()
			res.Failed = append(res.Failed, outcome)
			continue
		}
		res.Successful = append(res.Successful, outcome)
	}
	return res, nil
}
