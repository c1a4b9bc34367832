package captable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	captableDomain "horizon-backend/internal/domain/captable"
	investorDomain "horizon-backend/internal/domain/investor"
	roundDomain "horizon-backend/internal/domain/round"
	"horizon-backend/internal/domain/uow"
	"horizon-backend/pkg/id"
)

var hundred = decimal.NewFromInt(100)

// Syncer keeps cap table entries consistent with investor ground truth. The
// per-investor methods take the caller's transactional repos so a failed
// upsert aborts the surrounding payment.
type Syncer struct{}

func NewSyncer() *Syncer { return &Syncer{} }

func securityTypeFor(v investorDomain.Vehicle) captableDomain.SecurityType {
	switch v {
	case investorDomain.VehicleSAFE:
		return captableDomain.SecuritySAFE
	case investorDomain.VehicleConvertibleNote:
		return captableDomain.SecurityConvertibleNote
	default:
		return captableDomain.SecurityPreferredStock
	}
}

func latestReceiptDate(inv *investorDomain.Investor) *time.Time {
	var latest *time.Time
	for i := range inv.Tranches {
		t := &inv.Tranches[i]
		if t.ReceivedAmount.IsPositive() && t.DateReceived != nil {
			if latest == nil || t.DateReceived.After(*latest) {
				latest = t.DateReceived
			}
		}
	}
	return latest
}

// UpsertEntryForInvestor mirrors the investor's received totals into its cap
// table entry. Unfunded investors keep no entry; one left over from a
// reversed payment is removed.
func (s *Syncer) UpsertEntryForInvestor(ctx context.Context, r uow.Repos, inv *investorDomain.Investor, rnd *roundDomain.Round) error {
	entry, err := r.CapTable.GetByLinkedInvestor(ctx, inv.Organization, inv.InvestorID, inv.RoundID)
	if err != nil && !errors.Is(err, captableDomain.ErrNotFound) {
		return err
	}

	if !inv.TotalReceivedAmount.IsPositive() {
		if entry != nil {
			return r.CapTable.DeleteByLinkedInvestor(ctx, inv.Organization, inv.InvestorID)
		}
		return nil
	}

	now := time.Now().UTC()
	issue := latestReceiptDate(inv)
	create := entry == nil
	if create {
		entry = &captableDomain.Entry{
			EntryID:          id.NewID32(),
			Organization:     inv.Organization,
			ShareholderType:  captableDomain.HolderInvestor,
			RoundID:          inv.RoundID,
			LinkedInvestorID: inv.InvestorID,
			Status:           captableDomain.StatusActive,
			CreatedBy:        inv.CreatedBy,
		}
	}
	entry.ShareholderName = inv.Name
	entry.SecurityType = securityTypeFor(inv.InvestmentVehicle)
	entry.NumberOfShares = inv.SharesReceived
	entry.InvestmentAmount = inv.TotalReceivedAmount
	entry.SharePrice = rnd.PricePerShare
	entry.CurrentValue = decimal.NewFromInt(inv.SharesReceived).Mul(rnd.PricePerShare)
	entry.IssueDate = issue
	if entry.GrantDate == nil {
		entry.GrantDate = issue
	}
	entry.LastValueUpdate = &now

	if create {
		return r.CapTable.Create(ctx, entry)
	}
	return r.CapTable.Save(ctx, entry)
}

// RecomputeEquityPercentages rebuilds the organization-wide equity split over
// Active/Exercised non-convertible entries. Share prices stay fixed.
func (s *Syncer) RecomputeEquityPercentages(ctx context.Context, r uow.Repos, org string) error {
	entries, err := r.CapTable.ListEquityHolders(ctx, org)
	if err != nil {
		return err
	}
	var totalShares int64
	for i := range entries {
		totalShares += entries[i].NumberOfShares
	}
	if totalShares == 0 {
		return nil
	}
	total := decimal.NewFromInt(totalShares)
	for i := range entries {
		pct := decimal.NewFromInt(entries[i].NumberOfShares).Div(total).Mul(hundred).Round(4)
		if pct.Equal(entries[i].EquityPercentage) {
			continue
		}
		entries[i].EquityPercentage = pct
		if err := r.CapTable.Save(ctx, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

// UpdateCurrentValues reprices equity holdings at the given per-share price.
func (s *Syncer) UpdateCurrentValues(ctx context.Context, r uow.Repos, org string, pricePerShare decimal.Decimal) error {
	entries, err := r.CapTable.ListEquityHolders(ctx, org)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for i := range entries {
		entries[i].CurrentValue = decimal.NewFromInt(entries[i].NumberOfShares).Mul(pricePerShare)
		entries[i].LastValueUpdate = &now
		if err := r.CapTable.Save(ctx, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

// SettleInvestorFunding is the shared tail of every funding mutation: apply
// the received delta to the round, refresh its progress line from ground
// truth, mirror the investor into the cap table and rebalance equity
// percentages. The caller must have saved the investor already; everything
// runs on the caller's transactional repos.
func (s *Syncer) SettleInvestorFunding(ctx context.Context, r uow.Repos, inv *investorDomain.Investor, rnd *roundDomain.Round, delta decimal.Decimal) error {
	rnd.AddFundsDelta(delta)
	stats, err := r.Investors.FundingStats(ctx, inv.Organization, rnd.RoundID)
	if err != nil {
		return err
	}
	rnd.RefreshProgress(stats)
	if err := r.Rounds.Save(ctx, rnd); err != nil {
		return err
	}
	if err := s.UpsertEntryForInvestor(ctx, r, inv, rnd); err != nil {
		return err
	}
	return s.RecomputeEquityPercentages(ctx, r, inv.Organization)
}

// ConversionInput drives a SAFE/convertible-note conversion into equity.
type ConversionInput struct {
	ConversionDate *time.Time
}

// ConversionResult reports the priced conversion.
type ConversionResult struct {
	Entry  *captableDomain.Entry           `json:"entry"`
	Record captableDomain.ConversionRecord `json:"record"`
}

// Convert flips a funded SAFE/note position into preferred stock at
// min(cap-implied price, discounted round price, round price), recording the
// chosen basis as an audit trail on the entry.
func (s *Syncer) Convert(ctx context.Context, r uow.Repos, inv *investorDomain.Investor, rnd *roundDomain.Round, in ConversionInput) (*ConversionResult, error) {
	if inv.InvestmentVehicle != investorDomain.VehicleSAFE && inv.InvestmentVehicle != investorDomain.VehicleConvertibleNote {
		return nil, investorDomain.ErrNotConvertible
	}
	if err := rnd.ValidateReadyForInvestors(); err != nil {
		return nil, err
	}
	entry, err := r.CapTable.GetByLinkedInvestor(ctx, inv.Organization, inv.InvestorID, inv.RoundID)
	if err != nil {
		return nil, err
	}

	record := captableDomain.ConversionRecord{
		AuditID:         uuid.NewString(),
		IsConverted:     true,
		ConversionRound: rnd.RoundID,
		RoundPrice:      rnd.PricePerShare,
		PriceBasis:      "round_price",
	}
	price := rnd.PricePerShare
	if inv.ValuationCap.Valid && inv.ValuationCap.Decimal.IsPositive() && rnd.TotalSharesOutstanding > 0 {
		capPrice := inv.ValuationCap.Decimal.Div(decimal.NewFromInt(rnd.TotalSharesOutstanding)).Round(0)
		record.CapImpliedPrice = capPrice
		if capPrice.IsPositive() && capPrice.LessThan(price) {
			price = capPrice
			record.PriceBasis = "valuation_cap"
		}
	}
	if inv.DiscountPercentage.Valid && inv.DiscountPercentage.Decimal.IsPositive() {
		discounted := rnd.PricePerShare.Mul(hundred.Sub(inv.DiscountPercentage.Decimal)).Div(hundred).Round(0)
		record.DiscountedPrice = discounted
		if discounted.IsPositive() && discounted.LessThan(price) {
			price = discounted
			record.PriceBasis = "discount"
		}
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("%w: conversion price is not positive", roundDomain.ErrCalculation)
	}
	record.ConversionPrice = price

	when := time.Now().UTC()
	if in.ConversionDate != nil {
		when = in.ConversionDate.UTC()
	}
	record.ConversionDate = when

	convertedShares := entry.InvestmentAmount.Div(price).Round(0).IntPart()
	entry.SecurityType = captableDomain.SecurityPreferredStock
	entry.NumberOfShares = convertedShares
	entry.SharePrice = price
	entry.CurrentValue = decimal.NewFromInt(convertedShares).Mul(rnd.PricePerShare)
	if b, err := json.Marshal(record); err == nil {
		entry.ConversionDetails = b
	}
	if err := r.CapTable.Save(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.RecomputeEquityPercentages(ctx, r, inv.Organization); err != nil {
		return nil, err
	}
	return &ConversionResult{Entry: entry, Record: record}, nil
}
