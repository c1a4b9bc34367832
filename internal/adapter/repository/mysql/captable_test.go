package mysql

import (
	"context"
	"errors"
	"testing"

	captableDomain "horizon-backend/internal/domain/captable"
	"horizon-backend/pkg/id"
)

func makeEntry(org, roundID, investorID string) *captableDomain.Entry {
	return &captableDomain.Entry{
		EntryID:          id.NewID32(),
		Organization:     org,
		ShareholderName:  "acme ventures",
		ShareholderType:  captableDomain.HolderInvestor,
		SecurityType:     captableDomain.SecurityPreferredStock,
		NumberOfShares:   100,
		InvestmentAmount: dec("5000000"),
		SharePrice:       dec("50000"),
		CurrentValue:     dec("5000000"),
		EquityPercentage: dec("1"),
		RoundID:          roundID,
		LinkedInvestorID: investorID,
		Status:           captableDomain.StatusActive,
	}
}

func TestCapTableCreateAndGetByLinkedInvestor(t *testing.T) {
	db := openTestDB(t)
	repo := NewCapTableRepository(db)
	ctx := context.Background()

	org := id.NewID32()
	roundID := id.NewID32()
	investorID := id.NewID32()

	e := makeEntry(org, roundID, investorID)
	if err := repo.Create(ctx, e); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByLinkedInvestor(ctx, org, investorID, roundID)
	if err != nil {
		t.Fatalf("GetByLinkedInvestor: %v", err)
	}
	if got.NumberOfShares != 100 || !got.InvestmentAmount.Equal(dec("5000000")) {
		t.Errorf("unexpected entry: %+v", got)
	}

	// wrong org, wrong round: both miss
	if _, err := repo.GetByLinkedInvestor(ctx, id.NewID32(), investorID, roundID); !errors.Is(err, captableDomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound across organizations, got %v", err)
	}
	if _, err := repo.GetByLinkedInvestor(ctx, org, investorID, id.NewID32()); !errors.Is(err, captableDomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other round, got %v", err)
	}
}

func TestCapTableSaveUpdates(t *testing.T) {
	db := openTestDB(t)
	repo := NewCapTableRepository(db)
	ctx := context.Background()

	org := id.NewID32()
	roundID := id.NewID32()
	investorID := id.NewID32()
	e := makeEntry(org, roundID, investorID)
	if err := repo.Create(ctx, e); err != nil {
		t.Fatalf("Create: %v", err)
	}

	e.NumberOfShares = 160
	e.InvestmentAmount = dec("8000000")
	e.CurrentValue = dec("8000000")
	if err := repo.Save(ctx, e); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByLinkedInvestor(ctx, org, investorID, roundID)
	if err != nil {
		t.Fatalf("GetByLinkedInvestor: %v", err)
	}
	if got.NumberOfShares != 160 || !got.InvestmentAmount.Equal(dec("8000000")) {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestListEquityHolders(t *testing.T) {
	db := openTestDB(t)
	repo := NewCapTableRepository(db)
	ctx := context.Background()

	org := id.NewID32()
	roundID := id.NewID32()

	active := makeEntry(org, roundID, id.NewID32())

	safe := makeEntry(org, roundID, id.NewID32())
	safe.SecurityType = captableDomain.SecuritySAFE

	note := makeEntry(org, roundID, id.NewID32())
	note.SecurityType = captableDomain.SecurityConvertibleNote

	converted := makeEntry(org, roundID, id.NewID32())
	converted.Status = captableDomain.StatusConverted

	exercised := makeEntry(org, roundID, id.NewID32())
	exercised.ShareholderType = captableDomain.HolderEmployee
	exercised.SecurityType = captableDomain.SecurityOption
	exercised.Status = captableDomain.StatusExercised

	otherOrg := makeEntry(id.NewID32(), roundID, id.NewID32())

	for _, e := range []*captableDomain.Entry{active, safe, note, converted, exercised, otherOrg} {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	holders, err := repo.ListEquityHolders(ctx, org)
	if err != nil {
		t.Fatalf("ListEquityHolders: %v", err)
	}
	want := map[string]bool{active.EntryID: true, exercised.EntryID: true}
	if len(holders) != len(want) {
		t.Fatalf("got %d equity holders, want %d: %+v", len(holders), len(want), holders)
	}
	for _, h := range holders {
		if !want[h.EntryID] {
			t.Errorf("unexpected equity holder %s (%s/%s)", h.EntryID, h.SecurityType, h.Status)
		}
	}
}

func TestSumByRound(t *testing.T) {
	db := openTestDB(t)
	repo := NewCapTableRepository(db)
	ctx := context.Background()

	org := id.NewID32()
	roundID := id.NewID32()

	a := makeEntry(org, roundID, id.NewID32())
	b := makeEntry(org, roundID, id.NewID32())
	b.NumberOfShares = 60
	b.InvestmentAmount = dec("3000000")
	other := makeEntry(org, id.NewID32(), id.NewID32())
	for _, e := range []*captableDomain.Entry{a, b, other} {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	sums, err := repo.SumByRound(ctx, org, roundID)
	if err != nil {
		t.Fatalf("SumByRound: %v", err)
	}
	if sums.Shares != 160 {
		t.Errorf("Shares = %d, want 160", sums.Shares)
	}
	if !sums.InvestmentSum.Equal(dec("8000000")) {
		t.Errorf("InvestmentSum = %s, want 8000000", sums.InvestmentSum)
	}
}

func TestDeleteByLinkedInvestor(t *testing.T) {
	db := openTestDB(t)
	repo := NewCapTableRepository(db)
	ctx := context.Background()

	org := id.NewID32()
	roundID := id.NewID32()
	investorID := id.NewID32()
	if err := repo.Create(ctx, makeEntry(org, roundID, investorID)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	keeper := makeEntry(org, roundID, id.NewID32())
	if err := repo.Create(ctx, keeper); err != nil {
		t.Fatalf("Create keeper: %v", err)
	}

	if err := repo.DeleteByLinkedInvestor(ctx, org, investorID); err != nil {
		t.Fatalf("DeleteByLinkedInvestor: %v", err)
	}
	if _, err := repo.GetByLinkedInvestor(ctx, org, investorID, roundID); !errors.Is(err, captableDomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := repo.GetByLinkedInvestor(ctx, org, keeper.LinkedInvestorID, roundID); err != nil {
		t.Fatalf("keeper entry was deleted: %v", err)
	}
}

func TestDeleteByRound(t *testing.T) {
	db := openTestDB(t)
	repo := NewCapTableRepository(db)
	ctx := context.Background()

	org := id.NewID32()
	roundID := id.NewID32()
	if err := repo.Create(ctx, makeEntry(org, roundID, id.NewID32())); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, makeEntry(org, roundID, id.NewID32())); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.DeleteByRound(ctx, org, roundID); err != nil {
		t.Fatalf("DeleteByRound: %v", err)
	}
	left, err := repo.ListByRound(ctx, org, roundID)
	if err != nil {
		t.Fatalf("ListByRound: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("%d entries left after DeleteByRound", len(left))
	}
}

func TestCapTableAggregateByType(t *testing.T) {
	db := openTestDB(t)
	repo := NewCapTableRepository(db)
	ctx := context.Background()

	org := id.NewID32()
	roundID := id.NewID32()

	founder := makeEntry(org, "", "")
	founder.ShareholderName = "founder one"
	founder.ShareholderType = captableDomain.HolderFounder
	founder.SecurityType = captableDomain.SecurityCommonStock
	founder.NumberOfShares = 9000
	founder.InvestmentAmount = dec("0")
	founder.CurrentValue = dec("450000000")
	founder.EquityPercentage = dec("90")

	invA := makeEntry(org, roundID, id.NewID32())
	invB := makeEntry(org, roundID, id.NewID32())
	invB.NumberOfShares = 50
	invB.InvestmentAmount = dec("2500000")
	invB.CurrentValue = dec("2500000")
	invB.EquityPercentage = dec("0.5")

	for _, e := range []*captableDomain.Entry{founder, invA, invB} {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	aggs, err := repo.AggregateByType(ctx, org)
	if err != nil {
		t.Fatalf("AggregateByType: %v", err)
	}
	byType := map[captableDomain.ShareholderType]captableDomain.TypeAggregate{}
	for _, agg := range aggs {
		byType[agg.ShareholderType] = agg
	}
	inv, ok := byType[captableDomain.HolderInvestor]
	if !ok || inv.Count != 2 || inv.Shares != 150 {
		t.Fatalf("investor bucket = %+v", inv)
	}
	if !inv.InvestmentSum.Equal(dec("7500000")) || !inv.EquitySum.Equal(dec("1.5")) {
		t.Errorf("investor sums = investment %s equity %s", inv.InvestmentSum, inv.EquitySum)
	}
	f, ok := byType[captableDomain.HolderFounder]
	if !ok || f.Count != 1 || f.Shares != 9000 {
		t.Fatalf("founder bucket = %+v", f)
	}
}
