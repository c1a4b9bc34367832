package round

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculateValuation(t *testing.T) {
	cases := []struct {
		name           string
		target         string
		equityPct      string
		existingShares int64

		wantPost  string
		wantPre   string
		wantTotal int64
		wantNew   int64
		wantPPS   string
		wantErr   error
	}{
		{
			name:   "ten percent for fifty million",
			target: "50000000", equityPct: "10", existingShares: 9000,
			wantPost: "500000000", wantPre: "450000000",
			wantTotal: 10000, wantNew: 1000, wantPPS: "50000",
		},
		{
			name:   "twenty five percent",
			target: "25000000", equityPct: "25", existingShares: 7500,
			wantPost: "100000000", wantPre: "75000000",
			wantTotal: 10000, wantNew: 2500, wantPPS: "10000",
		},
		{
			name:   "fractional equity rounds shares",
			target: "1000000", equityPct: "12.5", existingShares: 8750,
			wantPost: "8000000", wantPre: "7000000",
			wantTotal: 10000, wantNew: 1250, wantPPS: "800",
		},
		{
			name:   "full offer spreads existing shares",
			target: "1000000", equityPct: "100", existingShares: 100,
			wantPost: "1000000", wantPre: "0",
			wantTotal: 1_000_000, wantNew: 999_900, wantPPS: "1",
		},
		{
			name:   "zero target rejected",
			target: "0", equityPct: "10", existingShares: 9000,
			wantErr: ErrValidation,
		},
		{
			name:   "negative target rejected",
			target: "-5", equityPct: "10", existingShares: 9000,
			wantErr: ErrValidation,
		},
		{
			name:   "zero equity rejected",
			target: "1000", equityPct: "0", existingShares: 9000,
			wantErr: ErrValidation,
		},
		{
			name:   "equity above hundred rejected",
			target: "1000", equityPct: "100.01", existingShares: 9000,
			wantErr: ErrValidation,
		},
		{
			name:   "zero existing shares rejected",
			target: "1000", equityPct: "10", existingShares: 0,
			wantErr: ErrValidation,
		},
		{
			name:   "tiny round with huge share base has no positive price",
			target: "1", equityPct: "50", existingShares: 1_000_000,
			wantErr: ErrCalculation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := CalculateValuation(d(tc.target), d(tc.equityPct), tc.existingShares)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if !v.PostMoney.Equal(d(tc.wantPost)) {
				t.Errorf("post-money: want %s, got %s", tc.wantPost, v.PostMoney)
			}
			if !v.PreMoney.Equal(d(tc.wantPre)) {
				t.Errorf("pre-money: want %s, got %s", tc.wantPre, v.PreMoney)
			}
			if v.TotalShares != tc.wantTotal {
				t.Errorf("total shares: want %d, got %d", tc.wantTotal, v.TotalShares)
			}
			if v.NewShares != tc.wantNew {
				t.Errorf("new shares: want %d, got %d", tc.wantNew, v.NewShares)
			}
			if !v.PricePerShare.Equal(d(tc.wantPPS)) {
				t.Errorf("pps: want %s, got %s", tc.wantPPS, v.PricePerShare)
			}
		})
	}
}

func TestApplyValuation(t *testing.T) {
	r := &Round{}
	v, err := CalculateValuation(d("50000000"), d("10"), 9000)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	r.ApplyValuation(v)

	if !r.PostMoneyValuation.Equal(d("500000000")) {
		t.Errorf("post-money not applied: %s", r.PostMoneyValuation)
	}
	if r.TotalSharesOutstanding != 10000 || r.SharesAllocatedThisRound != 1000 {
		t.Errorf("shares not applied: total=%d new=%d", r.TotalSharesOutstanding, r.SharesAllocatedThisRound)
	}
	if err := r.ValidateReadyForInvestors(); err != nil {
		t.Errorf("round should be ready after valuation: %v", err)
	}
}

func TestValidateReadyForInvestors_Unpriced(t *testing.T) {
	r := &Round{}
	if err := r.ValidateReadyForInvestors(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("want ErrNotReady, got %v", err)
	}
}

func TestRefreshProgress(t *testing.T) {
	last := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	r := &Round{
		TargetAmount:       d("50000000"),
		TotalFundsReceived: d("12500000"),
	}
	r.RefreshProgress(FundingStats{SumReceived: d("12500000"), FundedCount: 3, LastInvestment: &last})

	if !r.PercentageComplete.Equal(d("25")) {
		t.Errorf("want 25%% complete, got %s", r.PercentageComplete)
	}
	if r.InvestorCount != 3 {
		t.Errorf("want 3 funded investors, got %d", r.InvestorCount)
	}
	if r.LastInvestmentDate == nil || !r.LastInvestmentDate.Equal(last) {
		t.Errorf("last investment date not carried: %v", r.LastInvestmentDate)
	}
}

func TestRefreshProgress_ClearsDateWhenUnfunded(t *testing.T) {
	last := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	r := &Round{
		TargetAmount:       d("50000000"),
		InvestorCount:      1,
		LastInvestmentDate: &last,
	}
	// the only funded investor was removed; the cached date must go with it
	r.RefreshProgress(FundingStats{})

	if r.LastInvestmentDate != nil {
		t.Errorf("stale last investment date kept: %v", r.LastInvestmentDate)
	}
	if r.InvestorCount != 0 {
		t.Errorf("want 0 funded investors, got %d", r.InvestorCount)
	}
}

func TestRefreshProgress_ZeroTarget(t *testing.T) {
	r := &Round{TotalFundsReceived: d("100")}
	r.RefreshProgress(FundingStats{})
	if !r.PercentageComplete.IsZero() {
		t.Errorf("zero target must leave progress at 0, got %s", r.PercentageComplete)
	}
}

func TestAddFundsDelta_ClampsAtZero(t *testing.T) {
	r := &Round{TotalFundsReceived: d("100")}
	r.AddFundsDelta(d("-40"))
	if !r.TotalFundsReceived.Equal(d("60")) {
		t.Fatalf("want 60, got %s", r.TotalFundsReceived)
	}
	r.AddFundsDelta(d("-500"))
	if !r.TotalFundsReceived.IsZero() {
		t.Fatalf("want clamp to 0, got %s", r.TotalFundsReceived)
	}
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPlanning, StatusOpen},
		{StatusPlanning, StatusCancelled},
		{StatusOpen, StatusClosing},
		{StatusOpen, StatusOnHold},
		{StatusOnHold, StatusOpen},
		{StatusClosing, StatusClosed},
		{StatusClosed, StatusCancelled},
	}
	for _, tr := range allowed {
		if !CanTransition(tr.from, tr.to) {
			t.Errorf("%s -> %s should be allowed", tr.from, tr.to)
		}
	}
	denied := []struct{ from, to Status }{
		{StatusPlanning, StatusClosed},
		{StatusClosed, StatusOpen},
		{StatusCancelled, StatusOpen},
		{StatusOnHold, StatusClosing},
		{StatusOpen, StatusOpen},
	}
	for _, tr := range denied {
		if CanTransition(tr.from, tr.to) {
			t.Errorf("%s -> %s should be denied", tr.from, tr.to)
		}
	}
}

func TestAcceptsGates(t *testing.T) {
	for _, s := range []Status{StatusPlanning, StatusOpen} {
		if !(&Round{Status: s}).AcceptsInvestors() {
			t.Errorf("%s should accept investors", s)
		}
	}
	for _, s := range []Status{StatusClosing, StatusClosed, StatusOnHold, StatusCancelled} {
		if (&Round{Status: s}).AcceptsInvestors() {
			t.Errorf("%s should not accept investors", s)
		}
	}
	for _, s := range []Status{StatusPlanning, StatusOpen, StatusClosing, StatusOnHold} {
		if !(&Round{Status: s}).AcceptsPayments() {
			t.Errorf("%s should accept payments", s)
		}
	}
	for _, s := range []Status{StatusClosed, StatusCancelled} {
		if (&Round{Status: s}).AcceptsPayments() {
			t.Errorf("%s should not accept payments", s)
		}
	}
}
