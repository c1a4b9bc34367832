package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"strings"
	"testing"

	investorDomain "horizon-backend/internal/domain/investor"
	roundDomain "horizon-backend/internal/domain/round"
	"horizon-backend/internal/domain/uow"
	"horizon-backend/internal/testutil/captablemock"
	"horizon-backend/internal/testutil/investormock"
	"horizon-backend/internal/testutil/roundmock"
	"horizon-backend/internal/testutil/uowmock"
	capUC "horizon-backend/internal/usecase/captable"
	investorUC "horizon-backend/internal/usecase/investor"
	paymentUC "horizon-backend/internal/usecase/payment"
)

// paymentFixture wires one committed investor with a single open tranche into
// payment and investor usecases backed by the same mocks.
func paymentFixture() (*investorDomain.Investor, *PaymentHandler) {
	rnd := pricedOpenRound()
	inv := &investorDomain.Investor{
		ID:                   9,
		InvestorID:           strings.Repeat("e", 32),
		Organization:         tOrg,
		RoundID:              rnd.RoundID,
		Name:                 "acme ventures",
		InvestmentVehicle:    investorDomain.VehicleEquity,
		TotalCommittedAmount: dec("10000000"),
		Currency:             "INR",
		Status:               investorDomain.StatusCommitted,
		Tranches: []investorDomain.Tranche{
			{
				ID:            1,
				TrancheID:     strings.Repeat("f", 32),
				InvestorRef:   9,
				Organization:  tOrg,
				TrancheNumber: 1,
				AgreedAmount:  dec("5000000"),
				Status:        investorDomain.TranchePending,
			},
		},
	}
	rounds := &roundmock.Repo{
		GetByRoundIDForUpdateFn: func(ctx context.Context, org, roundID string) (*roundDomain.Round, error) {
			return rnd, nil
		},
		SaveFn: func(ctx context.Context, r *roundDomain.Round) error { return nil },
	}
	invs := &investormock.Repo{
		GetByInvestorIDForUpdateFn: func(ctx context.Context, org, investorID string) (*investorDomain.Investor, error) {
			return inv, nil
		},
		SaveFn: func(ctx context.Context, i *investorDomain.Investor) error { return nil },
	}
	repos := uow.Repos{Rounds: rounds, Investors: invs, CapTable: &captablemock.Repo{}}
	tx := uowmock.Passthrough(repos)
	syncer := capUC.NewSyncer()
	h := NewPaymentHandler(
		paymentUC.NewUsecase(tx, syncer),
		investorUC.NewUsecase(tx, repos, syncer),
	)
	return inv, h
}

func TestUpdateTranche_PaymentApplied(t *testing.T) {
	e := newEchoWithValidator()
	inv, h := paymentFixture()

	body := map[string]any{"received_amount": 3000000, "payment_method": "wire"}
	c, rec := newAuthedCtx(e, stdhttp.MethodPut, "/api/horizon/fundraising/investors/x/tranches/y", mustJSON(body))
	c.SetParamNames("investor_id", "tranche_id")
	c.SetParamValues(inv.InvestorID, inv.Tranches[0].TrancheID)

	if err := serve(c, h.UpdateTranche); err != nil {
		t.Fatalf("UpdateTranche error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200 (body=%s)", rec.Code, rec.Body.String())
	}

	var res paymentUC.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if !res.Delta.Equal(dec("3000000")) {
		t.Errorf("Delta = %s, want 3000000", res.Delta)
	}
	if res.Investor == nil || res.Investor.Tranches[0].Status != investorDomain.TranchePartiallyReceived {
		t.Errorf("tranche status not derived: %+v", res.Investor)
	}
	if res.Investor.Tranches[0].PaymentMethod != "wire" {
		t.Errorf("payment method not recorded")
	}
}

func TestUpdateTranche_MetadataOnly(t *testing.T) {
	e := newEchoWithValidator()
	inv, h := paymentFixture()

	body := map[string]any{"notes": "board approval pending"}
	c, rec := newAuthedCtx(e, stdhttp.MethodPut, "/api/horizon/fundraising/investors/x/tranches/y", mustJSON(body))
	c.SetParamNames("investor_id", "tranche_id")
	c.SetParamValues(inv.InvestorID, inv.Tranches[0].TrancheID)

	if err := serve(c, h.UpdateTranche); err != nil {
		t.Fatalf("UpdateTranche error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200 (body=%s)", rec.Code, rec.Body.String())
	}

	var got investorDomain.Investor
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.Tranches[0].Notes != "board approval pending" {
		t.Errorf("notes not updated: %+v", got.Tranches[0])
	}
	if !got.Tranches[0].ReceivedAmount.IsZero() {
		t.Errorf("metadata-only update moved money: %s", got.Tranches[0].ReceivedAmount)
	}
}

func TestUpdateTranche_PaymentExceedsAgreed(t *testing.T) {
	e := newEchoWithValidator()
	inv, h := paymentFixture()

	body := map[string]any{"received_amount": 6000000}
	c, rec := newAuthedCtx(e, stdhttp.MethodPut, "/api/horizon/fundraising/investors/x/tranches/y", mustJSON(body))
	c.SetParamNames("investor_id", "tranche_id")
	c.SetParamValues(inv.InvestorID, inv.Tranches[0].TrancheID)

	if err := serve(c, h.UpdateTranche); err != nil {
		t.Fatalf("UpdateTranche error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body=%s)", rec.Code, rec.Body.String())
	}
	var er ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &er)
	if !strings.Contains(er.Msg, "exceeds agreed") {
		t.Fatalf("msg = %q, want exceeds-agreed error", er.Msg)
	}
}

func TestBulkPayment_Success(t *testing.T) {
	e := newEchoWithValidator()
	inv, h := paymentFixture()

	body := map[string]any{
		"payments": []map[string]any{
			{
				"investor_id":     inv.InvestorID,
				"tranche_id":      inv.Tranches[0].TrancheID,
				"received_amount": 2000000,
			},
		},
	}
	c, rec := newAuthedCtx(e, stdhttp.MethodPost, "/api/horizon/fundraising/bulk-payment", mustJSON(body))

	if err := serve(c, h.BulkPayment); err != nil {
		t.Fatalf("BulkPayment error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200 (body=%s)", rec.Code, rec.Body.String())
	}

	var res paymentUC.BulkResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(res.Successful) != 1 || len(res.Failed) != 0 {
		t.Fatalf("outcomes = %d ok / %d failed, want 1/0: %+v", len(res.Successful), len(res.Failed), res)
	}
}

func TestBulkPayment_EmptyList(t *testing.T) {
	e := newEchoWithValidator()
	_, h := paymentFixture()

	c, rec := newAuthedCtx(e, stdhttp.MethodPost, "/api/horizon/fundraising/bulk-payment", mustJSON(map[string]any{"payments": []map[string]any{}}))

	if err := serve(c, h.BulkPayment); err != nil {
		t.Fatalf("BulkPayment error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
