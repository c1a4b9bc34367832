package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	captableDomain "horizon-backend/internal/domain/captable"
	investorDomain "horizon-backend/internal/domain/investor"
	roundDomain "horizon-backend/internal/domain/round"
	"horizon-backend/internal/domain/uow"
	"horizon-backend/internal/testutil/captablemock"
	"horizon-backend/internal/testutil/investormock"
	"horizon-backend/internal/testutil/roundmock"
	dashboardUC "horizon-backend/internal/usecase/dashboard"
)

func TestDashboard_Success(t *testing.T) {
	e := newEchoWithValidator()

	repos := uow.Repos{
		Rounds: &roundmock.Repo{
			AggregateByStatusFn: func(ctx context.Context, org string) ([]roundDomain.StatusAggregate, error) {
				if org != tOrg {
					t.Fatalf("aggregate queried for org %q", org)
				}
				return []roundDomain.StatusAggregate{{Status: roundDomain.StatusOpen, Count: 2, TargetSum: dec("100000000"), ReceivedSum: dec("7000000")}}, nil
			},
		},
		Investors: &investormock.Repo{
			AggregateByStatusFn: func(ctx context.Context, org string) ([]investorDomain.StatusAggregate, error) {
				return []investorDomain.StatusAggregate{{Status: investorDomain.StatusInvested, Count: 3, ReceivedSum: dec("7000000")}}, nil
			},
		},
		CapTable: &captablemock.Repo{
			AggregateByTypeFn: func(ctx context.Context, org string) ([]captableDomain.TypeAggregate, error) {
				return []captableDomain.TypeAggregate{{ShareholderType: captableDomain.HolderInvestor, Count: 3, Shares: 140}}, nil
			},
		},
	}
	h := NewDashboardHandler(dashboardUC.NewUsecase(repos))

	c, rec := newAuthedCtx(e, stdhttp.MethodGet, "/api/horizon/fundraising/dashboard", nil)

	if err := serve(c, h.Dashboard); err != nil {
		t.Fatalf("Dashboard error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200 (body=%s)", rec.Code, rec.Body.String())
	}

	var s dashboardUC.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &s); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(s.Rounds) != 1 || s.Rounds[0].Count != 2 {
		t.Errorf("rounds section = %+v", s.Rounds)
	}
	if len(s.Investors) != 1 || s.Investors[0].Status != investorDomain.StatusInvested {
		t.Errorf("investors section = %+v", s.Investors)
	}
	if len(s.CapTable) != 1 || s.CapTable[0].Shares != 140 {
		t.Errorf("cap table section = %+v", s.CapTable)
	}
}

func TestDashboard_RequiresTenancy(t *testing.T) {
	e := newEchoWithValidator()
	h := NewDashboardHandler(dashboardUC.NewUsecase(uow.Repos{}))

	req := httptest.NewRequest(stdhttp.MethodGet, "/api/horizon/fundraising/dashboard", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := serve(c, h.Dashboard); err != nil {
		t.Fatalf("Dashboard error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
