package dashboard

import (
	"context"

	captableDomain "horizon-backend/internal/domain/captable"
	investorDomain "horizon-backend/internal/domain/investor"
	roundDomain "horizon-backend/internal/domain/round"
	"horizon-backend/internal/domain/tenant"
	"horizon-backend/internal/domain/uow"
)

type Usecase struct{ repos uow.Repos }

func NewUsecase(repos uow.Repos) *Usecase { return &Usecase{repos: repos} }

// Summary is the organization-wide read-only roll-up. One grouped aggregation
// per section, nothing touched.
type Summary struct {
	Rounds    []roundDomain.StatusAggregate    `json:"rounds_by_status"`
	Investors []investorDomain.StatusAggregate `json:"investors_by_status"`
	CapTable  []captableDomain.TypeAggregate   `json:"cap_table_by_holder_type"`
}

func (u *Usecase) Summarize(ctx context.Context, rc tenant.RequestContext) (*Summary, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	rounds, err := u.repos.Rounds.AggregateByStatus(ctx, rc.OrganizationID)
	if err != nil {
		return nil, err
	}
	investors, err := u.repos.Investors.AggregateByStatus(ctx, rc.OrganizationID)
	if err != nil {
		return nil, err
	}
	entries, err := u.repos.CapTable.AggregateByType(ctx, rc.OrganizationID)
	if err != nil {
		return nil, err
	}
	return &Summary{Rounds: rounds, Investors: investors, CapTable: entries}, nil
}
