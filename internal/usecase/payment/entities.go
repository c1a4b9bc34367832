package payment

import (
	"time"

	"github.com/shopspring/decimal"

	investorDomain "horizon-backend/internal/domain/investor"
	roundDomain "horizon-backend/internal/domain/round"
)

// Details carries optional payment metadata recorded on the tranche.
type Details struct {
	PaymentMethod  string
	TransactionRef string
	Notes          string
	DateReceived   *time.Time
}

// Input is one payment instruction. AmountReceived is the absolute new
// received amount of the tranche, not an increment; retries with the same
// amount are no-ops.
type Input struct {
	InvestorID     string
	TrancheID      string
	AmountReceived decimal.Decimal
	Details        Details
}

// Result reports the applied payment.
type Result struct {
	Investor *investorDomain.Investor `json:"investor"`
	Round    *roundDomain.Round       `json:"round"`
	Delta    decimal.Decimal          `json:"delta"`
}

// BulkItemOutcome is the per-item slot of a bulk payment response.
type BulkItemOutcome struct {
	InvestorID string `json:"investor_id"`
	TrancheID  string `json:"tranche_id"`
	Error      string `json:"error,omitempty"`
}

// BulkResult collects per-item outcomes; the envelope itself never fails on
// individual items.
type BulkResult struct {
	Successful []BulkItemOutcome `json:"successful"`
	Failed     []BulkItemOutcome `json:"failed"`
}
