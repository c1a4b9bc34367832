package investor

import (
	"time"

	"github.com/shopspring/decimal"

	investorDomain "horizon-backend/internal/domain/investor"
)

type TrancheInput struct {
	AgreedAmount     decimal.Decimal
	ReceivedAmount   decimal.Decimal
	DateAgreed       *time.Time
	DateReceived     *time.Time
	TriggerCondition string
	PaymentMethod    string
	TransactionRef   string
	Notes            string
}

type AddInput struct {
	RoundID              string
	Name                 string
	ContactPerson        string
	Email                string
	EntityName           string
	InvestorType         string
	InvestmentVehicle    investorDomain.Vehicle
	ValuationCap         *decimal.Decimal
	DiscountPercentage   *decimal.Decimal
	InterestRate         *decimal.Decimal
	MaturityDate         *time.Time
	TotalCommittedAmount decimal.Decimal
	Currency             string
	Status               investorDomain.Status
	Tranches             []TrancheInput
}

type UpdateInput struct {
	Name                 *string
	ContactPerson        *string
	Email                *string
	EntityName           *string
	InvestorType         *string
	TotalCommittedAmount *decimal.Decimal
	Status               *investorDomain.Status
	StatusNote           string
	// Non-nil replaces the tranche set wholesale.
	Tranches []TrancheInput
}

// TrancheUpdateInput patches tranche metadata. Received-amount changes go
// through the payment processor, not here.
type TrancheUpdateInput struct {
	AgreedAmount     *decimal.Decimal
	DateAgreed       *time.Time
	TriggerCondition *string
	PaymentMethod    *string
	TransactionRef   *string
	Notes            *string
	Cancelled        *bool
}
