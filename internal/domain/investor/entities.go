package investor

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("investor not found in organization")
	ErrDuplicateEmail    = errors.New("investor email already exists in organization")
	ErrTrancheNotFound   = errors.New("tranche not found")
	ErrTrancheValidation = errors.New("invalid tranche input")
	ErrAmountInvalid     = errors.New("payment amount must be positive")
	ErrNotConvertible    = errors.New("investor instrument is not convertible")
	ErrValidation        = errors.New("invalid investor input")
)

type Status string

const (
	StatusLead       Status = "lead"
	StatusContacted  Status = "contacted"
	StatusInterested Status = "interested"
	StatusCommitted  Status = "committed"
	StatusInvested   Status = "invested"
	StatusDeclined   Status = "declined"
	StatusPassed     Status = "passed"
	StatusOnHold     Status = "on_hold"
)

// commitment states auto-promote to invested once money lands
var commitmentStates = map[Status]bool{
	StatusLead:       true,
	StatusContacted:  true,
	StatusInterested: true,
	StatusCommitted:  true,
	StatusOnHold:     true,
}

type Vehicle string

const (
	VehicleSAFE            Vehicle = "safe"
	VehicleConvertibleNote Vehicle = "convertible_note"
	VehicleEquity          Vehicle = "equity"
	VehicleOther           Vehicle = "other"
)

type TrancheStatus string

const (
	TranchePending           TrancheStatus = "pending"
	TranchePartiallyReceived TrancheStatus = "partially_received"
	TrancheFullyReceived     TrancheStatus = "fully_received"
	TrancheCancelled         TrancheStatus = "cancelled"
)

// Investor is one party's commitment to one round. The money/share totals are
// caches derived from the owned tranches; RecalcDerived is the single place
// they are rebuilt.
type Investor struct {
	ID           uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	InvestorID   string `gorm:"column:investor_id;type:char(32);not null;uniqueIndex:ux_investors_investor_id" json:"investor_id"`
	Organization string `gorm:"column:organization;type:char(32);not null;index:idx_investors_org;uniqueIndex:ux_investors_org_email" json:"organization"`
	RoundID      string `gorm:"column:round_id;type:char(32);not null;index:idx_investors_org_round" json:"round_id"`

	Name          string `gorm:"column:name;size:160;not null" json:"name"`
	ContactPerson string `gorm:"column:contact_person;size:160" json:"contact_person"`
	Email         string `gorm:"column:email;size:254" json:"email"`
	// Set only when Email is non-empty; NULLs are exempt from the unique index.
	EmailKey     *string `gorm:"column:email_key;size:254;uniqueIndex:ux_investors_org_email" json:"-"`
	EntityName   string  `gorm:"column:entity_name;size:160" json:"entity_name"`
	InvestorType string  `gorm:"column:investor_type;size:40" json:"investor_type"`

	InvestmentVehicle  Vehicle             `gorm:"column:investment_vehicle;type:varchar(20);not null;default:'equity'" json:"investment_vehicle"`
	ValuationCap       decimal.NullDecimal `gorm:"column:valuation_cap;type:decimal(20,4)" json:"valuation_cap,omitempty"`
	DiscountPercentage decimal.NullDecimal `gorm:"column:discount_percentage;type:decimal(7,4)" json:"discount_percentage,omitempty"`
	InterestRate       decimal.NullDecimal `gorm:"column:interest_rate;type:decimal(7,4)" json:"interest_rate,omitempty"`
	MaturityDate       *time.Time          `gorm:"column:maturity_date" json:"maturity_date,omitempty"`

	TotalCommittedAmount decimal.Decimal `gorm:"column:total_committed_amount;type:decimal(20,4);not null" json:"total_committed_amount"`
	Currency             string          `gorm:"column:currency;type:char(3);not null;default:'INR'" json:"currency"`
	Status               Status          `gorm:"column:status;type:varchar(16);not null;default:'lead';index:idx_investors_org_status" json:"status"`

	Tranches []Tranche `gorm:"foreignKey:InvestorRef;references:ID" json:"tranches"`

	// Derived from tranches at the round's fixed price.
	TotalReceivedAmount       decimal.Decimal `gorm:"column:total_received_amount;type:decimal(20,4);not null;default:0" json:"total_received_amount"`
	SharesAllocated           int64           `gorm:"column:shares_allocated;not null;default:0" json:"shares_allocated"`
	SharesReceived            int64           `gorm:"column:shares_received;not null;default:0" json:"shares_received"`
	EquityPercentageAllocated decimal.Decimal `gorm:"column:equity_percentage_allocated;type:decimal(9,4);not null;default:0" json:"equity_percentage_allocated"`
	AverageSharePrice         decimal.Decimal `gorm:"column:average_share_price;type:decimal(20,4);not null;default:0" json:"average_share_price"`
	InvestmentProgress        decimal.Decimal `gorm:"column:investment_progress;type:decimal(7,2);not null;default:0" json:"investment_progress"`

	RelationshipHistory datatypes.JSON `gorm:"column:relationship_history;type:json" json:"relationship_history,omitempty"`

	CreatedBy string         `gorm:"column:created_by;type:char(32)" json:"created_by"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Investor) TableName() string { return "investors" }

// Tranche is one scheduled installment of a commitment, owned exclusively by
// its investor. External identity is (investor, tranche number); TrancheID is
// the stable opaque id used for mutation targeting.
type Tranche struct {
	ID           uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	TrancheID    string `gorm:"column:tranche_id;type:char(32);not null;uniqueIndex:ux_tranches_tranche_id" json:"tranche_id"`
	InvestorRef  uint64 `gorm:"column:investor_ref;not null;index:idx_tranches_investor" json:"-"`
	Organization string `gorm:"column:organization;type:char(32);not null;index:idx_tranches_org" json:"-"`

	TrancheNumber    int             `gorm:"column:tranche_number;not null" json:"tranche_number"`
	AgreedAmount     decimal.Decimal `gorm:"column:agreed_amount;type:decimal(20,4);not null" json:"agreed_amount"`
	ReceivedAmount   decimal.Decimal `gorm:"column:received_amount;type:decimal(20,4);not null;default:0" json:"received_amount"`
	DateAgreed       *time.Time      `gorm:"column:date_agreed" json:"date_agreed,omitempty"`
	DateReceived     *time.Time      `gorm:"column:date_received" json:"date_received,omitempty"`
	TriggerCondition string          `gorm:"column:trigger_condition;type:text" json:"trigger_condition,omitempty"`
	Status           TrancheStatus   `gorm:"column:status;type:varchar(20);not null;default:'pending'" json:"status"`

	SharesAllocated  int64           `gorm:"column:shares_allocated;not null;default:0" json:"shares_allocated"`
	SharePrice       decimal.Decimal `gorm:"column:share_price;type:decimal(20,4);not null;default:0" json:"share_price"`
	EquityPercentage decimal.Decimal `gorm:"column:equity_percentage;type:decimal(9,4);not null;default:0" json:"equity_percentage"`

	PaymentMethod        string `gorm:"column:payment_method;size:40" json:"payment_method,omitempty"`
	TransactionReference string `gorm:"column:transaction_reference;size:120" json:"transaction_reference,omitempty"`
	Notes                string `gorm:"column:notes;type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Tranche) TableName() string { return "tranches" }
