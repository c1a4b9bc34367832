package round

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("round not found in organization")
	ErrDuplicateName     = errors.New("round name already exists in organization")
	ErrNotReady          = errors.New("round is not ready for investors")
	ErrInvalidTransition = errors.New("invalid round status transition")
	ErrPriceUnset        = errors.New("round price per share is not set")
	ErrClosedForPayments = errors.New("round does not accept payments in its current status")
	ErrFunded            = errors.New("round has funded investors")
	ErrCalculation       = errors.New("round valuation calculation failed")
	ErrValidation        = errors.New("invalid round input")
)

type Status string

const (
	StatusPlanning  Status = "planning"
	StatusOpen      Status = "open"
	StatusClosing   Status = "closing"
	StatusClosed    Status = "closed"
	StatusOnHold    Status = "on_hold"
	StatusCancelled Status = "cancelled"
)

// Round is a fundraising event with a fixed-price equity allocation model.
// Valuation fields are derived once at initialization and never change for
// the life of the round; only funding progress moves.
type Round struct {
	ID           uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	RoundID      string `gorm:"column:round_id;type:char(32);not null;uniqueIndex:ux_rounds_round_id" json:"round_id"`
	Organization string `gorm:"column:organization;type:char(32);not null;index:idx_rounds_org;uniqueIndex:ux_rounds_org_name" json:"organization"`

	Name string `gorm:"column:name;size:160;not null" json:"name"`
	// Lowercased copy of Name backing the case-insensitive per-org uniqueness.
	NameKey  string `gorm:"column:name_key;size:160;not null;uniqueIndex:ux_rounds_org_name" json:"-"`
	Currency string `gorm:"column:currency;type:char(3);not null;default:'INR'" json:"currency"`

	TargetAmount            decimal.Decimal `gorm:"column:target_amount;type:decimal(20,4);not null" json:"target_amount"`
	EquityPercentageOffered decimal.Decimal `gorm:"column:equity_percentage_offered;type:decimal(7,4);not null" json:"equity_percentage_offered"`
	ExistingSharesPreRound  int64           `gorm:"column:existing_shares_pre_round;not null" json:"existing_shares_pre_round"`

	// Derived at initialization, immutable afterwards.
	PostMoneyValuation       decimal.Decimal `gorm:"column:post_money_valuation;type:decimal(20,4)" json:"post_money_valuation"`
	PreMoneyValuation        decimal.Decimal `gorm:"column:pre_money_valuation;type:decimal(20,4)" json:"pre_money_valuation"`
	TotalSharesOutstanding   int64           `gorm:"column:total_shares_outstanding" json:"total_shares_outstanding"`
	SharesAllocatedThisRound int64           `gorm:"column:shares_allocated_this_round" json:"shares_allocated_this_round"`
	PricePerShare            decimal.Decimal `gorm:"column:price_per_share;type:decimal(20,4)" json:"price_per_share"`

	// Funding progress; the only mutable money on the round.
	TotalFundsReceived decimal.Decimal `gorm:"column:total_funds_received;type:decimal(20,4);not null;default:0" json:"total_funds_received"`
	PercentageComplete decimal.Decimal `gorm:"column:percentage_complete;type:decimal(7,2);not null;default:0" json:"percentage_complete"`
	InvestorCount      int64           `gorm:"column:investor_count;not null;default:0" json:"investor_count"`
	LastInvestmentDate *time.Time      `gorm:"column:last_investment_date" json:"last_investment_date,omitempty"`

	Status          Status     `gorm:"column:status;type:varchar(16);not null;default:'planning';index:idx_rounds_org_status" json:"status"`
	RoundType       string     `gorm:"column:round_type;size:40" json:"round_type"`
	OpenDate        *time.Time `gorm:"column:open_date" json:"open_date,omitempty"`
	TargetCloseDate *time.Time `gorm:"column:target_close_date" json:"target_close_date,omitempty"`
	ActualCloseDate *time.Time `gorm:"column:actual_close_date" json:"actual_close_date,omitempty"`

	CreatedBy string         `gorm:"column:created_by;type:char(32)" json:"created_by"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Round) TableName() string { return "rounds" }

var transitions = map[Status][]Status{
	StatusPlanning: {StatusOpen, StatusCancelled},
	StatusOpen:     {StatusClosing, StatusOnHold, StatusCancelled},
	StatusClosing:  {StatusClosed, StatusCancelled},
	StatusOnHold:   {StatusOpen, StatusCancelled},
	StatusClosed:   {StatusCancelled},
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// AcceptsInvestors reports whether new investors may be attached.
func (r *Round) AcceptsInvestors() bool {
	return r.Status == StatusPlanning || r.Status == StatusOpen
}

// AcceptsPayments reports whether tranche payments may still be applied.
func (r *Round) AcceptsPayments() bool {
	return r.Status != StatusCancelled && r.Status != StatusClosed
}

// ValidateReadyForInvestors checks the valuation has been initialized.
func (r *Round) ValidateReadyForInvestors() error {
	if !r.PricePerShare.IsPositive() || r.TotalSharesOutstanding <= 0 {
		return ErrNotReady
	}
	return nil
}
