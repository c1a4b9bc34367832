package captable

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("cap table entry not found in organization")
)

type ShareholderType string

const (
	HolderFounder  ShareholderType = "founder"
	HolderInvestor ShareholderType = "investor"
	HolderESOPPool ShareholderType = "esop_pool"
	HolderEmployee ShareholderType = "employee"
	HolderAdvisor  ShareholderType = "advisor"
	HolderOther    ShareholderType = "other"
)

type SecurityType string

const (
	SecurityCommonStock     SecurityType = "common_stock"
	SecurityPreferredStock  SecurityType = "preferred_stock"
	SecuritySAFE            SecurityType = "safe"
	SecurityConvertibleNote SecurityType = "convertible_note"
	SecurityOption          SecurityType = "option"
)

type EntryStatus string

const (
	StatusActive      EntryStatus = "active"
	StatusExercised   EntryStatus = "exercised"
	StatusExpired     EntryStatus = "expired"
	StatusTransferred EntryStatus = "transferred"
	StatusConverted   EntryStatus = "converted"
)

// Entry is one shareholder position. Investor-backed entries are written
// exclusively by the syncer and mirror the investor's received totals.
type Entry struct {
	ID           uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	EntryID      string `gorm:"column:entry_id;type:char(32);not null;uniqueIndex:ux_captable_entry_id" json:"entry_id"`
	Organization string `gorm:"column:organization;type:char(32);not null;index:idx_captable_org" json:"organization"`

	ShareholderName string          `gorm:"column:shareholder_name;size:160;not null" json:"shareholder_name"`
	ShareholderType ShareholderType `gorm:"column:shareholder_type;type:varchar(20);not null" json:"shareholder_type"`
	SecurityType    SecurityType    `gorm:"column:security_type;type:varchar(20);not null" json:"security_type"`

	NumberOfShares   int64           `gorm:"column:number_of_shares;not null;default:0" json:"number_of_shares"`
	InvestmentAmount decimal.Decimal `gorm:"column:investment_amount;type:decimal(20,4);not null;default:0" json:"investment_amount"`
	SharePrice       decimal.Decimal `gorm:"column:share_price;type:decimal(20,4);not null;default:0" json:"share_price"`
	CurrentValue     decimal.Decimal `gorm:"column:current_value;type:decimal(20,4);not null;default:0" json:"current_value"`
	EquityPercentage decimal.Decimal `gorm:"column:equity_percentage;type:decimal(9,4);not null;default:0" json:"equity_percentage"`

	RoundID          string `gorm:"column:round_id;type:char(32);index:idx_captable_org_round" json:"round_id,omitempty"`
	LinkedInvestorID string `gorm:"column:linked_investor_id;type:char(32);index:idx_captable_org_investor" json:"linked_investor_id,omitempty"`

	Status            EntryStatus    `gorm:"column:status;type:varchar(16);not null;default:'active';index:idx_captable_org_status" json:"status"`
	ConversionDetails datatypes.JSON `gorm:"column:conversion_details;type:json" json:"conversion_details,omitempty"`

	GrantDate       *time.Time `gorm:"column:grant_date" json:"grant_date,omitempty"`
	IssueDate       *time.Time `gorm:"column:issue_date" json:"issue_date,omitempty"`
	LastValueUpdate *time.Time `gorm:"column:last_value_update" json:"last_value_update,omitempty"`

	CreatedBy string         `gorm:"column:created_by;type:char(32)" json:"created_by"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Entry) TableName() string { return "cap_table_entries" }

// CountsTowardEquity reports whether the entry participates in the
// organization-wide equity percentage recompute.
func (e *Entry) CountsTowardEquity() bool {
	if e.Status != StatusActive && e.Status != StatusExercised {
		return false
	}
	return e.SecurityType != SecuritySAFE && e.SecurityType != SecurityConvertibleNote
}

// ConversionRecord is the audit trail written when a SAFE or note converts.
type ConversionRecord struct {
	AuditID         string          `json:"audit_id"`
	IsConverted     bool            `json:"is_converted"`
	ConversionRound string          `json:"conversion_round"`
	ConversionDate  time.Time       `json:"conversion_date"`
	ConversionPrice decimal.Decimal `json:"conversion_price"`
	PriceBasis      string          `json:"price_basis"`
	RoundPrice      decimal.Decimal `json:"round_price"`
	CapImpliedPrice decimal.Decimal `json:"cap_implied_price,omitempty"`
	DiscountedPrice decimal.Decimal `json:"discounted_price,omitempty"`
}
