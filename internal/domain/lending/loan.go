package lending

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	StatusDraft       ApplicationStatus = "draft"
	StatusSubmitted   ApplicationStatus = "submitted"
	StatusUnderReview ApplicationStatus = "under_review"
	StatusApproved    ApplicationStatus = "approved"
	StatusRejected    ApplicationStatus = "rejected"
	StatusDisbursed   ApplicationStatus = "disbursed"
	StatusClosed      ApplicationStatus = "closed"
)

// LoanApplication is a property-backed loan request. Amounts are satang
// (1/100 THB) carried as int64 so installment math never touches floats.
type LoanApplication struct {
	ID     uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID         `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	Status ApplicationStatus `gorm:"not null;default:'draft';column:status" json:"status"`

	AmountSatang       int64   `gorm:"not null;column:amount_satang" json:"amount_satang"`
	TermMonths         int     `gorm:"not null;column:term_months" json:"term_months"`
	MonthlyRatePercent float64 `gorm:"not null;column:monthly_rate_percent" json:"monthly_rate_percent"`
	TotalDueSatang     int64   `gorm:"column:total_due_satang" json:"total_due_satang"`

	Purpose      string     `gorm:"column:purpose" json:"purpose"`
	SubmittedAt  *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	DecidedAt    *time.Time `gorm:"column:decided_at" json:"decided_at,omitempty"`
	DecisionNote string     `gorm:"column:decision_note" json:"decision_note"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (LoanApplication) TableName() string { return "loan_application" }

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentLate    PaymentStatus = "late"
)

type Payment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LoanID        uuid.UUID `gorm:"type:uuid;index;not null;column:loan_id" json:"loan_id"`
	InstallmentNo int       `gorm:"not null;column:installment_no" json:"installment_no"`

	AmountDueSatang  int64         `gorm:"not null;column:amount_due_satang" json:"amount_due_satang"`
	AmountPaidSatang int64         `gorm:"column:amount_paid_satang" json:"amount_paid_satang"`
	DueDate          time.Time     `gorm:"not null;column:due_date" json:"due_date"`
	PaidAt           *time.Time    `gorm:"column:paid_at" json:"paid_at,omitempty"`
	Status           PaymentStatus `gorm:"not null;default:'pending';column:status" json:"status"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Payment) TableName() string { return "payment" }

type Reward struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	LoanID *uuid.UUID `gorm:"type:uuid;index;column:loan_id" json:"loan_id,omitempty"`
	Points int        `gorm:"not null;column:points" json:"points"`
	Reason string     `gorm:"not null;column:reason" json:"reason"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Reward) TableName() string { return "reward" }
