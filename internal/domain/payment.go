package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is a recorded tender against a specific installment.
type Payment struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	LoanID        uuid.UUID       `json:"loan_id" db:"loan_id"`
	InstallmentID uuid.UUID       `json:"installment_id" db:"installment_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	PaidAt        time.Time       `json:"paid_at" db:"paid_at"`
}
