package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "github.com/guilhermeviannac/credpix/pkg/errors"
	"github.com/guilhermeviannac/credpix/pkg/money"
)

const (
	LoanStatusOpen    = "open"
	LoanStatusSettled = "settled"
)

// Frequency of loan installments.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Loan represents a lending agreement with a client.
type Loan struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	ClientID     uuid.UUID       `json:"client_id" db:"client_id"`
	Principal    decimal.Decimal `json:"principal" db:"principal"`
	InterestRate decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	Frequency    Frequency       `json:"frequency" db:"frequency"`
	IssuedOn     time.Time       `json:"issued_on" db:"issued_on"`
	Total        decimal.Decimal `json:"total" db:"total"`
	TotalPaid    decimal.Decimal `json:"total_paid" db:"total_paid"`
	Status       string          `json:"status" db:"status"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// LoanTerms are the inputs a loan is priced from.
type LoanTerms struct {
	Principal    decimal.Decimal
	InterestRate decimal.Decimal
	Frequency    Frequency
	IssuedOn     time.Time
}

var hundred = decimal.NewFromInt(100)

// NewLoan prices a loan from its terms. The total with interest is
// principal * (1 + rate/100) rounded to the cent, fixed at creation.
func NewLoan(clientID uuid.UUID, terms LoanTerms) (*Loan, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	issuedOn := terms.IssuedOn
	if issuedOn.IsZero() {
		issuedOn = time.Now().UTC().Truncate(24 * time.Hour)
	}

	loan := &Loan{
		ID:           uuid.New(),
		ClientID:     clientID,
		Principal:    terms.Principal,
		InterestRate: terms.InterestRate,
		Frequency:    terms.Frequency,
		IssuedOn:     issuedOn,
		TotalPaid:    decimal.Zero,
		Status:       LoanStatusOpen,
	}
	loan.Total = totalWithInterest(terms.Principal, terms.InterestRate)

	return loan, nil
}

// Reprice recomputes the total with interest from new terms. Used only by
// loan edits, which regenerate the schedule from scratch afterwards.
func (l *Loan) Reprice(terms LoanTerms) error {
	if err := terms.Validate(); err != nil {
		return err
	}
	l.Principal = terms.Principal
	l.InterestRate = terms.InterestRate
	l.Frequency = terms.Frequency
	if !terms.IssuedOn.IsZero() {
		l.IssuedOn = terms.IssuedOn
	}
	l.Total = totalWithInterest(terms.Principal, terms.InterestRate)
	return nil
}

// Outstanding is the balance still owed on the loan.
func (l *Loan) Outstanding() decimal.Decimal {
	return l.Total.Sub(l.TotalPaid)
}

// RefreshAggregates recomputes total_paid and status from the loan's
// installments. Called after every ledger mutation so the loan-level
// figures never go stale.
func (l *Loan) RefreshAggregates(installments []*Installment) {
	total := decimal.Zero
	for _, inst := range installments {
		total = total.Add(inst.AmountPaid)
	}
	l.TotalPaid = total

	if l.TotalPaid.GreaterThanOrEqual(l.Total) {
		l.Status = LoanStatusSettled
	} else {
		l.Status = LoanStatusOpen
	}
}

func (t LoanTerms) Validate() error {
	if !t.Principal.IsPositive() {
		return apperrors.WrapInvalidTerms("principal must be greater than zero")
	}
	if t.InterestRate.IsNegative() {
		return apperrors.WrapInvalidTerms("interest rate must not be negative")
	}
	switch t.Frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
	default:
		return apperrors.WrapInvalidTerms("frequency must be one of daily, weekly, monthly")
	}
	return nil
}

func totalWithInterest(principal, rate decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(rate.Div(hundred))
	return money.Round2(principal.Mul(factor))
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	ClientID     uuid.UUID       `json:"client_id" validate:"required"`
	Principal    decimal.Decimal `json:"principal" validate:"required"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	Frequency    Frequency       `json:"frequency" validate:"required"`
	IssuedOn     string          `json:"issued_on,omitempty"`
	Installments int             `json:"installments,omitempty"`
}

type EditLoanRequest struct {
	Principal    decimal.Decimal `json:"principal" validate:"required"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	Frequency    Frequency       `json:"frequency" validate:"required"`
	IssuedOn     string          `json:"issued_on,omitempty"`
	Installments int             `json:"installments,omitempty"`
}

type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

type EditPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// LoanDetail is a loan with its full schedule, for persistence callers
// and display.
type LoanDetail struct {
	Loan         *Loan          `json:"loan"`
	Installments []*Installment `json:"installments"`
}
