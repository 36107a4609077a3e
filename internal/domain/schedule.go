package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/guilhermeviannac/credpix/pkg/money"
)

const (
	InstallmentStatusPending       = "pending"
	InstallmentStatusPartiallyPaid = "partially_paid"
	InstallmentStatusPaid          = "paid"
)

// Default installment counts per frequency. Daily accepts an explicit
// count; weekly and monthly are fixed regardless of input.
const (
	DefaultDailyInstallments = 20
	WeeklyInstallments       = 4
	MonthlyInstallments      = 1
	monthlyIntervalDays      = 30
)

// Installment is one scheduled partial repayment of a loan.
type Installment struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	LoanID     uuid.UUID       `json:"loan_id" db:"loan_id"`
	Label      string          `json:"label" db:"label"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	AmountPaid decimal.Decimal `json:"amount_paid" db:"amount_paid"`
	DueOn      time.Time       `json:"due_on" db:"due_on"`
	Status     string          `json:"status" db:"status"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// Remaining is the portion of the installment still unpaid.
func (i *Installment) Remaining() decimal.Decimal {
	return i.Amount.Sub(i.AmountPaid)
}

// GenerateInstallments partitions the loan total into an ordered schedule.
//
// The base amount is the total divided by the count, rounded to the cent;
// the last installment absorbs the rounding remainder so the schedule sums
// to the loan total exactly. Due dates advance per frequency and never
// land on a Sunday: daily schedules walk one day at a time skipping
// Sundays, weekly and monthly land on issued + 7/30 days times the
// installment number and are pushed one day forward if that is a Sunday.
//
// count is honored only for daily loans; non-positive values fall back to
// the daily default. Weekly loans always get 4 installments, monthly 1.
func (l *Loan) GenerateInstallments(count int) []*Installment {
	switch l.Frequency {
	case FrequencyDaily:
		if count <= 0 {
			count = DefaultDailyInstallments
		}
	case FrequencyWeekly:
		count = WeeklyInstallments
	default:
		count = MonthlyInstallments
	}

	base := money.Round2(l.Total.Div(decimal.NewFromInt(int64(count))))
	remainder := money.Round2(l.Total.Sub(base.Mul(decimal.NewFromInt(int64(count)))))
	last := base.Add(remainder)

	installments := make([]*Installment, 0, count)
	dueOn := l.IssuedOn

	for i := 0; i < count; i++ {
		switch l.Frequency {
		case FrequencyDaily:
			dueOn = nextCollectionDay(dueOn)
		case FrequencyWeekly:
			dueOn = bumpOffSunday(l.IssuedOn.AddDate(0, 0, 7*(i+1)))
		default:
			dueOn = bumpOffSunday(l.IssuedOn.AddDate(0, 0, monthlyIntervalDays*(i+1)))
		}

		amount := base
		if i == count-1 {
			amount = last
		}

		installments = append(installments, &Installment{
			ID:         uuid.New(),
			LoanID:     l.ID,
			Label:      fmt.Sprintf("%d/%d", i+1, count),
			Amount:     amount,
			AmountPaid: decimal.Zero,
			DueOn:      dueOn,
			Status:     InstallmentStatusPending,
		})
	}

	return installments
}

// nextCollectionDay advances one day at a time, skipping Sundays.
func nextCollectionDay(from time.Time) time.Time {
	next := from.AddDate(0, 0, 1)
	for next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// bumpOffSunday pushes a due date forward one day when it lands on Sunday.
func bumpOffSunday(d time.Time) time.Time {
	if d.Weekday() == time.Sunday {
		return d.AddDate(0, 0, 1)
	}
	return d
}
