package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "github.com/guilhermeviannac/credpix/pkg/errors"
)

// ApplyPayment records a tender against an installment. The installment's
// paid amount is capped at its due amount, but the payment row keeps the
// full tendered value: collectors sometimes take more than the remaining
// balance and settle the difference in person.
func ApplyPayment(installment *Installment, amount decimal.Decimal) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WrapInvalidAmount(amount.String())
	}

	remaining := installment.Remaining()

	if amount.GreaterThanOrEqual(remaining) {
		installment.AmountPaid = installment.Amount
		installment.Status = InstallmentStatusPaid
	} else {
		installment.AmountPaid = installment.AmountPaid.Add(amount)
		installment.Status = InstallmentStatusPartiallyPaid
	}

	return &Payment{
		ID:            uuid.New(),
		LoanID:        installment.LoanID,
		InstallmentID: installment.ID,
		Amount:        amount,
		PaidAt:        time.Now(),
	}, nil
}

// EditPayment changes a recorded payment's amount, shifting the
// installment's paid amount by the difference. The paid amount is clamped
// into [0, due] and the status recomputed from the result.
func EditPayment(payment *Payment, installment *Installment, newAmount decimal.Decimal) error {
	if !newAmount.IsPositive() {
		return apperrors.WrapInvalidAmount(newAmount.String())
	}

	delta := newAmount.Sub(payment.Amount)
	installment.AmountPaid = installment.AmountPaid.Add(delta)
	payment.Amount = newAmount

	reconcileInstallment(installment)
	return nil
}

// CancelPayment reverses a payment's effect on its installment. The
// payment row itself is deleted by the caller.
func CancelPayment(payment *Payment, installment *Installment) {
	installment.AmountPaid = installment.AmountPaid.Sub(payment.Amount)
	reconcileInstallment(installment)
}

// reconcileInstallment clamps amount_paid into [0, amount] and derives the
// status. Paid never exceeds due and never goes negative, whatever
// sequence of edits and cancellations led here.
func reconcileInstallment(installment *Installment) {
	switch {
	case installment.AmountPaid.GreaterThanOrEqual(installment.Amount):
		installment.AmountPaid = installment.Amount
		installment.Status = InstallmentStatusPaid
	case installment.AmountPaid.IsPositive():
		installment.Status = InstallmentStatusPartiallyPaid
	default:
		installment.AmountPaid = decimal.Zero
		installment.Status = InstallmentStatusPending
	}
}
