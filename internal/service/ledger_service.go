package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/guilhermeviannac/credpix/internal/domain"
	"github.com/guilhermeviannac/credpix/internal/repository"
	apperrors "github.com/guilhermeviannac/credpix/pkg/errors"
)

// LedgerService applies, edits and cancels payments against
// installments, keeping installment and loan aggregates consistent.
// Every mutation commits the payment row, the installment and the loan
// in a single transaction.
type LedgerService struct {
	loanRepo    repository.LoanRepository
	paymentRepo repository.PaymentRepository
	logger      *slog.Logger
}

func NewLedgerService(
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	logger *slog.Logger,
) *LedgerService {
	return &LedgerService{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		logger:      logger.With("component", "LedgerService"),
	}
}

// RecordPayment applies a tender against an installment.
func (s *LedgerService) RecordPayment(ctx context.Context, installmentID uuid.UUID, amount decimal.Decimal) (*domain.Payment, error) {
	installment, err := s.loanRepo.GetInstallmentByID(ctx, installmentID)
	if err != nil {
		return nil, err
	}

	loan, installments, err := s.loadLoanWithSchedule(ctx, installment.LoanID)
	if err != nil {
		return nil, err
	}

	// Mutate the element inside the schedule slice so the aggregate
	// refresh sees the updated figures.
	target := findInstallment(installments, installmentID)
	if target == nil {
		return nil, apperrors.WrapNotFound("installment", installmentID.String())
	}

	payment, err := domain.ApplyPayment(target, amount)
	if err != nil {
		return nil, err
	}

	loan.RefreshAggregates(installments)

	if err = s.paymentRepo.Apply(ctx, payment, target, loan); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	s.logger.Info("payment recorded",
		"payment_id", payment.ID,
		"installment", target.Label,
		"loan_id", loan.ID,
		"amount", amount,
		"installment_status", target.Status,
		"loan_status", loan.Status,
	)

	return payment, nil
}

// EditPayment changes a recorded payment's amount and reconciles the
// affected installment and loan.
func (s *LedgerService) EditPayment(ctx context.Context, paymentID uuid.UUID, newAmount decimal.Decimal) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	loan, installments, err := s.loadLoanWithSchedule(ctx, payment.LoanID)
	if err != nil {
		return nil, err
	}

	target := findInstallment(installments, payment.InstallmentID)
	if target == nil {
		return nil, apperrors.WrapNotFound("installment", payment.InstallmentID.String())
	}

	if err = domain.EditPayment(payment, target, newAmount); err != nil {
		return nil, err
	}

	loan.RefreshAggregates(installments)

	if err = s.paymentRepo.Update(ctx, payment, target, loan); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	s.logger.Info("payment edited",
		"payment_id", payment.ID,
		"installment", target.Label,
		"new_amount", newAmount,
		"installment_status", target.Status,
		"loan_status", loan.Status,
	)

	return payment, nil
}

// CancelPayment reverses a payment's effect on its installment and
// deletes the payment row permanently.
func (s *LedgerService) CancelPayment(ctx context.Context, paymentID uuid.UUID) error {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}

	loan, installments, err := s.loadLoanWithSchedule(ctx, payment.LoanID)
	if err != nil {
		return err
	}

	target := findInstallment(installments, payment.InstallmentID)
	if target == nil {
		return apperrors.WrapNotFound("installment", payment.InstallmentID.String())
	}

	domain.CancelPayment(payment, target)
	loan.RefreshAggregates(installments)

	if err = s.paymentRepo.Delete(ctx, payment.ID, target, loan); err != nil {
		return apperrors.WrapDatabaseError(err)
	}

	s.logger.Info("payment cancelled",
		"payment_id", payment.ID,
		"installment", target.Label,
		"amount", payment.Amount,
		"installment_status", target.Status,
		"loan_status", loan.Status,
	)

	return nil
}

// ListPayments returns the payment history of a loan.
func (s *LedgerService) ListPayments(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error) {
	if _, err := s.loanRepo.GetByID(ctx, loanID); err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	return payments, nil
}

func (s *LedgerService) loadLoanWithSchedule(ctx context.Context, loanID uuid.UUID) (*domain.Loan, []*domain.Installment, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, nil, err
	}

	installments, err := s.loanRepo.GetInstallments(ctx, loanID)
	if err != nil {
		return nil, nil, apperrors.WrapDatabaseError(err)
	}

	return loan, installments, nil
}

func findInstallment(installments []*domain.Installment, id uuid.UUID) *domain.Installment {
	for _, installment := range installments {
		if installment.ID == id {
			return installment
		}
	}
	return nil
}
