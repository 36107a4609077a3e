package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guilhermeviannac/credpix/internal/domain"
	"github.com/guilhermeviannac/credpix/internal/mocks"
	apperrors "github.com/guilhermeviannac/credpix/pkg/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ledgerFixture is a loan with a two-installment schedule ready for
// payment scenarios.
type ledgerFixture struct {
	loan         *domain.Loan
	installments []*domain.Installment
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	loan, err := domain.NewLoan(uuid.New(), domain.LoanTerms{
		Principal:    decimal.RequireFromString("100"),
		InterestRate: decimal.Zero,
		Frequency:    domain.FrequencyDaily,
	})
	require.NoError(t, err)
	return &ledgerFixture{loan: loan, installments: loan.GenerateInstallments(2)}
}

func (f *ledgerFixture) expectLoad(loanRepo *mocks.MockLoanRepository) {
	loanRepo.On("GetByID", mock.Anything, f.loan.ID).Return(f.loan, nil)
	loanRepo.On("GetInstallments", mock.Anything, f.loan.ID).Return(f.installments, nil)
}

func TestLedgerService_RecordPayment(t *testing.T) {
	fixture := newLedgerFixture(t)
	first := fixture.installments[0]

	loanRepo := new(mocks.MockLoanRepository)
	paymentRepo := new(mocks.MockPaymentRepository)
	loanRepo.On("GetInstallmentByID", mock.Anything, first.ID).Return(first, nil)
	fixture.expectLoad(loanRepo)
	paymentRepo.On("Apply", mock.Anything, mock.AnythingOfType("*domain.Payment"), first, fixture.loan).Return(nil)

	svc := NewLedgerService(loanRepo, paymentRepo, testLogger())
	payment, err := svc.RecordPayment(context.Background(), first.ID, decimal.RequireFromString("30"))

	require.NoError(t, err)
	assert.True(t, payment.Amount.Equal(decimal.RequireFromString("30")))
	assert.Equal(t, domain.InstallmentStatusPartiallyPaid, first.Status)
	assert.True(t, fixture.loan.TotalPaid.Equal(decimal.RequireFromString("30")),
		"loan aggregate refreshed: got %s", fixture.loan.TotalPaid)
	assert.Equal(t, domain.LoanStatusOpen, fixture.loan.Status)
	loanRepo.AssertExpectations(t)
	paymentRepo.AssertExpectations(t)
}

func TestLedgerService_RecordPayment_SettlesLoan(t *testing.T) {
	fixture := newLedgerFixture(t)
	first, second := fixture.installments[0], fixture.installments[1]
	first.AmountPaid = first.Amount
	first.Status = domain.InstallmentStatusPaid

	loanRepo := new(mocks.MockLoanRepository)
	paymentRepo := new(mocks.MockPaymentRepository)
	loanRepo.On("GetInstallmentByID", mock.Anything, second.ID).Return(second, nil)
	fixture.expectLoad(loanRepo)
	paymentRepo.On("Apply", mock.Anything, mock.AnythingOfType("*domain.Payment"), second, fixture.loan).Return(nil)

	svc := NewLedgerService(loanRepo, paymentRepo, testLogger())
	_, err := svc.RecordPayment(context.Background(), second.ID, second.Amount)

	require.NoError(t, err)
	assert.Equal(t, domain.InstallmentStatusPaid, second.Status)
	assert.True(t, fixture.loan.TotalPaid.Equal(fixture.loan.Total))
	assert.Equal(t, domain.LoanStatusSettled, fixture.loan.Status)
}

func TestLedgerService_RecordPayment_InvalidAmount(t *testing.T) {
	fixture := newLedgerFixture(t)
	first := fixture.installments[0]

	loanRepo := new(mocks.MockLoanRepository)
	paymentRepo := new(mocks.MockPaymentRepository)
	loanRepo.On("GetInstallmentByID", mock.Anything, first.ID).Return(first, nil)
	fixture.expectLoad(loanRepo)

	svc := NewLedgerService(loanRepo, paymentRepo, testLogger())
	payment, err := svc.RecordPayment(context.Background(), first.ID, decimal.Zero)

	assert.Nil(t, payment)
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	paymentRepo.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerService_RecordPayment_InstallmentNotFound(t *testing.T) {
	missing := uuid.New()

	loanRepo := new(mocks.MockLoanRepository)
	paymentRepo := new(mocks.MockPaymentRepository)
	loanRepo.On("GetInstallmentByID", mock.Anything, missing).
		Return(nil, apperrors.WrapNotFound("installment", missing.String()))

	svc := NewLedgerService(loanRepo, paymentRepo, testLogger())
	payment, err := svc.RecordPayment(context.Background(), missing, decimal.RequireFromString("10"))

	assert.Nil(t, payment)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLedgerService_EditPayment(t *testing.T) {
	fixture := newLedgerFixture(t)
	first := fixture.installments[0]
	first.AmountPaid = decimal.RequireFromString("30")
	first.Status = domain.InstallmentStatusPartiallyPaid
	fixture.loan.TotalPaid = decimal.RequireFromString("30")

	payment := &domain.Payment{
		ID:            uuid.New(),
		LoanID:        fixture.loan.ID,
		InstallmentID: first.ID,
		Amount:        decimal.RequireFromString("30"),
	}

	loanRepo := new(mocks.MockLoanRepository)
	paymentRepo := new(mocks.MockPaymentRepository)
	paymentRepo.On("GetByID", mock.Anything, payment.ID).Return(payment, nil)
	fixture.expectLoad(loanRepo)
	paymentRepo.On("Update", mock.Anything, payment, first, fixture.loan).Return(nil)

	svc := NewLedgerService(loanRepo, paymentRepo, testLogger())
	updated, err := svc.EditPayment(context.Background(), payment.ID, decimal.RequireFromString("45"))

	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(decimal.RequireFromString("45")))
	assert.True(t, first.AmountPaid.Equal(decimal.RequireFromString("45")))
	assert.True(t, fixture.loan.TotalPaid.Equal(decimal.RequireFromString("45")))
	paymentRepo.AssertExpectations(t)
}

func TestLedgerService_CancelPayment(t *testing.T) {
	fixture := newLedgerFixture(t)
	first := fixture.installments[0]
	first.AmountPaid = decimal.RequireFromString("30")
	first.Status = domain.InstallmentStatusPartiallyPaid
	fixture.loan.TotalPaid = decimal.RequireFromString("30")

	payment := &domain.Payment{
		ID:            uuid.New(),
		LoanID:        fixture.loan.ID,
		InstallmentID: first.ID,
		Amount:        decimal.RequireFromString("30"),
	}

	loanRepo := new(mocks.MockLoanRepository)
	paymentRepo := new(mocks.MockPaymentRepository)
	paymentRepo.On("GetByID", mock.Anything, payment.ID).Return(payment, nil)
	fixture.expectLoad(loanRepo)
	paymentRepo.On("Delete", mock.Anything, payment.ID, first, fixture.loan).Return(nil)

	svc := NewLedgerService(loanRepo, paymentRepo, testLogger())
	err := svc.CancelPayment(context.Background(), payment.ID)

	require.NoError(t, err)
	assert.True(t, first.AmountPaid.IsZero())
	assert.Equal(t, domain.InstallmentStatusPending, first.Status)
	assert.True(t, fixture.loan.TotalPaid.IsZero())
	assert.Equal(t, domain.LoanStatusOpen, fixture.loan.Status)
	paymentRepo.AssertExpectations(t)
}

func TestLedgerService_ListPayments(t *testing.T) {
	loanID := uuid.New()
	history := []*domain.Payment{
		{ID: uuid.New(), LoanID: loanID, Amount: decimal.RequireFromString("10")},
		{ID: uuid.New(), LoanID: loanID, Amount: decimal.RequireFromString("20")},
	}

	loanRepo := new(mocks.MockLoanRepository)
	paymentRepo := new(mocks.MockPaymentRepository)
	loanRepo.On("GetByID", mock.Anything, loanID).Return(&domain.Loan{ID: loanID}, nil)
	paymentRepo.On("ListByLoan", mock.Anything, loanID).Return(history, nil)

	svc := NewLedgerService(loanRepo, paymentRepo, testLogger())
	payments, err := svc.ListPayments(context.Background(), loanID)

	require.NoError(t, err)
	assert.Len(t, payments, 2)
}
