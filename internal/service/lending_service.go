package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/guilhermeviannac/credpix/internal/domain"
	"github.com/guilhermeviannac/credpix/internal/repository"
	apperrors "github.com/guilhermeviannac/credpix/pkg/errors"
)

// LendingService manages the loan lifecycle: registration with schedule
// generation, edits that regenerate the schedule, and deletion.
type LendingService struct {
	loanRepo   repository.LoanRepository
	clientRepo repository.ClientRepository
	logger     *slog.Logger
}

func NewLendingService(
	loanRepo repository.LoanRepository,
	clientRepo repository.ClientRepository,
	logger *slog.Logger,
) *LendingService {
	return &LendingService{
		loanRepo:   loanRepo,
		clientRepo: clientRepo,
		logger:     logger.With("component", "LendingService"),
	}
}

// CreateLoan registers a loan for a client and persists it with its
// generated schedule in one transaction.
func (s *LendingService) CreateLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.LoanDetail, error) {
	client, err := s.clientRepo.GetByID(ctx, request.ClientID)
	if err != nil {
		return nil, err
	}

	issuedOn, err := parseDate(request.IssuedOn)
	if err != nil {
		return nil, apperrors.WrapInvalidTerms("issued_on must be a date in YYYY-MM-DD form")
	}

	loan, err := domain.NewLoan(client.ID, domain.LoanTerms{
		Principal:    request.Principal,
		InterestRate: request.InterestRate,
		Frequency:    request.Frequency,
		IssuedOn:     issuedOn,
	})
	if err != nil {
		return nil, err
	}

	installments := loan.GenerateInstallments(request.Installments)

	if err = s.loanRepo.CreateWithSchedule(ctx, loan, installments); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	s.logger.Info("loan created",
		"loan_id", loan.ID,
		"client_id", client.ID,
		"frequency", loan.Frequency,
		"total", loan.Total,
		"installments", len(installments),
	)

	return &domain.LoanDetail{Loan: loan, Installments: installments}, nil
}

// GetLoan returns a loan with its schedule.
func (s *LendingService) GetLoan(ctx context.Context, id uuid.UUID) (*domain.LoanDetail, error) {
	loan, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	installments, err := s.loanRepo.GetInstallments(ctx, id)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	return &domain.LoanDetail{Loan: loan, Installments: installments}, nil
}

// EditLoan reprices a loan from new terms and regenerates its schedule
// from scratch. All installments and payments recorded so far are
// discarded; the loan restarts with a fresh all-pending schedule.
func (s *LendingService) EditLoan(ctx context.Context, id uuid.UUID, request *domain.EditLoanRequest) (*domain.LoanDetail, error) {
	loan, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	issuedOn, err := parseDate(request.IssuedOn)
	if err != nil {
		return nil, apperrors.WrapInvalidTerms("issued_on must be a date in YYYY-MM-DD form")
	}

	err = loan.Reprice(domain.LoanTerms{
		Principal:    request.Principal,
		InterestRate: request.InterestRate,
		Frequency:    request.Frequency,
		IssuedOn:     issuedOn,
	})
	if err != nil {
		return nil, err
	}

	installments := loan.GenerateInstallments(request.Installments)
	loan.TotalPaid = decimal.Zero
	loan.RefreshAggregates(installments)

	if err = s.loanRepo.ReplaceSchedule(ctx, loan, installments); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	s.logger.Info("loan edited, schedule regenerated",
		"loan_id", loan.ID,
		"total", loan.Total,
		"installments", len(installments),
	)

	return &domain.LoanDetail{Loan: loan, Installments: installments}, nil
}

// DeleteLoan removes a loan together with its installments and payments.
func (s *LendingService) DeleteLoan(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loanRepo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.loanRepo.DeleteTree(ctx, id); err != nil {
		return apperrors.WrapDatabaseError(err)
	}

	s.logger.Info("loan deleted", "loan_id", id)
	return nil
}

// parseDate reads an optional YYYY-MM-DD date; empty means "today",
// decided downstream by domain.NewLoan.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}
