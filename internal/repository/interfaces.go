package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/guilhermeviannac/credpix/internal/domain"
)

// LoanRepository defines the interface for loan and installment data
// operations. Multi-row mutations run inside a single transaction.
type LoanRepository interface {
	// CreateWithSchedule persists a loan together with its full schedule
	CreateWithSchedule(ctx context.Context, loan *domain.Loan, installments []*domain.Installment) error

	// GetByID retrieves a loan
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// ListByClient retrieves all loans of a client
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*domain.Loan, error)

	// GetInstallments retrieves a loan's schedule ordered by due date
	GetInstallments(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error)

	// GetInstallmentByID retrieves a single installment
	GetInstallmentByID(ctx context.Context, id uuid.UUID) (*domain.Installment, error)

	// ReplaceSchedule atomically deletes a loan's installments and
	// payments, inserts the regenerated schedule and updates the loan row
	ReplaceSchedule(ctx context.Context, loan *domain.Loan, installments []*domain.Installment) error

	// DeleteTree deletes a loan with its installments and payments,
	// children first
	DeleteTree(ctx context.Context, id uuid.UUID) error

	// DueOn lists installments due on a given day within the region
	// scope, with client info attached, optionally narrowed to one
	// collector
	DueOn(ctx context.Context, day time.Time, regionIDs []uuid.UUID, collectorID *uuid.UUID) ([]*domain.InstallmentDue, error)
}

// PaymentRepository defines the interface for payment ledger operations.
// Each mutation keeps payment, installment and loan rows consistent in
// one transaction.
type PaymentRepository interface {
	// Apply inserts a payment and writes the updated installment and loan
	Apply(ctx context.Context, payment *domain.Payment, installment *domain.Installment, loan *domain.Loan) error

	// GetByID retrieves a payment
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)

	// Update writes an edited payment with the updated installment and loan
	Update(ctx context.Context, payment *domain.Payment, installment *domain.Installment, loan *domain.Loan) error

	// Delete removes a payment and writes the updated installment and loan
	Delete(ctx context.Context, paymentID uuid.UUID, installment *domain.Installment, loan *domain.Loan) error

	// ListByLoan retrieves all payments recorded against a loan
	ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error)
}

// ClientRepository defines the interface for client data operations
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	List(ctx context.Context) ([]*domain.Client, error)

	// ListScoped lists clients within a set of regions, optionally
	// narrowed to one collector, ordered by name
	ListScoped(ctx context.Context, regionIDs []uuid.UUID, collectorID *uuid.UUID) ([]*domain.Client, error)

	// DeleteTree deletes a client with all loans, installments and
	// payments, children first
	DeleteTree(ctx context.Context, id uuid.UUID) error
}

// RegionRepository defines the interface for region data operations
type RegionRepository interface {
	// CreateWithCollectors persists a region and its collector
	// associations in one transaction
	CreateWithCollectors(ctx context.Context, region *domain.Region, collectorIDs []uuid.UUID) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.Region, error)
	List(ctx context.Context) ([]*domain.Region, error)

	// ListCollectors lists the collectors assigned to a region
	ListCollectors(ctx context.Context, regionID uuid.UUID) ([]*domain.User, error)

	// DeleteTree deletes a region with its clients and their loan trees,
	// children first
	DeleteTree(ctx context.Context, id uuid.UUID) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// CreateWithRegions persists a user and, for collectors, the region
	// assignments in one transaction
	CreateWithRegions(ctx context.Context, user *domain.User, regionIDs []uuid.UUID) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	ListByRole(ctx context.Context, role string) ([]*domain.User, error)

	// GetRegions lists the regions a collector is responsible for
	GetRegions(ctx context.Context, userID uuid.UUID) ([]*domain.Region, error)

	// Delete removes a user and their region associations
	Delete(ctx context.Context, id uuid.UUID) error
}
