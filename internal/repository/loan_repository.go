package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/guilhermeviannac/credpix/internal/domain"
	apperrors "github.com/guilhermeviannac/credpix/pkg/errors"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) CreateWithSchedule(ctx context.Context, loan *domain.Loan, installments []*domain.Installment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	loan.CreatedAt = now
	loan.UpdatedAt = now

	query := `
		INSERT INTO loans (id, client_id, principal, interest_rate, frequency, issued_on, total, total_paid, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = tx.ExecContext(ctx, query,
		loan.ID,
		loan.ClientID,
		loan.Principal,
		loan.InterestRate,
		loan.Frequency,
		loan.IssuedOn,
		loan.Total,
		loan.TotalPaid,
		loan.Status,
		loan.CreatedAt,
		loan.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err = insertInstallments(ctx, tx, installments); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `
		SELECT id, client_id, principal, interest_rate, frequency, issued_on, total, total_paid, status, created_at, updated_at
		FROM loans
		WHERE id = $1
	`

	var loan domain.Loan
	err := r.db.GetContext(ctx, &loan, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WrapNotFound("loan", id.String())
	}
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*domain.Loan, error) {
	query := `
		SELECT id, client_id, principal, interest_rate, frequency, issued_on, total, total_paid, status, created_at, updated_at
		FROM loans
		WHERE client_id = $1
		ORDER BY issued_on, created_at
	`

	var loans []*domain.Loan
	if err := r.db.SelectContext(ctx, &loans, query, clientID); err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) GetInstallments(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error) {
	query := `
		SELECT id, loan_id, label, amount, amount_paid, due_on, status, created_at
		FROM installments
		WHERE loan_id = $1
		ORDER BY due_on, label
	`

	var installments []*domain.Installment
	if err := r.db.SelectContext(ctx, &installments, query, loanID); err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *loanRepository) GetInstallmentByID(ctx context.Context, id uuid.UUID) (*domain.Installment, error) {
	query := `
		SELECT id, loan_id, label, amount, amount_paid, due_on, status, created_at
		FROM installments
		WHERE id = $1
	`

	var installment domain.Installment
	err := r.db.GetContext(ctx, &installment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WrapNotFound("installment", id.String())
	}
	if err != nil {
		return nil, err
	}

	return &installment, nil
}

func (r *loanRepository) ReplaceSchedule(ctx context.Context, loan *domain.Loan, installments []*domain.Installment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Payments reference installments, so they go first.
	if _, err = tx.ExecContext(ctx, `DELETE FROM payments WHERE loan_id = $1`, loan.ID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM installments WHERE loan_id = $1`, loan.ID); err != nil {
		return err
	}

	if err = insertInstallments(ctx, tx, installments); err != nil {
		return err
	}

	if err = updateLoanTx(ctx, tx, loan); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *loanRepository) DeleteTree(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err = deleteLoanTreeTx(ctx, tx, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *loanRepository) DueOn(ctx context.Context, day time.Time, regionIDs []uuid.UUID, collectorID *uuid.UUID) ([]*domain.InstallmentDue, error) {
	if len(regionIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT i.id, i.loan_id, i.label, i.amount, i.amount_paid, i.due_on, i.status, i.created_at,
		       c.id AS client_id, c.name AS client_name
		FROM installments i
		JOIN loans l ON l.id = i.loan_id
		JOIN clients c ON c.id = l.client_id
		WHERE i.due_on = ? AND c.region_id IN (?)
	`
	args := []interface{}{day, regionIDs}
	if collectorID != nil {
		query += ` AND c.collector_id = ?`
		args = append(args, *collectorID)
	}
	query += ` ORDER BY c.name, i.due_on`

	query, inArgs, err := sqlx.In(query, args...)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	rows, err := r.db.QueryxContext(ctx, query, inArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []*domain.InstallmentDue
	for rows.Next() {
		var (
			inst       domain.Installment
			clientID   uuid.UUID
			clientName string
		)
		if err := rows.Scan(
			&inst.ID, &inst.LoanID, &inst.Label, &inst.Amount, &inst.AmountPaid,
			&inst.DueOn, &inst.Status, &inst.CreatedAt,
			&clientID, &clientName,
		); err != nil {
			return nil, err
		}
		due = append(due, &domain.InstallmentDue{
			Installment: &inst,
			ClientID:    clientID,
			ClientName:  clientName,
		})
	}

	return due, rows.Err()
}

func insertInstallments(ctx context.Context, tx *sqlx.Tx, installments []*domain.Installment) error {
	query := `
		INSERT INTO installments (id, loan_id, label, amount, amount_paid, due_on, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	now := time.Now()
	for _, installment := range installments {
		installment.CreatedAt = now
		_, err := tx.ExecContext(ctx, query,
			installment.ID,
			installment.LoanID,
			installment.Label,
			installment.Amount,
			installment.AmountPaid,
			installment.DueOn,
			installment.Status,
			installment.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func updateLoanTx(ctx context.Context, tx *sqlx.Tx, loan *domain.Loan) error {
	loan.UpdatedAt = time.Now()

	query := `
		UPDATE loans
		SET principal = $2, interest_rate = $3, frequency = $4, issued_on = $5,
		    total = $6, total_paid = $7, status = $8, updated_at = $9
		WHERE id = $1
	`
	_, err := tx.ExecContext(ctx, query,
		loan.ID,
		loan.Principal,
		loan.InterestRate,
		loan.Frequency,
		loan.IssuedOn,
		loan.Total,
		loan.TotalPaid,
		loan.Status,
		loan.UpdatedAt,
	)
	return err
}

// deleteLoanTreeTx removes a loan and its children inside the caller's
// transaction, children first.
func deleteLoanTreeTx(ctx context.Context, tx *sqlx.Tx, loanID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM payments WHERE loan_id = $1`, loanID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM installments WHERE loan_id = $1`, loanID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM loans WHERE id = $1`, loanID)
	return err
}
