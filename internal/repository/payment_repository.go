package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/guilhermeviannac/credpix/internal/domain"
	apperrors "github.com/guilhermeviannac/credpix/pkg/errors"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Apply(ctx context.Context, payment *domain.Payment, installment *domain.Installment, loan *domain.Loan) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO payments (id, loan_id, installment_id, amount, paid_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = tx.ExecContext(ctx, query,
		payment.ID,
		payment.LoanID,
		payment.InstallmentID,
		payment.Amount,
		payment.PaidAt,
	)
	if err != nil {
		return err
	}

	if err = updateInstallmentTx(ctx, tx, installment); err != nil {
		return err
	}
	if err = updateLoanTx(ctx, tx, loan); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := `
		SELECT id, loan_id, installment_id, amount, paid_at
		FROM payments
		WHERE id = $1
	`

	var payment domain.Payment
	err := r.db.GetContext(ctx, &payment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WrapNotFound("payment", id.String())
	}
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepository) Update(ctx context.Context, payment *domain.Payment, installment *domain.Installment, loan *domain.Loan) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE payments
		SET amount = $2
		WHERE id = $1
	`
	if _, err = tx.ExecContext(ctx, query, payment.ID, payment.Amount); err != nil {
		return err
	}

	if err = updateInstallmentTx(ctx, tx, installment); err != nil {
		return err
	}
	if err = updateLoanTx(ctx, tx, loan); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *paymentRepository) Delete(ctx context.Context, paymentID uuid.UUID, installment *domain.Installment, loan *domain.Loan) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, paymentID); err != nil {
		return err
	}

	if err = updateInstallmentTx(ctx, tx, installment); err != nil {
		return err
	}
	if err = updateLoanTx(ctx, tx, loan); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *paymentRepository) ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error) {
	query := `
		SELECT id, loan_id, installment_id, amount, paid_at
		FROM payments
		WHERE loan_id = $1
		ORDER BY paid_at
	`

	var payments []*domain.Payment
	if err := r.db.SelectContext(ctx, &payments, query, loanID); err != nil {
		return nil, err
	}

	return payments, nil
}

func updateInstallmentTx(ctx context.Context, tx *sqlx.Tx, installment *domain.Installment) error {
	query := `
		UPDATE installments
		SET amount_paid = $2, status = $3
		WHERE id = $1
	`
	_, err := tx.ExecContext(ctx, query,
		installment.ID,
		installment.AmountPaid,
		installment.Status,
	)
	return err
}
