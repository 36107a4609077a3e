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

type clientRepository struct {
	db *sqlx.DB
}

func NewClientRepository(db *sqlx.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	now := time.Now()
	client.CreatedAt = now
	client.UpdatedAt = now

	query := `
		INSERT INTO clients (id, name, phone, address, region_id, collector_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.Name,
		client.Phone,
		client.Address,
		client.RegionID,
		client.CollectorID,
		client.CreatedAt,
		client.UpdatedAt,
	)
	return err
}

func (r *clientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	query := `
		SELECT id, name, phone, address, region_id, collector_id, created_at, updated_at
		FROM clients
		WHERE id = $1
	`

	var client domain.Client
	err := r.db.GetContext(ctx, &client, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WrapNotFound("client", id.String())
	}
	if err != nil {
		return nil, err
	}

	return &client, nil
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	client.UpdatedAt = time.Now()

	query := `
		UPDATE clients
		SET name = $2, phone = $3, address = $4, updated_at = $5
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.Name,
		client.Phone,
		client.Address,
		client.UpdatedAt,
	)
	return err
}

func (r *clientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	query := `
		SELECT id, name, phone, address, region_id, collector_id, created_at, updated_at
		FROM clients
		ORDER BY name
	`

	var clients []*domain.Client
	if err := r.db.SelectContext(ctx, &clients, query); err != nil {
		return nil, err
	}

	return clients, nil
}

func (r *clientRepository) ListScoped(ctx context.Context, regionIDs []uuid.UUID, collectorID *uuid.UUID) ([]*domain.Client, error) {
	if len(regionIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, name, phone, address, region_id, collector_id, created_at, updated_at
		FROM clients
		WHERE region_id IN (?)
	`
	args := []interface{}{regionIDs}
	if collectorID != nil {
		query += ` AND collector_id = ?`
		args = append(args, *collectorID)
	}
	query += ` ORDER BY name`

	query, inArgs, err := sqlx.In(query, args...)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	var clients []*domain.Client
	if err := r.db.SelectContext(ctx, &clients, query, inArgs...); err != nil {
		return nil, err
	}

	return clients, nil
}

func (r *clientRepository) DeleteTree(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err = deleteClientTreeTx(ctx, tx, id); err != nil {
		return err
	}

	return tx.Commit()
}

// deleteClientTreeTx walks the client's loans and removes each loan tree
// before the client row itself.
func deleteClientTreeTx(ctx context.Context, tx *sqlx.Tx, clientID uuid.UUID) error {
	var loanIDs []uuid.UUID
	if err := tx.SelectContext(ctx, &loanIDs, `SELECT id FROM loans WHERE client_id = $1`, clientID); err != nil {
		return err
	}

	for _, loanID := range loanIDs {
		if err := deleteLoanTreeTx(ctx, tx, loanID); err != nil {
			return err
		}
	}

	_, err := tx.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, clientID)
	return err
}
