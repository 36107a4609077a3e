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

type regionRepository struct {
	db *sqlx.DB
}

func NewRegionRepository(db *sqlx.DB) RegionRepository {
	return &regionRepository{db: db}
}

func (r *regionRepository) CreateWithCollectors(ctx context.Context, region *domain.Region, collectorIDs []uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	region.CreatedAt = time.Now()

	query := `INSERT INTO regions (id, name, created_at) VALUES ($1, $2, $3)`
	if _, err = tx.ExecContext(ctx, query, region.ID, region.Name, region.CreatedAt); err != nil {
		return err
	}

	for _, collectorID := range collectorIDs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO region_collectors (region_id, collector_id) VALUES ($1, $2)`,
			region.ID, collectorID,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *regionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Region, error) {
	query := `SELECT id, name, created_at FROM regions WHERE id = $1`

	var region domain.Region
	err := r.db.GetContext(ctx, &region, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WrapNotFound("region", id.String())
	}
	if err != nil {
		return nil, err
	}

	return &region, nil
}

func (r *regionRepository) List(ctx context.Context) ([]*domain.Region, error) {
	query := `SELECT id, name, created_at FROM regions ORDER BY name`

	var regions []*domain.Region
	if err := r.db.SelectContext(ctx, &regions, query); err != nil {
		return nil, err
	}

	return regions, nil
}

func (r *regionRepository) ListCollectors(ctx context.Context, regionID uuid.UUID) ([]*domain.User, error) {
	query := `
		SELECT u.id, u.username, u.password_hash, u.role, u.created_at
		FROM users u
		JOIN region_collectors rc ON rc.collector_id = u.id
		WHERE rc.region_id = $1
		ORDER BY u.username
	`

	var users []*domain.User
	if err := r.db.SelectContext(ctx, &users, query, regionID); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *regionRepository) DeleteTree(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var clientIDs []uuid.UUID
	if err = tx.SelectContext(ctx, &clientIDs, `SELECT id FROM clients WHERE region_id = $1`, id); err != nil {
		return err
	}

	for _, clientID := range clientIDs {
		if err = deleteClientTreeTx(ctx, tx, clientID); err != nil {
			return err
		}
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM region_collectors WHERE region_id = $1`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM regions WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}
