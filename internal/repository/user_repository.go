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

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateWithRegions(ctx context.Context, user *domain.User, regionIDs []uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	user.CreatedAt = time.Now()

	query := `
		INSERT INTO users (id, username, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = tx.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
	)
	if err != nil {
		return err
	}

	for _, regionID := range regionIDs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO region_collectors (region_id, collector_id) VALUES ($1, $2)`,
			regionID, user.ID,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT id, username, password_hash, role, created_at FROM users WHERE id = $1`

	var user domain.User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WrapNotFound("user", id.String())
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT id, username, password_hash, role, created_at FROM users WHERE username = $1`

	var user domain.User
	err := r.db.GetContext(ctx, &user, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WrapNotFound("user", username)
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT id, username, password_hash, role, created_at FROM users ORDER BY username`

	var users []*domain.User
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role string) ([]*domain.User, error) {
	query := `SELECT id, username, password_hash, role, created_at FROM users WHERE role = $1 ORDER BY username`

	var users []*domain.User
	if err := r.db.SelectContext(ctx, &users, query, role); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) GetRegions(ctx context.Context, userID uuid.UUID) ([]*domain.Region, error) {
	query := `
		SELECT reg.id, reg.name, reg.created_at
		FROM regions reg
		JOIN region_collectors rc ON rc.region_id = reg.id
		WHERE rc.collector_id = $1
		ORDER BY reg.name
	`

	var regions []*domain.Region
	if err := r.db.SelectContext(ctx, &regions, query, userID); err != nil {
		return nil, err
	}

	return regions, nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM region_collectors WHERE collector_id = $1`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}
