package domain

import (
	"time"

	"github.com/google/uuid"
)

// Client is a borrower, assigned to one region and one collector.
type Client struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Phone       string    `json:"phone" db:"phone"`
	Address     string    `json:"address" db:"address"`
	RegionID    uuid.UUID `json:"region_id" db:"region_id"`
	CollectorID uuid.UUID `json:"collector_id" db:"collector_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type CreateClientRequest struct {
	Name        string    `json:"name" validate:"required"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address" validate:"required"`
	RegionID    uuid.UUID `json:"region_id" validate:"required"`
	CollectorID uuid.UUID `json:"collector_id" validate:"required"`
}

type UpdateClientRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address" validate:"required"`
}
