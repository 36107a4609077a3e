package domain

import (
	"time"

	"github.com/google/uuid"
)

// Region is a geographic grouping used to scope collector and client
// assignment. Collectors and regions form a many-to-many association.
type Region struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RegionDetail is a region with its assigned collectors, for listings.
type RegionDetail struct {
	Region     Region  `json:"region"`
	Collectors []*User `json:"collectors"`
}

type CreateRegionRequest struct {
	Name         string      `json:"name" validate:"required"`
	CollectorIDs []uuid.UUID `json:"collector_ids"`
}
