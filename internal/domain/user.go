package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	UserRoleAdmin     = "admin"
	UserRoleCollector = "collector"
)

// User is an operator of the system, either an admin or a field collector.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type CreateUserRequest struct {
	Username string     `json:"username" validate:"required"`
	Password string     `json:"password" validate:"required,min=6"`
	Role     string     `json:"role" validate:"required,oneof=admin collector"`
	RegionID *uuid.UUID `json:"region_id,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
