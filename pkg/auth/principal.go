package auth

import (
	"context"

	"github.com/google/uuid"
)

// Role of an authenticated user.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCollector Role = "collector"
)

// Principal is the request-scoped identity every scoped operation
// receives explicitly. It replaces ambient session state.
type Principal struct {
	UserID   uuid.UUID
	Username string
	Role     Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type ctxKey struct{}

// WithPrincipal attaches the principal to the request context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// PrincipalFrom extracts the principal placed by the auth middleware.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}
