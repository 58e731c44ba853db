package service

import (
	"context"

	"mater/internal/domain"
)

// Guard resolves bearer tokens into users for every protected endpoint.
type Guard interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	RequireAdmin(ctx context.Context, token string) (*domain.User, error)
}
