package service

import (
	"context"

	"mater/internal/domain"
)

type TokenService interface {
	// Issue signs a token for userID; flow labels the issuing path in metrics.
	Issue(ctx context.Context, userID domain.UserID, flow string) (string, error)
	// Verify returns domain.ErrTokenMissing, ErrTokenExpired or ErrTokenInvalid on failure.
	Verify(token string) (domain.UserID, error)
}
