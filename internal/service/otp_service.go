package service

import (
	"context"

	"mater/internal/domain"
)

type OTPService interface {
	GenerateCode() (string, error)
	CreateChallenge(ctx context.Context, userID domain.UserID) (*domain.OTPChallenge, error)
	// Verify consumes a matching challenge. It never returns an error: lookup
	// failures, expiry and mismatches all report false.
	Verify(ctx context.Context, userID domain.UserID, code string) bool
	PurgeExpired(ctx context.Context) (int64, error)
}
