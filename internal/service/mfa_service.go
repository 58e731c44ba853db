package service

import (
	"context"

	"mater/internal/domain"
)

type MFASetupInput struct {
	Kind       domain.MethodKind
	Value      string
	SetPrimary bool
}

// MFASetupResult exposes totp material exactly once, at setup time.
type MFASetupResult struct {
	Method      *domain.MFAMethod
	Secret      string
	URI         string
	BackupCodes []string
}

type MFAService interface {
	ListEnabled(ctx context.Context, userID domain.UserID) ([]domain.MFAMethod, error)
	Setup(ctx context.Context, user *domain.User, in MFASetupInput) (*MFASetupResult, error)
	SetPrimary(ctx context.Context, userID domain.UserID, kind domain.MethodKind) error
	Disable(ctx context.Context, userID domain.UserID, kind domain.MethodKind) error
	Delete(ctx context.Context, userID domain.UserID, kind domain.MethodKind) error

	// Primary returns the enabled primary method or nil when MFA is off.
	Primary(ctx context.Context, userID domain.UserID) (*domain.MFAMethod, error)
	// Challenge starts verification for the method (sends a code where the kind delivers one).
	Challenge(ctx context.Context, user *domain.User, method *domain.MFAMethod) error
	// SendTestCode delivers a fresh OTP to destination over the kind's channel
	// without touching the registry.
	SendTestCode(ctx context.Context, user *domain.User, kind domain.MethodKind, destination string) error
	// Verify checks a submitted code against the user's primary method.
	Verify(ctx context.Context, userID domain.UserID, code string) (bool, error)
}
