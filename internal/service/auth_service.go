package service

import (
	"context"

	"mater/internal/domain"
	"mater/internal/dto"
)

// LoginResult carries either a token or the MFA-pending marker, never both.
type LoginResult struct {
	Token       string
	MFARequired bool
	UserID      domain.UserID
}

type AuthService interface {
	Signup(ctx context.Context, r dto.SignupRequest, ip string) (*dto.TokenResponse, error)
	Login(ctx context.Context, r dto.LoginRequest, ip string) (*LoginResult, error)
	VerifyOTP(ctx context.Context, r dto.VerifyOTPRequest, ip string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID *domain.UserID)

	ResetPassword(ctx context.Context, target domain.UserID, password string) error
	ResetOwnPassword(ctx context.Context, userID domain.UserID, current, next string) error

	CreateUser(ctx context.Context, r dto.CreateUserRequest) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	DeleteUser(ctx context.Context, actor, target domain.UserID) error
}
