package service

import (
	"context"

	"mater/internal/domain"
)

type SettingsService interface {
	// Get is the global settings lookup; ok is false when no such setting exists.
	Get(ctx context.Context, name string) (value string, ok bool, err error)
	SeedDefaults(ctx context.Context) error

	ListVisible(ctx context.Context, userID domain.UserID) ([]domain.AppSetting, error)
	Add(ctx context.Context, actor *domain.User, s domain.AppSetting) (*domain.AppSetting, error)
	Update(ctx context.Context, actor *domain.User, id uint, value string) error
	Delete(ctx context.Context, id uint) error
}
