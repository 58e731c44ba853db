package impl

import (
	"context"
	"errors"
	"strings"

	"mater/internal/domain"
	"mater/internal/observability/middleware"
	"mater/internal/store"
)

type SettingsServiceImpl struct {
	Store             dataStore
	allowSelfRegister string
}

// NewSettingsService seeds allowselfregister with allowSelfRegister on first start.
func NewSettingsService(st *store.Store, allowSelfRegister string) *SettingsServiceImpl {
	if allowSelfRegister == "" {
		allowSelfRegister = domain.SettingEnabled
	}
	return &SettingsServiceImpl{Store: newDataStore(st), allowSelfRegister: allowSelfRegister}
}

func (s *SettingsServiceImpl) Get(ctx context.Context, name string) (string, bool, error) {
	setting, err := s.Store.Settings().GetGlobal(ctx, name)
	if errors.Is(err, store.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, domain.ErrOperationFailed.WithCause(err)
	}
	return setting.Value, true, nil
}

// SeedDefaults inserts the default global settings once per database.
func (s *SettingsServiceImpl) SeedDefaults(ctx context.Context) error {
	var seeded bool
	err := s.Store.WithTx(ctx, func(tx storeTx) error {
		won, err := tx.Flags().Claim(ctx, domain.FlagDefaultSettings)
		if err != nil || !won {
			return err
		}
		seeded = true
		return tx.Settings().CreateBatch(ctx, domain.DefaultSettings(s.allowSelfRegister))
	})
	if err != nil {
		return err
	}
	if seeded {
		middleware.Logger(ctx).Info("seeded default settings", "allowselfregister", s.allowSelfRegister)
	}
	return nil
}

func (s *SettingsServiceImpl) ListVisible(ctx context.Context, userID domain.UserID) ([]domain.AppSetting, error) {
	out, err := s.Store.Settings().ListVisible(ctx, userID)
	return out, opError(err)
}

// Add stores a global setting (admin only) or a setting owned by actor.
func (s *SettingsServiceImpl) Add(ctx context.Context, actor *domain.User, in domain.AppSetting) (*domain.AppSetting, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || strings.TrimSpace(in.Value) == "" {
		return nil, domain.ErrMissingFields
	}
	if in.Global && !actor.IsAdmin {
		return nil, domain.ErrNotAdmin
	}
	in.ID = 0
	in.UserID = nil
	if !in.Global {
		in.UserID = &actor.ID
	}
	if err := s.Store.Settings().Create(ctx, &in); err != nil {
		return nil, opError(err)
	}
	return &in, nil
}

// Update changes a setting value. Global settings need an admin, user
// settings need their owner.
func (s *SettingsServiceImpl) Update(ctx context.Context, actor *domain.User, id uint, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.ErrMissingFields
	}
	setting, err := s.Store.Settings().GetByID(ctx, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return domain.ErrSettingNotFound
	}
	if err != nil {
		return opError(err)
	}
	switch {
	case setting.Global && !actor.IsAdmin:
		return domain.ErrNotAdmin
	case !setting.Global && (setting.UserID == nil || *setting.UserID != actor.ID):
		return domain.ErrSettingNotFound
	}
	return opError(s.Store.Settings().UpdateValue(ctx, id, value))
}

func (s *SettingsServiceImpl) Delete(ctx context.Context, id uint) error {
	err := s.Store.Settings().Delete(ctx, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return domain.ErrSettingNotFound
	}
	return opError(err)
}
