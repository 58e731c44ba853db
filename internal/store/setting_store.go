package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"mater/internal/domain"
)

type SettingStore struct{ db *gorm.DB }

func (s *Store) Settings() *SettingStore { return &SettingStore{db: s.DB} }

// ListVisible returns global settings plus those owned by userID.
func (st *SettingStore) ListVisible(ctx context.Context, userID domain.UserID) ([]domain.AppSetting, error) {
	var out []domain.AppSetting
	err := st.db.WithContext(ctx).
		Where("globalsetting = ? OR user_id = ?", true, userID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// GetGlobal returns the first global setting with the given name.
func (st *SettingStore) GetGlobal(ctx context.Context, name string) (*domain.AppSetting, error) {
	var out domain.AppSetting
	err := st.db.WithContext(ctx).
		Where("whatfor = ? AND globalsetting = ?", name, true).
		Order("id ASC").
		First(&out).Error
	if err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (st *SettingStore) GetByID(ctx context.Context, id uint) (*domain.AppSetting, error) {
	var out domain.AppSetting
	if err := st.db.WithContext(ctx).First(&out, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (st *SettingStore) Create(ctx context.Context, s *domain.AppSetting) error {
	return st.db.WithContext(ctx).Create(s).Error
}

func (st *SettingStore) CreateBatch(ctx context.Context, settings []domain.AppSetting) error {
	if len(settings) == 0 {
		return nil
	}
	return st.db.WithContext(ctx).Create(&settings).Error
}

func (st *SettingStore) UpdateValue(ctx context.Context, id uint, value string) error {
	res := st.db.WithContext(ctx).Model(&domain.AppSetting{}).
		Where("id = ?", id).
		Updates(map[string]any{"value": value, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (st *SettingStore) Delete(ctx context.Context, id uint) error {
	res := st.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.AppSetting{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
