package store

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"mater/internal/domain"
)

type MFAStore struct{ db *gorm.DB }

func (s *Store) MFA() *MFAStore { return &MFAStore{db: s.DB} }

func (m *MFAStore) ListEnabled(ctx context.Context, userID domain.UserID) ([]domain.MFAMethod, error) {
	var out []domain.MFAMethod
	err := m.db.WithContext(ctx).
		Where("user_id = ? AND enabled = ?", userID, true).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// Get returns the row for (user, kind) whether or not it is enabled.
func (m *MFAStore) Get(ctx context.Context, userID domain.UserID, kind domain.MethodKind) (*domain.MFAMethod, error) {
	var out domain.MFAMethod
	err := m.db.WithContext(ctx).
		First(&out, "user_id = ? AND method_kind = ?", userID, kind).Error
	if err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

// GetPrimary returns the enabled primary method, or ErrRecordNotFound.
func (m *MFAStore) GetPrimary(ctx context.Context, userID domain.UserID) (*domain.MFAMethod, error) {
	var out domain.MFAMethod
	err := m.db.WithContext(ctx).
		First(&out, "user_id = ? AND is_primary = ? AND enabled = ?", userID, true, true).Error
	if err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (m *MFAStore) Create(ctx context.Context, method *domain.MFAMethod) error {
	return translate(m.db.WithContext(ctx).Create(method).Error)
}

// Save writes every column of an existing row.
func (m *MFAStore) Save(ctx context.Context, method *domain.MFAMethod) error {
	method.UpdatedAt = time.Now().UTC()
	return translate(m.db.WithContext(ctx).Save(method).Error)
}

// ClearPrimary unsets is_primary on every method of the user.
func (m *MFAStore) ClearPrimary(ctx context.Context, userID domain.UserID) error {
	return m.db.WithContext(ctx).Model(&domain.MFAMethod{}).
		Where("user_id = ? AND is_primary = ?", userID, true).
		Updates(map[string]any{"is_primary": false, "updated_at": time.Now().UTC()}).Error
}

// MarkPrimary sets is_primary on an enabled (user, kind) row. The caller
// clears the previous primary in the same transaction.
func (m *MFAStore) MarkPrimary(ctx context.Context, userID domain.UserID, kind domain.MethodKind) error {
	res := m.db.WithContext(ctx).Model(&domain.MFAMethod{}).
		Where("user_id = ? AND method_kind = ? AND enabled = ?", userID, kind, true).
		Updates(map[string]any{"is_primary": true, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Disable soft-disables the method and drops its primary flag. Secret and
// backup codes are kept.
func (m *MFAStore) Disable(ctx context.Context, userID domain.UserID, kind domain.MethodKind) error {
	res := m.db.WithContext(ctx).Model(&domain.MFAMethod{}).
		Where("user_id = ? AND method_kind = ? AND enabled = ?", userID, kind, true).
		Updates(map[string]any{"enabled": false, "is_primary": false, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (m *MFAStore) Delete(ctx context.Context, userID domain.UserID, kind domain.MethodKind) error {
	res := m.db.WithContext(ctx).
		Where("user_id = ? AND method_kind = ?", userID, kind).
		Delete(&domain.MFAMethod{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// SwapBackupCodes replaces the stored backup codes only if they still equal
// prev. It reports false when another request changed them first.
func (m *MFAStore) SwapBackupCodes(ctx context.Context, id uint, prev, next datatypes.JSON) (bool, error) {
	res := m.db.WithContext(ctx).Model(&domain.MFAMethod{}).
		Where("id = ? AND backup_codes = ?", id, prev).
		Updates(map[string]any{"backup_codes": next, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
