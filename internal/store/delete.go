package store

import (
	"context"

	"gorm.io/gorm"

	"mater/internal/domain"
)

// DeleteUserData removes the user and every row the user owns in one
// transaction, returning per-table counts captured before deletion.
func (s *Store) DeleteUserData(ctx context.Context, userID domain.UserID) (map[string]int64, error) {
	deleted := map[string]int64{}

	err := s.WithTx(ctx, func(tx *Store) error {
		db := tx.DB.WithContext(ctx)

		count := func(label string, query *gorm.DB) error {
			var total int64
			if err := query.Count(&total).Error; err != nil {
				return err
			}
			deleted[label] = total
			return nil
		}

		if err := count("users", db.Model(&domain.User{}).Where("id = ?", userID)); err != nil {
			return err
		}
		if deleted["users"] == 0 {
			return ErrRecordNotFound
		}
		if err := count("mfaMethods", db.Model(&domain.MFAMethod{}).Where("user_id = ?", userID)); err != nil {
			return err
		}
		if err := count("otpChallenges", db.Model(&domain.OTPChallenge{}).Where("user_id = ?", userID)); err != nil {
			return err
		}
		if err := count("appSettings", db.Model(&domain.AppSetting{}).Where("user_id = ?", userID)); err != nil {
			return err
		}

		for _, model := range []any{&domain.MFAMethod{}, &domain.OTPChallenge{}, &domain.AppSetting{}} {
			if err := db.Where("user_id = ?", userID).Delete(model).Error; err != nil {
				return err
			}
		}
		return db.Where("id = ?", userID).Delete(&domain.User{}).Error
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
