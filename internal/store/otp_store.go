package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"mater/internal/domain"
)

type OTPStore struct{ db *gorm.DB }

func (s *Store) OTP() *OTPStore { return &OTPStore{db: s.DB} }

func (o *OTPStore) Create(ctx context.Context, c *domain.OTPChallenge) error {
	if c.ID == (domain.ChallengeID{}) {
		c.ID = domain.NewID()
	}
	return o.db.WithContext(ctx).Create(c).Error
}

// Consume removes the challenge matching (user, code) and returns it. Lookup
// and delete share one transaction, and the delete must affect exactly one
// row, so of two concurrent callers with the same code only one succeeds.
// Expired rows are consumed too; the caller checks ExpiresAt.
func (o *OTPStore) Consume(ctx context.Context, userID domain.UserID, code string) (*domain.OTPChallenge, error) {
	var c domain.OTPChallenge
	err := o.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND code = ?", userID, code).
			Order("created_at DESC").
			First(&c).Error
		if err != nil {
			return translate(err)
		}

		res := tx.Where("id = ?", c.ID).Delete(&domain.OTPChallenge{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (o *OTPStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := o.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&domain.OTPChallenge{})
	return res.RowsAffected, res.Error
}

func (o *OTPStore) DeleteByUser(ctx context.Context, userID domain.UserID) error {
	return o.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.OTPChallenge{}).Error
}
