package domain

import "time"

type OTPChallenge struct {
	ID        ChallengeID `gorm:"type:uuid;primaryKey" db:"id"`
	UserID    UserID      `gorm:"type:uuid;not null;index:ix_otp_user_code,priority:1" db:"user_id"`
	Code      string      `gorm:"type:text;not null;index:ix_otp_user_code,priority:2" db:"code"`
	CreatedAt time.Time   `gorm:"not null" db:"created_at"`
	ExpiresAt time.Time   `gorm:"not null;index" db:"expires_at"`
}

func (OTPChallenge) TableName() string { return "otp_challenges" }

func (c *OTPChallenge) Expired(now time.Time) bool { return now.After(c.ExpiresAt) }
