package domain

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type MethodKind string

const (
	MethodEmail MethodKind = "email"
	MethodSMS   MethodKind = "sms"
	MethodTOTP  MethodKind = "totp"
)

// ParseMethodKind accepts the wire form of a method kind, case-insensitively.
func ParseMethodKind(s string) (MethodKind, error) {
	switch k := MethodKind(strings.ToLower(strings.TrimSpace(s))); k {
	case MethodEmail, MethodSMS, MethodTOTP:
		return k, nil
	default:
		return "", ErrUnsupportedMFAMethod
	}
}

func (k MethodKind) String() string { return string(k) }

// MFAMethod is one verification method per (user, kind).
// At most one row per user carries IsPrimary; see the partial unique index.
type MFAMethod struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" db:"id" json:"-"`
	UserID        UserID         `gorm:"type:uuid;not null;uniqueIndex:ux_mfa_user_kind,priority:1;uniqueIndex:ux_mfa_user_primary,where:is_primary = true;index" db:"user_id" json:"-"`
	Kind          MethodKind     `gorm:"column:method_kind;type:text;not null;uniqueIndex:ux_mfa_user_kind,priority:2" db:"method_kind" json:"mfa_method"`
	DeliveryValue string         `gorm:"type:text" db:"delivery_value" json:"mfa_value"`
	Secret        string         `gorm:"type:text" db:"secret" json:"-"`
	BackupCodes   datatypes.JSON `db:"backup_codes" json:"-"` // sha256 hex of each unused code
	Enabled       bool           `gorm:"not null" db:"enabled" json:"-"`
	IsPrimary     bool           `gorm:"not null;default:false" db:"is_primary" json:"is_primary"`
	CreatedAt     time.Time      `gorm:"not null" db:"created_at" json:"-"`
	UpdatedAt     time.Time      `gorm:"not null" db:"updated_at" json:"-"`
}

func (MFAMethod) TableName() string { return "mfa_methods" }
