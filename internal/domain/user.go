package domain

import "time"

type User struct {
	ID           UserID    `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	Username     string    `gorm:"type:text;not null;uniqueIndex:ux_users_username" db:"username" json:"username"`
	Email        string    `gorm:"type:text;not null;uniqueIndex:ux_users_email" db:"email" json:"email"`
	PasswordHash string    `gorm:"type:text;not null" db:"password_hash" json:"-"`
	IsAdmin      bool      `gorm:"not null;default:false" db:"is_admin" json:"is_admin"`
	CreatedAt    time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// InitFlag marks one-time bootstrap steps (default settings, first admin).
type InitFlag struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" db:"id"`
	Name      string    `gorm:"type:text;not null;uniqueIndex:ux_init_flags_name" db:"name"`
	CreatedAt time.Time `gorm:"not null" db:"created_at"`
}

func (InitFlag) TableName() string { return "init_flags" }

const (
	FlagBootstrapAdmin  = "bootstrap_admin"
	FlagDefaultSettings = "default_settings"
)
