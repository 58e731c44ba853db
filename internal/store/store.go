package store

import (
	"context"

	"gorm.io/gorm"

	"mater/internal/domain"
)

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

// WithTx runs fn inside one transaction. fn must only use the tx store it is given.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}

// AutoMigrate creates or updates the tables owned by the auth core.
func (s *Store) AutoMigrate(ctx context.Context) error {
	return s.DB.WithContext(ctx).AutoMigrate(
		&domain.User{},
		&domain.MFAMethod{},
		&domain.OTPChallenge{},
		&domain.AppSetting{},
		&domain.InitFlag{},
	)
}
