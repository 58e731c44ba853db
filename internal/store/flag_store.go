package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mater/internal/domain"
)

type FlagStore struct{ db *gorm.DB }

func (s *Store) Flags() *FlagStore { return &FlagStore{db: s.DB} }

// Claim inserts the named flag and reports whether this call created it.
// Concurrent claimers race on the unique name; exactly one wins.
func (f *FlagStore) Claim(ctx context.Context, name string) (bool, error) {
	flag := domain.InitFlag{Name: name, CreatedAt: time.Now().UTC()}
	res := f.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&flag)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (f *FlagStore) Exists(ctx context.Context, name string) (bool, error) {
	var n int64
	err := f.db.WithContext(ctx).Model(&domain.InitFlag{}).Where("name = ?", name).Count(&n).Error
	return n > 0, err
}
