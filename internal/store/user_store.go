package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mater/internal/domain"
)

type UserStore struct{ db *gorm.DB }

func (s *Store) Users() *UserStore { return &UserStore{db: s.DB} }

func (u *UserStore) Create(ctx context.Context, usr *domain.User) error {
	if usr.ID == (domain.UserID{}) {
		usr.ID = domain.NewID()
	}
	return translate(u.db.WithContext(ctx).Create(usr).Error)
}

func (u *UserStore) first(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, query, arg).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (u *UserStore) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return u.first(ctx, "id = ?", id)
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return u.first(ctx, "email = ?", email)
}

func (u *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return u.first(ctx, "username = ?", username)
}

// GetByLogin resolves a login identifier, matching username before email.
func (u *UserStore) GetByLogin(ctx context.Context, identifier string) (*domain.User, error) {
	usr, err := u.GetByUsername(ctx, identifier)
	if errors.Is(err, ErrRecordNotFound) {
		return u.GetByEmail(ctx, identifier)
	}
	return usr, err
}

// LockByID reads the user with FOR UPDATE, serialising writers of the
// user's dependent rows. Dialects without row locks ignore the clause.
func (u *UserStore) LockByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	var user domain.User
	err := u.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (u *UserStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	return u.exists(ctx, "username = ?", username)
}

func (u *UserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	return u.exists(ctx, "email = ?", email)
}

func (u *UserStore) exists(ctx context.Context, query string, arg any) (bool, error) {
	var n int64
	err := u.db.WithContext(ctx).Model(&domain.User{}).Where(query, arg).Limit(1).Count(&n).Error
	return n > 0, err
}

func (u *UserStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := u.db.WithContext(ctx).Model(&domain.User{}).Count(&n).Error
	return n, err
}

func (u *UserStore) List(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	err := u.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&out).Error
	return out, err
}

func (u *UserStore) UpdatePassword(ctx context.Context, id domain.UserID, hash string) error {
	res := u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"password_hash": hash, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
