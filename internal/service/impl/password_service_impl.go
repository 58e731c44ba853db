package impl

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"mater/internal/domain"
)

// bcrypt only hashes the first 72 bytes and rejects longer input.
const maxPasswordBytes = 72

type PasswordServiceImpl struct {
	cost int
}

// NewPasswordServiceBcrypt falls back to bcrypt.DefaultCost for out-of-range costs.
func NewPasswordServiceBcrypt(cost int) *PasswordServiceImpl {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordServiceImpl{cost: cost}
}

func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if len(password) > maxPasswordBytes {
		return "", domain.ErrPasswordTooLong
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.ErrPasswordTooLong
	}
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (p *PasswordServiceImpl) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
