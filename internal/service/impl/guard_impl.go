package impl

import (
	"context"
	"errors"

	"mater/internal/domain"
	"mater/internal/service"
	"mater/internal/store"
)

type GuardImpl struct {
	Store  dataStore
	Tokens service.TokenService
}

func NewGuard(st *store.Store, tokens service.TokenService) *GuardImpl {
	return &GuardImpl{Store: newDataStore(st), Tokens: tokens}
}

// Authenticate verifies the token and loads its user. A token for a deleted
// user is reported as invalid.
func (g *GuardImpl) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	id, err := g.Tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	user, err := g.Store.Users().GetByID(ctx, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrTokenInvalid
	}
	if err != nil {
		return nil, opError(err)
	}
	return user, nil
}

func (g *GuardImpl) RequireAdmin(ctx context.Context, token string) (*domain.User, error) {
	user, err := g.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin {
		return nil, domain.ErrNotAdmin
	}
	return user, nil
}
