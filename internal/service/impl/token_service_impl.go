package impl

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"mater/internal/domain"
	"mater/internal/observability/metrics"
	"mater/internal/observability/middleware"
)

type TokenConfig struct {
	TTL        time.Duration
	SigningKey []byte // HS256 secret, fixed for the process lifetime
}

// Claims carry nothing but the user id and the standard timestamps.
type Claims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

type TokenServiceImpl struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenServiceHS256(cfg TokenConfig) *TokenServiceImpl {
	return &TokenServiceImpl{cfg: cfg, now: time.Now}
}

func (t *TokenServiceImpl) Issue(ctx context.Context, userID domain.UserID, flow string) (string, error) {
	now := t.now().UTC()
	claims := Claims{
		ID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.TTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.cfg.SigningKey)
	if err != nil {
		return "", err
	}
	metrics.TokensIssuedTotal.WithLabelValues(flow).Inc()

	middleware.Logger(ctx).Info("issued token", "user_id", userID, "flow", flow)
	return signed, nil
}

func (t *TokenServiceImpl) Verify(token string) (domain.UserID, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return uuid.Nil, domain.ErrTokenMissing
	}

	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.cfg.SigningKey, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return uuid.Nil, domain.ErrTokenExpired
	case err != nil:
		slog.Debug("token rejected", "error", err)
		return uuid.Nil, domain.ErrTokenInvalid
	}

	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	return id, nil
}
