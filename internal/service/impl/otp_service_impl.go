package impl

import (
	"context"
	"errors"
	"time"

	"mater/internal/domain"
	"mater/internal/observability/metrics"
	"mater/internal/observability/middleware"
	"mater/internal/store"
)

type OTPServiceImpl struct {
	repo OTPRepository
	ttl  time.Duration
	now  func() time.Time
}

const defaultOTPTTL = 5 * time.Minute

func NewOTPService(repo OTPRepository, ttl time.Duration) *OTPServiceImpl {
	if ttl <= 0 {
		ttl = defaultOTPTTL
	}
	return &OTPServiceImpl{repo: repo, ttl: ttl, now: time.Now}
}

func (o *OTPServiceImpl) GenerateCode() (string, error) { return newOTP() }

func (o *OTPServiceImpl) CreateChallenge(ctx context.Context, userID domain.UserID) (*domain.OTPChallenge, error) {
	code, err := newOTP()
	if err != nil {
		return nil, domain.ErrOperationFailed.WithCause(err)
	}
	now := o.now().UTC()
	c := &domain.OTPChallenge{
		ID:        domain.NewID(),
		UserID:    userID,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(o.ttl),
	}
	if err := o.repo.Create(ctx, c); err != nil {
		return nil, domain.ErrOperationFailed.WithCause(err)
	}
	metrics.OTPChallengesTotal.WithLabelValues("created").Inc()
	return c, nil
}

func (o *OTPServiceImpl) Verify(ctx context.Context, userID domain.UserID, code string) bool {
	log := middleware.Logger(ctx).With("user_id", userID)
	if code == "" {
		metrics.OTPChallengesTotal.WithLabelValues("rejected").Inc()
		return false
	}

	c, err := o.repo.Consume(ctx, userID, code)
	if errors.Is(err, store.ErrRecordNotFound) {
		metrics.OTPChallengesTotal.WithLabelValues("rejected").Inc()
		return false
	}
	if err != nil {
		log.Error("otp verification failed", "error", err)
		metrics.OTPChallengesTotal.WithLabelValues("rejected").Inc()
		return false
	}
	if c.Expired(o.now().UTC()) {
		log.Info("otp expired", "challenge_id", c.ID)
		metrics.OTPChallengesTotal.WithLabelValues("expired").Inc()
		return false
	}
	metrics.OTPChallengesTotal.WithLabelValues("verified").Inc()
	return true
}

func (o *OTPServiceImpl) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := o.repo.PurgeExpired(ctx, o.now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.OTPChallengesTotal.WithLabelValues("purged").Add(float64(n))
	}
	return n, nil
}

// RunSweeper purges expired challenges every interval until ctx is done.
func (o *OTPServiceImpl) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	log := middleware.Logger(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := o.PurgeExpired(ctx)
			if err != nil {
				log.Error("otp sweep failed", "error", err)
				continue
			}
			if n > 0 {
				log.Info("purged expired otp challenges", "count", n)
			}
		}
	}
}
