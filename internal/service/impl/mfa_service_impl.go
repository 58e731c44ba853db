package impl

import (
	"context"
	"errors"
	"time"

	"mater/internal/domain"
	"mater/internal/observability/metrics"
	"mater/internal/observability/middleware"
	"mater/internal/service"
	"mater/internal/store"
)

type MFAConfig struct {
	TOTP   TOTPConfig
	OTPTTL time.Duration
}

type MFAServiceImpl struct {
	Store      dataStore
	strategies map[domain.MethodKind]methodStrategy
}

// NewMFAService wires one strategy per method kind. emailNotifier and
// smsNotifier deliver codes for the email and sms kinds.
func NewMFAService(st *store.Store, otp service.OTPService, emailNotifier, smsNotifier service.Notifier, cfg MFAConfig) *MFAServiceImpl {
	ds := newDataStore(st)
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = defaultOTPTTL
	}
	return &MFAServiceImpl{
		Store: ds,
		strategies: map[domain.MethodKind]methodStrategy{
			domain.MethodEmail: &codeStrategy{kind: domain.MethodEmail, valid: validEmail, otp: otp, notifier: emailNotifier, ttl: cfg.OTPTTL},
			domain.MethodSMS:   &codeStrategy{kind: domain.MethodSMS, valid: phonePattern.MatchString, otp: otp, notifier: smsNotifier, ttl: cfg.OTPTTL},
			domain.MethodTOTP:  &totpStrategy{mgr: newTOTPManager(cfg.TOTP), store: ds, now: time.Now},
		},
	}
}

func (s *MFAServiceImpl) strategy(kind domain.MethodKind) (methodStrategy, error) {
	st, ok := s.strategies[kind]
	if !ok {
		return nil, domain.ErrUnsupportedMFAMethod
	}
	return st, nil
}

func recordMFA(op string, kind domain.MethodKind, err *error) {
	metrics.MFAOperationsTotal.WithLabelValues(op, kind.String(), metrics.Result(*err)).Inc()
}

func (s *MFAServiceImpl) ListEnabled(ctx context.Context, userID domain.UserID) ([]domain.MFAMethod, error) {
	out, err := s.Store.MFA().ListEnabled(ctx, userID)
	return out, opError(err)
}

func (s *MFAServiceImpl) Setup(ctx context.Context, user *domain.User, in service.MFASetupInput) (res *service.MFASetupResult, err error) {
	defer recordMFA("setup", in.Kind, &err)

	strat, err := s.strategy(in.Kind)
	if err != nil {
		return nil, err
	}

	err = s.Store.WithTx(ctx, func(tx storeTx) error {
		if _, err := tx.Users().LockByID(ctx, user.ID); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}

		existing, err := tx.MFA().Get(ctx, user.ID, in.Kind)
		switch {
		case errors.Is(err, store.ErrRecordNotFound):
			existing = nil
		case err != nil:
			return err
		case existing.Enabled:
			return domain.ErrMFAAlreadyEnabled
		}

		m := existing
		if m == nil {
			m = &domain.MFAMethod{UserID: user.ID, Kind: in.Kind}
		}
		r, err := strat.Prepare(user, in, m)
		if err != nil {
			return err
		}
		m.Enabled = true
		m.IsPrimary = false
		if in.SetPrimary {
			if err := tx.MFA().ClearPrimary(ctx, user.ID); err != nil {
				return err
			}
			m.IsPrimary = true
		}

		if existing != nil {
			err = tx.MFA().Save(ctx, m)
		} else {
			err = tx.MFA().Create(ctx, m)
		}
		if errors.Is(err, store.ErrDuplicate) {
			return domain.ErrMFAAlreadyEnabled
		}
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		middleware.Logger(ctx).Warn("mfa setup failed", "user_id", user.ID, "method", in.Kind, "error", err)
		return nil, opError(err)
	}
	middleware.Logger(ctx).Info("mfa method enabled", "user_id", user.ID, "method", in.Kind, "primary", in.SetPrimary)
	return res, nil
}

// SetPrimary clears every primary flag of the user and sets it on kind,
// in one transaction holding the user row lock.
func (s *MFAServiceImpl) SetPrimary(ctx context.Context, userID domain.UserID, kind domain.MethodKind) (err error) {
	defer recordMFA("set_primary", kind, &err)
	if _, err = s.strategy(kind); err != nil {
		return err
	}

	err = s.Store.WithTx(ctx, func(tx storeTx) error {
		if _, err := tx.Users().LockByID(ctx, userID); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}
		m, err := tx.MFA().Get(ctx, userID, kind)
		if errors.Is(err, store.ErrRecordNotFound) || (err == nil && !m.Enabled) {
			return domain.ErrMFAMethodNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.MFA().ClearPrimary(ctx, userID); err != nil {
			return err
		}
		return tx.MFA().MarkPrimary(ctx, userID, kind)
	})
	return opError(err)
}

func (s *MFAServiceImpl) Disable(ctx context.Context, userID domain.UserID, kind domain.MethodKind) (err error) {
	defer recordMFA("disable", kind, &err)
	if _, err = s.strategy(kind); err != nil {
		return err
	}
	err = s.Store.MFA().Disable(ctx, userID, kind)
	if errors.Is(err, store.ErrRecordNotFound) {
		return domain.ErrMFAMethodNotFound
	}
	return opError(err)
}

func (s *MFAServiceImpl) Delete(ctx context.Context, userID domain.UserID, kind domain.MethodKind) (err error) {
	defer recordMFA("delete", kind, &err)
	if _, err = s.strategy(kind); err != nil {
		return err
	}
	err = s.Store.MFA().Delete(ctx, userID, kind)
	if errors.Is(err, store.ErrRecordNotFound) {
		return domain.ErrMFAMethodNotFound
	}
	return opError(err)
}

func (s *MFAServiceImpl) Primary(ctx context.Context, userID domain.UserID) (*domain.MFAMethod, error) {
	m, err := s.Store.MFA().GetPrimary(ctx, userID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, opError(err)
	}
	return m, nil
}

func (s *MFAServiceImpl) Challenge(ctx context.Context, user *domain.User, m *domain.MFAMethod) (err error) {
	defer recordMFA("challenge", m.Kind, &err)
	strat, err := s.strategy(m.Kind)
	if err != nil {
		return err
	}
	return opError(strat.Challenge(ctx, user, m))
}

func (s *MFAServiceImpl) SendTestCode(ctx context.Context, user *domain.User, kind domain.MethodKind, destination string) (err error) {
	defer recordMFA("send_test", kind, &err)
	strat, ok := s.strategies[kind].(*codeStrategy)
	if !ok {
		return domain.ErrUnsupportedMFAMethod
	}
	m := &domain.MFAMethod{UserID: user.ID, Kind: kind}
	if _, err := strat.Prepare(user, service.MFASetupInput{Kind: kind, Value: destination}, m); err != nil {
		return err
	}
	return opError(strat.Challenge(ctx, user, m))
}

// Verify uses the primary method's strategy. Without a primary, or for the
// code-delivering kinds, it falls back to the OTP store.
func (s *MFAServiceImpl) Verify(ctx context.Context, userID domain.UserID, code string) (ok bool, err error) {
	m, err := s.Primary(ctx, userID)
	if err != nil {
		return false, err
	}
	if m == nil {
		m = &domain.MFAMethod{UserID: userID, Kind: domain.MethodEmail}
	}
	defer recordMFA("verify", m.Kind, &err)

	strat, err := s.strategy(m.Kind)
	if err != nil {
		return false, err
	}
	ok, err = strat.Verify(ctx, m, code)
	if err != nil {
		middleware.Logger(ctx).Error("mfa verify failed", "user_id", userID, "method", m.Kind, "error", err)
		return false, nil
	}
	return ok, nil
}
