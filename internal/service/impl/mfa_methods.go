package impl

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/datatypes"

	"mater/internal/domain"
	"mater/internal/service"
)

// methodStrategy is the per-kind behaviour behind the MFA registry.
type methodStrategy interface {
	// Prepare validates input and fills the kind-specific columns of m.
	Prepare(user *domain.User, in service.MFASetupInput, m *domain.MFAMethod) (*service.MFASetupResult, error)
	Challenge(ctx context.Context, user *domain.User, m *domain.MFAMethod) error
	Verify(ctx context.Context, m *domain.MFAMethod, code string) (bool, error)
}

const otpSubject = "Your MATER OTP Code"

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9 ()-]{7,20}$`)
)

func validEmail(s string) bool { return emailPattern.MatchString(s) }

func otpBody(code string, ttl time.Duration) string {
	return fmt.Sprintf("Your OTP code is: %s. It is valid for the next %d minutes.", code, int(ttl.Minutes()))
}

// codeStrategy delivers a one-time code over a notifier (email or sms).
type codeStrategy struct {
	kind     domain.MethodKind
	valid    func(string) bool
	otp      service.OTPService
	notifier service.Notifier
	ttl      time.Duration
}

func (s *codeStrategy) Prepare(_ *domain.User, in service.MFASetupInput, m *domain.MFAMethod) (*service.MFASetupResult, error) {
	value := strings.TrimSpace(in.Value)
	if value == "" {
		return nil, domain.ErrDeliveryRequired
	}
	if !s.valid(value) {
		return nil, domain.Validation(fmt.Sprintf("Invalid %s delivery value", s.kind))
	}
	m.DeliveryValue = value
	return &service.MFASetupResult{Method: m}, nil
}

func (s *codeStrategy) Challenge(ctx context.Context, user *domain.User, m *domain.MFAMethod) error {
	c, err := s.otp.CreateChallenge(ctx, user.ID)
	if err != nil {
		return err
	}
	if err := s.notifier.Send(ctx, m.DeliveryValue, otpSubject, otpBody(c.Code, s.ttl)); err != nil {
		return domain.ErrNotificationFailed.WithCause(err)
	}
	return nil
}

func (s *codeStrategy) Verify(ctx context.Context, m *domain.MFAMethod, code string) (bool, error) {
	return s.otp.Verify(ctx, m.UserID, code), nil
}

// totpStrategy checks authenticator-app codes and single-use backup codes.
type totpStrategy struct {
	mgr   *totpManager
	store dataStore
	now   func() time.Time
}

func (s *totpStrategy) Prepare(user *domain.User, _ service.MFASetupInput, m *domain.MFAMethod) (*service.MFASetupResult, error) {
	secret, err := s.mgr.GenerateSecret()
	if err != nil {
		return nil, err
	}
	codes, err := newBackupCodes()
	if err != nil {
		return nil, err
	}
	hashed := make([]string, len(codes))
	for i, c := range codes {
		hashed[i] = hashBackupCode(c)
	}
	raw, err := json.Marshal(hashed)
	if err != nil {
		return nil, err
	}

	m.Secret = secret
	m.BackupCodes = datatypes.JSON(raw)
	m.DeliveryValue = ""

	return &service.MFASetupResult{
		Method:      m,
		Secret:      secret,
		URI:         s.mgr.ProvisionURI(secret, user.Username),
		BackupCodes: codes,
	}, nil
}

// Challenge is a no-op: the code comes from the user's authenticator.
func (s *totpStrategy) Challenge(context.Context, *domain.User, *domain.MFAMethod) error { return nil }

func (s *totpStrategy) Verify(ctx context.Context, m *domain.MFAMethod, code string) (bool, error) {
	ok, err := s.mgr.Verify(m.Secret, code, s.now())
	if err != nil || ok {
		return ok, err
	}
	return s.consumeBackupCode(ctx, m, code)
}

func (s *totpStrategy) consumeBackupCode(ctx context.Context, m *domain.MFAMethod, code string) (bool, error) {
	if len(m.BackupCodes) == 0 || strings.TrimSpace(code) == "" {
		return false, nil
	}
	var hashed []string
	if err := json.Unmarshal(m.BackupCodes, &hashed); err != nil {
		return false, fmt.Errorf("decode backup codes: %w", err)
	}

	want := hashBackupCode(code)
	for i, h := range hashed {
		if h != want {
			continue
		}
		remaining := append(append([]string{}, hashed[:i]...), hashed[i+1:]...)
		raw, err := json.Marshal(remaining)
		if err != nil {
			return false, err
		}
		return s.store.MFA().SwapBackupCodes(ctx, m.ID, m.BackupCodes, datatypes.JSON(raw))
	}
	return false, nil
}
