package impl

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mater/internal/domain"
	"mater/internal/dto"
	"mater/internal/store"
)

type sentMessage struct {
	To, Subject, Body string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, to, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMessage{To: to, Subject: subject, Body: body})
	return nil
}

var codePattern = regexp.MustCompile(`\b(\d{6})\b`)

func (n *recordingNotifier) lastCode(t *testing.T) string {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.sent, "no message sent")
	m := codePattern.FindStringSubmatch(n.sent[len(n.sent)-1].Body)
	require.Len(t, m, 2)
	return m[1]
}

type fixture struct {
	store    *store.Store
	passwd   *PasswordServiceImpl
	tokens   *TokenServiceImpl
	otp      *OTPServiceImpl
	mfa      *MFAServiceImpl
	settings *SettingsServiceImpl
	auth     *AuthServiceImpl
	guard    *GuardImpl
	mail     *recordingNotifier
	sms      *recordingNotifier
}

func newTestDB(t *testing.T) *store.Store {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	st := store.New(gdb)
	require.NoError(t, st.AutoMigrate(context.Background()))
	return st
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := newTestDB(t)
	f := &fixture{
		store:  st,
		passwd: NewPasswordServiceBcrypt(bcrypt.MinCost),
		tokens: NewTokenServiceHS256(TokenConfig{TTL: time.Hour, SigningKey: []byte("test-secret")}),
		otp:    NewOTPService(st.OTP(), 5*time.Minute),
		mail:   &recordingNotifier{},
		sms:    &recordingNotifier{},
	}
	f.mfa = NewMFAService(st, f.otp, f.mail, f.sms, MFAConfig{TOTP: TOTPConfig{Issuer: "MATER", Skew: 1}, OTPTTL: 5 * time.Minute})
	f.settings = NewSettingsService(st, "Yes")
	require.NoError(t, f.settings.SeedDefaults(context.Background()))
	f.auth = NewAuthServiceImpl(st, f.passwd, f.tokens, f.mfa, f.settings, nil)
	f.guard = NewGuard(st, f.tokens)
	return f
}

// signup creates a user through the public flow and returns it.
func (f *fixture) signup(t *testing.T, name, password string) (*domain.User, string) {
	t.Helper()
	ctx := context.Background()
	res, err := f.auth.Signup(ctx, dto.SignupRequest{Username: name, Password: password, Email: name + "@example.com"}, "127.0.0.1")
	require.NoError(t, err)
	u, err := f.store.Users().GetByUsername(ctx, name)
	require.NoError(t, err)
	return u, res.JWT
}
