package impl

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mater/internal/domain"
	"mater/internal/service"
)

func primaries(t *testing.T, f *fixture, userID domain.UserID) []domain.MethodKind {
	t.Helper()
	methods, err := f.mfa.ListEnabled(context.Background(), userID)
	require.NoError(t, err)
	var out []domain.MethodKind
	for _, m := range methods {
		if m.IsPrimary {
			out = append(out, m.Kind)
		}
	}
	return out
}

func TestMFA_SetupTOTPThenEmailPrimary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, _ := f.signup(t, "t1", "p")

	res, err := f.mfa.Setup(ctx, u, service.MFASetupInput{Kind: domain.MethodTOTP, SetPrimary: true})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Secret)
	assert.Len(t, res.BackupCodes, backupCodeCount)
	assert.Equal(t, []domain.MethodKind{domain.MethodTOTP}, primaries(t, f, u.ID))

	_, err = f.mfa.Setup(ctx, u, service.MFASetupInput{Kind: domain.MethodEmail, Value: "t1@example.com", SetPrimary: true})
	require.NoError(t, err)
	assert.Equal(t, []domain.MethodKind{domain.MethodEmail}, primaries(t, f, u.ID))

	methods, err := f.mfa.ListEnabled(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, methods, 2)
}

func TestMFA_SetupValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, _ := f.signup(t, "val", "p")

	_, err := f.mfa.Setup(ctx, u, service.MFASetupInput{Kind: domain.MethodEmail})
	assert.ErrorIs(t, err, domain.ErrDeliveryRequired)

	_, err = f.mfa.Setup(ctx, u, service.MFASetupInput{Kind: domain.MethodEmail, Value: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.mfa.Setup(ctx, u, service.MFASetupInput{Kind: "carrier-pigeon"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedMFAMethod)

	_, err = f.mfa.Setup(ctx, u, service.MFASetupInput{Kind: domain.MethodSMS, Value: "+1 555 010 0000"})
	require.NoError(t, err)
	_, err = f.mfa.Setup(ctx, u, service.MFASetupInput{Kind: domain.MethodSMS, Value: "+1 555 010 0001"})
	assert.ErrorIs(t, err, domain.ErrMFAAlreadyEnabled)
}

func TestMFA_DisableThenSetupReactivates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, _ := f.signup(t, "re", "p")

	_, err := f.mfa.Setup(ctx, u, service.MFASetupInput{Kind: domain.MethodEmail, Value: "old@example.com", SetPrimary: true})
	require.NoError(t, err)
	require.NoError(t, f.mfa.Disable(ctx, u.ID, domain.MethodEmail))

	primary, err := f.mfa.Primary(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, primary, "disabled method cannot stay primary")

	_, err = f.mfa.Setup(ctx, u, service.MFASetupInput{Kind: domain.MethodEmail, Value: "new@example.com"})
	require.NoError(t, err)

	m, err := f.store.MFA().Get(ctx, u.ID, domain.MethodEmail)
	require.NoError(t, err)
	assert.True(t, m.Enabled)
	assert.Equal(t, "new@example.com", m.DeliveryValue)
}

func TestMFA_SetPrimaryDisableDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, _ := f.signup(t, "sp", "p")

	assert.ErrorIs(t, f.mfa.SetPrimary(ctx, u.ID, domain.MethodSMS), domain.ErrMFAMethodNotFound)

	_, err := f.mfa.Setup(ctx, u, service.MFASetupInput{Kind: domain.MethodSMS, Value: "+15550100"})
	require.NoError(t, err)
	_, err = f.mfa.Setup(ctx, u, service.MFASetupInput{Kind: domain.MethodEmail, Value: "sp@example.com", SetPrimary: true})
	require.NoError(t, err)

	require.NoError(t, f.mfa.SetPrimary(ctx, u.ID, domain.MethodSMS))
	assert.Equal(t, []domain.MethodKind{domain.MethodSMS}, primaries(t, f, u.ID))

	require.NoError(t, f.mfa.Disable(ctx, u.ID, domain.MethodSMS))
	assert.ErrorIs(t, f.mfa.SetPrimary(ctx, u.ID, domain.MethodSMS), domain.ErrMFAMethodNotFound)
	assert.ErrorIs(t, f.mfa.Disable(ctx, u.ID, domain.MethodSMS), domain.ErrMFAMethodNotFound)

	require.NoError(t, f.mfa.Delete(ctx, u.ID, domain.MethodSMS))
	assert.ErrorIs(t, f.mfa.Delete(ctx, u.ID, domain.MethodSMS), domain.ErrMFAMethodNotFound)
}

func TestMFA_ConcurrentSetPrimaryKeepsOne(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, _ := f.signup(t, "cc", "p")
	_, err := f.mfa.Setup(ctx, u, service.MFASetupInput{Kind: domain.MethodSMS, Value: "+15550100"})
	require.NoError(t, err)
	_, err = f.mfa.Setup(ctx, u, service.MFASetupInput{Kind: domain.MethodEmail, Value: "cc@example.com"})
	require.NoError(t, err)
	_, err = f.mfa.Setup(ctx, u, service.MFASetupInput{Kind: domain.MethodTOTP})
	require.NoError(t, err)

	kinds := []domain.MethodKind{domain.MethodSMS, domain.MethodEmail, domain.MethodTOTP}
	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(k domain.MethodKind) {
			defer wg.Done()
			assert.NoError(t, f.mfa.SetPrimary(ctx, u.ID, k))
		}(kinds[i%len(kinds)])
	}
	wg.Wait()

	assert.Len(t, primaries(t, f, u.ID), 1)
}

func TestMFA_EmailChallengeAndVerify(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, _ := f.signup(t, "ch", "p")
	_, err := f.mfa.Setup(ctx, u, service.MFASetupInput{Kind: domain.MethodEmail, Value: "ch@example.com", SetPrimary: true})
	require.NoError(t, err)

	primary, err := f.mfa.Primary(ctx, u.ID)
	require.NoError(t, err)
	require.NoError(t, f.mfa.Challenge(ctx, u, primary))

	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, "ch@example.com", f.mail.sent[0].To)
	assert.Equal(t, "Your MATER OTP Code", f.mail.sent[0].Subject)
	assert.Contains(t, f.mail.sent[0].Body, "valid for the next 5 minutes")

	code := f.mail.lastCode(t)
	ok, err := f.mfa.Verify(ctx, u.ID, code)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.mfa.Verify(ctx, u.ID, code)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMFA_ChallengeNotifierFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, _ := f.signup(t, "nf", "p")
	_, err := f.mfa.Setup(ctx, u, service.MFASetupInput{Kind: domain.MethodSMS, Value: "+15550100", SetPrimary: true})
	require.NoError(t, err)
	f.sms.err = assert.AnError

	primary, err := f.mfa.Primary(ctx, u.ID)
	require.NoError(t, err)
	err = f.mfa.Challenge(ctx, u, primary)
	assert.ErrorIs(t, err, domain.ErrNotificationFailed)
	assert.ErrorIs(t, err, domain.ErrDependency)
}

func TestMFA_TOTPAndBackupCodes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, _ := f.signup(t, "tp", "p")
	res, err := f.mfa.Setup(ctx, u, service.MFASetupInput{Kind: domain.MethodTOTP, SetPrimary: true})
	require.NoError(t, err)

	m, err := f.store.MFA().Get(ctx, u.ID, domain.MethodTOTP)
	require.NoError(t, err)
	var stored []string
	require.NoError(t, json.Unmarshal(m.BackupCodes, &stored))
	assert.NotContains(t, stored, res.BackupCodes[0], "only hashes are stored")

	code, err := newTOTPManager(TOTPConfig{}).Code(res.Secret, time.Now())
	require.NoError(t, err)
	ok, err := f.mfa.Verify(ctx, u.ID, code)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.mfa.Verify(ctx, u.ID, res.BackupCodes[3])
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.mfa.Verify(ctx, u.ID, res.BackupCodes[3])
	require.NoError(t, err)
	assert.False(t, ok, "backup codes are single-use")

	ok, err = f.mfa.Verify(ctx, u.ID, "NOPE99")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMFA_SendTestCode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, _ := f.signup(t, "tc", "p")

	require.NoError(t, f.mfa.SendTestCode(ctx, u, domain.MethodEmail, "probe@example.com"))
	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, "probe@example.com", f.mail.sent[0].To)
	assert.True(t, f.otp.Verify(ctx, u.ID, f.mail.lastCode(t)))

	assert.ErrorIs(t, f.mfa.SendTestCode(ctx, u, domain.MethodTOTP, "x"), domain.ErrUnsupportedMFAMethod)
	assert.ErrorIs(t, f.mfa.SendTestCode(ctx, u, domain.MethodEmail, "bad"), domain.ErrValidation)

	methods, err := f.mfa.ListEnabled(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, methods)
}
