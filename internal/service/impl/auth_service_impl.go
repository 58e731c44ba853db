package impl

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"mater/internal/domain"
	"mater/internal/dto"
	"mater/internal/observability/metrics"
	"mater/internal/observability/middleware"
	"mater/internal/service"
	"mater/internal/store"
)

type AuthServiceImpl struct {
	Store           dataStore
	PasswordService service.PasswordService
	TService        service.TokenService
	MFA             service.MFAService
	Settings        service.SettingsService
	// OTPs, when set, is purged per user after account deletion. The gorm
	// OTP table is already covered by DeleteUserData.
	OTPs OTPRepository

	dummyOnce sync.Once
	dummyHash string
}

// decoyHash is a hash at the configured cost, compared against when the login
// identifier matches no user so both failure paths cost one bcrypt compare.
func (a *AuthServiceImpl) decoyHash() string {
	a.dummyOnce.Do(func() {
		h, err := a.PasswordService.Hash("mater-login-decoy")
		if err != nil {
			slog.Default().Error("decoy password hash failed", "error", err)
			return
		}
		a.dummyHash = h
	})
	return a.dummyHash
}

func NewAuthServiceImpl(
	st *store.Store,
	passwordService service.PasswordService,
	tokenService service.TokenService,
	mfa service.MFAService,
	settings service.SettingsService,
	otps OTPRepository,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		Store:           newDataStore(st),
		PasswordService: passwordService,
		TService:        tokenService,
		MFA:             mfa,
		Settings:        settings,
		OTPs:            otps,
	}
}

func validateNewUser(username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return domain.ErrMissingFields
	}
	if !validEmail(email) {
		return domain.ErrInvalidEmail
	}
	return nil
}

func (a *AuthServiceImpl) Signup(ctx context.Context, r dto.SignupRequest, ip string) (_ *dto.TokenResponse, err error) {
	defer func() { metrics.AuthRegistrationsTotal.WithLabelValues(metrics.Result(err)).Inc() }()

	username, email := strings.TrimSpace(r.Username), strings.TrimSpace(r.Email)
	if err := validateNewUser(username, email, r.Password); err != nil {
		return nil, err
	}

	allow, ok, err := a.Settings.Get(ctx, domain.SettingAllowSelfRegister)
	if err != nil {
		return nil, err
	}
	if !ok || allow != domain.SettingEnabled {
		return nil, domain.ErrRegistrationDisabled
	}

	u, err := a.createUser(ctx, username, email, r.Password, false)
	if err != nil {
		return nil, err
	}
	token, err := a.TService.Issue(ctx, u.ID, "signup")
	if err != nil {
		return nil, opError(err)
	}

	middleware.Logger(ctx).Info("user signed up", "user_id", u.ID, "is_admin", u.IsAdmin, "ip", ip)
	return &dto.TokenResponse{JWT: token}, nil
}

// createUser inserts a user in one transaction. The first user of an empty
// store becomes admin; the bootstrap flag makes that decision exactly once.
func (a *AuthServiceImpl) createUser(ctx context.Context, username, email, password string, isAdmin bool) (*domain.User, error) {
	hash, err := a.PasswordService.Hash(password)
	if err != nil {
		return nil, opError(err)
	}

	u := &domain.User{
		ID:           domain.NewID(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	}
	err = a.Store.WithTx(ctx, func(tx storeTx) error {
		if taken, err := tx.Users().UsernameExists(ctx, username); err != nil {
			return err
		} else if taken {
			return domain.ErrUsernameTaken
		}
		if taken, err := tx.Users().EmailExists(ctx, email); err != nil {
			return err
		} else if taken {
			return domain.ErrEmailTaken
		}

		n, err := tx.Users().Count(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			first, err := tx.Flags().Claim(ctx, domain.FlagBootstrapAdmin)
			if err != nil {
				return err
			}
			u.IsAdmin = u.IsAdmin || first
		}

		err = tx.Users().Create(ctx, u)
		if errors.Is(err, store.ErrDuplicate) {
			return domain.ErrUserExists
		}
		return err
	})
	if err != nil {
		return nil, opError(err)
	}
	return u, nil
}

func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest, ip string) (_ *service.LoginResult, err error) {
	result := "failure"
	defer func() { metrics.AuthLoginsTotal.WithLabelValues(result).Inc() }()

	log := middleware.Logger(ctx)
	identifier := strings.TrimSpace(r.Username)
	if identifier == "" || r.Password == "" {
		return nil, domain.ErrMissingFields
	}

	user, err := a.Store.Users().GetByLogin(ctx, identifier)
	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		return nil, opError(err)
	}
	if user == nil {
		a.PasswordService.Verify(r.Password, a.decoyHash())
	}
	if user == nil || !a.PasswordService.Verify(r.Password, user.PasswordHash) {
		log.Warn("failed login attempt", "identifier", identifier, "ip", ip)
		return nil, domain.ErrInvalidCredentials
	}

	primary, err := a.MFA.Primary(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if primary != nil {
		if err := a.MFA.Challenge(ctx, user, primary); err != nil {
			log.Error("mfa challenge failed", "user_id", user.ID, "method", primary.Kind, "error", err)
			return nil, err
		}
		result = "mfa_required"
		log.Info("login pending mfa", "user_id", user.ID, "method", primary.Kind, "ip", ip)
		return &service.LoginResult{MFARequired: true, UserID: user.ID}, nil
	}

	token, err := a.TService.Issue(ctx, user.ID, "login")
	if err != nil {
		return nil, opError(err)
	}
	result = "success"
	log.Info("user logged in", "user_id", user.ID, "ip", ip)
	return &service.LoginResult{Token: token, UserID: user.ID}, nil
}

// VerifyOTP completes an MFA-pending login. A failed code leaves the login
// pending; once the challenge is gone a fresh login is required.
func (a *AuthServiceImpl) VerifyOTP(ctx context.Context, r dto.VerifyOTPRequest, ip string) (*dto.TokenResponse, error) {
	username := strings.TrimSpace(r.Username)
	code := strings.TrimSpace(r.OTP)
	if username == "" || code == "" {
		return nil, domain.ErrMissingFields
	}

	user, err := a.Store.Users().GetByLogin(ctx, username)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, opError(err)
	}

	ok, err := a.MFA.Verify(ctx, user.ID, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		middleware.Logger(ctx).Warn("otp rejected", "user_id", user.ID, "ip", ip)
		return nil, domain.ErrInvalidOTP
	}

	token, err := a.TService.Issue(ctx, user.ID, "mfa")
	if err != nil {
		return nil, opError(err)
	}
	return &dto.TokenResponse{JWT: token}, nil
}

// Logout has nothing to revoke: tokens are stateless and stay valid until
// they expire.
func (a *AuthServiceImpl) Logout(ctx context.Context, userID *domain.UserID) {
	if userID != nil {
		middleware.Logger(ctx).Info("user logged out", "user_id", *userID)
	}
}

func (a *AuthServiceImpl) ResetPassword(ctx context.Context, target domain.UserID, password string) error {
	if password == "" {
		return domain.ErrMissingFields
	}
	hash, err := a.PasswordService.Hash(password)
	if err != nil {
		return opError(err)
	}
	err = a.Store.Users().UpdatePassword(ctx, target, hash)
	if errors.Is(err, store.ErrRecordNotFound) {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return opError(err)
	}
	middleware.Logger(ctx).Info("password reset by admin", "user_id", target)
	return nil
}

func (a *AuthServiceImpl) ResetOwnPassword(ctx context.Context, userID domain.UserID, current, next string) error {
	if current == "" || next == "" {
		return domain.ErrMissingFields
	}
	user, err := a.Store.Users().GetByID(ctx, userID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return opError(err)
	}
	if !a.PasswordService.Verify(current, user.PasswordHash) {
		return domain.ErrWrongPassword
	}
	return a.ResetPassword(ctx, userID, next)
}

func (a *AuthServiceImpl) CreateUser(ctx context.Context, r dto.CreateUserRequest) (*domain.User, error) {
	username, email := strings.TrimSpace(r.Username), strings.TrimSpace(r.Email)
	if err := validateNewUser(username, email, r.Password); err != nil {
		return nil, err
	}
	u, err := a.createUser(ctx, username, email, r.Password, r.IsAdmin)
	if err != nil {
		return nil, err
	}
	middleware.Logger(ctx).Info("user created by admin", "user_id", u.ID, "is_admin", u.IsAdmin)
	return u, nil
}

func (a *AuthServiceImpl) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := a.Store.Users().List(ctx)
	return users, opError(err)
}

func (a *AuthServiceImpl) DeleteUser(ctx context.Context, actor, target domain.UserID) error {
	if actor == target {
		return domain.ErrSelfDelete
	}
	counts, err := a.Store.DeleteUserData(ctx, target)
	if errors.Is(err, store.ErrRecordNotFound) {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return opError(err)
	}

	log := middleware.Logger(ctx)
	if a.OTPs != nil {
		if err := a.OTPs.DeleteByUser(ctx, target); err != nil {
			log.Warn("otp cleanup after delete failed", "user_id", target, "error", err)
		}
	}
	log.Info("user deleted", "user_id", target, "by", actor, "deleted", counts)
	return nil
}
