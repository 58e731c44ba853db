package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"mater/internal/config"
	"mater/internal/notify"
	"mater/internal/observability/logging"
	"mater/internal/observability/metrics"
	"mater/internal/service"
	impl "mater/internal/service/impl"
	"mater/internal/store"
	"mater/internal/store/redisotp"
	httpx "mater/internal/transport/http"
	"mater/pkg/db"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: "mater",
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
	})
	slog.SetDefault(logger)
	metrics.MustRegister("mater")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1) DB
	gdb, err := db.OpenGorm(db.Config{Type: cfg.Database.Type, DSN: cfg.Database.URL, LogSQL: cfg.Database.LogSQL})
	if err != nil {
		return err
	}
	st := store.New(gdb)
	if err := st.AutoMigrate(ctx); err != nil {
		return err
	}

	// 2) OTP challenges live in the database unless redis is configured.
	var (
		otpRepo impl.OTPRepository = st.OTP()
		extra   impl.OTPRepository
	)
	if cfg.OTP.Store == "redis" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		otpRepo = redisotp.New(rdb)
		extra = otpRepo
	}

	// 3) Services
	pw := impl.NewPasswordServiceBcrypt(cfg.Password.BcryptCost)
	ts := impl.NewTokenServiceHS256(impl.TokenConfig{
		TTL:        cfg.TokenTTL,
		SigningKey: []byte(cfg.SecretKey),
	})
	otp := impl.NewOTPService(otpRepo, cfg.OTP.TTL)
	mfa := impl.NewMFAService(st, otp, emailNotifier(cfg, logger), smsNotifier(cfg, logger), impl.MFAConfig{
		TOTP: impl.TOTPConfig{
			Issuer: cfg.TOTP.Issuer,
			Period: cfg.TOTP.Period,
			Digits: cfg.TOTP.Digits,
			Skew:   cfg.TOTP.Skew,
		},
		OTPTTL: cfg.OTP.TTL,
	})
	settings := impl.NewSettingsService(st, cfg.AllowSelfRegister)
	if err := settings.SeedDefaults(ctx); err != nil {
		return err
	}
	as := impl.NewAuthServiceImpl(st, pw, ts, mfa, settings, extra)

	if cfg.OTP.SweepInterval > 0 {
		go otp.RunSweeper(ctx, cfg.OTP.SweepInterval)
	}

	// 4) HTTP
	handler := httpx.NewRouter(httpx.Config{
		TrustProxy:     cfg.TrustProxy,
		CookieName:     cfg.Cookie.Name,
		CookieSecure:   cfg.Cookie.Secure,
		TokenTTL:       cfg.TokenTTL,
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		AuthRPM:        cfg.RateLimit.AuthRequestsPerMinute,
	}, httpx.Services{
		Auth:     as,
		MFA:      mfa,
		OTP:      otp,
		Settings: settings,
		Guard:    impl.NewGuard(st, ts),
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("mater listening", "addr", srv.Addr, "db", cfg.Database.Type, "otp_store", cfg.OTP.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func emailNotifier(cfg config.Config, logger *slog.Logger) service.Notifier {
	if cfg.SMTP.Server == "" {
		logger.Warn("SMTP_SERVER not set, email codes are only logged")
		return notify.NewLog("email", logger)
	}
	return notify.NewSMTP(notify.SMTPConfig{
		Server:   cfg.SMTP.Server,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
}

func smsNotifier(cfg config.Config, logger *slog.Logger) service.Notifier {
	if cfg.Twilio.AccountSID == "" {
		return notify.NewLog("sms", logger)
	}
	return notify.NewTwilio(notify.TwilioConfig{
		AccountSID: cfg.Twilio.AccountSID,
		AuthToken:  cfg.Twilio.AuthToken,
		FromNumber: cfg.Twilio.FromNumber,
		BaseURL:    cfg.Twilio.BaseURL,
	}, nil)
}
