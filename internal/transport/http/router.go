package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mater/internal/observability/middleware"
	"mater/internal/service"
)

// Config holds the transport-level knobs. Zero values disable the optional
// middleware (rate limiting, timeouts, CORS).
type Config struct {
	TrustProxy     bool
	CookieName     string
	CookieSecure   bool
	TokenTTL       time.Duration
	CORSOrigins    []string
	RequestTimeout time.Duration
	AuthRPM        int
}

// Services is everything the handlers call into.
type Services struct {
	Auth     service.AuthService
	MFA      service.MFAService
	OTP      service.OTPService
	Settings service.SettingsService
	Guard    service.Guard
}

type handlers struct {
	cfg Config
	svc Services
}

func NewRouter(cfg Config, svc Services) http.Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = "access_token"
	}
	h := &handlers{cfg: cfg, svc: svc}

	r := chi.NewRouter()
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.WithRequestAndTrace)
	r.Use(chimw.Recoverer)
	r.Use(middleware.WithMetrics)
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.HeaderRequestID, middleware.HeaderTraceID},
			ExposedHeaders:   []string{middleware.HeaderRequestID, middleware.HeaderTraceID},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	limited := func(next http.Handler) http.Handler { return next }
	if cfg.AuthRPM > 0 {
		limited = httprate.LimitByIP(cfg.AuthRPM, time.Minute)
	}

	r.With(limited).Post("/signup", h.signup)
	r.With(limited).Post("/login", h.login)
	r.Post("/logout", h.logout)

	r.With(h.requireUser).Post("/reset_password/self", h.resetOwnPassword)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAdmin)
		r.Post("/reset_password/{userID}", h.resetPassword)
		r.Delete("/delete_user/{userID}", h.deleteUser)
		r.Post("/create_user", h.createUser)
		r.Get("/users/all", h.listUsers)
		r.Post("/users/all", h.listUsers)
	})

	r.Route("/mfa", func(r chi.Router) {
		r.With(limited).Post("/verify-otp", h.verifyOTP)
		r.Group(func(r chi.Router) {
			r.Use(h.requireUser)
			r.Get("/methods", h.listMFAMethods)
			r.Post("/setup", h.setupMFA)
			r.Post("/set-primary", methodAction(svc.MFA.SetPrimary, "Primary MFA method updated"))
			r.Post("/disable", methodAction(svc.MFA.Disable, "MFA method disabled"))
			deleteMFA := methodAction(svc.MFA.Delete, "MFA method deleted")
			r.Post("/delete", deleteMFA)
			r.Delete("/delete", deleteMFA)
			r.Post("/send-test-email", h.sendTestEmail)
			r.Post("/verify-test-otp", h.verifyTestOTP)
		})
	})

	r.Route("/settings/appsettings", func(r chi.Router) {
		r.With(h.requireUser).Post("/", h.listSettings)
		r.With(h.requireUser).Post("/add", h.addSetting)
		r.With(h.requireUser).Post("/update", h.updateSetting)
		r.With(h.requireAdmin).Delete("/delete/{id}", h.deleteSetting)
	})

	return r
}
