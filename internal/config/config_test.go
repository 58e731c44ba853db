package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8081", cfg.Addr)
	assert.Equal(t, "s3cret", cfg.SecretKey)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "access_token", cfg.Cookie.Name)
	assert.Equal(t, 5*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, "db", cfg.OTP.Store)
	assert.Equal(t, "MATER", cfg.TOTP.Issuer)
	assert.Equal(t, uint(30), cfg.TOTP.Period)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "Yes", cfg.AllowSelfRegister)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected func(*testing.T, Config)
	}{
		{
			name:    "database",
			envVars: map[string]string{"DATABASE_TYPE": "sqlite", "DATABASE_URL": "file:mater.db"},
			expected: func(t *testing.T, cfg Config) {
				assert.Equal(t, "sqlite", cfg.Database.Type)
				assert.Equal(t, "file:mater.db", cfg.Database.URL)
			},
		},
		{
			name:    "otp redis",
			envVars: map[string]string{"OTP_STORE": "redis", "OTP_TTL": "2m", "REDIS_ADDR": "cache:6379"},
			expected: func(t *testing.T, cfg Config) {
				assert.Equal(t, "redis", cfg.OTP.Store)
				assert.Equal(t, 2*time.Minute, cfg.OTP.TTL)
				assert.Equal(t, "cache:6379", cfg.Redis.Addr)
			},
		},
		{
			name:    "cors list",
			envVars: map[string]string{"CORS_ORIGINS": "https://a.example,https://b.example"},
			expected: func(t *testing.T, cfg Config) {
				assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SECRET_KEY", "s3cret")
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			require.NoError(t, err)
			tt.expected(t, cfg)
		})
	}
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SECRET_KEY", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoad_GeneratesSecretOutsideProduction(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	a, err := Load()
	require.NoError(t, err)
	b, err := Load()
	require.NoError(t, err)

	assert.Len(t, a.SecretKey, 64)
	assert.NotEqual(t, a.SecretKey, b.SecretKey)
}

func TestLoad_RejectsUnknownBackends(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("OTP_STORE", "memcached")

	_, err := Load()
	assert.Error(t, err)
}
