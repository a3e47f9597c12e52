package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RENTORA_AUTH_SECRET", "s3cret")
	t.Setenv("RENTORA_SERVICE_TOKEN", "svc-token")
	t.Setenv("RENTORA_PG_DSN", "postgres://localhost/rentora")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, "rentora-auth", cfg.Issuer)
	assert.Equal(t, "http://localhost:5173", cfg.FrontendOrigin)
	assert.Equal(t, 3*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "no-reply@localhost", cfg.SMTP.From)
}

func TestValidateMissingSecret(t *testing.T) {
	t.Setenv("RENTORA_AUTH_SECRET", "")
	t.Setenv("RENTORA_SERVICE_TOKEN", "svc-token")
	t.Setenv("RENTORA_PG_DSN", "postgres://localhost/rentora")

	cfg, err := Load()
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.Validate(), "RENTORA_AUTH_SECRET")
}

func TestSanitizeTrimsOrigin(t *testing.T) {
	t.Setenv("RENTORA_AUTH_SECRET", "s3cret")
	t.Setenv("RENTORA_SERVICE_TOKEN", "svc-token")
	t.Setenv("RENTORA_PG_DSN", "postgres://localhost/rentora")
	t.Setenv("RENTORA_FRONTEND_URL", "https://app.rentora.org/ ")
	t.Setenv("RENTORA_TOKEN_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://app.rentora.org", cfg.FrontendOrigin)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
}
