package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poofware/handbook-service/internal/utils"
)

func TestParseEnv_Defaults(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/handbooks")

	cfg, err := ParseEnv()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "postgres://localhost/handbooks", cfg.DBUrl)
	assert.Equal(t, Pagination{DefaultLimit: 10, DefaultOffset: 0, MaxLimit: 100}, cfg.Pagination)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, AppName, cfg.AppName)
	assert.False(t, cfg.LDFlag_SeedDbWithTestData)
}

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("PAGINATION_DEFAULT_LIMIT", "25")
	t.Setenv("PAGINATION_MAX_LIMIT", "50")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("SEED_DB_WITH_TEST_DATA", "true")

	cfg, err := ParseEnv()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, 25, cfg.Pagination.DefaultLimit)
	assert.Equal(t, 50, cfg.Pagination.MaxLimit)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.LDFlag_SeedDbWithTestData)
}

func TestParseEnv_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"non numeric limit", "PAGINATION_DEFAULT_LIMIT", "ten"},
		{"zero limit", "PAGINATION_DEFAULT_LIMIT", "0"},
		{"negative offset", "PAGINATION_DEFAULT_OFFSET", "-1"},
		{"max below default", "PAGINATION_MAX_LIMIT", "5"},
		{"bad duration", "SHUTDOWN_TIMEOUT", "soon"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := ParseEnv()
			assert.Error(t, err)
		})
	}
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{AppUrl: "https://handbooks.example.com"}
	assert.Equal(t, []string{"https://handbooks.example.com", utils.CORSLowSecurityAllowedOriginLocalhost}, cfg.AllowedOrigins())

	cfg.LDFlag_CORSHighSecurity = true
	assert.Equal(t, []string{"https://handbooks.example.com"}, cfg.AllowedOrigins())
}
