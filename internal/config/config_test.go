package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billaudit/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "file", cfg.Dataset.Source)
	assert.Equal(t, "assets/standard_charges.json", cfg.Dataset.Path)
	assert.Equal(t, "us-east-1", cfg.Dataset.Region)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "openai", cfg.Advisor.Primary.Provider)
	assert.Equal(t, 120, cfg.Advisor.Primary.TimeoutSecs)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BILLAUDIT_SERVER_PORT", ":9090")
	t.Setenv("BILLAUDIT_LOG_FORMAT", "json")
	t.Setenv("BILLAUDIT_DATASET_SOURCE", "s3")
	t.Setenv("BILLAUDIT_DATASET_BUCKET", "disclosures")
	t.Setenv("BILLAUDIT_DATASET_KEY", "hospital/standard_charges.json")
	t.Setenv("BILLAUDIT_ADVISOR_PRIMARY_PROVIDER", "claude")
	t.Setenv("BILLAUDIT_ADVISOR_PRIMARY_API_KEY", "test-key")
	t.Setenv("BILLAUDIT_ADVISOR_SECONDARY_PROVIDER", "openai")
	t.Setenv("BILLAUDIT_CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "s3", cfg.Dataset.Source)
	assert.Equal(t, "disclosures", cfg.Dataset.Bucket)
	assert.Equal(t, "claude", cfg.Advisor.Primary.Provider)
	assert.Equal(t, "test-key", cfg.Advisor.Primary.APIKey)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)

	providers := cfg.Advisor.Providers()
	require.Len(t, providers, 2)
	assert.Equal(t, "claude", providers[0].Provider)
	assert.Equal(t, "openai", providers[1].Provider)
}

func TestLoad_PlatformPortFallback(t *testing.T) {
	t.Setenv("PORT", "7777")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":7777", cfg.Server.Port)
}

func TestLoad_ExplicitPortBeatsPlatformPort(t *testing.T) {
	t.Setenv("PORT", "7777")
	t.Setenv("BILLAUDIT_SERVER_PORT", ":9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
}
