package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithNoEnvOrFile(t *testing.T) {
	os.Unsetenv("WEBHOOK_URL")
	os.Unsetenv("WARDEN_WEBHOOK_URL")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "", cfg.WebhookURL)
	assert.Equal(t, 60.0, cfg.OverlayMinPercentPrimary)
	assert.Equal(t, 40.0, cfg.OverlayMinPercentVirtual)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestLoadBindsUnprefixedWebhookURL(t *testing.T) {
	t.Setenv("WEBHOOK_URL", "https://discord.example/hook")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://discord.example/hook", cfg.WebhookURL)
}

func TestLoadPrefersPrefixedEnvForOtherFields(t *testing.T) {
	t.Setenv("WARDEN_LOG_LEVEL", "debug")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}
