package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	viper.Reset()
	path := writeConfigFile(t, `
notifications:
  webhook_url: https://hooks.example.com/estate
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "property-concierge", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 15000, cfg.Notifications.Timeout)
	assert.Equal(t, "+34 123 456 789", cfg.Notifications.Fallback.Phone)
	assert.Equal(t, "info@costadelsol.com", cfg.Notifications.Fallback.Email)
	assert.Equal(t, []string{"10:00 AM", "2:00 PM", "4:00 PM", "6:00 PM"}, cfg.Viewing.Slots)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_ExplicitValuesKept(t *testing.T) {
	viper.Reset()
	path := writeConfigFile(t, `
server:
  address: ":9090"
notifications:
  webhook_url: https://hooks.example.com/estate
  timeout: 3000
viewing:
  slots:
    - "9:00 AM"
    - "5:00 PM"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 3000, cfg.Notifications.Timeout)
	assert.Equal(t, []string{"9:00 AM", "5:00 PM"}, cfg.Viewing.Slots)
}

func TestLoadFromFile_MissingWebhookURLFails(t *testing.T) {
	viper.Reset()
	path := writeConfigFile(t, `
app:
  name: property-concierge
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook_url")
}

func TestLoadFromFile_WebhookURLFromEnv(t *testing.T) {
	viper.Reset()
	t.Setenv("WEBHOOK_URL", "https://hooks.example.com/from-env")
	path := writeConfigFile(t, `
app:
  name: property-concierge
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.com/from-env", cfg.Notifications.WebhookURL)
}

func TestLoadFromFile_NegativeTimeoutRejected(t *testing.T) {
	viper.Reset()
	path := writeConfigFile(t, `
notifications:
  webhook_url: https://hooks.example.com/estate
  timeout: -1
`)

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 15*time.Second, GetDuration(15000))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
