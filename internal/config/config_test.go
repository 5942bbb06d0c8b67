package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ktmcp/klarnacompayments/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profilePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.json")
}

func TestStore_Roundtrip(t *testing.T) {
	path := profilePath(t)

	store, err := config.OpenStore(path)
	require.NoError(t, err)
	assert.False(t, store.IsConfigured())

	require.NoError(t, store.Set(config.KeyUsername, "PK12345_abc"))
	require.NoError(t, store.Set(config.KeyPassword, "sharedsecret"))
	require.NoError(t, store.Set(config.KeyRegion, "na"))

	// A fresh open sees exactly what was persisted.
	reopened, err := config.OpenStore(path)
	require.NoError(t, err)
	assert.Equal(t, "PK12345_abc", reopened.Get(config.KeyUsername))
	assert.Equal(t, "na", reopened.Get(config.KeyRegion))
	assert.True(t, reopened.IsConfigured())
}

func TestStore_APIKeyAloneIsConfigured(t *testing.T) {
	store, err := config.OpenStore(profilePath(t))
	require.NoError(t, err)
	require.NoError(t, store.Set(config.KeyAPIKey, "klarna_test_key"))
	assert.True(t, store.IsConfigured())
}

func TestStore_UsernameAloneIsNotConfigured(t *testing.T) {
	store, err := config.OpenStore(profilePath(t))
	require.NoError(t, err)
	require.NoError(t, store.Set(config.KeyUsername, "PK12345_abc"))
	assert.False(t, store.IsConfigured())
}

func TestStore_RejectsUnknownKey(t *testing.T) {
	store, err := config.OpenStore(profilePath(t))
	require.NoError(t, err)
	err = store.Set("regoin", "eu")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown configuration key")
}

func TestStore_Clear(t *testing.T) {
	path := profilePath(t)
	store, err := config.OpenStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(config.KeyAPIKey, "klarna_test_key"))

	require.NoError(t, store.Clear())
	assert.False(t, store.IsConfigured())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	// Clearing an already-empty store is fine.
	require.NoError(t, store.Clear())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(profilePath(t))
	require.NoError(t, err)
	assert.Equal(t, "eu", cfg.Region)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_ProfileFile(t *testing.T) {
	path := profilePath(t)
	store, err := config.OpenStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(config.KeyAPIKey, "klarna_test_key"))
	require.NoError(t, store.Set(config.KeyRegion, "na"))
	require.NoError(t, store.Set(config.KeyTimeout, "45s"))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "klarna_test_key", cfg.APIKey)
	assert.Equal(t, "na", cfg.Region)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
}

func TestLoad_EnvOverridesProfile(t *testing.T) {
	path := profilePath(t)
	store, err := config.OpenStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(config.KeyRegion, "na"))

	t.Setenv("KLARNA_REGION", "oc")
	t.Setenv("KLARNA_API_KEY", "env_key")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "oc", cfg.Region)
	assert.Equal(t, "env_key", cfg.APIKey)
}

func TestLoad_MissingProfileIsNotAnError(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope", "config.json"))
	require.NoError(t, err)
}

func TestLoad_CorruptProfile(t *testing.T) {
	path := profilePath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoad_InvalidBaseURL(t *testing.T) {
	path := profilePath(t)
	store, err := config.OpenStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(config.KeyBaseURL, "not a url"))

	_, err = config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	path := profilePath(t)
	store, err := config.OpenStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(config.KeyLogLevel, "loud"))

	_, err = config.Load(path)
	require.Error(t, err)
}

func TestDefaultPath(t *testing.T) {
	path, err := config.DefaultPath()
	require.NoError(t, err)
	assert.Contains(t, path, "klarnacompayments")
	assert.Equal(t, "config.json", filepath.Base(path))
}
