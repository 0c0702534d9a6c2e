package common

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/strata/internal/models"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 1.1, cfg.Advisory.PriceMarkup)
	assert.Equal(t, "gemini-2.0-flash", cfg.Clients.Gemini.Model)
	assert.Equal(t, 10*time.Second, cfg.Clients.AlphaVantage.GetTimeout())
	assert.Equal(t, 24*time.Hour, cfg.Clients.AlphaVantage.GetCacheTTL())
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strata.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment = "staging"

[server]
port = 9090

[advisory]
price_markup = 1.25

[clients.alphavantage]
cache_ttl = "1h"
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 1.25, cfg.Advisory.PriceMarkup)
	assert.Equal(t, time.Hour, cfg.Clients.AlphaVantage.GetCacheTTL())

	// Untouched sections keep defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoadConfig_MissingFileIsSkipped(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("this is not toml {{"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("STRATA_ENV", "production")
	t.Setenv("STRATA_PORT", "7000")
	t.Setenv("STRATA_PRICE_MARKUP", "1.5")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, 1.5, cfg.Advisory.PriceMarkup)
	assert.True(t, cfg.IsProduction())
}

func TestIsProduction(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.False(t, cfg.IsProduction())

	cfg.Environment = "PROD "
	assert.True(t, cfg.IsProduction())
}

func TestGetTimeout_InvalidFallsBack(t *testing.T) {
	c := AlphaVantageConfig{Timeout: "not-a-duration"}
	assert.Equal(t, 10*time.Second, c.GetTimeout())
}

// fakeInternalStore only serves system KV lookups; the rest of the
// interface is unused by key resolution.
type fakeInternalStore struct {
	values map[string]string
}

func (s *fakeInternalStore) GetSystemKV(_ context.Context, key string) (string, error) {
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}
func (s *fakeInternalStore) SetSystemKV(_ context.Context, key, value string) error {
	s.values[key] = value
	return nil
}
func (s *fakeInternalStore) GetProfile(_ context.Context, _ string) (*models.UserProfile, error) {
	return nil, errors.New("not found")
}
func (s *fakeInternalStore) SaveProfile(_ context.Context, _ *models.UserProfile) error { return nil }
func (s *fakeInternalStore) DeleteProfile(_ context.Context, _ string) error            { return nil }
func (s *fakeInternalStore) ListProfiles(_ context.Context) ([]string, error)           { return nil, nil }
func (s *fakeInternalStore) SaveAnalysis(_ context.Context, _ *models.SavedAnalysis) error {
	return nil
}
func (s *fakeInternalStore) ListAnalyses(_ context.Context, _ string) ([]models.SavedAnalysis, error) {
	return nil, nil
}
func (s *fakeInternalStore) Close() error { return nil }

func TestResolveAPIKey_Precedence(t *testing.T) {
	store := &fakeInternalStore{values: map[string]string{
		"alphavantage_api_key": "from-store",
	}}

	t.Run("environment wins", func(t *testing.T) {
		t.Setenv("ALPHA_VANTAGE_API_KEY", "from-env")
		key, err := ResolveAPIKey(context.Background(), store, "alphavantage_api_key", "from-config")
		require.NoError(t, err)
		assert.Equal(t, "from-env", key)
	})

	t.Run("store beats fallback", func(t *testing.T) {
		key, err := ResolveAPIKey(context.Background(), store, "alphavantage_api_key", "from-config")
		require.NoError(t, err)
		assert.Equal(t, "from-store", key)
	})

	t.Run("fallback when store misses", func(t *testing.T) {
		key, err := ResolveAPIKey(context.Background(), store, "gemini_api_key", "from-config")
		require.NoError(t, err)
		assert.Equal(t, "from-config", key)
	})

	t.Run("error when nothing resolves", func(t *testing.T) {
		_, err := ResolveAPIKey(context.Background(), store, "gemini_api_key", "")
		require.Error(t, err)
	})
}
