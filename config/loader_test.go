package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadYAMLAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sitescout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: https://example.com\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", cfg.BaseURL.String())
	assert.Equal(t, defaultUserAgent, cfg.UserAgent)
	assert.Equal(t, defaultMaxDepth, cfg.MaxDepth)
	assert.Equal(t, defaultMaxPages, cfg.MaxPages)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
	assert.Equal(t, defaultRateLimit, cfg.RateLimit)
	assert.Equal(t, defaultRetryTimes, cfg.RetryTimes)
}

func TestLoadJSONByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sitescout.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"base_url":"https://example.com","max_depth":3}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxDepth)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sitescout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: https://example.com\nmax_depth: 2\n"), 0o644))

	unset := setupEnv("SITESCOUT_MAX_DEPTH", "9")
	defer unset()

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.MaxDepth)
}

func TestLoadRejectsMissingBaseURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sitescout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_depth: 2\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadPreservesExplicitZeroMaxDepthFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sitescout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: https://example.com\nmax_depth: 0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.MaxDepth)
}

func TestLoadPreservesExplicitZeroMaxDepthFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sitescout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: https://example.com\nmax_depth: 5\n"), 0o644))

	unset := setupEnv("SITESCOUT_MAX_DEPTH", "0")
	defer unset()

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.MaxDepth)
}

func TestLoadPreservesExplicitZeroRetryTimes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sitescout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: https://example.com\nretry_times: 0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.RetryTimes)
}

func TestLoadFromEnvOnlyWithEmptyPath(t *testing.T) {
	unset := setupEnv("SITESCOUT_BASE_URL", "https://example.com")
	defer unset()

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", cfg.BaseURL.String())
}
