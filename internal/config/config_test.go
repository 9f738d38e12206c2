package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.True(t, cfg.Server.EnableCORS)

	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)

	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)

	assert.Equal(t, "data/GeoLite2-ASN.mmdb", cfg.GeoIP.ASNDatabase)
	assert.Equal(t, "data/GeoLite2-Country.mmdb", cfg.GeoIP.CountryDatabase)
	assert.Equal(t, "data/GeoIP2-Anonymous-IP.mmdb", cfg.GeoIP.AnonymousIPDatabase)

	assert.Equal(t, []string{"1.2.3.4", "5.6.7.8", "9.10.11.12"}, cfg.Scoring.MaliciousIPs)
	assert.Equal(t, []string{"74.63.233.50"}, cfg.Scoring.ProxyOverrides)
	assert.Contains(t, cfg.Scoring.HighRiskCountries, "cn")
	assert.Len(t, cfg.Scoring.HighRiskCountries, 8)

	assert.Equal(t, 100, cfg.Collector.MaxEvents)
	assert.Equal(t, time.Hour, cfg.Collector.CleanupInterval)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
environment: production
server:
  port: 9090
redis:
  enabled: true
scoring:
  malicious_ips:
    - 198.51.100.1
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"198.51.100.1"}, cfg.Scoring.MaliciousIPs)

	// Untouched keys keep their defaults.
	assert.Equal(t, "localhost", cfg.Database.Host)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}
