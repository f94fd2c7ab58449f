package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "generated/cfp.json", cfg.Data.CFPPath)
	assert.Equal(t, 365, cfg.Scraper.HorizonDays)
	assert.Equal(t, "https://www.sosp.org", cfg.Scraper.Homepages["SOSP"])
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sysconf.yaml")
	body := `
server:
  port: 9090
data:
  base_url: https://example.org/sysconf
scraper:
  workers: 2
  timeout: 30s
  homepages:
    HotOS: https://sigops.org/s/conferences/hotos
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://example.org/sysconf", cfg.Data.BaseURL)
	assert.Equal(t, 2, cfg.Scraper.Workers)
	assert.Equal(t, 30*time.Second, cfg.Scraper.Timeout)
	assert.Equal(t, "https://sigops.org/s/conferences/hotos", cfg.Scraper.Homepages["HotOS"])
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "generated/confdates.json", cfg.Data.DatesPath)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sysconf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SYSCONF_PORT", "7000")
	t.Setenv("SYSCONF_DATA_DIR", "/srv/sysconf")
	t.Setenv("SYSCONF_LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "/srv/sysconf", cfg.Data.Dir)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("SYSCONF_PORT", "eighty")
	assert.Equal(t, 8080, envInt("SYSCONF_PORT", 8080))
}
