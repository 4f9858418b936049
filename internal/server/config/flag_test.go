package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withArgs(t *testing.T, args []string) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"bookworm-server"}, args...)
	t.Cleanup(func() { os.Args = old })
}

func TestParseFlags_Overrides(t *testing.T) {
	withArgs(t, []string{"-a", ":8081", "-s", "flag-secret", "-t", "5", "-k", "flag-key"})

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, cfg.EndpointAddr, ":8081")
	assert.Equal(t, cfg.SecretKey, "flag-secret")
	assert.Equal(t, cfg.AccessTokenValidityDuration, 5*time.Minute)
	assert.Equal(t, cfg.CatalogAPIKey, "flag-key")
}

func TestParseFlags_ForeignFlagsIgnored(t *testing.T) {
	withArgs(t, []string{"-c", "conf.json", "-unknown", "x", "-d", "dsn-from-flag"})

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, cfg.DatabaseDSN, "dsn-from-flag")
}
