package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SMARTLEAD_API_KEY", "SMARTLEAD_API_URL", "TRANSPORT", "HOST", "PORT",
		"MCP_TOKEN", "HTTP_TIMEOUT", "LOG_LEVEL", "TLS_CERT_FILE", "TLS_KEY_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SMARTLEAD_API_KEY", "key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, "https://server.smartlead.ai/api/v1", cfg.APIBaseURL)
	assert.Equal(t, TransportSSE, cfg.Transport)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "8050", cfg.Port)
	assert.Equal(t, 30, cfg.HTTPTimeout)
	assert.False(t, cfg.Debug)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SMARTLEAD_API_KEY", "key")
	t.Setenv("SMARTLEAD_API_URL", "http://localhost:9999/api/v1")
	t.Setenv("TRANSPORT", "stdio")
	t.Setenv("PORT", "9000")
	t.Setenv("HTTP_TIMEOUT", "5")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999/api/v1", cfg.APIBaseURL)
	assert.Equal(t, TransportStdio, cfg.Transport)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 5, cfg.HTTPTimeout)
	assert.True(t, cfg.Debug)
}

func TestLoadMissingAPIKey(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMARTLEAD_API_KEY")
}

func TestLoadBadTransport(t *testing.T) {
	clearEnv(t)
	t.Setenv("SMARTLEAD_API_KEY", "key")
	t.Setenv("TRANSPORT", "websocket")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRANSPORT")
}

func TestLoadTLSPair(t *testing.T) {
	clearEnv(t)
	t.Setenv("SMARTLEAD_API_KEY", "key")
	t.Setenv("TLS_CERT_FILE", "/etc/certs/server.crt")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("TLS_KEY_FILE", "/etc/certs/server.key")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/etc/certs/server.crt", cfg.TLSCertFile)
}
