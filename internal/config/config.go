// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Transport modes the server can run under.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
	TransportHTTP  = "http"
)

// Config holds all process configuration. It is read once at startup and
// never mutated afterwards.
type Config struct {
	APIKey      string
	APIBaseURL  string
	Transport   string
	Host        string
	Port        string
	Token       string
	HTTPTimeout int // seconds
	Debug       bool
	TLSCertFile string
	TLSKeyFile  string
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		APIKey:      os.Getenv("SMARTLEAD_API_KEY"),
		APIBaseURL:  getEnvOrDefault("SMARTLEAD_API_URL", "https://server.smartlead.ai/api/v1"),
		Transport:   getEnvOrDefault("TRANSPORT", TransportSSE),
		Host:        getEnvOrDefault("HOST", "0.0.0.0"),
		Port:        getEnvOrDefault("PORT", "8050"),
		Token:       os.Getenv("MCP_TOKEN"),
		HTTPTimeout: getEnvIntOrDefault("HTTP_TIMEOUT", 30),
		Debug:       strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug"),
		TLSCertFile: os.Getenv("TLS_CERT_FILE"),
		TLSKeyFile:  os.Getenv("TLS_KEY_FILE"),
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("SMARTLEAD_API_KEY environment variable is required")
	}
	switch cfg.Transport {
	case TransportStdio, TransportSSE, TransportHTTP:
	default:
		return nil, fmt.Errorf("unsupported TRANSPORT %q (want stdio, sse, or http)", cfg.Transport)
	}
	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		return nil, fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
