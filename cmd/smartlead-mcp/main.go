// Command smartlead-mcp starts the Smartlead MCP server.
package main

import (
	"log"
	"net"
	"net/http"
	"time"

	"smartlead-mcp/internal/config"
	"smartlead-mcp/internal/logging"
	"smartlead-mcp/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logging.Initialize(cfg.Debug)

	srv := server.New(server.Config{
		Token:       cfg.Token,
		APIKey:      cfg.APIKey,
		APIBaseURL:  cfg.APIBaseURL,
		HTTPTimeout: time.Duration(cfg.HTTPTimeout) * time.Second,
	})

	if cfg.Transport == config.TransportStdio {
		logging.Info("Starting MCP server on stdio")
		if err := srv.ServeStdio(); err != nil {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	if cfg.Token == "" {
		logging.Info("WARN: MCP_TOKEN not set; MCP endpoints will be open. Set MCP_TOKEN to secure.")
	}
	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	logging.Info("Starting MCP %s server on %s", cfg.Transport, addr)
	if cfg.TLSCertFile != "" {
		logging.Info("TLS enabled: using provided certificate and key")
		if err := http.ListenAndServeTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile, srv.Router()); err != nil {
			log.Fatalf("server error: %v", err)
		}
		return
	}
	logging.Info("WARN: TLS not configured; run behind a TLS-terminating proxy in production.")
	if err := http.ListenAndServe(addr, srv.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
