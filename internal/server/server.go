// Package server wires the Smartlead campaign API into an MCP server.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"smartlead-mcp/internal/smartlead"
)

const serverVersion = "1.0.0"

// Config contains server configuration values such as the inbound auth
// token and the upstream API credentials.
type Config struct {
	Token       string
	APIKey      string
	APIBaseURL  string
	HTTPTimeout time.Duration
}

// Server contains the MCP server, the upstream client, and the HTTP router
// used by the networked transports.
type Server struct {
	cfg    Config
	client *smartlead.Client
	mcp    *mcpserver.MCPServer
	router *chi.Mux
	tools  map[string]mcpserver.ToolHandlerFunc
}

// New constructs a Server with all tools registered and routes configured.
func New(cfg Config) *Server {
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	s := &Server{
		cfg:    cfg,
		client: smartlead.New(cfg.APIBaseURL, cfg.APIKey, &http.Client{Timeout: cfg.HTTPTimeout}),
		mcp: mcpserver.NewMCPServer(
			"smartlead-mcp",
			serverVersion,
			mcpserver.WithToolCapabilities(true),
			mcpserver.WithRecovery(),
		),
		router: chi.NewRouter(),
	}
	s.registerTools()

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)

	sse := mcpserver.NewSSEServer(s.mcp,
		mcpserver.WithSSEEndpoint("/sse"),
		mcpserver.WithMessageEndpoint("/message"),
	)
	streamable := mcpserver.NewStreamableHTTPServer(s.mcp,
		mcpserver.WithEndpointPath("/mcp"),
	)

	s.router.Group(func(r chi.Router) {
		r.Use(s.auth)
		r.Handle("/sse", sse.SSEHandler())
		r.Handle("/message", sse.MessageHandler())
		r.Handle("/mcp", streamable)
	})

	return s
}

// Router exposes the root HTTP handler for the networked transports.
func (s *Server) Router() http.Handler { return s.router }

// ServeStdio runs the MCP server over stdin/stdout until the stream closes.
func (s *Server) ServeStdio() error { return mcpserver.ServeStdio(s.mcp) }

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Token == "" {
			next.ServeHTTP(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+s.cfg.Token {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
