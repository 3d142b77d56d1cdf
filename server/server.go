// CLAUDE:SUMMARY Assembles the getweb MCP server: pipeline + search tools, stdio and streamable HTTP transports.
// Package server wires the extraction pipeline and the search providers
// into one MCP server and exposes it over stdio or streamable HTTP.
package server

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/getweb/docpipe"
	"github.com/hazyhaar/getweb/fetchlog"
	"github.com/hazyhaar/getweb/kit"
	"github.com/hazyhaar/getweb/shield"
	"github.com/hazyhaar/getweb/webfetch"
	"github.com/hazyhaar/getweb/websearch"
)

// Config assembles the server. Google and Jina credentials are
// optional; their tools stay registered and report a configuration
// error when called without them.
type Config struct {
	Version string

	GoogleAPIKey   string
	GoogleEngineID string
	JinaAPIKey     string

	// Fetcher used by the pipeline and every provider. Defaults to a
	// webfetch.Fetcher with the standard URL validation.
	Fetcher *webfetch.Fetcher

	// LogDB, when set, enables the sqlite invocation log on every tool.
	LogDB *sql.DB

	// RateLimit bounds the streamable HTTP transport per client IP.
	// Zero values fall back to the shield defaults.
	RateLimit shield.RateLimitConfig

	Logger *slog.Logger
}

// Server is the assembled MCP server.
type Server struct {
	mcp     *mcp.Server
	limiter *shield.RateLimiter
	logger  *slog.Logger
}

// New builds the server and registers all tools.
func New(cfg Config) *Server {
	if cfg.Version == "" {
		cfg.Version = "1.0.0"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Fetcher == nil {
		cfg.Fetcher = webfetch.New(webfetch.Config{})
	}

	var instrument func(tool string) kit.Middleware
	if cfg.LogDB != nil {
		rec := fetchlog.New(cfg.LogDB, fetchlog.WithLogger(cfg.Logger))
		instrument = rec.Instrument
	}

	srv := mcp.NewServer(&mcp.Implementation{Name: "getweb", Version: cfg.Version}, nil)

	pipeline := docpipe.New(docpipe.Config{Logger: cfg.Logger.With("component", "docpipe")})
	if instrument != nil {
		pipeline.RegisterMCP(srv, cfg.Fetcher, instrument("url-fetch"))
	} else {
		pipeline.RegisterMCP(srv, cfg.Fetcher)
	}

	var google *websearch.Google
	if cfg.GoogleAPIKey != "" && cfg.GoogleEngineID != "" {
		google = websearch.NewGoogle(websearch.GoogleConfig{
			APIKey:   cfg.GoogleAPIKey,
			EngineID: cfg.GoogleEngineID,
			Fetcher:  cfg.Fetcher,
			Logger:   cfg.Logger.With("component", "google"),
		})
	}
	var jina *websearch.Jina
	if cfg.JinaAPIKey != "" {
		jina = websearch.NewJina(websearch.JinaConfig{
			APIKey:  cfg.JinaAPIKey,
			Fetcher: cfg.Fetcher,
			Logger:  cfg.Logger.With("component", "jina"),
		})
	}
	search := websearch.NewService(websearch.ServiceConfig{
		Google:     google,
		Jina:       jina,
		Fetcher:    cfg.Fetcher,
		Instrument: instrument,
	})
	search.RegisterMCP(srv)

	return &Server{
		mcp:     srv,
		limiter: shield.NewRateLimiter(cfg.RateLimit),
		logger:  cfg.Logger,
	}
}

// MCP returns the underlying MCP server, for tests and custom
// transports.
func (s *Server) MCP() *mcp.Server {
	return s.mcp
}

// ServeStdio runs the server over stdio until ctx is cancelled or the
// client disconnects.
func (s *Server) ServeStdio(ctx context.Context) error {
	ctx = kit.WithTransport(ctx, "stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// Limiter returns the HTTP rate limiter so callers can start its GC.
func (s *Server) Limiter() *shield.RateLimiter {
	return s.limiter
}

// Handler returns the streamable HTTP transport mounted on a chi
// router: POST /mcp behind the shield stack, plus /healthz.
func (s *Server) Handler() http.Handler {
	streamable := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.mcp
	}, &mcp.StreamableHTTPOptions{Stateless: true})

	r := chi.NewRouter()
	r.Use(shield.SecurityHeaders(shield.DefaultHeaders()))
	r.Use(shield.MaxBody(1 << 20))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	// Health checks bypass the rate limit.
	r.With(s.limiter.Middleware).Handle("/mcp", tagTransport(streamable))
	return r
}

// tagTransport marks requests as arriving over HTTP so the invocation
// log records the right transport, and captures the client IP.
func tagTransport(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := kit.WithTransport(r.Context(), "http")
		ctx = kit.WithRemoteAddr(ctx, shield.ExtractIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
