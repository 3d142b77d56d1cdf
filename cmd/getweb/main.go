// CLAUDE:SUMMARY Entry point for the getweb MCP server — flags/env/YAML config, stdio or streamable HTTP transport.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/getweb/dbopen"
	"github.com/hazyhaar/getweb/fetchlog"
	"github.com/hazyhaar/getweb/server"
	"github.com/hazyhaar/getweb/shield"
)

const version = "1.0.0"

func main() {
	var (
		configPath    = flag.String("config", "", "optional YAML config file")
		transport     = flag.String("transport", "", "MCP transport: stdio or http")
		httpAddr      = flag.String("http", "", "listen address for the http transport")
		logLevel      = flag.String("log-level", "", "debug, info, warn or error")
		logDBPath     = flag.String("fetchlog", "", "sqlite invocation log path (empty disables)")
		retentionDays = flag.Int("retention-days", 0, "invocation log retention in days")
	)
	flag.Parse()

	cfg := &fileConfig{}
	if *configPath != "" {
		loaded, err := loadConfigFile(*configPath)
		if err != nil {
			slog.Error("config file", "path", *configPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	} else {
		cfg.applyDefaults()
	}

	cfg.Transport = firstNonEmpty(*transport, os.Getenv("MCP_TRANSPORT"), cfg.Transport)
	cfg.HTTPAddr = firstNonEmpty(*httpAddr, os.Getenv("HTTP_ADDR"), cfg.HTTPAddr)
	cfg.LogLevel = firstNonEmpty(*logLevel, os.Getenv("LOG_LEVEL"), cfg.LogLevel)
	cfg.FetchlogDB = firstNonEmpty(*logDBPath, os.Getenv("FETCHLOG_DB"), cfg.FetchlogDB)
	cfg.Google.APIKey = firstNonEmpty(os.Getenv("GOOGLE_API_KEY"), cfg.Google.APIKey)
	cfg.Google.EngineID = firstNonEmpty(os.Getenv("GOOGLE_SEARCH_ENGINE_ID"), cfg.Google.EngineID)
	cfg.Jina.APIKey = firstNonEmpty(os.Getenv("JINA_API_KEY"), cfg.Jina.APIKey)
	if *retentionDays > 0 {
		cfg.Retention.Days = *retentionDays
	}

	// Logging to stderr: stdout belongs to the stdio transport.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var logDB *sql.DB
	if cfg.FetchlogDB != "" {
		var err error
		logDB, err = dbopen.Open(cfg.FetchlogDB,
			dbopen.WithMkdirAll(), dbopen.WithSchema(fetchlog.Schema))
		if err != nil {
			slog.Error("fetchlog db", "error", err)
			os.Exit(1)
		}
		defer logDB.Close()
		go retentionLoop(ctx, logDB, cfg.Retention.Days, cfg.Retention.Vacuum)
	}

	srv := server.New(server.Config{
		Version:        version,
		GoogleAPIKey:   cfg.Google.APIKey,
		GoogleEngineID: cfg.Google.EngineID,
		JinaAPIKey:     cfg.Jina.APIKey,
		LogDB:          logDB,
		RateLimit: shield.RateLimitConfig{
			RatePerSecond: cfg.RateLimit.RatePerSecond,
			Burst:         cfg.RateLimit.Burst,
		},
		Logger: logger,
	})

	switch cfg.Transport {
	case "http":
		runHTTP(ctx, srv, cfg.HTTPAddr)
	case "stdio":
		slog.Info("serving MCP over stdio", "version", version)
		if err := srv.ServeStdio(ctx); err != nil && ctx.Err() == nil {
			slog.Error("stdio transport", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("unknown transport", "transport", cfg.Transport)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func runHTTP(ctx context.Context, srv *server.Server, addr string) {
	srv.Limiter().StartGC(ctx.Done())

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("serving MCP over http", "addr", addr, "version", version)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http transport", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
}

// retentionLoop prunes the invocation log daily.
func retentionLoop(ctx context.Context, db *sql.DB, days int, vacuum bool) {
	tick := time.NewTicker(24 * time.Hour)
	defer tick.Stop()
	for {
		if err := fetchlog.Cleanup(ctx, db, days, vacuum); err != nil {
			slog.Warn("fetchlog cleanup", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
	}
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
