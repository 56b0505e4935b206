// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/himlearn/internal/api"
	"github.com/olegiv/himlearn/internal/avatar"
	"github.com/olegiv/himlearn/internal/cache"
	"github.com/olegiv/himlearn/internal/config"
	"github.com/olegiv/himlearn/internal/handler"
	"github.com/olegiv/himlearn/internal/imaging"
	"github.com/olegiv/himlearn/internal/logging"
	"github.com/olegiv/himlearn/internal/middleware"
	"github.com/olegiv/himlearn/internal/render"
	"github.com/olegiv/himlearn/internal/scheduler"
	"github.com/olegiv/himlearn/internal/service"
	"github.com/olegiv/himlearn/internal/session"
	"github.com/olegiv/himlearn/internal/store"
	"github.com/olegiv/himlearn/internal/version"
	"github.com/olegiv/himlearn/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 30 * time.Second

	// Public pages: 10 requests/second per IP with bursts of 40.
	publicRateLimit = 10
	publicBurst     = 40
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "HimLearn - learning materials web frontend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HIMLEARN_API_URL           Learning materials API base URL (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HIMLEARN_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HIMLEARN_DB_PATH           SQLite database path (default: ./data/himlearn.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HIMLEARN_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HIMLEARN_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HIMLEARN_REDIS_URL         Redis URL for shared caching (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}
	if *showVersion {
		_, _ = fmt.Println(versionInfo.String())
		os.Exit(0)
	}

	if err := run(versionInfo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(versionInfo version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	sessionManager := session.New(db, cfg.IsDevelopment())

	cacheResult, err := cache.NewCache(cache.Config{
		RedisURL:         cfg.RedisURL,
		Prefix:           cfg.CachePrefix,
		DefaultTTL:       cfg.CacheTTLDuration(),
		MaxItems:         cfg.CacheMaxSize,
		CleanupInterval:  time.Minute,
		FallbackToMemory: true,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	appCache := cacheResult.Cache
	defer func() { _ = appCache.Close() }()
	slog.Info("cache initialized", "backend", cacheResult.Backend, "fallback", cacheResult.IsFallback)

	userAgent := "himlearn/" + versionInfo.Short()
	newClient := func() (*api.Client, error) {
		return api.New(cfg.APIURL, api.WithTimeout(cfg.APITimeoutDuration()), api.WithUserAgent(userAgent))
	}
	registry := session.NewRegistry(newClient, cfg.VisitorIdle())

	// Image fetches carry no credentials, so one client serves everyone.
	mediaClient, err := newClient()
	if err != nil {
		return fmt.Errorf("creating media client: %w", err)
	}

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		UserFunc:       middleware.CurrentUser,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}

	ctx := context.Background()
	mediaHandler, err := handler.NewMediaHandler(ctx, mediaClient, appCache, cfg.CacheTTLDuration())
	if err != nil {
		return fmt.Errorf("initializing media handler: %w", err)
	}

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Stop()

	events := service.NewEventService(db)
	editor := service.NewEditor(appCache, imaging.NewProcessor(cfg.UploadMaxBytes()), cfg.CacheTTLDuration())
	checker := avatar.NewChecker(avatar.WithMaxBytes(cfg.AvatarMaxBytes))

	sched := scheduler.New(logger)
	if err := sched.AddJob("sweep-visitors", "@every 5m", scheduler.SweepVisitors(registry, logger)); err != nil {
		return fmt.Errorf("scheduling visitor sweep: %w", err)
	}
	if err := sched.AddJob("prune-events", "@daily", scheduler.PruneEvents(db, cfg.EventRetention(), logger)); err != nil {
		return fmt.Errorf("scheduling event pruning: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	router := handler.NewRouter(handler.RouterConfig{
		SessionManager:  sessionManager,
		Registry:        registry,
		Renderer:        renderer,
		LoginProtection: loginProtection,
		RateLimiter:     middleware.NewGlobalRateLimiter(publicRateLimit, publicBurst),
		CSRF: middleware.CSRF(middleware.DefaultCSRFConfig(
			[]byte(cfg.SessionSecret), cfg.IsDevelopment(), strconv.Itoa(cfg.ServerPort))),
		Security:       middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment()),
		StaticFS:       staticFS,
		ResolveWait:    middleware.DefaultResolveWait,
		RequestTimeout: requestTimeout,
		RequestLogging: true,

		Auth:      handler.NewAuthHandler(renderer, sessionManager, events, loginProtection),
		Frontend:  handler.NewFrontendHandler(renderer),
		Materials: handler.NewMaterialsHandler(renderer, editor, cfg.UploadMaxBytes()),
		Admin:     handler.NewAdminHandler(renderer, events),
		Profile:   handler.NewProfileHandler(renderer, checker),
		Media:     mediaHandler,
		Health:    handler.NewHealthHandler(db, appCache, registry, versionInfo),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // uploads and slow backend calls
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "api", cfg.APIURL, "version", versionInfo.Short())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
