// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the ID card server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"idcards/internal/cache"
	"idcards/internal/config"
	"idcards/internal/database"
	"idcards/internal/export"
	"idcards/internal/handlers"
	"idcards/internal/imaging"
	"idcards/internal/middleware"
	"idcards/internal/render"
	"idcards/internal/router"
	"idcards/internal/session"
	"idcards/internal/storage"
	"idcards/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed the role suggestions (no-op if present).
	if err := database.Seed(db); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey (card image cache + editor sessions).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark session cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	renderer, err := render.New(cfg.IsDev())
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// Templates are read from Postgres, with a local JSON copy answering
	// while the database is unreachable.
	localTemplates, err := store.NewLocalLayoutStore(cfg.TemplatesFallbackFile)
	if err != nil {
		slog.Error("failed to open local template store", "path", cfg.TemplatesFallbackFile, "error", err)
		os.Exit(1)
	}
	templateStore := store.NewFallbackLayoutStore(store.NewLayoutStore(db), localTemplates)
	settingsStore := store.NewSettingsStore(db)
	roleStore := store.NewRoleStore(db)
	exportLog := store.NewExportLogStore(db)

	loader := imaging.NewLoader(cfg.RemoteImageTimeout)
	if cfg.RemoteImageAllowPrivate {
		slog.Warn("remote images may be fetched from private addresses")
		loader.AllowPrivateNetworks()
	}
	pipeline := export.New(loader, cfg.ExportScale)
	cardCache := cache.NewCardCache(valkeyClient, cfg.CardCacheTTL)

	archiver := newArchiver(cfg)

	var exportLimiter *middleware.RateLimiter
	if cfg.ExportRateLimit > 0 {
		exportLimiter = middleware.NewRateLimiter(cfg.ExportRateLimit, time.Minute)
		defer exportLimiter.Stop()
	}

	// Create handler groups with their dependencies.
	cardHandlers := handlers.NewCards(renderer, templateStore, settingsStore, roleStore, pipeline, cardCache, archiver, exportLog)
	templateHandlers := handlers.NewTemplates(templateStore)
	associationHandlers := handlers.NewAssociation(settingsStore, roleStore, cardCache)
	editorHandlers := handlers.NewEditorSessions(renderer, sessionStore, templateStore, settingsStore)

	r := router.New(cardHandlers, templateHandlers, associationHandlers, editorHandlers, exportLimiter)

	// WriteTimeout must cover an export that fetches remote photos and logos.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// newArchiver picks where exported cards are archived: S3 when configured,
// else a local directory, else nowhere. The result is a nil interface, not
// a typed nil, when archiving is off.
func newArchiver(cfg *config.Config) storage.Archiver {
	if cfg.S3Endpoint != "" && cfg.S3AccessKey != "" {
		client, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		if client != nil {
			slog.Info("s3 archive connected", "endpoint", cfg.S3Endpoint, "bucket", client.Bucket())
			return client
		}
	}
	if d := storage.NewDisk(cfg.ArchiveDir); d != nil {
		slog.Info("archiving exports on disk", "dir", cfg.ArchiveDir)
		return d
	}
	slog.Warn("card archive not configured, exports are not archived")
	return nil
}
