// Package main is the entry point for the TripWeaver API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"

	"github.com/tripweaver/backend/internal/config"
	"github.com/tripweaver/backend/internal/enrich"
	"github.com/tripweaver/backend/internal/handler"
	"github.com/tripweaver/backend/internal/llm"
	"github.com/tripweaver/backend/internal/mail"
	"github.com/tripweaver/backend/internal/middleware"
	"github.com/tripweaver/backend/internal/repo"
	"github.com/tripweaver/backend/internal/service"
	"github.com/tripweaver/backend/migrations"
)

// maxBodyBytes caps request bodies. Itinerary save payloads are the largest
// legitimate bodies and stay well under this.
const maxBodyBytes = 1 << 20 // 1 MiB

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog JSON handler writes machine-readable output suitable for log
	// aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately — the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic. Container
	// orchestration often starts the API before Postgres is ready, so ping
	// with backoff instead of failing on the first refused connection.
	pingBackoff := retry.WithMaxDuration(30*time.Second, retry.NewExponential(time.Second))
	err = retry.Do(context.Background(), pingBackoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			slog.Warn("database not ready, retrying", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Migrations -------------------------------------------------------
	// goose needs database/sql, not a pgx pool; open a second short-lived
	// connection just for schema bootstrap.
	if err := runMigrations(cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database schema up to date")

	// --- Upstream clients -------------------------------------------------
	generator, err := llm.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GenerateMaxRetries)
	if err != nil {
		slog.Error("failed to create generation client", "error", err)
		os.Exit(1)
	}

	// Enrichment providers are optional; nil disables that lookup kind.
	var images enrich.ImageSearcher
	if cfg.UnsplashAccessKey != "" {
		images = enrich.NewUnsplashClient(cfg.UnsplashAccessKey)
	} else {
		slog.Warn("UNSPLASH_ACCESS_KEY not set, image enrichment disabled")
	}
	var weather enrich.WeatherProvider
	if cfg.OpenWeatherAPIKey != "" {
		weather = enrich.NewOpenWeatherClient(cfg.OpenWeatherAPIKey)
	} else {
		slog.Warn("OPENWEATHER_API_KEY not set, weather enrichment disabled")
	}
	enricher := enrich.New(images, weather, logger)

	var sender service.CodeSender
	if cfg.MailConfigured() {
		sender = mail.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom, cfg.EmailName)
	}

	// --- Repositories and services ----------------------------------------
	userRepo := repo.NewUserRepo(pool)
	tripRepo := repo.NewTripRepo(pool)
	itineraryRepo := repo.NewItineraryRepo(pool)

	authService := service.NewAuthService(userRepo, sender, cfg.JWTSecret, cfg.JWTTTL, logger)
	tripService := service.NewTripService(tripRepo)
	itineraryService := service.NewItineraryService(itineraryRepo, tripRepo)

	server := handler.NewServer(authService, tripService, itineraryService, generator, enricher, cfg.JWTSecret, logger)

	// --- Router -----------------------------------------------------------
	// Middleware order: RequestID → RealIP → Logger → Recoverer → CORS → body cap.
	// Recoverer catches panics and returns HTTP 500 — except ErrAbortHandler,
	// which it re-raises so a mid-stream generation failure closes the
	// connection instead of appending a 500 to a 200 stream.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodyBytes))

	r.Mount("/", server.Routes())

	// --- HTTP Server ------------------------------------------------------
	// WriteTimeout must outlast a full generation stream (retries included),
	// so it is much longer than a typical API server's.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// runMigrations applies all pending embedded migrations.
func runMigrations(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(context.Background())
	return err
}
