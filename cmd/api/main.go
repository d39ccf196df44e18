// Package main is the entry point for the TrailMatch API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/trailmatch/backend/internal/config"
	"github.com/trailmatch/backend/internal/handler"
	"github.com/trailmatch/backend/internal/mail"
	"github.com/trailmatch/backend/internal/middleware"
	"github.com/trailmatch/backend/internal/payment"
	"github.com/trailmatch/backend/internal/repo"
	"github.com/trailmatch/backend/internal/service"
	"github.com/trailmatch/backend/internal/storage"
)

// maxRequestBody bounds every request body. Photo uploads ride in JSON with
// base64 encoding, so allow headroom over the 10 MiB photo limit.
const maxRequestBody = 16 << 20

func main() {
	// --- Config -----------------------------------------------------------
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog is the stdlib structured logger introduced in Go 1.21.
	// JSON handler writes machine-readable output suitable for log aggregators.
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

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Repositories -----------------------------------------------------
	userRepo := repo.NewUserRepo(pool)
	tripRepo := repo.NewTripRepo(pool)
	vehicleRepo := repo.NewVehicleRepo(pool)
	participantRepo := repo.NewParticipantRepo(pool)
	shopRepo := repo.NewShopRepo(pool)
	tokenRepo := repo.NewTokenRepo(pool)

	// --- Services ---------------------------------------------------------
	payments := payment.NewStripeGate(cfg.StripeSecretKey)
	mailer := mail.NewLogMailer(logger)
	photoStore := storage.NewHTTPStore(cfg.UploadEndpoint, cfg.UploadAPIKey, cfg.AssetBaseURL)

	authSvc := service.NewAuthService(userRepo, tokenRepo, mailer, []byte(cfg.JWTSecret), logger)
	tripSvc := service.NewTripService(tripRepo, payments, logger)
	vehicleSvc := service.NewVehicleService(vehicleRepo)
	participantSvc := service.NewParticipantService(participantRepo, tripRepo, logger)
	shopSvc := service.NewShopService(shopRepo, logger)
	adminSvc := service.NewAdminService(userRepo, tripRepo, shopRepo, logger)
	uploadSvc := service.NewUploadService(photoStore)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxRequestBody))

	optional, required := middleware.NewAuthenticator(authSvc)

	server := handler.NewServer(
		tripSvc,
		authSvc,
		vehicleSvc,
		participantSvc,
		shopSvc,
		adminSvc,
		uploadSvc,
		cfg.SecureCookies,
	)
	r.Mount("/", server.Routes(optional, required))

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
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
