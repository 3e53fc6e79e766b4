// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Priotama HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Run database migrations (idempotent).
//  5. Open the onboarding session stores (Redis or in-process).
//  6. Build the outbound collaborators (mail, S3, JWT).
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/priotama/internal/api"
	"github.com/taibuivan/priotama/internal/platform/config"
	"github.com/taibuivan/priotama/internal/platform/constants"
	"github.com/taibuivan/priotama/internal/platform/mail"
	"github.com/taibuivan/priotama/internal/platform/migration"
	pgstore "github.com/taibuivan/priotama/internal/platform/postgres"
	redisstore "github.com/taibuivan/priotama/internal/platform/redis"
	"github.com/taibuivan/priotama/internal/platform/sec"
	"github.com/taibuivan/priotama/internal/platform/storage"
	"github.com/taibuivan/priotama/internal/users/account"
	"github.com/taibuivan/priotama/internal/users/admin"
	"github.com/taibuivan/priotama/internal/users/auth"
	"github.com/taibuivan/priotama/internal/users/otp"
	"github.com/taibuivan/priotama/internal/users/session"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", "priotama"))
	slog.SetDefault(log)

	log.Info("[Priotama] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "priotama"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("session_backend", cfg.Onboarding.SessionBackend),
		slog.String("mail_provider", cfg.Mail.Provider),
	)

	// Background loops (rate limiter cleanup, session sweeps) stop with this context.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 5. Session Stores ─────────────────────────────────────────────────
	health := api.HealthDependencies{
		CheckDatabase: func(context context.Context) error {
			return pgstore.Ping(context, pool)
		},
	}

	var stores auth.Stores
	switch cfg.Onboarding.SessionBackend {
	case config.SessionBackendRedis:
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()

		stores = redisStores(rdb)
		health.CheckCache = func(context context.Context) error {
			return redisstore.Ping(context, rdb)
		}

	default:
		var closeStores func()
		stores, closeStores = memoryStores(rootCtx, cfg.Onboarding.SweepInterval, log)
		defer closeStores()
	}

	// ── 6. Outbound Collaborators ─────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	sender, err := mail.New(cfg.Mail, log)
	must(log, err, "initialize mail sender")
	codeIssuer := otp.NewIssuer(sender)

	s3Client, err := storage.NewS3Client(startupCtx, cfg.S3)
	must(log, err, "initialize s3 client")
	assets := storage.NewS3Store(s3Client, cfg.S3)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(health, log)

	userRepository := auth.NewUserRepository(pool)
	authService := auth.NewService(userRepository, assets, codeIssuer, jwtSvc, stores, auth.Settings{
		RegistrationTTL: cfg.Onboarding.RegistrationTTL,
		ResetTTL:        cfg.Onboarding.ResetTTL,
		ResetTokenTTL:   cfg.Onboarding.ResetTokenTTL,
		AccessTokenTTL:  constants.MemberTokenTTL,
	})

	accountService := account.NewService(account.NewAccountRepository(pool), assets, log)
	adminService := admin.NewService(admin.NewAdminRepository(pool), jwtSvc, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Account:   account.NewHandler(accountService),
		Admin:     admin.NewHandler(adminService),
	}

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(rootCtx, cfg, log, jwtSvc, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// redisStores backs every onboarding session with Redis so sessions survive
// restarts and are shared between instances.
func redisStores(client *goredis.Client) auth.Stores {
	return auth.Stores{
		Registrations:     session.NewRedisStore[auth.PendingRegistration](client, constants.RedisPrefixRegistration),
		RegistrationIndex: session.NewRedisStore[string](client, constants.RedisPrefixRegistrationEmail),
		Resets:            session.NewRedisStore[auth.PendingPasswordReset](client, constants.RedisPrefixReset),
		ResetIndex:        session.NewRedisStore[string](client, constants.RedisPrefixResetUser),
	}
}

// memoryStores keeps onboarding sessions in-process and starts their sweepers.
// The returned func stops the sweepers.
func memoryStores(context context.Context, sweepInterval time.Duration, log *slog.Logger) (auth.Stores, func()) {
	registrations := session.NewMemoryStore[auth.PendingRegistration](
		session.WithSweepInterval(sweepInterval), session.WithLogger(log, "registrations"))
	registrationIndex := session.NewMemoryStore[string](
		session.WithSweepInterval(sweepInterval), session.WithLogger(log, "registration_index"))
	resets := session.NewMemoryStore[auth.PendingPasswordReset](
		session.WithSweepInterval(sweepInterval), session.WithLogger(log, "resets"))
	resetIndex := session.NewMemoryStore[string](
		session.WithSweepInterval(sweepInterval), session.WithLogger(log, "reset_index"))

	registrations.Start(context)
	registrationIndex.Start(context)
	resets.Start(context)
	resetIndex.Start(context)

	log.Warn("session_backend_memory", slog.String("hint", "sessions are lost on restart and not shared between instances"))

	stores := auth.Stores{
		Registrations:     registrations,
		RegistrationIndex: registrationIndex,
		Resets:            resets,
		ResetIndex:        resetIndex,
	}

	return stores, func() {
		registrations.Close()
		registrationIndex.Close()
		resets.Close()
		resetIndex.Close()
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
