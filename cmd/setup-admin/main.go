// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command setup-admin seeds the operator account used by the admin console.
//
// It is idempotent: when an admin with ADMIN_EMAIL already exists nothing is
// changed. The password must be supplied through ADMIN_PASSWORD.
//
// # Usage
//
//	ADMIN_EMAIL=admin@priotama.com ADMIN_NAME=Admin ADMIN_PASSWORD=... go run ./cmd/setup-admin
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	pgstore "github.com/taibuivan/priotama/internal/platform/postgres"
	"github.com/taibuivan/priotama/internal/users/admin"
)

// seedConfig is the subset of the environment this command needs.
type seedConfig struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	Email       string `env:"ADMIN_EMAIL"    envDefault:"admin@priotama.com"`
	Name        string `env:"ADMIN_NAME"     envDefault:"Admin"`
	Password    string `env:"ADMIN_PASSWORD,required"`
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("app", "priotama-setup-admin"))

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fail(log, err, "read .env file")
	}

	cfg := seedConfig{}
	if err := env.Parse(&cfg); err != nil {
		fail(log, err, "parse environment")
	}

	context, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgstore.NewPool(context, cfg.DatabaseURL, log)
	if err != nil {
		fail(log, err, "connect to postgres")
	}
	defer pool.Close()

	// The seeder never signs tokens.
	service := admin.NewService(admin.NewAdminRepository(pool), nil, log)

	created, err := service.EnsureAdmin(context, cfg.Email, cfg.Name, cfg.Password)
	if err != nil {
		pool.Close()
		fail(log, err, "seed admin")
	}

	if !created {
		log.Info("admin_already_exists", slog.String("email", cfg.Email))
		return
	}
	log.Info("admin_created", slog.String("email", cfg.Email))
}

// fail logs a structured error and terminates the process.
func fail(log *slog.Logger, err error, step string) {
	log.Error("setup_admin_failed", slog.String("step", step), slog.Any("error", err))
	os.Exit(1)
}
