// Package config holds the comments service settings layered on top of the
// platform AppConfig.
package config

import (
	"errors"
	"fmt"
	"strings"

	env "github.com/Netflix/go-env"

	platformconfig "github.com/example/microblog/internal/platform/config"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendBadger   = "badger"
	BackendPostgres = "postgres"
)

type Config struct {
	App platformconfig.AppConfig

	StoreBackend    string `env:"STORE_BACKEND,default=memory" validate:"oneof=memory badger postgres"`
	DatabaseURL     string `env:"DATABASE_URL" validate:"required_if=StoreBackend postgres"`
	BadgerPath      string `env:"BADGER_PATH,default=data/comments" validate:"required_if=StoreBackend badger"`
	GRPCAddr        string `env:"GRPC_ADDR,default=:9090" validate:"required"`
	JWTSecret       string `env:"JWT_SECRET"`
	DefaultPageSize int    `env:"DEFAULT_PAGE_SIZE,default=50" validate:"gte=1,ltefield=MaxPageSize"`
	MaxPageSize     int    `env:"MAX_PAGE_SIZE,default=100" validate:"gte=1,lte=1000"`
	EventsEnabled   bool   `env:"EVENTS_ENABLED,default=false"`
	NatsURL         string `env:"NATS_URL"`
}

func Load() (Config, error) {
	app, err := platformconfig.Load()
	if err != nil {
		return Config{}, err
	}
	cfg := Config{App: app}
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.BadgerPath = strings.TrimSpace(cfg.BadgerPath)
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)

	if err := platformconfig.Validate(cfg); err != nil {
		return Config{}, err
	}
	if app.IsProduction() {
		if cfg.StoreBackend == BackendMemory {
			return Config{}, errors.New("config: memory store backend is not allowed in production")
		}
		if cfg.JWTSecret == "" {
			return Config{}, errors.New("config: JWT_SECRET is required in production")
		}
	}
	return cfg, nil
}
