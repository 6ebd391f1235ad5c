// Package config loads the settings every service shares from the environment.
package config

import (
	"fmt"
	"strings"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type HTTPConfig struct {
	Addr string
}

type AppConfig struct {
	ServiceName string
	LogLevel    string
	Env         string
	HTTP        HTTPConfig
}

// IsProduction reports whether APP_ENV=production.
func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

type appEnv struct {
	ServiceName string `env:"SERVICE_NAME" validate:"required"`
	LogLevel    string `env:"LOG_LEVEL,default=info" validate:"omitempty,oneof=debug info warn error"`
	Env         string `env:"APP_ENV,default=development"`
	HTTPAddr    string `env:"HTTP_ADDR,default=:8080" validate:"required"`
}

func Load() (AppConfig, error) {
	var e appEnv
	if _, err := env.UnmarshalFromEnviron(&e); err != nil {
		return AppConfig{}, fmt.Errorf("config: %w", err)
	}
	e.ServiceName = strings.TrimSpace(e.ServiceName)
	e.LogLevel = strings.ToLower(strings.TrimSpace(e.LogLevel))
	e.Env = strings.TrimSpace(e.Env)
	e.HTTPAddr = strings.TrimSpace(e.HTTPAddr)
	if err := Validate(e); err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		ServiceName: e.ServiceName,
		LogLevel:    e.LogLevel,
		Env:         e.Env,
		HTTP:        HTTPConfig{Addr: e.HTTPAddr},
	}, nil
}

// Validate runs struct tag validation and flattens the failures into one
// error naming every offending field.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}
