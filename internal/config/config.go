// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the site needs at startup.
type Config struct {
	HTTPAddr        string `env:"HTTP_ADDR" envDefault:":8080"`
	DatabasePath    string `env:"DATABASE_PATH" envDefault:"my-site.db"`
	SecretKey       string `env:"SECRET_KEY,required,notEmpty"`
	AdminEmail      string `env:"ADMIN_EMAIL" envDefault:""`
	PostsPerPage    int    `env:"POSTS_PER_PAGE" envDefault:"10"`
	CommentsPerPage int    `env:"COMMENTS_PER_PAGE" envDefault:"10"`
	SiteURL         string `env:"SITE_URL" envDefault:"http://localhost:8080"`
}

// ParseEnv reads configuration from the process environment.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	if cfg.PostsPerPage <= 0 {
		return Config{}, fmt.Errorf("config: POSTS_PER_PAGE must be positive")
	}
	if cfg.CommentsPerPage <= 0 {
		return Config{}, fmt.Errorf("config: COMMENTS_PER_PAGE must be positive")
	}
	return cfg, nil
}

// Exitf prints a fatal startup error and exits.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
