// Command my-site runs the blog's HTTP server.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/MisterKipper/my-site/internal/config"
	"github.com/MisterKipper/my-site/internal/storage/sqlite"
	"github.com/MisterKipper/my-site/internal/web"
)

func main() {
	cfg, err := config.ParseEnv()
	if err != nil {
		config.Exitf("my-site: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		config.Exitf("my-site: open database: %v", err)
	}
	defer store.Close()

	if err := store.SeedRoles(ctx); err != nil {
		config.Exitf("my-site: seed roles: %v", err)
	}

	server, err := web.New(cfg, store)
	if err != nil {
		config.Exitf("my-site: %v", err)
	}
	if err := server.ListenAndServe(ctx); err != nil {
		log.Fatalf("my-site: %v", err)
	}
}
