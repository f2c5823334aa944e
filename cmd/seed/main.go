// Command seed loads the default fun facts into an empty fact store.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"statesapi/infrastructure/config"
	"statesapi/infrastructure/di"

	"go.uber.org/zap"
)

func main() {
	timeout := flag.Duration("timeout", 30*time.Second, "maximum time to spend seeding")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, cleanup, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer cleanup()

	inserted, err := container.Seeder.SeedIfEmpty(ctx)
	if err != nil {
		container.Logger.Error("Seeding failed", zap.Error(err))
		cleanup()
		os.Exit(1)
	}

	if inserted == 0 {
		container.Logger.Info("Fact store already populated; nothing to seed",
			zap.String("store", cfg.StoreDriver))
		return
	}
	container.Logger.Info("Seeded fun facts",
		zap.Int("documents", inserted),
		zap.String("store", cfg.StoreDriver))
}
