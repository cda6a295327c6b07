package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/akhror/zavodbot/app"
	"github.com/akhror/zavodbot/core/config"
	"github.com/akhror/zavodbot/core/logger"
)

func main() {
	// Missing .env is fine; env vars may come from the environment.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := logger.Init(cfg); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Shutdown() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil {
		logger.L.Error("fatal", "err", err.Error())
		os.Exit(1)
	}
}
