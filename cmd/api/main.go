package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"context-signals-go/internal/config"
	"context-signals-go/internal/logger"
	"context-signals-go/internal/server"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	log.SetLevel(cfg.LogLevel)
	log.WithField("service", "context-signals-go").Info("starting service")

	an, err := cfg.NewAnalyzer(log)
	if err != nil {
		log.WithError(err).Fatal("failed to build analyzer")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// warm the tokenizer; /readyz reports 503 until this finishes
	go an.Init(ctx)

	if err := server.New(cfg, an, log).ListenAndServe(ctx); err != nil {
		log.WithError(err).Fatal("server terminated")
	}
}
