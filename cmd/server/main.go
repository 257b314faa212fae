package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fintrack/ledger-sync/internal/config"
	handlerhttp "github.com/fintrack/ledger-sync/internal/handler/http"
	"github.com/fintrack/ledger-sync/internal/logger"
	"github.com/fintrack/ledger-sync/internal/server"
	"github.com/fintrack/ledger-sync/internal/service"
	"github.com/fintrack/ledger-sync/internal/store"
	"github.com/fintrack/ledger-sync/internal/upstream"
	"github.com/fintrack/ledger-sync/internal/workers"
	"github.com/joho/godotenv"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	// optional .env for local development
	_ = godotenv.Load()

	log := logger.NewLogger("ledger-sync")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("error running migrations")
	}

	repos := store.NewRepositories(db, log)

	client := upstream.NewHTTPAggregatorClient(upstream.HTTPClientConfig{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.RequestTimeout,
	})

	services := service.NewServices(repos, client, cfg, log)

	handler := handlerhttp.NewHandler(services, db, cfg.Upstream.WebhookSigningKey, log)

	srv, err := server.NewServer(handler, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	wrk := workers.NewWorkers(services, repos.SyncStates, cfg.Sync, log)
	wrk.Run(ctx)

	srv.RunServer()

	// server returned on signal; workers share the same signal context
	wrk.Wait()
	log.Info().Msg("workers stopped, exiting")
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
