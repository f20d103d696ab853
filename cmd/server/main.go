package main

import (
	"context"
	"fmt"

	"github.com/gsdportal/reserva-api/internal/config"
	handlerhttp "github.com/gsdportal/reserva-api/internal/handler/http"
	"github.com/gsdportal/reserva-api/internal/jobs"
	"github.com/gsdportal/reserva-api/internal/logger"
	"github.com/gsdportal/reserva-api/internal/mailer"
	"github.com/gsdportal/reserva-api/internal/server"
	"github.com/gsdportal/reserva-api/internal/service"
	"github.com/gsdportal/reserva-api/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("reserva-server")

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	storages := store.NewStorages(db, log)

	otpMailer := mailer.New(cfg.Mailer, log)

	services := service.NewServices(storages, otpMailer, *cfg, log)

	handler := handlerhttp.NewHandler(services, log)

	scheduler := jobs.NewScheduler(storages.ChallengeRepository, storages.NotificationRepository, cfg.Jobs, log)
	if err := scheduler.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("error starting background jobs")
	}
	defer scheduler.Stop()

	srv, err := server.NewServer(handler, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
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
