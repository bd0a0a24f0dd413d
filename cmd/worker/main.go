// The worker consumes upload events from the notification outbox and sends
// confirmation emails. It runs as a separate process from the API server;
// the outbox table is the only link between the two.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/filedrop/service/internal/config"
	"github.com/filedrop/service/internal/db"
	"github.com/filedrop/service/internal/notify"
)

func main() {
	cfg := config.Load()

	if cfg.IsProduction() {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).Level(zerolog.DebugLevel)
	}

	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	repo := notify.NewRepository(pool)
	mailer := notify.NewSendGridMailer(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.EmailFromName)
	worker := notify.NewWorker(repo, mailer, cfg.WorkerPollInterval)

	ctx, cancel := context.WithCancel(context.Background())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info().Msg("shutting down...")
		cancel()
	}()

	log.Info().Dur("poll_interval", cfg.WorkerPollInterval).Msg("notification worker started")
	worker.Run(ctx)
	log.Info().Msg("notification worker stopped")
}
