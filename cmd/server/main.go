package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	_ "github.com/lib/pq"

	"github.com/go-vera/ledger-bank/cmd/httpserver"
	"github.com/go-vera/ledger-bank/internal/middleware"
	"github.com/go-vera/ledger-bank/pkg/configpkg"
	"github.com/go-vera/ledger-bank/pkg/dbpkg"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.GetLogger(config)

	conn, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to db")
	}

	server, err := httpserver.New(conn, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobCtx := logger.WithContext(ctx)

	go server.Interest.Start(jobCtx)
	go server.Scheduler.Start(jobCtx)

	httpServer := &http.Server{
		Addr:    config.ServerAddress,
		Handler: server,
	}

	go func() {
		<-ctx.Done()

		if err := httpServer.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	logger.Info().Str("address", config.ServerAddress).Msg("starting server")

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
