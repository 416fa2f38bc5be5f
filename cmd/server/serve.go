package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/golden-glimpses/internal/adapter"
	"github.com/MKhiriev/golden-glimpses/internal/config"
	"github.com/MKhiriev/golden-glimpses/internal/handler"
	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/MKhiriev/golden-glimpses/internal/server"
	"github.com/MKhiriev/golden-glimpses/internal/service"
	"github.com/MKhiriev/golden-glimpses/internal/store"
	"github.com/MKhiriev/golden-glimpses/internal/workers"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC servers with background workers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}
}

// loadConfig resolves the configuration from the command's flags and applies
// the configured log level.
func loadConfig(cmd *cobra.Command, log *logger.Logger) (*config.StructuredConfig, error) {
	cfg, err := config.GetStructuredConfig(cmd.Flags())
	if err != nil {
		log.Err(err).Msg("error getting configs")
		return nil, err
	}

	if err = logger.SetLevel(cfg.App.LogLevel); err != nil {
		log.Warn().Err(err).Str("level", cfg.App.LogLevel).Msg("unknown log level, keeping debug")
	}

	return cfg, nil
}

func runServe(cmd *cobra.Command) error {
	info := buildInfo()
	printBuildInfo(cmd.OutOrStdout(), info)

	log := logger.NewLogger("golden-glimpses-server")
	cfg, err := loadConfig(cmd, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(
		cmd.Context(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Err(err).Msg("error creating storages")
		return err
	}
	defer func() {
		if closeErr := storages.Close(); closeErr != nil {
			log.Err(closeErr).Msg("error closing storages")
		}
	}()

	mediaHost, err := adapter.NewMediaHost(ctx, cfg.Storage.Files, log)
	if err != nil {
		return err
	}

	services, err := service.NewServices(storages, mediaHost, *cfg, info, log)
	if err != nil {
		log.Err(err).Msg("error creating services")
		return err
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, cfg.Storage.Files, log)
	if err != nil {
		log.Err(err).Msg("error creating handlers")
		return err
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Err(err).Msg("error creating server")
		return err
	}

	var statusSetter workers.StatusSetter
	if handlers.GRPC != nil {
		statusSetter = handlers.GRPC
	}
	bg := workers.NewWorkers(services.AuthService, storages, statusSetter, cfg.Workers, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.RunServer(gctx) })
	g.Go(func() error { return bg.Run(gctx) })

	if err = g.Wait(); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
