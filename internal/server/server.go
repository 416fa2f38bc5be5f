package server

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/golden-glimpses/internal/config"
	"github.com/MKhiriev/golden-glimpses/internal/handler"
	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"golang.org/x/sync/errgroup"
)

const defaultShutdownTimeout = 5 * time.Second

type server struct {
	httpServer *httpServer
	gRPCServer *grpcServer

	shutdownTimeout time.Duration

	logger *logger.Logger
}

// NewServer binds a listener for every configured transport. A bind failure
// releases the listeners already taken and is returned to the caller.
func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	servers := &server{
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}
	if servers.shutdownTimeout <= 0 {
		servers.shutdownTimeout = defaultShutdownTimeout
	}

	var err error
	if cfg.HTTPAddress != "" && handlers.HTTP != nil {
		servers.httpServer, err = newHTTPServer(handlers.HTTP.Init(), cfg.HTTPAddress, logger)
		if err != nil {
			return nil, err
		}
	}
	if cfg.GRPCAddress != "" && handlers.GRPC != nil {
		servers.gRPCServer, err = newGRPCServer(handlers.GRPC, cfg.GRPCAddress, logger)
		if err != nil {
			if servers.httpServer != nil {
				_ = servers.httpServer.listener.Close()
			}
			return nil, err
		}
	}

	if servers.httpServer == nil && servers.gRPCServer == nil {
		return nil, errNoServersAreCreated
	}

	return servers, nil
}

// RunServer serves every transport until ctx is cancelled or one of them
// fails, then shuts all of them down within the shutdown timeout.
func (s *server) RunServer(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	// launch all created servers
	for _, srv := range s.running() {
		g.Go(func() error {
			return srv.RunServer(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		s.logger.Err(err).Str("func", "*server.RunServer").Msg("server stopped with error")
		return err
	}

	s.logger.Info().Msg("server Shutdown gracefully")
	return nil
}

func (s *server) Shutdown(ctx context.Context) error {
	var errs []error
	for _, srv := range s.running() {
		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *server) running() []Server {
	var servers []Server
	if s.httpServer != nil {
		servers = append(servers, s.httpServer)
	}
	if s.gRPCServer != nil {
		servers = append(servers, s.gRPCServer)
	}
	return servers
}
