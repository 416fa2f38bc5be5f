package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	myGRPC "github.com/MKhiriev/golden-glimpses/internal/handler/grpc"
	"github.com/MKhiriev/golden-glimpses/internal/logger"

	"google.golang.org/grpc"
)

type grpcServer struct {
	handler *myGRPC.Handler

	server          *grpc.Server
	gRPCNetListener net.Listener

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, address string, logger *logger.Logger) (*grpcServer, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: grpc %s: %w", errListen, address, err)
	}

	server := grpc.NewServer(handler.ServerOptions()...)
	handler.Register(server)

	return &grpcServer{
		handler:         handler,
		server:          server,
		gRPCNetListener: listener,
		logger:          logger,
	}, nil
}

func (g *grpcServer) RunServer(_ context.Context) error {
	g.logger.Info().Str("address", g.gRPCNetListener.Addr().String()).Msg("gRPC server listening")

	if err := g.server.Serve(g.gRPCNetListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		g.logger.Err(err).Str("func", "*grpcServer.RunServer").Msg("gRPC server Serve failed")
		return err
	}
	return nil
}

// Shutdown reports NOT_SERVING, then drains connections. Connections still
// open when ctx expires are closed forcibly.
func (g *grpcServer) Shutdown(ctx context.Context) error {
	g.logger.Info().Msg("gRPC server Shutdown")
	g.handler.Shutdown()

	stopped := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		g.logger.Warn().Msg("gRPC graceful stop timed out, forcing stop")
		g.server.Stop()
		<-stopped
		return ctx.Err()
	}
}
