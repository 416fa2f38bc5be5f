package handler

import (
	"github.com/MKhiriev/golden-glimpses/internal/config"
	"github.com/MKhiriev/golden-glimpses/internal/handler/grpc"
	"github.com/MKhiriev/golden-glimpses/internal/handler/http"
	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/MKhiriev/golden-glimpses/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
	GRPC *grpc.Handler
}

// NewHandlers builds the transport handlers for every configured address.
// The HTTP handler serves the capsule API, the gRPC handler serves health.
func NewHandlers(services *service.Services, server config.Server, files config.Files, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if server.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, server, files, logger)
	}
	if server.GRPCAddress != "" {
		handlers.GRPC = grpc.NewHandler(logger)
	}

	if handlers.HTTP == nil && handlers.GRPC == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
