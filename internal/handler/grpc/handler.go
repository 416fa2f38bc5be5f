package grpc

import (
	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health-checked service name. The empty name reports
// the overall server status and carries the same value.
const ServiceName = "goldenglimpses.Capsules"

// Handler is the root gRPC transport handler.
//
// It exposes the standard grpc.health.v1.Health service. The serving status
// starts as NOT_SERVING and is driven by the health probe worker through
// [Handler.SetServing].
type Handler struct {
	health *health.Server

	logger *logger.Logger
}

// NewHandler constructs a [Handler] with a health server that reports
// NOT_SERVING until the first successful probe.
func NewHandler(logger *logger.Logger) *Handler {
	h := &Handler{
		health: health.NewServer(),
		logger: logger,
	}
	h.SetServing(false)

	logger.Debug().Msg("gRPC handler created")
	return h
}

// Register attaches the handler's services to s.
func (h *Handler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
}

// ServerOptions returns the interceptors every gRPC server of the
// application is built with.
func (h *Handler) ServerOptions() []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			recoverUnary(h.logger),
			loggingUnary(h.logger),
		),
	}
}

// SetServing flips the reported status of the server and [ServiceName].
func (h *Handler) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}

	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
}

// Shutdown reports NOT_SERVING permanently, so that watchers see the
// server going away before connections are drained.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}
