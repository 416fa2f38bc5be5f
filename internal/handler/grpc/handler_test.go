package grpc

import (
	"bytes"
	"context"
	"net"
	"testing"

	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

// startHealth serves h over an in-memory listener and returns a health
// client connected to it.
func startHealth(t *testing.T, h *Handler) healthpb.HealthClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(h.ServerOptions()...)
	h.Register(srv)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return healthpb.NewHealthClient(conn)
}

func check(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestHandler_StartsNotServing(t *testing.T) {
	client := startHealth(t, NewHandler(logger.Nop()))

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, ServiceName))
}

func TestHandler_SetServing(t *testing.T) {
	h := NewHandler(logger.Nop())
	client := startHealth(t, h)

	h.SetServing(true)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, ServiceName))

	h.SetServing(false)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, ServiceName))
}

func TestHandler_UnknownService(t *testing.T) {
	client := startHealth(t, NewHandler(logger.Nop()))

	_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "nope"})
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestHandler_ShutdownIsPermanent(t *testing.T) {
	h := NewHandler(logger.Nop())
	client := startHealth(t, h)

	h.SetServing(true)
	h.Shutdown()
	h.SetServing(true)

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, ""))
}

// ── interceptors ──

var testInfo = &grpc.UnaryServerInfo{FullMethod: "/test.Service/Call"}

func TestRecoverUnary_ConvertsPanic(t *testing.T) {
	var buf bytes.Buffer
	log := &logger.Logger{Logger: zerolog.New(&buf)}

	resp, err := recoverUnary(log)(context.Background(), nil, testInfo, func(context.Context, any) (any, error) {
		panic("boom")
	})

	assert.Nil(t, resp)
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Contains(t, buf.String(), "panic in gRPC handler")
	assert.Contains(t, buf.String(), "/test.Service/Call")
}

func TestRecoverUnary_PassesThrough(t *testing.T) {
	resp, err := recoverUnary(logger.Nop())(context.Background(), "req", testInfo, func(_ context.Context, req any) (any, error) {
		return req, nil
	})

	require.NoError(t, err)
	assert.Equal(t, "req", resp)
}

func TestLoggingUnary_LogsCodeAndMethod(t *testing.T) {
	var buf bytes.Buffer
	log := &logger.Logger{Logger: zerolog.New(&buf)}

	_, err := loggingUnary(log)(context.Background(), nil, testInfo, func(context.Context, any) (any, error) {
		return nil, status.Error(codes.Unavailable, "down")
	})

	assert.Equal(t, codes.Unavailable, status.Code(err))
	assert.Contains(t, buf.String(), `"method":"/test.Service/Call"`)
	assert.Contains(t, buf.String(), `"code":"Unavailable"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}
