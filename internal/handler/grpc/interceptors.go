package grpc

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// loggingUnary logs method, status code, duration and peer of every unary
// call. Payloads are never logged.
func loggingUnary(log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := next(ctx, req)
		code := status.Code(err)

		var remote string
		if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
			remote = p.Addr.String()
		}

		level := zerolog.DebugLevel
		if code != codes.OK {
			level = zerolog.WarnLevel
		}

		log.WithLevel(level).
			Str("method", info.FullMethod).
			Str("code", code.String()).
			Dur("duration", time.Since(start)).
			Str("peer", remote).
			Send()

		return resp, err
	}
}

// recoverUnary turns a panicking handler into codes.Internal.
func recoverUnary(log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Interface("reason", r).
					Bytes("stack", debug.Stack()).
					Str("method", info.FullMethod).
					Msg("panic in gRPC handler")
				err = status.Error(codes.Internal, "internal")
			}
		}()
		return next(ctx, req)
	}
}
