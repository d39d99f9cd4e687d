package interceptor

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	otelinfra "siapay-server/internal/infrastructure/observability/otel"
)

// LoggingInterceptor 失敗したRPCをログに記録する
func LoggingInterceptor(logger *otelinfra.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			logger.Warn(ctx, "gRPC request failed", map[string]interface{}{
				"method":      info.FullMethod,
				"code":        status.Code(err).String(),
				"duration_ms": time.Since(start).Milliseconds(),
				"error":       err.Error(),
			})
		}
		return resp, err
	}
}

// RecoveryInterceptor ハンドラー内のpanicをInternalエラーに変換する
func RecoveryInterceptor(logger *otelinfra.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(ctx, "gRPC handler panicked", fmt.Errorf("panic: %v", r), map[string]interface{}{
					"method": info.FullMethod,
				})
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}
