package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"

	"siapay-server/internal/infrastructure/config"
	otelinfra "siapay-server/internal/infrastructure/observability/otel"
	"siapay-server/internal/presentation/grpc/interceptor"
)

// PaymentServiceName ヘルスチェックで公開するサービス名
const PaymentServiceName = "siapay.v1.PaymentGateway"

// HealthChecker 依存先の疎通確認
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server gRPCヘルスチェックサーバー
type Server struct {
	server   *grpc.Server
	health   *health.Server
	checker  HealthChecker
	logger   *otelinfra.Logger
	listener net.Listener
	port     int
}

// NewServer 新しいgRPCサーバーを作成
func NewServer(cfg *config.Config, logger *otelinfra.Logger, checker HealthChecker) (*Server, error) {
	port := cfg.Server.GRPCPort()
	address := fmt.Sprintf(":%d", port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	return NewServerWithListener(cfg, logger, checker, listener, port), nil
}

// NewServerWithListener リスナーを指定してgRPCサーバーを作成（テスト用）
func NewServerWithListener(cfg *config.Config, logger *otelinfra.Logger, checker HealthChecker, listener net.Listener, port int) *Server {
	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			interceptor.RecoveryInterceptor(logger),
			interceptor.LoggingInterceptor(logger),
		),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle:     15 * time.Second,
			MaxConnectionAge:      30 * time.Second,
			MaxConnectionAgeGrace: 5 * time.Second,
			Time:                  5 * time.Second,
			Timeout:               1 * time.Second,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second,
			PermitWithoutStream: true,
		}),
	}

	grpcServer := grpc.NewServer(opts...)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	if cfg.Environment == "development" {
		reflection.Register(grpcServer)
	}

	return &Server{
		server:   grpcServer,
		health:   healthServer,
		checker:  checker,
		logger:   logger,
		listener: listener,
		port:     port,
	}
}

// Refresh DBの疎通を確認してサービングステータスを更新する
func (s *Server) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	servingStatus := healthpb.HealthCheckResponse_SERVING
	if err := s.checker.HealthCheck(ctx); err != nil {
		s.logger.Warn(ctx, "Health check failed", map[string]interface{}{
			"error": err.Error(),
		})
		servingStatus = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", servingStatus)
	s.health.SetServingStatus(PaymentServiceName, servingStatus)
	return servingStatus
}

// WatchHealth ctxが終了するまで一定間隔でRefreshする
func (s *Server) WatchHealth(ctx context.Context, interval time.Duration) {
	s.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// Start サーバーを起動
func (s *Server) Start() error {
	if err := s.server.Serve(s.listener); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Stop サーバーを停止
func (s *Server) Stop(ctx context.Context) error {
	// 停止中であることをクライアントに知らせる
	s.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		s.server.Stop()
		return ctx.Err()
	}
}

// Port サーバーのポート番号を返す
func (s *Server) Port() int {
	return s.port
}
