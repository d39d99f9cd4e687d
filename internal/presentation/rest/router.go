package rest

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"siapay-server/internal/infrastructure/config"
	otelinfra "siapay-server/internal/infrastructure/observability/otel"
	"siapay-server/internal/presentation/rest/handler"
	restmiddleware "siapay-server/internal/presentation/rest/middleware"
)

// PaymentService リダイレクト受信とゲートウェイ照会を提供する決済サービス
type PaymentService interface {
	handler.RedirectService
	handler.GatewayStatusService
}

// Router REST APIルーター
type Router struct {
	echo           *echo.Echo
	paymentHandler *handler.PaymentHandler
	adminHandler   *handler.AdminHandler
	healthHandler  *handler.HealthHandler
}

// NewRouter 新しいRouterを作成
func NewRouter(
	cfg *config.Config,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
	checkoutService handler.CheckoutService,
	paymentService PaymentService,
	healthChecker handler.HealthChecker,
) (*Router, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	// 通常のエラーはErrorHandlerMiddlewareで変換済み。ここに届くのはpanicなど未応答のものだけ
	e.HTTPErrorHandler = restmiddleware.FallbackErrorHandler(logger)

	setupMiddleware(e, logger, metrics)

	r := &Router{
		echo:           e,
		paymentHandler: handler.NewPaymentHandler(checkoutService, paymentService),
		adminHandler:   handler.NewAdminHandler(paymentService),
		healthHandler:  handler.NewHealthHandler(healthChecker),
	}
	r.setupRoutes(cfg, logger)

	SetupSwagger(e)

	return r, nil
}

// setupMiddleware ミドルウェアを設定
func setupMiddleware(e *echo.Echo, logger *otelinfra.Logger, metrics *otelinfra.Metrics) {
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, restmiddleware.APIKeyHeader},
	}))

	e.Use(middleware.RequestID())
	e.Use(restmiddleware.SecurityHeadersMiddleware())
	e.Use(restmiddleware.TracingMiddleware())
	e.Use(restmiddleware.LoggingMiddleware(logger))
	e.Use(restmiddleware.MetricsMiddleware(metrics))
	e.Use(restmiddleware.ErrorHandlerMiddleware(logger))
}

// setupRoutes ルーティングを設定
func (r *Router) setupRoutes(cfg *config.Config, logger *otelinfra.Logger) {
	e := r.echo

	// ブラウザ経由のリダイレクト（認証なし、決済トークンで保護）
	e.GET("/sia-payment-finalize", r.paymentHandler.HandleGatewayRedirect)
	e.POST("/sia-payment-finalize", r.paymentHandler.HandleGatewayRedirect)
	e.GET("/payment/finalize-transaction", r.paymentHandler.FinalizeTransaction)

	// ストアフロントのバックエンドと管理画面向けAPI
	api := e.Group("/api/v1", restmiddleware.APIKeyMiddleware(&cfg.AdminAPI, logger))
	api.POST("/payment/transactions/:transaction_id/pay", r.paymentHandler.StartPayment)
	api.GET("/admin/orders/:order_number/gateway-status", r.adminHandler.GetGatewayStatus)

	e.GET("/health", r.healthHandler.Check)
}

// ServeHTTP http.Handlerとして振る舞う
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.echo.ServeHTTP(w, req)
}

// Start サーバーを起動
func (r *Router) Start(address string) error {
	return r.echo.Start(address)
}

// Shutdown 処理中のリクエストを待ってサーバーを停止
func (r *Router) Shutdown(ctx context.Context) error {
	return r.echo.Shutdown(ctx)
}
