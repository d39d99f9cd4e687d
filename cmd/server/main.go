package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"siapay-server/internal/application/auth"
	checkoutapp "siapay-server/internal/application/checkout"
	paymentapp "siapay-server/internal/application/payment"
	"siapay-server/internal/domain/merchant"
	"siapay-server/internal/domain/service"
	"siapay-server/internal/infrastructure/config"
	"siapay-server/internal/infrastructure/gateway/vpos"
	otelinfra "siapay-server/internal/infrastructure/observability/otel"
	"siapay-server/internal/infrastructure/persistence/mysql"
	grpcserver "siapay-server/internal/presentation/grpc"
	"siapay-server/internal/presentation/rest"
)

// gRPCヘルスステータスの更新間隔
const healthRefreshInterval = 15 * time.Second

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// OpenTelemetryの初期化
	tracerShutdown, err := otelinfra.InitTracer(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown tracer: %v", err)
		}
	}()

	meterShutdown, err := otelinfra.InitMeter(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize meter: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown meter: %v", err)
		}
	}()

	// ロガーとメトリクスの初期化
	tracer := otelinfra.Tracer("siapay-server")
	logger := otelinfra.NewLogger(tracer).WithMinLevel(otelinfra.ParseLogLevel(cfg.LogLevel))
	metrics, err := otelinfra.NewMetrics("siapay-server")
	if err != nil {
		log.Fatalf("Failed to create metrics: %v", err)
	}

	// データベース接続の初期化
	db, err := mysql.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// リポジトリの初期化
	txManager := mysql.NewTransactionManager(db)
	orderRepo := mysql.NewOrderRepository(db)
	transactionRepo := mysql.NewOrderTransactionRepository(db, txManager)
	paymentMethodRepo := mysql.NewPaymentMethodRepository(db)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	// 加盟店設定の読み取り元
	var configSource merchant.ConfigSource = &cfg.Gateway
	if cfg.Gateway.SettingsSource == config.SettingsSourceDatabase {
		systemConfigRepo := mysql.NewSystemConfigRepository(db)
		if err := systemConfigRepo.SeedDefaults(startupCtx, cfg.Gateway.Settings()); err != nil {
			log.Fatalf("Failed to seed gateway settings: %v", err)
		}
		configSource = systemConfigRepo
	}

	// 支払い方法の登録と有効/無効の同期
	registrar := service.NewPaymentMethodRegistrar(paymentMethodRepo)
	paymentMethod, err := registrar.EnsureRegistered(startupCtx, cfg.Gateway.Active)
	if err != nil {
		log.Fatalf("Failed to register payment method: %v", err)
	}
	logger.Info(startupCtx, "Payment method registered", map[string]interface{}{
		"payment_method_id": paymentMethod.ID(),
		"active":            paymentMethod.IsActive(),
		"settings_source":   cfg.Gateway.SettingsSource,
	})

	// ゲートウェイクライアントの初期化
	bridge := vpos.NewHTTPBridge(cfg.Gateway.BridgeURL, cfg.Gateway.BridgeToken, &http.Client{
		Timeout: cfg.Gateway.Timeout,
	})
	gatewayClient := vpos.NewClient(bridge, cfg.Gateway.Timeout, logger, metrics)

	// アプリケーションサービスの初期化
	paymentAppService := paymentapp.NewPaymentApplicationService(
		orderRepo,
		transactionRepo,
		service.NewCredentialResolver(configSource),
		gatewayClient,
		service.NewOperatorIDGenerator(),
		paymentapp.URLs{
			GatewayFinalizeURL:  cfg.Storefront.GatewayFinalizeURL(),
			CheckoutFinalizeURL: cfg.Storefront.CheckoutFinalizeURL(),
			HomeURL:             cfg.Storefront.HomeURL,
			MerchantCallbackURL: cfg.Storefront.MerchantCallbackURL,
		},
		logger,
		metrics,
	)

	tokenService := auth.NewPaymentTokenService(&cfg.PaymentToken, logger)

	checkoutAppService := checkoutapp.NewCheckoutApplicationService(
		transactionRepo,
		paymentMethodRepo,
		tokenService,
		paymentAppService,
		checkoutapp.URLs{
			CheckoutFinalizeURL: cfg.Storefront.CheckoutFinalizeURL(),
			FinishURL:           cfg.Storefront.FinishURL,
			ErrorURL:            cfg.Storefront.ErrorURL,
		},
		logger,
	)

	// REST APIルーターの初期化
	router, err := rest.NewRouter(cfg, logger, metrics, checkoutAppService, paymentAppService, db)
	if err != nil {
		log.Fatalf("Failed to create router: %v", err)
	}

	// gRPCヘルスチェックサーバーの初期化
	grpcSrv, err := grpcserver.NewServer(cfg, logger, db)
	if err != nil {
		log.Fatalf("Failed to create gRPC server: %v", err)
	}

	address := fmt.Sprintf(":%d", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	healthCtx, stopHealth := context.WithCancel(context.Background())
	defer stopHealth()
	go grpcSrv.WatchHealth(healthCtx, healthRefreshInterval)

	go func() {
		log.Printf("REST API server starting on %s", address)
		if err := router.Start(address); err != nil && err != http.ErrServerClosed {
			log.Printf("REST API server error: %v", err)
		}
	}()

	go func() {
		log.Printf("gRPC health server starting on port %d", grpcSrv.Port())
		if err := grpcSrv.Start(); err != nil {
			log.Printf("gRPC server error: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down servers...")
	stopHealth()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down REST API server: %v", err)
	}

	if err := grpcSrv.Stop(shutdownCtx); err != nil {
		log.Printf("Error shutting down gRPC server: %v", err)
	}

	log.Println("Servers stopped")
}
