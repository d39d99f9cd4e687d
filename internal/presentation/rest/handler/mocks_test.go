package handler

import (
	"context"
	"net/url"

	"github.com/stretchr/testify/mock"
	"go.opentelemetry.io/otel/trace/noop"

	checkoutapp "siapay-server/internal/application/checkout"
	paymentapp "siapay-server/internal/application/payment"
	otelinfra "siapay-server/internal/infrastructure/observability/otel"
)

// MockCheckoutService モックチェックアウトサービス
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) StartPayment(ctx context.Context, req *checkoutapp.StartPaymentRequest) (*checkoutapp.StartPaymentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkoutapp.StartPaymentResponse), args.Error(1)
}

func (m *MockCheckoutService) FinalizeTransaction(ctx context.Context, req *checkoutapp.FinalizeTransactionRequest) (*checkoutapp.FinalizeTransactionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkoutapp.FinalizeTransactionResponse), args.Error(1)
}

// MockRedirectService モックリダイレクトサービス
type MockRedirectService struct {
	mock.Mock
}

func (m *MockRedirectService) HandleRedirect(ctx context.Context, values url.Values) (*paymentapp.RedirectResult, error) {
	args := m.Called(ctx, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentapp.RedirectResult), args.Error(1)
}

// MockGatewayStatusService モックゲートウェイ照会サービス
type MockGatewayStatusService struct {
	mock.Mock
}

func (m *MockGatewayStatusService) CheckGatewayStatus(ctx context.Context, orderNumber string) (*paymentapp.GatewayStatusResult, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentapp.GatewayStatusResult), args.Error(1)
}

// MockHealthChecker モックヘルスチェッカー
type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newTestLogger() *otelinfra.Logger {
	return otelinfra.NewLogger(noop.NewTracerProvider().Tracer("test"))
}
