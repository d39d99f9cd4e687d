package payment

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"siapay-server/internal/domain/gateway"
	"siapay-server/internal/domain/merchant"
	"siapay-server/internal/domain/order"
	"siapay-server/internal/domain/payment_request"
	"siapay-server/internal/domain/transaction"
	otelinfra "siapay-server/internal/infrastructure/observability/otel"
)

const (
	testGatewayFinalizeURL  = "https://shop.example/sia-payment-finalize"
	testCheckoutFinalizeURL = "https://shop.example/payment/finalize-transaction"
	testHomeURL             = "https://shop.example/"
	testCallbackURL         = "https://shop.example/callback"
	testReturnURL           = testCheckoutFinalizeURL + "?_sw_payment_token=tok-123"
	testOperatorID          = "op12345678"
)

var testCredentials = merchant.MerchantCredentials{
	Environment:    merchant.EnvironmentSandbox,
	ShopID:         "shop-1",
	MacKeyRedirect: "mac-1",
	APIResultKey:   "api-1",
	RedirectURL:    merchant.SandboxRedirectURL,
	APIURL:         merchant.SandboxAPIURL,
}

// MockOrderRepository モック注文リポジトリ
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) MergeCustomFields(ctx context.Context, id string, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

// MockTransactionRepository モックトランザクションリポジトリ
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, transactionID string) (*transaction.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Transition(ctx context.Context, transactionID string, to transaction.TransactionStatus, reason string) (*transaction.Transaction, error) {
	args := m.Called(ctx, transactionID, to, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

// MockGatewayClient モックゲートウェイクライアント
type MockGatewayClient struct {
	mock.Mock
}

func (m *MockGatewayClient) BuildAuthorizationRedirectURL(ctx context.Context, req *payment_request.PaymentRequest, creds merchant.MerchantCredentials) (string, error) {
	args := m.Called(ctx, req, creds)
	return args.String(0), args.Error(1)
}

func (m *MockGatewayClient) QueryOrderStatus(ctx context.Context, query gateway.OrderStatusQuery, creds merchant.MerchantCredentials) (*gateway.OrderStatusResult, error) {
	args := m.Called(ctx, query, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.OrderStatusResult), args.Error(1)
}

type stubResolver struct {
	creds merchant.MerchantCredentials
	err   error
}

func (r stubResolver) Resolve(ctx context.Context) (merchant.MerchantCredentials, error) {
	return r.creds, r.err
}

type fixedOperatorID string

func (f fixedOperatorID) GenerateDefault() string {
	return string(f)
}

// memoryOrderRepository 注文のインメモリ実装
type memoryOrderRepository struct {
	mu     sync.Mutex
	orders map[string]*order.Order
}

func newMemoryOrderRepository(orders ...*order.Order) *memoryOrderRepository {
	r := &memoryOrderRepository{orders: make(map[string]*order.Order)}
	for _, o := range orders {
		r.orders[o.ID()] = o
	}
	return r
}

func (r *memoryOrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return r.snapshot(o), nil
}

func (r *memoryOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderNumber() == orderNumber {
			return r.snapshot(o), nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (r *memoryOrderRepository) MergeCustomFields(ctx context.Context, id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return order.ErrOrderNotFound
	}
	o.MergeCustomFields(fields)
	return nil
}

func (r *memoryOrderRepository) snapshot(o *order.Order) *order.Order {
	return order.MustNewOrder(o.ID(), o.OrderNumber(), o.AmountTotal(), o.CurrencyISOCode(),
		o.CustomerFirstName(), o.CustomerLastName(), o.BillingCity(), o.CustomFields())
}

// memoryTransactionRepository 取引のインメモリ実装
type memoryTransactionRepository struct {
	mu           sync.Mutex
	transactions map[string]*transaction.Transaction
	history      []transaction.TransactionStatus
}

func newMemoryTransactionRepository(txns ...*transaction.Transaction) *memoryTransactionRepository {
	r := &memoryTransactionRepository{transactions: make(map[string]*transaction.Transaction)}
	for _, t := range txns {
		r.transactions[t.TransactionID()] = t
	}
	return r
}

func (r *memoryTransactionRepository) FindByID(ctx context.Context, transactionID string) (*transaction.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transactions[transactionID]
	if !ok {
		return nil, transaction.ErrTransactionNotFound
	}
	return t, nil
}

func (r *memoryTransactionRepository) Transition(ctx context.Context, transactionID string, to transaction.TransactionStatus, reason string) (*transaction.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transactions[transactionID]
	if !ok {
		return nil, transaction.ErrTransactionNotFound
	}
	if err := t.TransitionTo(to); err != nil {
		return nil, err
	}
	r.history = append(r.history, to)
	return t, nil
}

func newTestOrder(t *testing.T, currencyCode string, fields map[string]interface{}) *order.Order {
	t.Helper()
	o, err := order.NewOrder("o1", "10001", 19.90, currencyCode, "Mario", "Rossi", "Bolzano", fields)
	require.NoError(t, err)
	return o
}

func newTestTransaction(status transaction.TransactionStatus) *transaction.Transaction {
	return transaction.MustNewTransaction("txn1", "o1", "pm1", 19.90, status)
}

func newTestService(
	t *testing.T,
	orderRepo order.OrderRepository,
	transactionRepo transaction.TransactionRepository,
	resolver CredentialResolver,
	gatewayClient gateway.Client,
) *PaymentApplicationService {
	t.Helper()
	logger := otelinfra.NewLoggerWithWriter(otel.Tracer("test"), io.Discard)
	metrics, err := otelinfra.NewMetrics("test")
	require.NoError(t, err)

	return NewPaymentApplicationService(
		orderRepo,
		transactionRepo,
		resolver,
		gatewayClient,
		fixedOperatorID(testOperatorID),
		URLs{
			GatewayFinalizeURL:  testGatewayFinalizeURL,
			CheckoutFinalizeURL: testCheckoutFinalizeURL,
			HomeURL:             testHomeURL,
			MerchantCallbackURL: testCallbackURL,
		},
		logger,
		metrics,
	)
}
