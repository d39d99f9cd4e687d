package checkout

import (
	"context"
	"io"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"siapay-server/internal/application/auth"
	"siapay-server/internal/application/payment"
	"siapay-server/internal/domain/order"
	domainpayment "siapay-server/internal/domain/payment"
	"siapay-server/internal/domain/payment_method"
	"siapay-server/internal/domain/transaction"
	"siapay-server/internal/infrastructure/config"
	otelinfra "siapay-server/internal/infrastructure/observability/otel"
)

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

// MockPaymentMethodRepository モック支払い方法リポジトリ
type MockPaymentMethodRepository struct {
	mock.Mock
}

func (m *MockPaymentMethodRepository) FindByID(ctx context.Context, id string) (*payment_method.PaymentMethod, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment_method.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodRepository) FindByHandlerIdentifier(ctx context.Context, handlerIdentifier string) (*payment_method.PaymentMethod, error) {
	args := m.Called(ctx, handlerIdentifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment_method.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodRepository) Save(ctx context.Context, pm *payment_method.PaymentMethod) error {
	args := m.Called(ctx, pm)
	return args.Error(0)
}

// MockPaymentService モック決済サービス
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Pay(ctx context.Context, req *payment.PayRequest) (*payment.PayResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PayResponse), args.Error(1)
}

func (m *MockPaymentService) Finalize(ctx context.Context, transactionID string, state domainpayment.State) (*payment.FinalizeResult, error) {
	args := m.Called(ctx, transactionID, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.FinalizeResult), args.Error(1)
}

var testURLs = URLs{
	CheckoutFinalizeURL: "https://shop.example/payment/finalize-transaction",
	FinishURL:           "https://shop.example/checkout/finish",
	ErrorURL:            "https://shop.example/account/order",
}

func newTokenService() *auth.PaymentTokenService {
	logger := otelinfra.NewLoggerWithWriter(otel.Tracer("test"), io.Discard)
	return auth.NewPaymentTokenService(&config.PaymentTokenConfig{
		Secret:     "test-secret-key",
		Issuer:     "siapay-server",
		Expiration: 30 * time.Minute,
	}, logger)
}

func newTestCheckoutService(tr *MockTransactionRepository, pr *MockPaymentMethodRepository, ps *MockPaymentService, tokens TokenService) *CheckoutApplicationService {
	logger := otelinfra.NewLoggerWithWriter(otel.Tracer("test"), io.Discard)
	return NewCheckoutApplicationService(tr, pr, tokens, ps, testURLs, logger)
}

func siaPayMethod(active bool) *payment_method.PaymentMethod {
	pm, _ := payment_method.NewPaymentMethod("pm1", payment_method.SiaPayHandlerIdentifier, payment_method.SiaPayName, payment_method.SiaPayDescription, active)
	return pm
}

func TestCheckoutApplicationService_StartPayment(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(*MockTransactionRepository, *MockPaymentMethodRepository, *MockPaymentService)
		wantErr    error
	}{
		{
			name: "正常系: トークン付きの戻り先URLで決済を開始",
			setupMocks: func(tr *MockTransactionRepository, pr *MockPaymentMethodRepository, ps *MockPaymentService) {
				tr.On("FindByID", mock.Anything, "txn1").Return(transaction.MustNewTransaction("txn1", "o1", "pm1", 19.90, transaction.TransactionStatusOpen), nil)
				pr.On("FindByID", mock.Anything, "pm1").Return(siaPayMethod(true), nil)
				ps.On("Pay", mock.Anything, mock.MatchedBy(func(req *payment.PayRequest) bool {
					u, err := url.Parse(req.ReturnURL)
					if err != nil {
						return false
					}
					return req.TransactionID == "txn1" &&
						u.Path == "/payment/finalize-transaction" &&
						u.Query().Get(order.PaymentTokenField) != ""
				})).Return(&payment.PayResponse{
					TransactionID: "txn1",
					OrderNumber:   "10001",
					RedirectURL:   "https://virtualpostest.sia.eu/vpos/payments/main?PAGE=LAND",
				}, nil)
			},
		},
		{
			name: "異常系: 支払い方法が無効",
			setupMocks: func(tr *MockTransactionRepository, pr *MockPaymentMethodRepository, ps *MockPaymentService) {
				tr.On("FindByID", mock.Anything, "txn1").Return(transaction.MustNewTransaction("txn1", "o1", "pm1", 19.90, transaction.TransactionStatusOpen), nil)
				pr.On("FindByID", mock.Anything, "pm1").Return(siaPayMethod(false), nil)
			},
			wantErr: payment_method.ErrPaymentMethodInactive,
		},
		{
			name: "異常系: 別のハンドラーの支払い方法",
			setupMocks: func(tr *MockTransactionRepository, pr *MockPaymentMethodRepository, ps *MockPaymentService) {
				tr.On("FindByID", mock.Anything, "txn1").Return(transaction.MustNewTransaction("txn1", "o1", "pm2", 19.90, transaction.TransactionStatusOpen), nil)
				other, _ := payment_method.NewPaymentMethod("pm2", "invoice", "Invoice", "", true)
				pr.On("FindByID", mock.Anything, "pm2").Return(other, nil)
			},
			wantErr: payment_method.ErrInvalidPaymentMethod,
		},
		{
			name: "異常系: 取引が見つからない",
			setupMocks: func(tr *MockTransactionRepository, pr *MockPaymentMethodRepository, ps *MockPaymentService) {
				tr.On("FindByID", mock.Anything, "txn1").Return(nil, transaction.ErrTransactionNotFound)
			},
			wantErr: transaction.ErrTransactionNotFound,
		},
		{
			name: "異常系: 決済開始に失敗",
			setupMocks: func(tr *MockTransactionRepository, pr *MockPaymentMethodRepository, ps *MockPaymentService) {
				tr.On("FindByID", mock.Anything, "txn1").Return(transaction.MustNewTransaction("txn1", "o1", "pm1", 19.90, transaction.TransactionStatusOpen), nil)
				pr.On("FindByID", mock.Anything, "pm1").Return(siaPayMethod(true), nil)
				ps.On("Pay", mock.Anything, mock.Anything).Return(nil, domainpayment.NewInitiationError("txn1", assert.AnError))
			},
			wantErr: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := new(MockTransactionRepository)
			pr := new(MockPaymentMethodRepository)
			ps := new(MockPaymentService)
			tt.setupMocks(tr, pr, ps)

			svc := newTestCheckoutService(tr, pr, ps, newTokenService())
			resp, err := svc.StartPayment(context.Background(), &StartPaymentRequest{TransactionID: "txn1"})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "10001", resp.OrderNumber)
				assert.Equal(t, "https://virtualpostest.sia.eu/vpos/payments/main?PAGE=LAND", resp.RedirectURL)
			}
			tr.AssertExpectations(t)
			pr.AssertExpectations(t)
			ps.AssertExpectations(t)
		})
	}
}

func TestCheckoutApplicationService_FinalizeTransaction(t *testing.T) {
	tokens := newTokenService()
	issued, err := tokens.IssueToken(context.Background(), &auth.IssueTokenRequest{TransactionID: "txn1", OrderID: "o1"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		token      string
		state      string
		setupMocks func(*MockPaymentService)
		wantErr    error
		wantURL    string
		wantResult domainpayment.Outcome
	}{
		{
			name:  "正常系: successは完了ページへ",
			token: issued.Token,
			state: "success",
			setupMocks: func(ps *MockPaymentService) {
				ps.On("Finalize", mock.Anything, "txn1", domainpayment.StateSuccess).Return(&payment.FinalizeResult{
					TransactionID: "txn1",
					State:         domainpayment.StateSuccess,
					Outcome:       domainpayment.OutcomePaid,
					Status:        transaction.TransactionStatusPaid,
				}, nil)
			},
			wantURL:    "https://shop.example/checkout/finish?orderId=o1",
			wantResult: domainpayment.OutcomePaid,
		},
		{
			name:  "正常系: canceledはキャンセル用のエラーページへ",
			token: issued.Token,
			state: "canceled",
			setupMocks: func(ps *MockPaymentService) {
				ps.On("Finalize", mock.Anything, "txn1", domainpayment.StateCanceled).Return(&payment.FinalizeResult{
					TransactionID: "txn1",
					State:         domainpayment.StateCanceled,
					Outcome:       domainpayment.OutcomeCustomerCanceled,
					Status:        transaction.TransactionStatusFailed,
				}, nil)
			},
			wantURL:    "https://shop.example/account/order?error=customer_canceled&orderId=o1",
			wantResult: domainpayment.OutcomeCustomerCanceled,
		},
		{
			name:  "正常系: 不明なstateは再オープンして完了ページへ",
			token: issued.Token,
			state: "whatever",
			setupMocks: func(ps *MockPaymentService) {
				ps.On("Finalize", mock.Anything, "txn1", domainpayment.StatePending).Return(&payment.FinalizeResult{
					TransactionID: "txn1",
					State:         domainpayment.StatePending,
					Outcome:       domainpayment.OutcomeReopened,
					Status:        transaction.TransactionStatusOpen,
				}, nil)
			},
			wantURL:    "https://shop.example/checkout/finish?orderId=o1",
			wantResult: domainpayment.OutcomeReopened,
		},
		{
			name:       "異常系: 無効なトークン",
			token:      "not-a-token",
			state:      "success",
			setupMocks: func(ps *MockPaymentService) {},
			wantErr:    auth.ErrInvalidPaymentToken,
		},
		{
			name:  "異常系: 取引の確定に失敗",
			token: issued.Token,
			state: "canceled",
			setupMocks: func(ps *MockPaymentService) {
				ps.On("Finalize", mock.Anything, "txn1", domainpayment.StateCanceled).Return(nil, transaction.ErrInvalidStateTransition)
			},
			wantErr: transaction.ErrInvalidStateTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := new(MockPaymentService)
			tt.setupMocks(ps)

			svc := newTestCheckoutService(new(MockTransactionRepository), new(MockPaymentMethodRepository), ps, tokens)
			resp, err := svc.FinalizeTransaction(context.Background(), &FinalizeTransactionRequest{
				PaymentToken: tt.token,
				State:        tt.state,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
				ps.AssertNotCalled(t, "Pay", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantURL, resp.RedirectURL)
				assert.Equal(t, tt.wantResult, resp.Outcome)
				assert.Equal(t, "o1", resp.OrderID)
			}
			ps.AssertExpectations(t)
		})
	}
}
