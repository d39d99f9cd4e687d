package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"siapay-server/internal/domain/order"
	"siapay-server/internal/domain/payment_request"
)

func TestCancelURL(t *testing.T) {
	tests := []struct {
		name        string
		finalizeURL string
		orderNumber string
		want        string
	}{
		{
			name:        "正常系: クエリなしのURL",
			finalizeURL: "https://shop.example/sia-payment-finalize",
			orderNumber: "10001",
			want:        "https://shop.example/sia-payment-finalize?state=canceled&ORDERID=10001",
		},
		{
			name:        "正常系: クエリ付きのURL",
			finalizeURL: "https://shop.example/finalize?lang=it",
			orderNumber: "10001",
			want:        "https://shop.example/finalize?lang=it&state=canceled&ORDERID=10001",
		},
		{
			name:        "正常系: 注文番号をエスケープ",
			finalizeURL: "https://shop.example/finalize",
			orderNumber: "A 1&2",
			want:        "https://shop.example/finalize?state=canceled&ORDERID=A+1%262",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CancelURL(tt.finalizeURL, tt.orderNumber))
		})
	}
}

func TestPaymentRequestBuilder_Build(t *testing.T) {
	tests := []struct {
		name       string
		currency   string
		returnURL  string
		setupMocks func(*MockOrderRepository)
		wantErr    error
		wantErrMsg string
		checkFunc  func(*testing.T, *payment_request.PaymentRequest, *order.Order)
	}{
		{
			name:      "正常系: EURの注文から決済リクエストを作成",
			currency:  "EUR",
			returnURL: testReturnURL,
			setupMocks: func(m *MockOrderRepository) {
				m.On("MergeCustomFields", mock.Anything, "o1", map[string]interface{}{
					order.PaymentTokenField:  "tok-123",
					order.ResolvedStateField: "",
				}).Return(nil)
			},
			checkFunc: func(t *testing.T, pr *payment_request.PaymentRequest, o *order.Order) {
				assert.Equal(t, "1990", pr.Amount())
				assert.Equal(t, "978", pr.CurrencyNumericCode())
				assert.Equal(t, "2", pr.Exponent())
				assert.Equal(t, "10001", pr.OrderID())
				assert.Equal(t, "shop-1", pr.ShopID())
				assert.Equal(t, testGatewayFinalizeURL, pr.ReturnURLOnSuccess())
				assert.Equal(t, testGatewayFinalizeURL+"?state=canceled&ORDERID=10001", pr.ReturnURLOnCancel())
				assert.Equal(t, "I", pr.AccountingMode())
				assert.Equal(t, "I", pr.AuthorizationMode())
				assert.Equal(t, "B", pr.Options())
				assert.Equal(t, "Mario", pr.CustomerFirstName())
				assert.Equal(t, "Rossi", pr.CustomerLastName())
				assert.Equal(t, testCallbackURL, pr.MerchantCallbackURL())
				assert.Equal(t, "Bolzano", pr.ThreeDS().BillingCity)

				token, ok := o.PaymentToken()
				assert.True(t, ok)
				assert.Equal(t, "tok-123", token)
			},
		},
		{
			name:       "異常系: EUR以外の通貨",
			currency:   "USD",
			returnURL:  testReturnURL,
			setupMocks: func(m *MockOrderRepository) {},
			wantErr:    payment_request.ErrUnsupportedCurrency,
		},
		{
			name:       "異常系: 戻り先URLに決済トークンがない",
			currency:   "EUR",
			returnURL:  testCheckoutFinalizeURL,
			setupMocks: func(m *MockOrderRepository) {},
			wantErr:    payment_request.ErrMissingCorrelationToken,
		},
		{
			name:       "異常系: 戻り先URLが不正",
			currency:   "EUR",
			returnURL:  "://bad url",
			setupMocks: func(m *MockOrderRepository) {},
			wantErr:    payment_request.ErrMissingCorrelationToken,
		},
		{
			name:      "異常系: 決済トークンの保存に失敗",
			currency:  "EUR",
			returnURL: testReturnURL,
			setupMocks: func(m *MockOrderRepository) {
				m.On("MergeCustomFields", mock.Anything, "o1", mock.Anything).Return(errors.New("db down"))
			},
			wantErrMsg: "failed to store payment token: db down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockOrderRepository)
			tt.setupMocks(repo)
			builder := NewPaymentRequestBuilder(repo)
			o := newTestOrder(t, tt.currency, nil)

			pr, err := builder.Build(context.Background(), BuildInput{
				Order:               o,
				Credentials:         testCredentials,
				ReturnURL:           tt.returnURL,
				FinalizeURL:         testGatewayFinalizeURL,
				MerchantCallbackURL: testCallbackURL,
			})

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, pr)
			case tt.wantErrMsg != "":
				assert.EqualError(t, err, tt.wantErrMsg)
				assert.Nil(t, pr)
			default:
				require.NoError(t, err)
				tt.checkFunc(t, pr, o)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestPaymentRequestBuilder_Build_CurrencyCheckedBeforeStoringToken(t *testing.T) {
	repo := new(MockOrderRepository)
	builder := NewPaymentRequestBuilder(repo)

	_, err := builder.Build(context.Background(), BuildInput{
		Order:       newTestOrder(t, "GBP", nil),
		Credentials: testCredentials,
		ReturnURL:   testReturnURL,
		FinalizeURL: testGatewayFinalizeURL,
	})

	assert.ErrorIs(t, err, payment_request.ErrUnsupportedCurrency)
	repo.AssertNotCalled(t, "MergeCustomFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentRequestBuilder_Build_ClearsPreviousResolvedState(t *testing.T) {
	repo := new(MockOrderRepository)
	repo.On("MergeCustomFields", mock.Anything, "o1", map[string]interface{}{
		order.PaymentTokenField:  "tok-123",
		order.ResolvedStateField: "",
	}).Return(nil).Once()
	builder := NewPaymentRequestBuilder(repo)

	o := newTestOrder(t, "EUR", map[string]interface{}{
		order.PaymentTokenField:  "tok-old",
		order.ResolvedStateField: "success",
	})

	_, err := builder.Build(context.Background(), BuildInput{
		Order:       o,
		Credentials: testCredentials,
		ReturnURL:   testReturnURL,
		FinalizeURL: testGatewayFinalizeURL,
	})
	require.NoError(t, err)

	assert.Empty(t, o.ResolvedState())
	token, ok := o.PaymentToken()
	assert.True(t, ok)
	assert.Equal(t, "tok-123", token)
	repo.AssertExpectations(t)
}
