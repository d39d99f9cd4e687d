package payment

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"siapay-server/internal/domain/merchant"
	"siapay-server/internal/domain/order"
	domainpayment "siapay-server/internal/domain/payment"
	"siapay-server/internal/domain/payment_request"
)

// BuildInput PaymentRequestBuilderへの入力
type BuildInput struct {
	Order               *order.Order
	Credentials         merchant.MerchantCredentials
	ReturnURL           string
	FinalizeURL         string
	MerchantCallbackURL string
}

// PaymentRequestBuilder 注文からゲートウェイへの決済承認リクエストを組み立てる
type PaymentRequestBuilder struct {
	orderRepo order.OrderRepository
}

// NewPaymentRequestBuilder 新しいPaymentRequestBuilderを作成
func NewPaymentRequestBuilder(orderRepo order.OrderRepository) *PaymentRequestBuilder {
	return &PaymentRequestBuilder{
		orderRepo: orderRepo,
	}
}

// Build PaymentRequestを作成し、戻り先URLの決済トークンを注文に保存する
func (b *PaymentRequestBuilder) Build(ctx context.Context, in BuildInput) (*payment_request.PaymentRequest, error) {
	o := in.Order

	currencyCode, err := payment_request.CurrencyNumericCode(o.CurrencyISOCode())
	if err != nil {
		return nil, err
	}

	token, err := extractPaymentToken(in.ReturnURL)
	if err != nil {
		return nil, err
	}

	// 前回の試行で確定したstateを新しい決済に持ち越さない
	fields := map[string]interface{}{
		order.PaymentTokenField:  token,
		order.ResolvedStateField: "",
	}
	if err := b.orderRepo.MergeCustomFields(ctx, o.ID(), fields); err != nil {
		return nil, fmt.Errorf("failed to store payment token: %w", err)
	}
	o.MergeCustomFields(fields)

	return payment_request.NewPaymentRequest(payment_request.Params{
		Amount:              payment_request.FormatAmount(o.AmountTotal()),
		CurrencyNumericCode: currencyCode,
		OrderID:             o.OrderNumber(),
		ShopID:              in.Credentials.ShopID,
		ReturnURLOnSuccess:  in.FinalizeURL,
		ReturnURLOnCancel:   CancelURL(in.FinalizeURL, o.OrderNumber()),
		CustomerFirstName:   o.CustomerFirstName(),
		CustomerLastName:    o.CustomerLastName(),
		MerchantCallbackURL: in.MerchantCallbackURL,
		ThreeDS: payment_request.ThreeDSContext{
			BillingCity: o.BillingCity(),
		},
	})
}

// CancelURL キャンセル時の戻り先URL（ゲートウェイがそのまま返す）
func CancelURL(finalizeURL, orderNumber string) string {
	return finalizeURL + querySeparator(finalizeURL) +
		domainpayment.ParamState + "=" + domainpayment.StateCanceled.String() +
		"&" + domainpayment.ParamOrderID + "=" + url.QueryEscape(orderNumber)
}

func extractPaymentToken(returnURL string) (string, error) {
	u, err := url.Parse(returnURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid return url: %v", payment_request.ErrMissingCorrelationToken, err)
	}
	token := u.Query().Get(order.PaymentTokenField)
	if token == "" {
		return "", payment_request.ErrMissingCorrelationToken
	}
	return token, nil
}

func appendQuery(base string, values url.Values) string {
	return base + querySeparator(base) + values.Encode()
}

func querySeparator(u string) string {
	if strings.Contains(u, "?") {
		return "&"
	}
	return "?"
}
