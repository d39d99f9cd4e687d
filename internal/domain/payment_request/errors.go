package payment_request

import "errors"

var (
	// ErrUnsupportedCurrency 非対応通貨エラー
	ErrUnsupportedCurrency = errors.New("currency not supported")
	// ErrMissingCorrelationToken 決済トークンが取得できないエラー
	ErrMissingCorrelationToken = errors.New("payment correlation token is missing")
	// ErrInvalidPaymentRequest 無効なPaymentRequestエラー
	ErrInvalidPaymentRequest = errors.New("invalid payment request")
)
