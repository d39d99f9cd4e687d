package checkout

import (
	domainpayment "siapay-server/internal/domain/payment"
	"siapay-server/internal/domain/transaction"
)

// URLs チェックアウトで使うURL
type URLs struct {
	CheckoutFinalizeURL string
	FinishURL           string
	ErrorURL            string
}

// StartPaymentRequest 決済開始リクエスト
type StartPaymentRequest struct {
	TransactionID string
}

// StartPaymentResponse 決済開始レスポンス
type StartPaymentResponse struct {
	TransactionID string
	OrderNumber   string
	RedirectURL   string
}

// FinalizeTransactionRequest チェックアウト完了リクエスト
type FinalizeTransactionRequest struct {
	PaymentToken string
	State        string
}

// FinalizeTransactionResponse チェックアウト完了レスポンス
type FinalizeTransactionResponse struct {
	TransactionID string
	OrderID       string
	Outcome       domainpayment.Outcome
	Status        transaction.TransactionStatus
	RedirectURL   string
}

// ErrorCodeCustomerCanceled 顧客キャンセル時にエラーページへ付与するコード
const ErrorCodeCustomerCanceled = "customer_canceled"
