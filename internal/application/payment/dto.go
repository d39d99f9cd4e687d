package payment

import (
	domainpayment "siapay-server/internal/domain/payment"
	"siapay-server/internal/domain/transaction"
)

// URLs 決済フローで使う自サイトのURL
type URLs struct {
	GatewayFinalizeURL  string // ゲートウェイから顧客が戻ってくるURL
	CheckoutFinalizeURL string // チェックアウト完了処理のURL
	HomeURL             string // 無関係なアクセスのフォールバック先
	MerchantCallbackURL string
}

// PayRequest 決済開始リクエスト
type PayRequest struct {
	TransactionID string
	ReturnURL     string // チェックアウトセッションの戻り先URL（決済トークンを含む）
}

// PayResponse 決済開始レスポンス
type PayResponse struct {
	TransactionID string
	OrderNumber   string
	RedirectURL   string
	Phase         domainpayment.Phase
}

// RedirectResult リダイレクト受信の処理結果
type RedirectResult struct {
	RedirectURL string
	Action      domainpayment.Action
	State       domainpayment.State
	OrderNumber string
	Phases      []domainpayment.Phase
}

// FinalizeResult Finalizeの処理結果
type FinalizeResult struct {
	TransactionID string
	State         domainpayment.State
	Outcome       domainpayment.Outcome
	Status        transaction.TransactionStatus
}

// CustomerCanceled 顧客によるキャンセルかどうかを返す
func (r *FinalizeResult) CustomerCanceled() bool {
	return r.Outcome == domainpayment.OutcomeCustomerCanceled
}

// GatewayStatusResult 管理用のゲートウェイ照会結果
type GatewayStatusResult struct {
	OrderNumber    string
	ExpectedAmount string
	Verified       bool
	ResolvedState  string
}
