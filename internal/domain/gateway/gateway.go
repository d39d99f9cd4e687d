package gateway

import (
	"context"

	"siapay-server/internal/domain/merchant"
	"siapay-server/internal/domain/payment_request"
)

// ApprovedResultCode ゲートウェイの承認結果コード
const ApprovedResultCode = "00"

// OrderStatusQuery 注文ステータス照会リクエスト
type OrderStatusQuery struct {
	OrderID    string
	OperatorID string
}

// Authorization ゲートウェイが返す承認情報
type Authorization struct {
	TransactionResultCode string
	AuthorizedAmount      string // PaymentRequest.Amountと同じ形式
	OrderID               string
	TransactionID         string
}

// IsApproved 承認済みかどうかを返す
func (a Authorization) IsApproved() bool {
	return a.TransactionResultCode == ApprovedResultCode
}

// OrderStatusResult 注文ステータス照会結果
type OrderStatusResult struct {
	Items []Authorization
}

// NumberOfItems 承認情報の件数を返す
func (r *OrderStatusResult) NumberOfItems() int {
	if r == nil {
		return 0
	}
	return len(r.Items)
}

// Client 外部ゲートウェイとの署名付きリクエスト/レスポンスのやり取り
type Client interface {
	// BuildAuthorizationRedirectURL 決済ページへのリダイレクトURLを生成
	BuildAuthorizationRedirectURL(ctx context.Context, req *payment_request.PaymentRequest, creds merchant.MerchantCredentials) (string, error)

	// QueryOrderStatus 注文ステータスを照会
	QueryOrderStatus(ctx context.Context, query OrderStatusQuery, creds merchant.MerchantCredentials) (*OrderStatusResult, error)
}
