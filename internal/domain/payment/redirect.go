package payment

import (
	"net/url"

	"siapay-server/internal/domain/gateway"
)

// ゲートウェイが戻り先URLに付与するクエリパラメータ
const (
	ParamResult        = "RESULT"
	ParamState         = "state"
	ParamOrderID       = "ORDERID"
	ParamTransactionID = "TRANSACTIONID"
)

// RedirectParams 顧客のブラウザ経由で戻ってきたゲートウェイのパラメータ
type RedirectParams struct {
	Result        string
	State         string
	OrderID       string
	TransactionID string
	Raw           map[string]interface{}
}

// ParseRedirectParams クエリパラメータを解析
func ParseRedirectParams(values url.Values) RedirectParams {
	raw := make(map[string]interface{}, len(values))
	for k := range values {
		raw[k] = values.Get(k)
	}
	return RedirectParams{
		Result:        values.Get(ParamResult),
		State:         values.Get(ParamState),
		OrderID:       values.Get(ParamOrderID),
		TransactionID: values.Get(ParamTransactionID),
		Raw:           raw,
	}
}

// Action リダイレクト受信時の処理内容
type Action string

const (
	// ActionIgnore 無関係なアクセスとして何もしない
	ActionIgnore Action = "ignore"
	// ActionCancel 顧客によるキャンセル
	ActionCancel Action = "cancel"
	// ActionVerify 成功の主張をゲートウェイに照会して確認
	ActionVerify Action = "verify"
	// ActionFail ゲートウェイが失敗を返したのでそのまま失敗
	ActionFail Action = "fail"
)

// Decide パラメータから処理内容を決定
// 失敗の主張はそのまま信頼し、成功の主張は必ず照会する
func (p RedirectParams) Decide() Action {
	if p.Result == "" && p.State == "" {
		return ActionIgnore
	}
	if p.OrderID == "" {
		return ActionIgnore
	}
	if p.State == string(StateCanceled) {
		return ActionCancel
	}
	if p.Result == gateway.ApprovedResultCode {
		return ActionVerify
	}
	return ActionFail
}
