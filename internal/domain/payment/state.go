package payment

// State リダイレクト後に決済フローへ渡す結果
type State string

const (
	StateSuccess  State = "success"
	StateFailed   State = "failed"
	StateCanceled State = "canceled"
	StatePending  State = "pending"
)

// ParseState クエリ文字列のstateを解釈（不明な値・未指定はPending）
func ParseState(s string) State {
	switch State(s) {
	case StateSuccess, StateFailed, StateCanceled:
		return State(s)
	default:
		return StatePending
	}
}

// String 文字列表現を返す
func (s State) String() string {
	return string(s)
}

// Outcome Finalizeの結果
type Outcome string

const (
	// OutcomePaid 支払い済み
	OutcomePaid Outcome = "paid"
	// OutcomeCustomerCanceled 顧客がゲートウェイ画面でキャンセル（取引は失敗扱い）
	OutcomeCustomerCanceled Outcome = "customer_canceled"
	// OutcomeReopened 未確定のため取引を再オープン（手動確認用）
	OutcomeReopened Outcome = "reopened"
)

// String 文字列表現を返す
func (o Outcome) String() string {
	return string(o)
}

// OutcomeForState stateに対応するFinalizeの結果を返す
func OutcomeForState(s State) Outcome {
	switch s {
	case StateSuccess:
		return OutcomePaid
	case StateCanceled:
		return OutcomeCustomerCanceled
	default:
		return OutcomeReopened
	}
}
