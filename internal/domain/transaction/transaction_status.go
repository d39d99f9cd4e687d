package transaction

import (
	"fmt"
)

// TransactionStatus 注文トランザクションのステータスを表す値オブジェクト
type TransactionStatus string

const (
	TransactionStatusOpen       TransactionStatus = "open"        // 未決済（再オープンを含む）
	TransactionStatusInProgress TransactionStatus = "in_progress" // ゲートウェイからの戻り待ち
	TransactionStatusPaid       TransactionStatus = "paid"        // 支払い済み
	TransactionStatusFailed     TransactionStatus = "failed"      // 失敗
)

var statusTransitions = map[TransactionStatus][]TransactionStatus{
	TransactionStatusOpen:       {TransactionStatusInProgress, TransactionStatusPaid, TransactionStatusFailed},
	TransactionStatusInProgress: {TransactionStatusOpen, TransactionStatusPaid, TransactionStatusFailed},
	TransactionStatusFailed:     {TransactionStatusOpen, TransactionStatusInProgress},
}

// NewTransactionStatus 新しいTransactionStatusを作成
func NewTransactionStatus(s string) (TransactionStatus, error) {
	switch s {
	case "open", "in_progress", "paid", "failed":
		return TransactionStatus(s), nil
	default:
		return "", fmt.Errorf("%w: status %q", ErrInvalidTransaction, s)
	}
}

// String 文字列表現を返す
func (ts TransactionStatus) String() string {
	return string(ts)
}

// Valid 有効なトランザクションステータスかどうかを返す
func (ts TransactionStatus) Valid() bool {
	switch ts {
	case TransactionStatusOpen, TransactionStatusInProgress, TransactionStatusPaid, TransactionStatusFailed:
		return true
	default:
		return false
	}
}

// IsPaid 支払い済みかどうかを返す
func (ts TransactionStatus) IsPaid() bool {
	return ts == TransactionStatusPaid
}

// IsFailed 失敗状態かどうかを返す
func (ts TransactionStatus) IsFailed() bool {
	return ts == TransactionStatusFailed
}

// CanTransitionTo 指定ステータスへ遷移可能かどうかを返す（同一ステータスは可）
func (ts TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	if ts == next {
		return true
	}
	for _, allowed := range statusTransitions[ts] {
		if allowed == next {
			return true
		}
	}
	return false
}
