package payment

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPhaseTransition 無効なフェーズ遷移エラー
	ErrInvalidPhaseTransition = errors.New("invalid payment phase transition")
)

// InitiationMessage 顧客向けの汎用エラーメッセージ
const InitiationMessage = "An error occurred during the communication with external payment gateway"

// InitiationError 決済開始時のエラー（原因を保持し、外部には汎用メッセージのみを返す）
type InitiationError struct {
	TransactionID string
	Cause         error
}

// NewInitiationError 新しいInitiationErrorを作成
func NewInitiationError(transactionID string, cause error) *InitiationError {
	return &InitiationError{
		TransactionID: transactionID,
		Cause:         cause,
	}
}

// Error エラーメッセージを返す
func (e *InitiationError) Error() string {
	return fmt.Sprintf("payment initiation failed for transaction %s: %v", e.TransactionID, e.Cause)
}

// Unwrap 原因エラーを返す
func (e *InitiationError) Unwrap() error {
	return e.Cause
}
