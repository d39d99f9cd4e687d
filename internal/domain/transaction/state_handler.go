package transaction

import (
	"context"
)

// StateHandler 決済フローから使うステータス遷移の窓口
type StateHandler struct {
	repo TransactionRepository
}

// NewStateHandler 新しいStateHandlerを作成
func NewStateHandler(repo TransactionRepository) *StateHandler {
	return &StateHandler{repo: repo}
}

// Process ゲートウェイからの戻り待ちにする
func (h *StateHandler) Process(ctx context.Context, transactionID string) (*Transaction, error) {
	return h.repo.Transition(ctx, transactionID, TransactionStatusInProgress, "redirected to gateway")
}

// Paid 支払い済みにする
func (h *StateHandler) Paid(ctx context.Context, transactionID string) (*Transaction, error) {
	return h.repo.Transition(ctx, transactionID, TransactionStatusPaid, "payment verified")
}

// Fail 失敗にする
func (h *StateHandler) Fail(ctx context.Context, transactionID string, reason string) (*Transaction, error) {
	return h.repo.Transition(ctx, transactionID, TransactionStatusFailed, reason)
}

// Reopen 再オープンする（手動確認用に未決済へ戻す）
func (h *StateHandler) Reopen(ctx context.Context, transactionID string) (*Transaction, error) {
	return h.repo.Transition(ctx, transactionID, TransactionStatusOpen, "payment not confirmed")
}
