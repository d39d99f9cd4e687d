package transaction

import "errors"

var (
	// ErrTransactionNotFound 決済トランザクションが存在しない
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrInvalidTransaction 必須項目の欠落や未知のステータス
	ErrInvalidTransaction = errors.New("invalid transaction")
	// ErrInvalidStateTransition 許可されていないステータス遷移
	ErrInvalidStateTransition = errors.New("invalid transaction state transition")
)
