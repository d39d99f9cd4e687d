package transaction

import (
	"context"
	"database/sql"
)

// TransactionRepository トランザクションリポジトリインターフェース
type TransactionRepository interface {
	// FindByID トランザクションIDでトランザクションを取得
	FindByID(ctx context.Context, transactionID string) (*Transaction, error)

	// Transition ステータスを遷移し、遷移履歴を記録
	Transition(ctx context.Context, transactionID string, to TransactionStatus, reason string) (*Transaction, error)
}

// TransactionManager 遷移と履歴を同じDBトランザクションで書き込むための境界
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error
}
