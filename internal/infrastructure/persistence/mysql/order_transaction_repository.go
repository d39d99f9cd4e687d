package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"siapay-server/internal/domain/transaction"
)

// OrderTransactionRepository MySQL実装のTransactionRepository
// ステータス遷移は遷移履歴と同じDBトランザクションで書き込む
type OrderTransactionRepository struct {
	db        *DB
	txManager transaction.TransactionManager
	tracer    trace.Tracer
}

// NewOrderTransactionRepository 新しいOrderTransactionRepositoryを作成
func NewOrderTransactionRepository(db *DB, txManager transaction.TransactionManager) *OrderTransactionRepository {
	return &OrderTransactionRepository{
		db:        db,
		txManager: txManager,
		tracer:    otel.Tracer("order-transaction-repository"),
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrderTransaction(row rowScanner) (*transaction.Transaction, error) {
	var id, orderID, dbStatus string
	var paymentMethodID sql.NullString
	var amount float64
	var createdAt, updatedAt time.Time

	if err := row.Scan(&id, &orderID, &paymentMethodID, &amount, &dbStatus, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	status, err := transaction.NewTransactionStatus(dbStatus)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction status: %w", err)
	}

	t, err := transaction.NewTransaction(id, orderID, paymentMethodID.String, amount, status)
	if err != nil {
		return nil, fmt.Errorf("failed to restore transaction: %w", err)
	}
	t.SetTimestamps(createdAt, updatedAt)
	return t, nil
}

// FindByID トランザクションIDでトランザクションを取得
func (r *OrderTransactionRepository) FindByID(ctx context.Context, transactionID string) (*transaction.Transaction, error) {
	ctx, span := r.tracer.Start(ctx, "OrderTransactionRepository.FindByID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.transaction_id", transactionID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "order_transactions"),
	)

	query := `
		SELECT id, order_id, payment_method_id, amount, state, created_at, updated_at
		FROM order_transactions
		WHERE id = ?
	`

	t, err := scanOrderTransaction(r.db.QueryRowContext(ctx, query, transactionID))
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(otelcodes.Ok, "transaction not found")
		return nil, transaction.ErrTransactionNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}

	span.SetAttributes(attribute.String("db.state", t.Status().String()))
	span.SetStatus(otelcodes.Ok, "transaction found")
	return t, nil
}

// Transition ステータスを遷移し、遷移履歴を記録
// 同じステータスへの遷移は何も書き込まない
func (r *OrderTransactionRepository) Transition(ctx context.Context, transactionID string, to transaction.TransactionStatus, reason string) (*transaction.Transaction, error) {
	ctx, span := r.tracer.Start(ctx, "OrderTransactionRepository.Transition")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.transaction_id", transactionID),
		attribute.String("db.to_state", to.String()),
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.table", "order_transactions"),
	)

	var result *transaction.Transaction
	err := r.txManager.WithTransaction(ctx, func(tx *sql.Tx) error {
		selectQuery := `
			SELECT id, order_id, payment_method_id, amount, state, created_at, updated_at
			FROM order_transactions
			WHERE id = ?
			FOR UPDATE
		`
		t, err := scanOrderTransaction(tx.QueryRowContext(ctx, selectQuery, transactionID))
		if errors.Is(err, sql.ErrNoRows) {
			return transaction.ErrTransactionNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock transaction: %w", err)
		}

		from := t.Status()
		if err := t.TransitionTo(to); err != nil {
			return err
		}
		result = t
		if from == to {
			return nil
		}

		updateQuery := `
			UPDATE order_transactions
			SET state = ?, updated_at = ?
			WHERE id = ?
		`
		if _, err := tx.ExecContext(ctx, updateQuery, to.String(), t.UpdatedAt(), transactionID); err != nil {
			return fmt.Errorf("failed to update transaction state: %w", err)
		}

		historyQuery := `
			INSERT INTO order_transaction_state_history (
				order_transaction_id, from_state, to_state, reason, created_at
			) VALUES (?, ?, ?, ?, ?)
		`
		if _, err := tx.ExecContext(ctx, historyQuery, transactionID, from.String(), to.String(), reason, t.UpdatedAt()); err != nil {
			return fmt.Errorf("failed to insert state history: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(otelcodes.Ok, "transaction transitioned")
	return result, nil
}
