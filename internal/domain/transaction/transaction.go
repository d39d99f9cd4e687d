package transaction

import (
	"fmt"
	"time"
)

// Transaction 注文トランザクションエンティティ（1回の決済試行）
type Transaction struct {
	transactionID   string
	orderID         string
	paymentMethodID string
	amount          float64
	status          TransactionStatus
	createdAt       time.Time
	updatedAt       time.Time
}

// NewTransaction 新しいTransactionエンティティを作成
func NewTransaction(
	transactionID string,
	orderID string,
	paymentMethodID string,
	amount float64,
	status TransactionStatus,
) (*Transaction, error) {
	if transactionID == "" {
		return nil, fmt.Errorf("%w: transaction id is required", ErrInvalidTransaction)
	}
	if orderID == "" {
		return nil, fmt.Errorf("%w: order id is required", ErrInvalidTransaction)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: status %q", ErrInvalidTransaction, status)
	}

	now := time.Now()
	return &Transaction{
		transactionID:   transactionID,
		orderID:         orderID,
		paymentMethodID: paymentMethodID,
		amount:          amount,
		status:          status,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// MustNewTransaction Transactionを作成（エラー時はpanic）
func MustNewTransaction(
	transactionID string,
	orderID string,
	paymentMethodID string,
	amount float64,
	status TransactionStatus,
) *Transaction {
	t, err := NewTransaction(transactionID, orderID, paymentMethodID, amount, status)
	if err != nil {
		panic(err)
	}
	return t
}

// TransactionID トランザクションIDを返す
func (t *Transaction) TransactionID() string {
	return t.transactionID
}

// OrderID 注文IDを返す
func (t *Transaction) OrderID() string {
	return t.orderID
}

// PaymentMethodID 支払い方法IDを返す
func (t *Transaction) PaymentMethodID() string {
	return t.paymentMethodID
}

// Amount 金額を返す
func (t *Transaction) Amount() float64 {
	return t.amount
}

// Status ステータスを返す
func (t *Transaction) Status() TransactionStatus {
	return t.status
}

// CreatedAt 作成日時を返す
func (t *Transaction) CreatedAt() time.Time {
	return t.createdAt
}

// UpdatedAt 更新日時を返す
func (t *Transaction) UpdatedAt() time.Time {
	return t.updatedAt
}

// TransitionTo ステータスを遷移
func (t *Transaction) TransitionTo(next TransactionStatus) error {
	if !t.status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, t.status, next)
	}
	if t.status != next {
		t.status = next
		t.updatedAt = time.Now()
	}
	return nil
}

// SetTimestamps 永続化層から日時を復元
func (t *Transaction) SetTimestamps(createdAt, updatedAt time.Time) {
	t.createdAt = createdAt
	t.updatedAt = updatedAt
}
