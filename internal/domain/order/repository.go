package order

import (
	"context"
)

// OrderRepository 注文リポジトリインターフェース
type OrderRepository interface {
	// FindByID 注文IDで注文を取得
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindByOrderNumber 注文番号で注文を取得
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// MergeCustomFields カスタムフィールドをマージして保存
	MergeCustomFields(ctx context.Context, id string, fields map[string]interface{}) error
}
