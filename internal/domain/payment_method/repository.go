package payment_method

import (
	"context"
)

// PaymentMethodRepository 支払い方法リポジトリインターフェース
type PaymentMethodRepository interface {
	// FindByID 支払い方法IDで取得
	FindByID(ctx context.Context, id string) (*PaymentMethod, error)

	// FindByHandlerIdentifier ハンドラー識別子で取得
	FindByHandlerIdentifier(ctx context.Context, handlerIdentifier string) (*PaymentMethod, error)

	// Save 支払い方法を保存（存在する場合は更新）
	Save(ctx context.Context, pm *PaymentMethod) error
}
