package vpos

import (
	"context"
)

// SDK MAC署名と通信を担うベンダーSDKの機能
type SDK interface {
	// BuildRedirectURL 署名済みの決済ページURLを生成
	BuildRedirectURL(ctx context.Context, settings Settings, req RedirectRequest) (string, error)

	// GetOrderStatus 注文ステータスを照会（署名検証済みの結果を返す）
	GetOrderStatus(ctx context.Context, settings Settings, req OrderStatusRequest) (*OrderStatusResponse, error)
}
