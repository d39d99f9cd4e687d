package order

import "errors"

var (
	// ErrOrderNotFound 注文が見つからないエラー
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidOrder 無効な注文エラー
	ErrInvalidOrder = errors.New("invalid order")
)
