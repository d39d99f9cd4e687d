package payment_method

import "errors"

var (
	// ErrPaymentMethodNotFound 支払い方法が見つからないエラー
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	// ErrPaymentMethodInactive 支払い方法が無効化されているエラー
	ErrPaymentMethodInactive = errors.New("payment method is inactive")
	// ErrInvalidPaymentMethod 無効な支払い方法エラー
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)
