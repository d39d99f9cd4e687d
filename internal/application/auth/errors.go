package auth

import "errors"

var (
	// ErrInvalidPaymentToken 決済トークンが無効または期限切れのエラー
	ErrInvalidPaymentToken = errors.New("invalid payment token")
)
