package auth

import "time"

// IssueTokenRequest 決済トークン発行リクエスト
type IssueTokenRequest struct {
	TransactionID string
	OrderID       string
}

// IssueTokenResponse 決済トークン発行レスポンス
type IssueTokenResponse struct {
	Token     string
	ExpiresAt time.Time
}

// PaymentTokenClaims 検証済みの決済トークンの内容
type PaymentTokenClaims struct {
	TransactionID string
	OrderID       string
	ExpiresAt     time.Time
}
