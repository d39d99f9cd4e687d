package handler

// ErrorResponse エラーレスポンス
// @Description エラーレスポンス
type ErrorResponse struct {
	Error   string `json:"error" example:"transaction_not_found"`
	Message string `json:"message" example:"transaction not found"`
	Code    string `json:"code,omitempty" example:"gateway_not_configured"`
}

// StartPaymentResponse 決済開始レスポンス
// @Description 決済開始レスポンス
type StartPaymentResponse struct {
	TransactionID string `json:"transaction_id" example:"0190c1a2-7d4e-7c3b-9a10-5f2e4d6b8a01"`
	OrderNumber   string `json:"order_number" example:"10001"`
	RedirectURL   string `json:"redirect_url" example:"https://virtualpos.sia.eu/vpos/payments/main?PAGE=LAND&ORDERID=10001"`
}

// GatewayStatusResponse ゲートウェイ照会レスポンス
// @Description ゲートウェイ照会レスポンス
type GatewayStatusResponse struct {
	OrderNumber    string `json:"order_number" example:"10001"`
	ExpectedAmount string `json:"expected_amount" example:"1990"`
	Verified       bool   `json:"verified" example:"true"`
	ResolvedState  string `json:"resolved_state,omitempty" example:"success"`
}

// HealthResponse ヘルスチェックレスポンス
// @Description ヘルスチェックレスポンス
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
