package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	paymentapp "siapay-server/internal/application/payment"
)

// GatewayStatusService ゲートウェイ照会のユースケース
type GatewayStatusService interface {
	CheckGatewayStatus(ctx context.Context, orderNumber string) (*paymentapp.GatewayStatusResult, error)
}

// AdminHandler 管理用ハンドラー
type AdminHandler struct {
	gatewayStatusService GatewayStatusService
}

// NewAdminHandler 新しいAdminHandlerを作成
func NewAdminHandler(gatewayStatusService GatewayStatusService) *AdminHandler {
	return &AdminHandler{
		gatewayStatusService: gatewayStatusService,
	}
}

// GetGatewayStatus ゲートウェイ照会ハンドラー（管理API用）
// @Summary 注文のゲートウェイ決済状況を照会
// @Description 注文番号と期待金額でSIA VPOSに照会し、承認済みかどうかを返します。注文やトランザクションの状態は変更しません
// @Tags admin
// @Produce json
// @Param order_number path string true "注文番号" example(10001)
// @Param X-API-Key header string true "APIキー"
// @Success 200 {object} GatewayStatusResponse "照会結果"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Failure 404 {object} ErrorResponse "注文が存在しない"
// @Failure 503 {object} ErrorResponse "ゲートウェイ未設定"
// @Router /admin/orders/{order_number}/gateway-status [get]
func (h *AdminHandler) GetGatewayStatus(c echo.Context) error {
	orderNumber := c.Param("order_number")
	if orderNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "order_number is required")
	}

	result, err := h.gatewayStatusService.CheckGatewayStatus(c.Request().Context(), orderNumber)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, GatewayStatusResponse{
		OrderNumber:    result.OrderNumber,
		ExpectedAmount: result.ExpectedAmount,
		Verified:       result.Verified,
		ResolvedState:  result.ResolvedState,
	})
}
