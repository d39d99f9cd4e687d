package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthChecker 依存先の疎通確認
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler ヘルスチェックハンドラー
type HealthHandler struct {
	checker HealthChecker
}

// NewHealthHandler 新しいHealthHandlerを作成
func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Check ヘルスチェック
// @Summary ヘルスチェック
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c echo.Context) error {
	if err := h.checker.HealthCheck(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy"})
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
