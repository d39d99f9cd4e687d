package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	otelinfra "siapay-server/internal/infrastructure/observability/otel"
)

// MetricsMiddleware メトリクス記録ミドルウェア
// エラーハンドラーより外側に置き、変換後のステータスコードで集計する
func MetricsMiddleware(metrics *otelinfra.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			ctx := c.Request().Context()
			method := c.Request().Method

			metrics.RecordRequest(ctx, method, c.Path())

			err := next(c)

			metrics.RecordResponseTime(ctx, method, c.Path(), time.Since(start).Seconds())

			if errorType := classifyStatus(c.Response().Status, err); errorType != "" {
				metrics.RecordError(ctx, errorType)
			}

			return err
		}
	}
}

// classifyStatus レスポンスをエラー種別に分類（エラーでなければ空文字）
func classifyStatus(status int, err error) string {
	if err != nil && status < http.StatusBadRequest {
		// レスポンス未送信のままエラーが返った場合
		return "server_error"
	}
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error"
	case status >= http.StatusBadRequest:
		return "client_error"
	default:
		return ""
	}
}
