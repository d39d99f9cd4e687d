package middleware

import (
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"siapay-server/internal/domain/order"
	otelinfra "siapay-server/internal/infrastructure/observability/otel"
)

// ログに出さないクエリパラメータ
var redactedQueryParams = []string{
	order.PaymentTokenField,
	"TRANSACTIONID",
	"AUTHNUMBER",
	"PAN",
	"MAC",
}

const redacted = "[REDACTED]"

// LoggingMiddleware ログミドルウェア
func LoggingMiddleware(logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			logger.Info(req.Context(), "HTTP request started", map[string]interface{}{
				"method":      req.Method,
				"path":        req.URL.Path,
				"query":       redactQuery(req.URL.Query()),
				"remote_addr": c.RealIP(),
				"user_agent":  req.UserAgent(),
				"request_id":  c.Response().Header().Get(echo.HeaderXRequestID),
			})

			err := next(c)

			fields := map[string]interface{}{
				"method":      req.Method,
				"route":       c.Path(),
				"status_code": c.Response().Status,
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if location := c.Response().Header().Get(echo.HeaderLocation); location != "" {
				fields["location"] = redactURL(location)
			}

			if err != nil {
				logger.Error(c.Request().Context(), "HTTP request failed", err, fields)
			} else {
				logger.Info(c.Request().Context(), "HTTP request completed", fields)
			}

			return err
		}
	}
}

// redactQuery 秘匿すべきパラメータを伏せたクエリ文字列を返す
func redactQuery(values url.Values) string {
	if len(values) == 0 {
		return ""
	}
	masked := make(url.Values, len(values))
	for k, v := range values {
		masked[k] = v
	}
	for _, key := range redactedQueryParams {
		if _, ok := masked[key]; ok {
			masked.Set(key, redacted)
		}
	}
	return masked.Encode()
}

// redactURL URLのクエリから秘匿すべきパラメータを伏せる
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return redacted
	}
	if u.RawQuery != "" {
		u.RawQuery = redactQuery(u.Query())
	}
	return u.String()
}
