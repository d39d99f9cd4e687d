package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"siapay-server/internal/application/auth"
	"siapay-server/internal/domain/gateway"
	"siapay-server/internal/domain/merchant"
	"siapay-server/internal/domain/order"
	"siapay-server/internal/domain/payment"
	"siapay-server/internal/domain/payment_method"
	"siapay-server/internal/domain/payment_request"
	"siapay-server/internal/domain/transaction"
	otelinfra "siapay-server/internal/infrastructure/observability/otel"
)

// ErrorResponse エラーレスポンス
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// domainError ドメインエラーとHTTPレスポンスの対応
type domainError struct {
	target  error
	status  int
	code    string
	message string // 空の場合はエラーメッセージをそのまま返す
}

var domainErrors = []domainError{
	{target: gateway.ErrGatewayCommunication, status: http.StatusBadGateway, code: "gateway_communication_error", message: payment.InitiationMessage},
	{target: merchant.ErrConfiguration, status: http.StatusServiceUnavailable, code: "gateway_not_configured", message: "Payment gateway is not configured"},
	{target: payment_request.ErrUnsupportedCurrency, status: http.StatusUnprocessableEntity, code: "unsupported_currency"},
	{target: payment_request.ErrMissingCorrelationToken, status: http.StatusConflict, code: "correlation_token_missing", message: "Payment session could not be recovered"},
	{target: order.ErrOrderNotFound, status: http.StatusNotFound, code: "order_not_found"},
	{target: transaction.ErrTransactionNotFound, status: http.StatusNotFound, code: "transaction_not_found"},
	{target: transaction.ErrInvalidStateTransition, status: http.StatusConflict, code: "invalid_state_transition"},
	{target: payment_method.ErrPaymentMethodNotFound, status: http.StatusNotFound, code: "payment_method_not_found"},
	{target: payment_method.ErrPaymentMethodInactive, status: http.StatusConflict, code: "payment_method_inactive"},
	{target: payment_method.ErrInvalidPaymentMethod, status: http.StatusUnprocessableEntity, code: "invalid_payment_method"},
	{target: auth.ErrInvalidPaymentToken, status: http.StatusBadRequest, code: "invalid_payment_token", message: "Invalid or expired payment token"},
}

func lookupDomainError(err error) (domainError, bool) {
	for _, de := range domainErrors {
		if errors.Is(err, de.target) {
			return de, true
		}
	}
	return domainError{}, false
}

// statusForError handleErrorが返すHTTPステータス
func statusForError(err error) int {
	var initErr *payment.InitiationError
	if errors.As(err, &initErr) {
		return http.StatusBadGateway
	}
	if de, ok := lookupDomainError(err); ok {
		return de.status
	}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	return http.StatusInternalServerError
}

// FallbackErrorHandler ミドルウェアチェーンの外で発生したエラー（Recoverが捕捉したpanicなど）を応答する
func FallbackErrorHandler(logger *otelinfra.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		_ = handleError(c, err, logger)
	}
}

// ErrorHandlerMiddleware エラーハンドリングミドルウェア
func ErrorHandlerMiddleware(logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			// エラーハンドリング
			return handleError(c, err, logger)
		}
	}
}

// handleError エラーを処理して適切なHTTPレスポンスを返す
func handleError(c echo.Context, err error, logger *otelinfra.Logger) error {
	ctx := c.Request().Context()

	// 決済開始の失敗は原因を問わず汎用メッセージのみ返す
	var initErr *payment.InitiationError
	if errors.As(err, &initErr) {
		logger.Error(ctx, "Payment initiation failed", err, map[string]interface{}{
			"transaction_id": initErr.TransactionID,
		})
		resp := ErrorResponse{
			Error:   "payment_initiation_failed",
			Message: payment.InitiationMessage,
		}
		if de, ok := lookupDomainError(initErr.Cause); ok {
			resp.Code = de.code
		}
		return c.JSON(http.StatusBadGateway, resp)
	}

	if de, ok := lookupDomainError(err); ok {
		message := de.message
		if message == "" {
			message = err.Error()
		}
		if de.status >= http.StatusInternalServerError {
			logger.Error(ctx, "Request failed", err, map[string]interface{}{
				"code": de.code,
			})
		} else {
			logger.Warn(ctx, "Request rejected", map[string]interface{}{
				"code":  de.code,
				"error": err.Error(),
			})
		}
		return c.JSON(de.status, ErrorResponse{
			Error:   de.code,
			Message: message,
		})
	}

	// EchoのHTTPエラー
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		logger.Warn(ctx, "HTTP error", map[string]interface{}{
			"status_code": httpErr.Code,
			"message":     httpErr.Message,
		})
		message := ""
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(httpErr.Code)
		}
		return c.JSON(httpErr.Code, ErrorResponse{
			Error:   http.StatusText(httpErr.Code),
			Message: message,
		})
	}

	// 予期しないエラー
	logger.Error(ctx, "Internal server error", err, map[string]interface{}{
		"path": c.Request().URL.Path,
	})
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_server_error",
		Message: "An unexpected error occurred",
	})
}
