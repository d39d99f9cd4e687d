package handler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	checkoutapp "siapay-server/internal/application/checkout"
	paymentapp "siapay-server/internal/application/payment"
	"siapay-server/internal/domain/order"
)

// CheckoutService チェックアウト層のユースケース
type CheckoutService interface {
	StartPayment(ctx context.Context, req *checkoutapp.StartPaymentRequest) (*checkoutapp.StartPaymentResponse, error)
	FinalizeTransaction(ctx context.Context, req *checkoutapp.FinalizeTransactionRequest) (*checkoutapp.FinalizeTransactionResponse, error)
}

// RedirectService ゲートウェイからの戻りを処理するユースケース
type RedirectService interface {
	HandleRedirect(ctx context.Context, values url.Values) (*paymentapp.RedirectResult, error)
}

// PaymentHandler 決済フローのハンドラー
type PaymentHandler struct {
	checkoutService CheckoutService
	redirectService RedirectService
}

// NewPaymentHandler 新しいPaymentHandlerを作成
func NewPaymentHandler(checkoutService CheckoutService, redirectService RedirectService) *PaymentHandler {
	return &PaymentHandler{
		checkoutService: checkoutService,
		redirectService: redirectService,
	}
}

// StartPayment 決済開始ハンドラー
// @Summary 決済を開始
// @Description 決済トランザクションに対してSIA VPOSの決済ページURLを発行します
// @Tags payment
// @Produce json
// @Param transaction_id path string true "決済トランザクションID"
// @Param X-API-Key header string true "APIキー"
// @Success 200 {object} StartPaymentResponse "決済ページURL"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Failure 404 {object} ErrorResponse "トランザクションが存在しない"
// @Failure 502 {object} ErrorResponse "決済開始に失敗"
// @Router /payment/transactions/{transaction_id}/pay [post]
func (h *PaymentHandler) StartPayment(c echo.Context) error {
	transactionID := c.Param("transaction_id")
	if transactionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "transaction_id is required")
	}

	resp, err := h.checkoutService.StartPayment(c.Request().Context(), &checkoutapp.StartPaymentRequest{
		TransactionID: transactionID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, StartPaymentResponse{
		TransactionID: resp.TransactionID,
		OrderNumber:   resp.OrderNumber,
		RedirectURL:   resp.RedirectURL,
	})
}

// HandleGatewayRedirect ゲートウェイからの戻りハンドラー
// @Summary ゲートウェイからの戻りを受け付ける
// @Description SIA VPOSが顧客を戻すURL。結果を判定しチェックアウト完了処理へリダイレクトします
// @Tags payment
// @Param ORDERID query string false "注文番号"
// @Param RESULT query string false "結果コード（00は成功）"
// @Param AMOUNT query string false "最小単位の金額"
// @Param TRANSACTIONID query string false "ゲートウェイのトランザクションID"
// @Success 302 "チェックアウト完了処理またはトップページへ"
// @Failure 409 {object} ErrorResponse "決済セッションを復元できない"
// @Router /sia-payment-finalize [get]
func (h *PaymentHandler) HandleGatewayRedirect(c echo.Context) error {
	params, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid redirect parameters")
	}

	result, err := h.redirectService.HandleRedirect(c.Request().Context(), params)
	if err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, result.RedirectURL)
}

// FinalizeTransaction チェックアウト完了ハンドラー
// @Summary 決済を確定
// @Description 決済トークンからトランザクションを特定して最終状態を確定し、ストアフロントへリダイレクトします
// @Tags payment
// @Param _sw_payment_token query string true "決済トークン"
// @Param state query string false "判定結果（success/failed/canceled）"
// @Success 302 "完了ページまたはエラーページへ"
// @Failure 400 {object} ErrorResponse "決済トークンが無効"
// @Router /payment/finalize-transaction [get]
func (h *PaymentHandler) FinalizeTransaction(c echo.Context) error {
	token := c.QueryParam(order.PaymentTokenField)
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, order.PaymentTokenField+" is required")
	}

	resp, err := h.checkoutService.FinalizeTransaction(c.Request().Context(), &checkoutapp.FinalizeTransactionRequest{
		PaymentToken: token,
		State:        c.QueryParam("state"),
	})
	if err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, resp.RedirectURL)
}
