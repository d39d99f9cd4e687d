package vpos

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"siapay-server/internal/domain/gateway"
	"siapay-server/internal/domain/merchant"
	"siapay-server/internal/domain/payment_request"
	otelinfra "siapay-server/internal/infrastructure/observability/otel"
)

// DefaultTimeout ゲートウェイ呼び出しの既定タイムアウト
const DefaultTimeout = 10 * time.Second

// Client gateway.Clientの実装（リトライしない）
type Client struct {
	sdk     SDK
	timeout time.Duration
	logger  *otelinfra.Logger
	metrics *otelinfra.Metrics
	tracer  trace.Tracer
}

// NewClient 新しいClientを作成
func NewClient(sdk SDK, timeout time.Duration, logger *otelinfra.Logger, metrics *otelinfra.Metrics) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		sdk:     sdk,
		timeout: timeout,
		logger:  logger,
		metrics: metrics,
		tracer:  otel.Tracer("vpos-client"),
	}
}

// BuildAuthorizationRedirectURL 決済ページへのリダイレクトURLを生成
func (c *Client) BuildAuthorizationRedirectURL(ctx context.Context, req *payment_request.PaymentRequest, creds merchant.MerchantCredentials) (string, error) {
	ctx, span := c.tracer.Start(ctx, "vpos.Client.BuildAuthorizationRedirectURL")
	defer span.End()

	span.SetAttributes(
		attribute.String("order_id", req.OrderID()),
		attribute.String("environment", creds.Environment.String()),
	)

	redirectURL, err := call(ctx, c, "build_redirect_url", func(ctx context.Context) (string, error) {
		return c.sdk.BuildRedirectURL(ctx, settingsFrom(creds), redirectRequestFrom(req))
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return "", err
	}
	if redirectURL == "" {
		err := fmt.Errorf("%w: empty redirect url", gateway.ErrGatewayCommunication)
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return "", err
	}

	return redirectURL, nil
}

// QueryOrderStatus 注文ステータスを照会（空の応答は0件として扱う）
func (c *Client) QueryOrderStatus(ctx context.Context, query gateway.OrderStatusQuery, creds merchant.MerchantCredentials) (*gateway.OrderStatusResult, error) {
	ctx, span := c.tracer.Start(ctx, "vpos.Client.QueryOrderStatus")
	defer span.End()

	span.SetAttributes(
		attribute.String("order_id", query.OrderID),
		attribute.String("environment", creds.Environment.String()),
	)

	resp, err := call(ctx, c, "query_order_status", func(ctx context.Context) (*OrderStatusResponse, error) {
		return c.sdk.GetOrderStatus(ctx, settingsFrom(creds), OrderStatusRequest{
			OrderID:    query.OrderID,
			OperatorID: query.OperatorID,
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	result := &gateway.OrderStatusResult{}
	if resp == nil {
		return result, nil
	}
	for _, item := range resp.Authorizations {
		result.Items = append(result.Items, gateway.Authorization{
			TransactionResultCode: item.TransactionResult,
			AuthorizedAmount:      item.AuthorizedAmount,
			OrderID:               item.OrderID,
			TransactionID:         item.TransactionID,
		})
	}
	span.SetAttributes(attribute.Int("number_of_items", result.NumberOfItems()))

	return result, nil
}

type callResult[T any] struct {
	value T
	err   error
}

// call タイムアウト付きでSDKを呼び出す
// SDKがコンテキストを無視してもタイムアウトで打ち切る
func call[T any](ctx context.Context, c *Client, operation string, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan callResult[T], 1)
	go func() {
		v, err := fn(ctx)
		done <- callResult[T]{value: v, err: err}
	}()

	var zero T
	var res callResult[T]
	select {
	case res = <-done:
	case <-ctx.Done():
		res = callResult[T]{err: ctx.Err()}
	}

	c.metrics.RecordGatewayLatency(ctx, operation, time.Since(start).Seconds(), res.err != nil)

	if res.err != nil {
		c.logger.Error(ctx, "Gateway call failed", res.err, map[string]interface{}{
			"operation": operation,
			"timeout":   c.timeout.String(),
		})
		return zero, fmt.Errorf("%w: %s: %v", gateway.ErrGatewayCommunication, operation, res.err)
	}
	return res.value, nil
}

func settingsFrom(creds merchant.MerchantCredentials) Settings {
	return Settings{
		ShopID:       creds.ShopID,
		MacKey:       creds.MacKeyRedirect,
		APIResultKey: creds.APIResultKey,
		RedirectURL:  creds.RedirectURL,
		APIURL:       creds.APIURL,
	}
}

func redirectRequestFrom(req *payment_request.PaymentRequest) RedirectRequest {
	return RedirectRequest{
		Amount:         req.Amount(),
		Currency:       req.CurrencyNumericCode(),
		Exponent:       req.Exponent(),
		OrderID:        req.OrderID(),
		ShopID:         req.ShopID(),
		URLBack:        req.ReturnURLOnCancel(),
		URLDone:        req.ReturnURLOnSuccess(),
		AccountingMode: req.AccountingMode(),
		AuthorMode:     req.AuthorizationMode(),
		Options:        req.Options(),
		Name:           req.CustomerFirstName(),
		Surname:        req.CustomerLastName(),
		URLMs:          req.MerchantCallbackURL(),
		ThreeDSData: ThreeDSData{
			BillingCity: req.ThreeDS().BillingCity,
		},
	}
}
