package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics メトリクス定義
type Metrics struct {
	// 決済開始数
	PaymentInitiationCount metric.Int64Counter

	// ゲートウェイからの戻りリダイレクト数（結果別）
	RedirectCount metric.Int64Counter

	// 照会による検証数（結果別）
	VerificationCount metric.Int64Counter

	// 注文トランザクションのステータス遷移数
	TransactionTransitionCount metric.Int64Counter

	// ゲートウェイ呼び出しのレイテンシ
	GatewayLatency metric.Float64Histogram

	// リクエスト数
	RequestCount metric.Int64Counter

	// レスポンス時間
	ResponseTime metric.Float64Histogram

	// エラー数
	ErrorCount metric.Int64Counter
}

// NewMetrics 新しいMetricsを作成
func NewMetrics(meterName string) (*Metrics, error) {
	meter := otel.Meter(meterName)

	paymentInitiationCount, err := meter.Int64Counter(
		"payment_initiations_total",
		metric.WithDescription("Total number of payment initiations"),
	)
	if err != nil {
		return nil, err
	}

	redirectCount, err := meter.Int64Counter(
		"payment_redirects_total",
		metric.WithDescription("Total number of gateway redirects received"),
	)
	if err != nil {
		return nil, err
	}

	verificationCount, err := meter.Int64Counter(
		"payment_verifications_total",
		metric.WithDescription("Total number of order status verifications"),
	)
	if err != nil {
		return nil, err
	}

	transactionTransitionCount, err := meter.Int64Counter(
		"order_transaction_transitions_total",
		metric.WithDescription("Total number of order transaction state transitions"),
	)
	if err != nil {
		return nil, err
	}

	gatewayLatency, err := meter.Float64Histogram(
		"gateway_request_duration_seconds",
		metric.WithDescription("Gateway call latency in seconds"),
	)
	if err != nil {
		return nil, err
	}

	requestCount, err := meter.Int64Counter(
		"requests_total",
		metric.WithDescription("Total number of requests"),
	)
	if err != nil {
		return nil, err
	}

	responseTime, err := meter.Float64Histogram(
		"response_time_seconds",
		metric.WithDescription("Response time in seconds"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"errors_total",
		metric.WithDescription("Total number of errors"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		PaymentInitiationCount:     paymentInitiationCount,
		RedirectCount:              redirectCount,
		VerificationCount:          verificationCount,
		TransactionTransitionCount: transactionTransitionCount,
		GatewayLatency:             gatewayLatency,
		RequestCount:               requestCount,
		ResponseTime:               responseTime,
		ErrorCount:                 errorCount,
	}, nil
}

// RecordPaymentInitiation 決済開始を記録（result: ok / error）
func (m *Metrics) RecordPaymentInitiation(ctx context.Context, environment, result string) {
	m.PaymentInitiationCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("environment", environment),
			attribute.String("result", result),
		),
	)
}

// RecordRedirect 戻りリダイレクトを記録
func (m *Metrics) RecordRedirect(ctx context.Context, action string) {
	m.RedirectCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("action", action),
		),
	)
}

// RecordVerification 検証結果を記録（result: matched / unmatched / error）
func (m *Metrics) RecordVerification(ctx context.Context, result string) {
	m.VerificationCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("result", result),
		),
	)
}

// RecordTransactionTransition ステータス遷移を記録
func (m *Metrics) RecordTransactionTransition(ctx context.Context, status string) {
	m.TransactionTransitionCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("status", status),
		),
	)
}

// RecordGatewayLatency ゲートウェイ呼び出しのレイテンシを記録
func (m *Metrics) RecordGatewayLatency(ctx context.Context, operation string, duration float64, failed bool) {
	m.GatewayLatency.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.Bool("failed", failed),
		),
	)
}

// RecordRequest リクエストを記録
func (m *Metrics) RecordRequest(ctx context.Context, method, path string) {
	m.RequestCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordResponseTime レスポンス時間を記録
func (m *Metrics) RecordResponseTime(ctx context.Context, method, path string, duration float64) {
	m.ResponseTime.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordError エラーを記録
func (m *Metrics) RecordError(ctx context.Context, errorType string) {
	m.ErrorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("error_type", errorType),
		),
	)
}
