package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"siapay-server/internal/domain/order"
)

// OrderRepository MySQL実装のOrderRepository
type OrderRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewOrderRepository 新しいOrderRepositoryを作成
func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{
		db:     db,
		tracer: otel.Tracer("order-repository"),
	}
}

const selectOrderColumns = `
		SELECT
			id, order_number, amount_total, currency_iso_code,
			customer_first_name, customer_last_name, billing_city,
			custom_fields, created_at, updated_at
		FROM orders
`

// FindByID 注文IDで注文を取得
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.FindByID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.order_id", id),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "orders"),
	)

	return r.findOne(ctx, span, selectOrderColumns+` WHERE id = ?`, id)
}

// FindByOrderNumber 注文番号で注文を取得
func (r *OrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.FindByOrderNumber")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.order_number", orderNumber),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "orders"),
	)

	return r.findOne(ctx, span, selectOrderColumns+` WHERE order_number = ?`, orderNumber)
}

func (r *OrderRepository) findOne(ctx context.Context, span trace.Span, query string, arg interface{}) (*order.Order, error) {
	var id, orderNumber, currencyISOCode string
	var amountTotal float64
	var firstName, lastName, billingCity sql.NullString
	var customFieldsJSON sql.NullString
	var createdAt, updatedAt time.Time

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&id,
		&orderNumber,
		&amountTotal,
		&currencyISOCode,
		&firstName,
		&lastName,
		&billingCity,
		&customFieldsJSON,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(otelcodes.Ok, "order not found")
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	var customFields map[string]interface{}
	if customFieldsJSON.Valid && customFieldsJSON.String != "" {
		if err := json.Unmarshal([]byte(customFieldsJSON.String), &customFields); err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, fmt.Errorf("failed to unmarshal custom fields: %w", err)
		}
	}

	o, err := order.NewOrder(
		id,
		orderNumber,
		amountTotal,
		currencyISOCode,
		firstName.String,
		lastName.String,
		billingCity.String,
		customFields,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to restore order: %w", err)
	}
	o.SetTimestamps(createdAt, updatedAt)

	span.SetStatus(otelcodes.Ok, "order found")
	return o, nil
}

// MergeCustomFields カスタムフィールドをマージして保存（同じキーは上書き）
func (r *OrderRepository) MergeCustomFields(ctx context.Context, id string, fields map[string]interface{}) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.MergeCustomFields")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.order_id", id),
		attribute.Int("db.field_count", len(fields)),
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.table", "orders"),
	)

	if len(fields) == 0 {
		return nil
	}

	patch, err := json.Marshal(fields)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to marshal custom fields: %w", err)
	}

	query := `
		UPDATE orders
		SET custom_fields = JSON_MERGE_PATCH(COALESCE(custom_fields, JSON_OBJECT()), CAST(? AS JSON)),
			updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, string(patch), time.Now(), id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to merge custom fields: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return order.ErrOrderNotFound
	}

	span.SetStatus(otelcodes.Ok, "custom fields merged")
	return nil
}
