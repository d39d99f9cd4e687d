package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"siapay-server/internal/domain/payment_method"
)

// PaymentMethodRepository MySQL実装のPaymentMethodRepository
type PaymentMethodRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewPaymentMethodRepository 新しいPaymentMethodRepositoryを作成
func NewPaymentMethodRepository(db *DB) *PaymentMethodRepository {
	return &PaymentMethodRepository{
		db:     db,
		tracer: otel.Tracer("payment-method-repository"),
	}
}

const selectPaymentMethodColumns = `
		SELECT id, handler_identifier, name, description, active, created_at, updated_at
		FROM payment_methods
`

// FindByID 支払い方法IDで取得
func (r *PaymentMethodRepository) FindByID(ctx context.Context, id string) (*payment_method.PaymentMethod, error) {
	ctx, span := r.tracer.Start(ctx, "PaymentMethodRepository.FindByID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.payment_method_id", id),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "payment_methods"),
	)

	return r.findOne(ctx, span, selectPaymentMethodColumns+` WHERE id = ?`, id)
}

// FindByHandlerIdentifier ハンドラー識別子で取得
func (r *PaymentMethodRepository) FindByHandlerIdentifier(ctx context.Context, handlerIdentifier string) (*payment_method.PaymentMethod, error) {
	ctx, span := r.tracer.Start(ctx, "PaymentMethodRepository.FindByHandlerIdentifier")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.handler_identifier", handlerIdentifier),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "payment_methods"),
	)

	return r.findOne(ctx, span, selectPaymentMethodColumns+` WHERE handler_identifier = ?`, handlerIdentifier)
}

func (r *PaymentMethodRepository) findOne(ctx context.Context, span trace.Span, query string, arg interface{}) (*payment_method.PaymentMethod, error) {
	var id, handlerIdentifier, name string
	var description sql.NullString
	var active bool
	var createdAt, updatedAt time.Time

	err := r.db.QueryRowContext(ctx, query, arg).Scan(&id, &handlerIdentifier, &name, &description, &active, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(otelcodes.Ok, "payment method not found")
		return nil, payment_method.ErrPaymentMethodNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find payment method: %w", err)
	}

	pm, err := payment_method.NewPaymentMethod(id, handlerIdentifier, name, description.String, active)
	if err != nil {
		return nil, fmt.Errorf("failed to restore payment method: %w", err)
	}
	pm.SetTimestamps(createdAt, updatedAt)

	span.SetStatus(otelcodes.Ok, "payment method found")
	return pm, nil
}

// Save 支払い方法を保存（存在する場合は有効フラグのみ更新）
func (r *PaymentMethodRepository) Save(ctx context.Context, pm *payment_method.PaymentMethod) error {
	ctx, span := r.tracer.Start(ctx, "PaymentMethodRepository.Save")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.payment_method_id", pm.ID()),
		attribute.Bool("db.active", pm.IsActive()),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "payment_methods"),
	)

	query := `
		INSERT INTO payment_methods (
			id, handler_identifier, name, description, active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			active = VALUES(active),
			updated_at = VALUES(updated_at)
	`

	_, err := r.db.ExecContext(ctx, query,
		pm.ID(),
		pm.HandlerIdentifier(),
		pm.Name(),
		pm.Description(),
		pm.IsActive(),
		pm.CreatedAt(),
		pm.UpdatedAt(),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to save payment method: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "payment method saved")
	return nil
}
