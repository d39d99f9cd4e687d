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
)

// SystemConfigRepository system_configテーブルを読み取り元とするmerchant.ConfigSource実装
// 稼働中に値を書き換えると次のリクエストから反映される
type SystemConfigRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewSystemConfigRepository 新しいSystemConfigRepositoryを作成
func NewSystemConfigRepository(db *DB) *SystemConfigRepository {
	return &SystemConfigRepository{
		db:     db,
		tracer: otel.Tracer("system-config-repository"),
	}
}

// GetString 設定値を取得（未設定の場合は空文字）
func (r *SystemConfigRepository) GetString(ctx context.Context, key string) (string, error) {
	ctx, span := r.tracer.Start(ctx, "SystemConfigRepository.GetString")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.config_key", key),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "system_config"),
	)

	query := `SELECT config_value FROM system_config WHERE config_key = ?`

	var value sql.NullString
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return "", fmt.Errorf("failed to read config %s: %w", key, err)
	}

	return value.String, nil
}

// Set 設定値を保存
func (r *SystemConfigRepository) Set(ctx context.Context, key, value string) error {
	ctx, span := r.tracer.Start(ctx, "SystemConfigRepository.Set")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.config_key", key),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "system_config"),
	)

	query := `
		INSERT INTO system_config (config_key, config_value, updated_at)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE
			config_value = VALUES(config_value),
			updated_at = VALUES(updated_at)
	`

	if _, err := r.db.ExecContext(ctx, query, key, value, time.Now()); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to save config %s: %w", key, err)
	}
	return nil
}

// SeedDefaults 未登録のキーだけ初期値を投入（既存の値は上書きしない）
func (r *SystemConfigRepository) SeedDefaults(ctx context.Context, defaults map[string]string) error {
	ctx, span := r.tracer.Start(ctx, "SystemConfigRepository.SeedDefaults")
	defer span.End()

	span.SetAttributes(
		attribute.Int("db.key_count", len(defaults)),
		attribute.String("db.operation", "INSERT IGNORE"),
		attribute.String("db.table", "system_config"),
	)

	query := `INSERT IGNORE INTO system_config (config_key, config_value, updated_at) VALUES (?, ?, ?)`

	now := time.Now()
	for key, value := range defaults {
		if _, err := r.db.ExecContext(ctx, query, key, value, now); err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return fmt.Errorf("failed to seed config %s: %w", key, err)
		}
	}
	return nil
}
