package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"siapay-server/internal/infrastructure/config"
)

// 接続時のネットワークタイムアウト
const (
	dialTimeout  = 5 * time.Second
	ioTimeout    = 30 * time.Second
	pingTimeout  = 10 * time.Second
	probeTimeout = 5 * time.Second
)

// DB 注文・決済トランザクション・加盟店設定を保持するMySQL接続
type DB struct {
	*sql.DB
}

// driverConfig 接続設定からドライバー設定を組み立てる
func driverConfig(cfg *config.DatabaseConfig) (*mysql.Config, error) {
	mc, err := mysql.ParseDSN(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}
	mc.Timeout = dialTimeout
	mc.ReadTimeout = ioTimeout
	mc.WriteTimeout = ioTimeout
	return mc, nil
}

// NewDB 新しいデータベース接続を作成し、疎通を確認する
func NewDB(cfg *config.DatabaseConfig) (*DB, error) {
	mc, err := driverConfig(cfg)
	if err != nil {
		return nil, err
	}
	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}
	db := sql.OpenDB(connector)

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database %s@%s: %w", mc.DBName, mc.Addr, err)
	}

	return &DB{DB: db}, nil
}

// Close データベース接続を閉じる
func (db *DB) Close() error {
	return db.DB.Close()
}

// HealthCheck RESTとgRPCのヘルスチェックから使う疎通確認
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
