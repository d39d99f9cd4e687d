package mysql

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siapay-server/internal/infrastructure/config"
)

func TestDB_HealthCheck(t *testing.T) {
	tests := []struct {
		name      string
		pingErr   error
		wantError bool
	}{
		{name: "正常系"},
		{name: "異常系: ping失敗", pingErr: errors.New("connection refused"), wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
			require.NoError(t, err)
			defer sqlDB.Close()

			mock.ExpectPing().WillReturnError(tt.pingErr)

			db := &DB{DB: sqlDB}
			err = db.HealthCheck(context.Background())
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDB_Close(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectClose()
	db := &DB{DB: sqlDB}
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDriverConfig(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "db.internal",
		Port:     3307,
		User:     "siapay",
		Password: "secret",
		Database: "siapay_db",
	}

	mc, err := driverConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "siapay", mc.User)
	assert.Equal(t, "secret", mc.Passwd)
	assert.Equal(t, "tcp", mc.Net)
	assert.Equal(t, "db.internal:3307", mc.Addr)
	assert.Equal(t, "siapay_db", mc.DBName)
	assert.True(t, mc.ParseTime)
	assert.Equal(t, "utf8mb4", mc.Params["charset"])
	assert.Equal(t, dialTimeout, mc.Timeout)
	assert.Equal(t, ioTimeout, mc.ReadTimeout)
	assert.Equal(t, ioTimeout, mc.WriteTimeout)
}
