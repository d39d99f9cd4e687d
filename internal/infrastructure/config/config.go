package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// 加盟店設定の読み取り元
const (
	SettingsSourceEnv      = "env"
	SettingsSourceDatabase = "database"
)

// Config アプリケーション全体の設定
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	PaymentToken  PaymentTokenConfig
	AdminAPI      AdminAPIConfig
	OpenTelemetry OpenTelemetryConfig
	Gateway       GatewayConfig
	Storefront    StorefrontConfig
	Environment   string
	LogLevel      string
}

// ServerConfig サーバー設定
type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// GRPCPort gRPCヘルスチェック用のポート（HTTPポート+1）
func (c *ServerConfig) GRPCPort() int {
	return c.Port + 1
}

// DatabaseConfig データベース設定
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// PaymentTokenConfig 決済トークン（JWT）設定
type PaymentTokenConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AdminAPIConfig 管理API（X-API-Key）設定
type AdminAPIConfig struct {
	Enabled    bool
	APIKey     string
	AllowedIPs []string
}

// OpenTelemetryConfig OpenTelemetry設定
type OpenTelemetryConfig struct {
	Enabled         bool
	ServiceName     string
	ServiceVersion  string
	Environment     string
	OTLPEndpoint    string
	OTLPInsecure    bool
	SampleRatio     float64
	MetricsInterval time.Duration
	TraceExporter   string // "otlp", "none"
	MetricsExporter string // "otlp", "none"
}

// StorefrontConfig ストアフロント側のURL設定
type StorefrontConfig struct {
	PublicURL           string
	HomeURL             string
	FinishURL           string
	ErrorURL            string
	MerchantCallbackURL string
}

// GatewayFinalizeURL ゲートウェイからの戻り先URL
func (c *StorefrontConfig) GatewayFinalizeURL() string {
	return strings.TrimRight(c.PublicURL, "/") + "/sia-payment-finalize"
}

// CheckoutFinalizeURL チェックアウト完了処理のURL
func (c *StorefrontConfig) CheckoutFinalizeURL() string {
	return strings.TrimRight(c.PublicURL, "/") + "/payment/finalize-transaction"
}

// Load 設定を読み込む
func Load() (*Config, error) {
	// .envファイルを読み込む（存在しない場合は無視）
	_ = godotenv.Load()

	env := getEnv("ENVIRONMENT", "development")
	publicURL := getEnv("PUBLIC_URL", "http://localhost:8080")

	cfg := &Config{
		Environment: env,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 3306),
			User:            getEnv("DB_USER", "root"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "siapay_db"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 10*time.Minute),
		},
		PaymentToken: PaymentTokenConfig{
			Secret:     getEnv("PAYMENT_TOKEN_SECRET", ""),
			Expiration: getEnvAsDuration("PAYMENT_TOKEN_EXPIRATION", 30*time.Minute),
			Issuer:     getEnv("PAYMENT_TOKEN_ISSUER", "siapay-server"),
		},
		AdminAPI: AdminAPIConfig{
			Enabled:    getEnvAsBool("ADMIN_API_ENABLED", true),
			APIKey:     getEnv("ADMIN_API_KEY", ""),
			AllowedIPs: getEnvAsSlice("ADMIN_API_ALLOWED_IPS"),
		},
		OpenTelemetry: OpenTelemetryConfig{
			Enabled:         getEnvAsBool("OTEL_ENABLED", true),
			ServiceName:     getEnv("OTEL_SERVICE_NAME", "siapay-server"),
			ServiceVersion:  getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Environment:     env,
			OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			OTLPInsecure:    getEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", true),
			SampleRatio:     getEnvAsFloat("OTEL_TRACES_SAMPLE_RATIO", 1.0),
			MetricsInterval: getEnvAsDuration("OTEL_METRIC_EXPORT_INTERVAL", time.Minute),
			TraceExporter:   getEnv("OTEL_TRACES_EXPORTER", "otlp"),
			MetricsExporter: getEnv("OTEL_METRICS_EXPORTER", "otlp"),
		},
		Gateway: GatewayConfig{
			Active:                getEnvAsBool("SIAPAY_ACTIVE", true),
			UseSandbox:            getEnvAsBool("SIAPAY_USE_SANDBOX", true),
			ShopID:                getEnv("SIAPAY_SHOP_ID", ""),
			MacKeyRedirect:        getEnv("SIAPAY_MAC_KEY_REDIRECT", ""),
			APIResultKey:          getEnv("SIAPAY_API_RESULT_KEY", ""),
			SandboxShopID:         getEnv("SIAPAY_SANDBOX_SHOP_ID", ""),
			SandboxMacKeyRedirect: getEnv("SIAPAY_SANDBOX_MAC_KEY_REDIRECT", ""),
			SandboxAPIResultKey:   getEnv("SIAPAY_SANDBOX_API_RESULT_KEY", ""),
			RedirectURL:           getEnv("SIAPAY_REDIRECT_URL", ""),
			APIURL:                getEnv("SIAPAY_API_URL", ""),
			BridgeURL:             getEnv("SIAPAY_BRIDGE_URL", "http://localhost:9300"),
			BridgeToken:           getEnv("SIAPAY_BRIDGE_TOKEN", ""),
			Timeout:               getEnvAsDuration("SIAPAY_TIMEOUT", 10*time.Second),
			SettingsSource:        getEnv("SIAPAY_SETTINGS_SOURCE", SettingsSourceEnv),
		},
		Storefront: StorefrontConfig{
			PublicURL:           publicURL,
			HomeURL:             getEnv("STOREFRONT_HOME_URL", publicURL+"/"),
			FinishURL:           getEnv("STOREFRONT_FINISH_URL", publicURL+"/checkout/finish"),
			ErrorURL:            getEnv("STOREFRONT_ERROR_URL", publicURL+"/account/order"),
			MerchantCallbackURL: getEnv("MERCHANT_CALLBACK_URL", publicURL),
		},
	}

	// 必須設定の検証
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate 設定の検証
func (c *Config) validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.PaymentToken.Secret == "" {
		return fmt.Errorf("PAYMENT_TOKEN_SECRET is required")
	}
	if c.AdminAPI.Enabled && c.AdminAPI.APIKey == "" {
		return fmt.Errorf("ADMIN_API_KEY is required when ADMIN_API_ENABLED is true")
	}
	if c.Gateway.Timeout <= 0 {
		return fmt.Errorf("SIAPAY_TIMEOUT must be positive")
	}
	switch c.Gateway.SettingsSource {
	case SettingsSourceEnv, SettingsSourceDatabase:
	default:
		return fmt.Errorf("SIAPAY_SETTINGS_SOURCE must be %q or %q: %s", SettingsSourceEnv, SettingsSourceDatabase, c.Gateway.SettingsSource)
	}
	return nil
}

// DSN データベース接続文字列を返す
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// getEnv 環境変数を取得（デフォルト値付き）
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt 環境変数を整数として取得
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat 環境変数を浮動小数点数として取得
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool 環境変数を真偽値として取得
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration 環境変数を時間として取得
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice カンマ区切りの環境変数をスライスとして取得
func getEnvAsSlice(key string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return nil
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
