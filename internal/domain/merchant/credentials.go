package merchant

import (
	"context"
	"fmt"
)

// ゲートウェイのURL（本番/サンドボックス）
const (
	ProductionRedirectURL = "https://virtualpos.sia.eu/vpos/payments/main?PAGE=LAND"
	SandboxRedirectURL    = "https://virtualpostest.sia.eu/vpos/payments/main?PAGE=LAND"
	ProductionAPIURL      = "https://atpos.ssb.it/atpos/apibo/apiBOXML.app"
	SandboxAPIURL         = "https://atpostest.ssb.it/atpos/apibo/apiBOXML.app"
)

// 設定キー
const (
	KeyUseSandbox            = "siapay.use_sandbox"
	KeyShopID                = "siapay.shop_id"
	KeyMacKeyRedirect        = "siapay.mac_key_redirect"
	KeyAPIResultKey          = "siapay.api_result_key"
	KeySandboxShopID         = "siapay.sandbox_shop_id"
	KeySandboxMacKeyRedirect = "siapay.sandbox_mac_key_redirect"
	KeySandboxAPIResultKey   = "siapay.sandbox_api_result_key"
	KeyRedirectURLOverride   = "siapay.redirect_url"
	KeyAPIURLOverride        = "siapay.api_url"
)

// Environment ゲートウェイ環境を表す値オブジェクト
type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentSandbox    Environment = "sandbox"
)

// NewEnvironment 新しいEnvironmentを作成
func NewEnvironment(s string) (Environment, error) {
	switch s {
	case "production", "sandbox":
		return Environment(s), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidEnvironment, s)
	}
}

// String 文字列表現を返す
func (e Environment) String() string {
	return string(e)
}

// IsSandbox サンドボックス環境かどうかを返す
func (e Environment) IsSandbox() bool {
	return e == EnvironmentSandbox
}

// DefaultRedirectURL 環境ごとのリダイレクト先URLを返す
func (e Environment) DefaultRedirectURL() string {
	if e.IsSandbox() {
		return SandboxRedirectURL
	}
	return ProductionRedirectURL
}

// DefaultAPIURL 環境ごとのAPI URLを返す
func (e Environment) DefaultAPIURL() string {
	if e.IsSandbox() {
		return SandboxAPIURL
	}
	return ProductionAPIURL
}

// MerchantCredentials 加盟店認証情報（リクエスト単位の値）
type MerchantCredentials struct {
	Environment    Environment
	ShopID         string
	MacKeyRedirect string
	APIResultKey   string
	RedirectURL    string
	APIURL         string
}

// Validate 必須項目を検証
func (c MerchantCredentials) Validate() error {
	if c.ShopID == "" || c.MacKeyRedirect == "" || c.APIResultKey == "" {
		return fmt.Errorf("%w: shopId, macKeyRedirect and apiResultKey are required (%s)", ErrConfiguration, c.Environment)
	}
	return nil
}

// ConfigSource 設定値の読み取り元
type ConfigSource interface {
	// GetString 設定値を取得（未設定の場合は空文字）
	GetString(ctx context.Context, key string) (string, error)
}
