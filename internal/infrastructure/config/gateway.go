package config

import (
	"context"
	"strconv"
	"time"

	"siapay-server/internal/domain/merchant"
)

// GatewayConfig SIA VPOSゲートウェイ設定
type GatewayConfig struct {
	Active                bool
	UseSandbox            bool
	ShopID                string
	MacKeyRedirect        string
	APIResultKey          string
	SandboxShopID         string
	SandboxMacKeyRedirect string
	SandboxAPIResultKey   string
	RedirectURL           string
	APIURL                string
	BridgeURL             string
	BridgeToken           string
	Timeout               time.Duration
	SettingsSource        string
}

// GetString 環境変数由来の加盟店設定を返す（merchant.ConfigSource実装）
func (c *GatewayConfig) GetString(ctx context.Context, key string) (string, error) {
	switch key {
	case merchant.KeyUseSandbox:
		return strconv.FormatBool(c.UseSandbox), nil
	case merchant.KeyShopID:
		return c.ShopID, nil
	case merchant.KeyMacKeyRedirect:
		return c.MacKeyRedirect, nil
	case merchant.KeyAPIResultKey:
		return c.APIResultKey, nil
	case merchant.KeySandboxShopID:
		return c.SandboxShopID, nil
	case merchant.KeySandboxMacKeyRedirect:
		return c.SandboxMacKeyRedirect, nil
	case merchant.KeySandboxAPIResultKey:
		return c.SandboxAPIResultKey, nil
	case merchant.KeyRedirectURLOverride:
		return c.RedirectURL, nil
	case merchant.KeyAPIURLOverride:
		return c.APIURL, nil
	default:
		return "", nil
	}
}

// Settings 加盟店設定をキーと値の組で返す（DBへの初期投入用）
func (c *GatewayConfig) Settings() map[string]string {
	return map[string]string{
		merchant.KeyUseSandbox:            strconv.FormatBool(c.UseSandbox),
		merchant.KeyShopID:                c.ShopID,
		merchant.KeyMacKeyRedirect:        c.MacKeyRedirect,
		merchant.KeyAPIResultKey:          c.APIResultKey,
		merchant.KeySandboxShopID:         c.SandboxShopID,
		merchant.KeySandboxMacKeyRedirect: c.SandboxMacKeyRedirect,
		merchant.KeySandboxAPIResultKey:   c.SandboxAPIResultKey,
		merchant.KeyRedirectURLOverride:   c.RedirectURL,
		merchant.KeyAPIURLOverride:        c.APIURL,
	}
}
