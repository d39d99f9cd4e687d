package service

import (
	"context"
	"fmt"
	"strconv"

	"siapay-server/internal/domain/merchant"
)

// CredentialResolver 環境に応じた加盟店認証情報を設定から解決するドメインサービス
// 呼び出しごとに設定を読み直し、結果はキャッシュしない
type CredentialResolver struct {
	source merchant.ConfigSource
}

// NewCredentialResolver 新しいCredentialResolverを作成
func NewCredentialResolver(source merchant.ConfigSource) *CredentialResolver {
	return &CredentialResolver{
		source: source,
	}
}

// Environment サンドボックス設定から現在の環境を返す
func (r *CredentialResolver) Environment(ctx context.Context) (merchant.Environment, error) {
	raw, err := r.source.GetString(ctx, merchant.KeyUseSandbox)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", merchant.KeyUseSandbox, err)
	}
	if raw == "" {
		return merchant.EnvironmentProduction, nil
	}
	useSandbox, err := strconv.ParseBool(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s=%q", merchant.ErrConfiguration, merchant.KeyUseSandbox, raw)
	}
	if useSandbox {
		return merchant.EnvironmentSandbox, nil
	}
	return merchant.EnvironmentProduction, nil
}

// Resolve 現在の環境の認証情報を解決
func (r *CredentialResolver) Resolve(ctx context.Context) (merchant.MerchantCredentials, error) {
	env, err := r.Environment(ctx)
	if err != nil {
		return merchant.MerchantCredentials{}, err
	}
	return r.ResolveFor(ctx, env)
}

// ResolveFor 指定環境の認証情報を解決
func (r *CredentialResolver) ResolveFor(ctx context.Context, env merchant.Environment) (merchant.MerchantCredentials, error) {
	shopKey, macKey, apiKey := merchant.KeyShopID, merchant.KeyMacKeyRedirect, merchant.KeyAPIResultKey
	if env.IsSandbox() {
		shopKey, macKey, apiKey = merchant.KeySandboxShopID, merchant.KeySandboxMacKeyRedirect, merchant.KeySandboxAPIResultKey
	}

	values := make(map[string]string, 5)
	for _, key := range []string{shopKey, macKey, apiKey, merchant.KeyRedirectURLOverride, merchant.KeyAPIURLOverride} {
		v, err := r.source.GetString(ctx, key)
		if err != nil {
			return merchant.MerchantCredentials{}, fmt.Errorf("failed to read %s: %w", key, err)
		}
		values[key] = v
	}

	creds := merchant.MerchantCredentials{
		Environment:    env,
		ShopID:         values[shopKey],
		MacKeyRedirect: values[macKey],
		APIResultKey:   values[apiKey],
		RedirectURL:    env.DefaultRedirectURL(),
		APIURL:         env.DefaultAPIURL(),
	}
	if override := values[merchant.KeyRedirectURLOverride]; override != "" {
		creds.RedirectURL = override
	}
	if override := values[merchant.KeyAPIURLOverride]; override != "" {
		creds.APIURL = override
	}

	if err := creds.Validate(); err != nil {
		return merchant.MerchantCredentials{}, err
	}
	return creds, nil
}
