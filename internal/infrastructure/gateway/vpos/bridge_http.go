package vpos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// 署名ブリッジのエンドポイント
const (
	redirectURLPath = "/v1/redirect-url"
	orderStatusPath = "/v1/order-status"
)

// HTTPBridge ベンダーSDKをホストする署名ブリッジへJSON over HTTPで委譲するSDK実装
type HTTPBridge struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPBridge 新しいHTTPBridgeを作成
func NewHTTPBridge(baseURL, token string, client *http.Client) *HTTPBridge {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPBridge{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  client,
	}
}

// BuildRedirectURL 署名済みの決済ページURLを生成
func (b *HTTPBridge) BuildRedirectURL(ctx context.Context, settings Settings, req RedirectRequest) (string, error) {
	var resp redirectURLResponse
	if err := b.post(ctx, redirectURLPath, redirectURLRequest{Settings: settings, Request: req}, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// GetOrderStatus 注文ステータスを照会
func (b *HTTPBridge) GetOrderStatus(ctx context.Context, settings Settings, req OrderStatusRequest) (*OrderStatusResponse, error) {
	var resp OrderStatusResponse
	if err := b.post(ctx, orderStatusPath, orderStatusRequest{Settings: settings, Request: req}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (b *HTTPBridge) post(ctx context.Context, path string, in interface{}, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if b.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+b.token)
	}

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var bErr bridgeError
		if json.Unmarshal(respBody, &bErr) == nil && bErr.Message != "" {
			return fmt.Errorf("bridge error (status %d): %s: %s", resp.StatusCode, bErr.Error, bErr.Message)
		}
		return fmt.Errorf("bridge error (status %d)", resp.StatusCode)
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
