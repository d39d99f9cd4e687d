package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurityHeadersMiddleware(t *testing.T) {
	tests := []struct {
		name             string
		target           string
		wantCSP          string
		wantCacheControl string
		wantReferrer     string
		wantHSTS         bool
	}{
		{
			name:         "正常系: 通常パスは標準のヘッダー",
			target:       "/health",
			wantCSP:      defaultCSP,
			wantReferrer: "strict-origin-when-cross-origin",
		},
		{
			name:         "正常系: SwaggerはCDNを許可",
			target:       "/swagger/index.html",
			wantCSP:      swaggerCSP,
			wantReferrer: "strict-origin-when-cross-origin",
		},
		{
			name:             "正常系: ゲートウェイからの戻りはキャッシュしない",
			target:           "/sia-payment-finalize?RESULT=00&ORDERID=10001",
			wantCSP:          defaultCSP,
			wantCacheControl: "no-store",
			wantReferrer:     "no-referrer",
		},
		{
			name:             "正常系: 決済確定はキャッシュしない",
			target:           "/payment/finalize-transaction?_sw_payment_token=tok&state=success",
			wantCSP:          defaultCSP,
			wantCacheControl: "no-store",
			wantReferrer:     "no-referrer",
		},
		{
			name:             "正常系: 決済開始APIはキャッシュしない",
			target:           "/api/v1/payment/transactions/txn1/pay",
			wantCSP:          defaultCSP,
			wantCacheControl: "no-store",
			wantReferrer:     "no-referrer",
		},
		{
			name:         "正常系: HTTPSではHSTSを付与",
			target:       "https://shop.example/health",
			wantCSP:      defaultCSP,
			wantReferrer: "strict-origin-when-cross-origin",
			wantHSTS:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := SecurityHeadersMiddleware()(func(c echo.Context) error {
				return c.String(http.StatusOK, "ok")
			})(c)
			require.NoError(t, err)

			assert.Equal(t, "1; mode=block", rec.Header().Get("X-XSS-Protection"))
			assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, tt.wantCSP, rec.Header().Get("Content-Security-Policy"))
			assert.Equal(t, tt.wantCacheControl, rec.Header().Get(echo.HeaderCacheControl))
			assert.Equal(t, tt.wantReferrer, rec.Header().Get("Referrer-Policy"))
			if tt.wantHSTS {
				assert.Equal(t, "max-age=31536000; includeSubDomains", rec.Header().Get("Strict-Transport-Security"))
			} else {
				assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
			}
		})
	}
}
