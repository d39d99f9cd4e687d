package merchant

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvironment(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Environment
		wantError bool
	}{
		{name: "正常系: production", input: "production", want: EnvironmentProduction},
		{name: "正常系: sandbox", input: "sandbox", want: EnvironmentSandbox},
		{name: "異常系: 不明な環境", input: "staging", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewEnvironment(tt.input)
			if tt.wantError {
				assert.True(t, errors.Is(err, ErrInvalidEnvironment))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnvironment_DefaultURLs(t *testing.T) {
	assert.Equal(t, SandboxRedirectURL, EnvironmentSandbox.DefaultRedirectURL())
	assert.Equal(t, SandboxAPIURL, EnvironmentSandbox.DefaultAPIURL())
	assert.Equal(t, ProductionRedirectURL, EnvironmentProduction.DefaultRedirectURL())
	assert.Equal(t, ProductionAPIURL, EnvironmentProduction.DefaultAPIURL())
}

func TestMerchantCredentials_Validate(t *testing.T) {
	full := MerchantCredentials{
		Environment:    EnvironmentSandbox,
		ShopID:         "shop",
		MacKeyRedirect: "mac",
		APIResultKey:   "api",
	}
	assert.NoError(t, full.Validate())

	for _, mutate := range []func(*MerchantCredentials){
		func(c *MerchantCredentials) { c.ShopID = "" },
		func(c *MerchantCredentials) { c.MacKeyRedirect = "" },
		func(c *MerchantCredentials) { c.APIResultKey = "" },
	} {
		c := full
		mutate(&c)
		assert.True(t, errors.Is(c.Validate(), ErrConfiguration))
	}
}
