package payment_method

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaymentMethod(t *testing.T) {
	tests := []struct {
		name              string
		id                string
		handlerIdentifier string
		wantError         bool
	}{
		{name: "正常系", id: "pm-1", handlerIdentifier: SiaPayHandlerIdentifier},
		{name: "異常系: IDが空", id: "", handlerIdentifier: SiaPayHandlerIdentifier, wantError: true},
		{name: "異常系: ハンドラー識別子が空", id: "pm-1", handlerIdentifier: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm, err := NewPaymentMethod(tt.id, tt.handlerIdentifier, SiaPayName, SiaPayDescription, true)
			if tt.wantError {
				assert.True(t, errors.Is(err, ErrInvalidPaymentMethod))
				assert.Nil(t, pm)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, pm.ID())
			assert.Equal(t, SiaPayName, pm.Name())
			assert.True(t, pm.IsActive())
		})
	}
}

func TestPaymentMethod_EnsureUsable(t *testing.T) {
	pm, err := NewPaymentMethod("pm-1", SiaPayHandlerIdentifier, SiaPayName, SiaPayDescription, true)
	require.NoError(t, err)
	assert.NoError(t, pm.EnsureUsable())

	before := pm.UpdatedAt()
	pm.SetActive(false)
	assert.False(t, pm.IsActive())
	assert.False(t, pm.UpdatedAt().Before(before))
	assert.True(t, errors.Is(pm.EnsureUsable(), ErrPaymentMethodInactive))
}
