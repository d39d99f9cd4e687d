package order

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		orderNumber string
		amount      float64
		wantError   bool
	}{
		{name: "正常系: 注文を作成", id: "o1", orderNumber: "1000", amount: 19.90},
		{name: "正常系: 金額0", id: "o1", orderNumber: "1000", amount: 0},
		{name: "異常系: IDなし", id: "", orderNumber: "1000", amount: 1, wantError: true},
		{name: "異常系: 注文番号なし", id: "o1", orderNumber: "", amount: 1, wantError: true},
		{name: "異常系: マイナス金額", id: "o1", orderNumber: "1000", amount: -1, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := NewOrder(tt.id, tt.orderNumber, tt.amount, "EUR", "Mario", "Rossi", "Bolzano", nil)
			if tt.wantError {
				assert.True(t, errors.Is(err, ErrInvalidOrder))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.orderNumber, o.OrderNumber())
			assert.Equal(t, tt.amount, o.AmountTotal())
			assert.Equal(t, "EUR", o.CurrencyISOCode())
			assert.NotNil(t, o.CustomFields())
		})
	}
}

func TestOrder_PaymentToken(t *testing.T) {
	o, err := NewOrder("o1", "1000", 19.90, "EUR", "Mario", "Rossi", "Bolzano", nil)
	require.NoError(t, err)

	_, ok := o.PaymentToken()
	assert.False(t, ok)

	o.MergeCustomFields(map[string]interface{}{PaymentTokenField: "tok"})
	token, ok := o.PaymentToken()
	assert.True(t, ok)
	assert.Equal(t, "tok", token)
}

func TestOrder_ResolvedState(t *testing.T) {
	o, err := NewOrder("o1", "1000", 19.90, "EUR", "", "", "", nil)
	require.NoError(t, err)
	assert.Empty(t, o.ResolvedState())

	o.MergeCustomFields(map[string]interface{}{ResolvedStateField: "success"})
	assert.Equal(t, "success", o.ResolvedState())
}

func TestOrder_MergeCustomFields(t *testing.T) {
	o, err := NewOrder("o1", "1000", 19.90, "EUR", "", "", "", map[string]interface{}{
		"existing": "keep",
		"RESULT":   "01",
	})
	require.NoError(t, err)

	o.MergeCustomFields(map[string]interface{}{"RESULT": "00", "ORDERID": "1000"})

	fields := o.CustomFields()
	assert.Equal(t, "keep", fields["existing"])
	assert.Equal(t, "00", fields["RESULT"])
	assert.Equal(t, "1000", fields["ORDERID"])

	// 返却されたマップを変更してもエンティティには影響しない
	fields["existing"] = "changed"
	assert.Equal(t, "keep", o.CustomFields()["existing"])
}
