package order

import (
	"fmt"
	"time"
)

// カスタムフィールドのキー
const (
	// PaymentTokenField 決済トークン
	PaymentTokenField = "_sw_payment_token"
	// ResolvedStateField リダイレクト受信時に確定したstate
	ResolvedStateField = "siapay_resolved_state"
)

// Order 注文エンティティ（決済に必要なスナップショット）
type Order struct {
	id                string
	orderNumber       string
	amountTotal       float64
	currencyISOCode   string
	customerFirstName string
	customerLastName  string
	billingCity       string
	customFields      map[string]interface{}
	createdAt         time.Time
	updatedAt         time.Time
}

// NewOrder 新しいOrderエンティティを作成
func NewOrder(
	id string,
	orderNumber string,
	amountTotal float64,
	currencyISOCode string,
	customerFirstName string,
	customerLastName string,
	billingCity string,
	customFields map[string]interface{},
) (*Order, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidOrder)
	}
	if orderNumber == "" {
		return nil, fmt.Errorf("%w: order number is required", ErrInvalidOrder)
	}
	if amountTotal < 0 {
		return nil, fmt.Errorf("%w: negative amount %.2f", ErrInvalidOrder, amountTotal)
	}
	if customFields == nil {
		customFields = make(map[string]interface{})
	}

	now := time.Now()
	return &Order{
		id:                id,
		orderNumber:       orderNumber,
		amountTotal:       amountTotal,
		currencyISOCode:   currencyISOCode,
		customerFirstName: customerFirstName,
		customerLastName:  customerLastName,
		billingCity:       billingCity,
		customFields:      customFields,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

// MustNewOrder Orderを作成（エラー時はpanic）
func MustNewOrder(
	id string,
	orderNumber string,
	amountTotal float64,
	currencyISOCode string,
	customerFirstName string,
	customerLastName string,
	billingCity string,
	customFields map[string]interface{},
) *Order {
	o, err := NewOrder(id, orderNumber, amountTotal, currencyISOCode, customerFirstName, customerLastName, billingCity, customFields)
	if err != nil {
		panic(err)
	}
	return o
}

// ID 注文IDを返す
func (o *Order) ID() string {
	return o.id
}

// OrderNumber 注文番号を返す
func (o *Order) OrderNumber() string {
	return o.orderNumber
}

// AmountTotal 合計金額を返す
func (o *Order) AmountTotal() float64 {
	return o.amountTotal
}

// CurrencyISOCode 通貨コード（ISO 4217）を返す
func (o *Order) CurrencyISOCode() string {
	return o.currencyISOCode
}

// CustomerFirstName 顧客の名を返す
func (o *Order) CustomerFirstName() string {
	return o.customerFirstName
}

// CustomerLastName 顧客の姓を返す
func (o *Order) CustomerLastName() string {
	return o.customerLastName
}

// BillingCity 請求先の市区町村を返す
func (o *Order) BillingCity() string {
	return o.billingCity
}

// CustomFields カスタムフィールドのコピーを返す
func (o *Order) CustomFields() map[string]interface{} {
	fields := make(map[string]interface{}, len(o.customFields))
	for k, v := range o.customFields {
		fields[k] = v
	}
	return fields
}

// CreatedAt 作成日時を返す
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt 更新日時を返す
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// PaymentToken カスタムフィールドから決済トークンを返す
func (o *Order) PaymentToken() (string, bool) {
	token, ok := o.customFields[PaymentTokenField].(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// ResolvedState リダイレクト受信時に確定したstateを返す（未確定は空文字）
func (o *Order) ResolvedState() string {
	state, _ := o.customFields[ResolvedStateField].(string)
	return state
}

// MergeCustomFields カスタムフィールドをマージ（同じキーは上書き）
func (o *Order) MergeCustomFields(fields map[string]interface{}) {
	for k, v := range fields {
		o.customFields[k] = v
	}
	o.updatedAt = time.Now()
}

// SetTimestamps 永続化層から日時を復元
func (o *Order) SetTimestamps(createdAt, updatedAt time.Time) {
	o.createdAt = createdAt
	o.updatedAt = updatedAt
}
