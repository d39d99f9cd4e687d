package payment_method

import (
	"fmt"
	"time"
)

// SIA VPOSリダイレクト決済のハンドラー識別子と表示名
const (
	SiaPayHandlerIdentifier = "siapay.redirect"
	SiaPayName              = "SIA VPOS"
	SiaPayDescription       = "Pay by card on the SIA VPOS hosted payment page"
)

// PaymentMethod 支払い方法エンティティ
type PaymentMethod struct {
	id                string
	handlerIdentifier string
	name              string
	description       string
	active            bool
	createdAt         time.Time
	updatedAt         time.Time
}

// NewPaymentMethod 新しいPaymentMethodエンティティを作成
func NewPaymentMethod(id, handlerIdentifier, name, description string, active bool) (*PaymentMethod, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidPaymentMethod)
	}
	if handlerIdentifier == "" {
		return nil, fmt.Errorf("%w: handler identifier is required", ErrInvalidPaymentMethod)
	}

	now := time.Now()
	return &PaymentMethod{
		id:                id,
		handlerIdentifier: handlerIdentifier,
		name:              name,
		description:       description,
		active:            active,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

// ID 支払い方法IDを返す
func (p *PaymentMethod) ID() string {
	return p.id
}

// HandlerIdentifier ハンドラー識別子を返す
func (p *PaymentMethod) HandlerIdentifier() string {
	return p.handlerIdentifier
}

// Name 表示名を返す
func (p *PaymentMethod) Name() string {
	return p.name
}

// Description 説明を返す
func (p *PaymentMethod) Description() string {
	return p.description
}

// IsActive 有効かどうかを返す
func (p *PaymentMethod) IsActive() bool {
	return p.active
}

// CreatedAt 作成日時を返す
func (p *PaymentMethod) CreatedAt() time.Time {
	return p.createdAt
}

// UpdatedAt 更新日時を返す
func (p *PaymentMethod) UpdatedAt() time.Time {
	return p.updatedAt
}

// SetActive 有効/無効を切り替える
func (p *PaymentMethod) SetActive(active bool) {
	if p.active == active {
		return
	}
	p.active = active
	p.updatedAt = time.Now()
}

// EnsureUsable 決済に使える状態か検証
func (p *PaymentMethod) EnsureUsable() error {
	if !p.active {
		return fmt.Errorf("%w: %s", ErrPaymentMethodInactive, p.handlerIdentifier)
	}
	return nil
}

// SetTimestamps 永続化層から日時を復元
func (p *PaymentMethod) SetTimestamps(createdAt, updatedAt time.Time) {
	p.createdAt = createdAt
	p.updatedAt = updatedAt
}
