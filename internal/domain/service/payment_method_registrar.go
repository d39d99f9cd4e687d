package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"siapay-server/internal/domain/payment_method"
)

// PaymentMethodRegistrar SIA VPOSの支払い方法を登録し、有効/無効を同期するドメインサービス
type PaymentMethodRegistrar struct {
	repo payment_method.PaymentMethodRepository
}

// NewPaymentMethodRegistrar 新しいPaymentMethodRegistrarを作成
func NewPaymentMethodRegistrar(repo payment_method.PaymentMethodRepository) *PaymentMethodRegistrar {
	return &PaymentMethodRegistrar{
		repo: repo,
	}
}

// EnsureRegistered 支払い方法がなければ作成し、有効フラグを指定値に揃える
func (r *PaymentMethodRegistrar) EnsureRegistered(ctx context.Context, active bool) (*payment_method.PaymentMethod, error) {
	pm, err := r.repo.FindByHandlerIdentifier(ctx, payment_method.SiaPayHandlerIdentifier)
	if err != nil && !errors.Is(err, payment_method.ErrPaymentMethodNotFound) {
		return nil, fmt.Errorf("failed to find payment method: %w", err)
	}

	if pm == nil {
		pm, err = payment_method.NewPaymentMethod(
			uuid.NewString(),
			payment_method.SiaPayHandlerIdentifier,
			payment_method.SiaPayName,
			payment_method.SiaPayDescription,
			active,
		)
		if err != nil {
			return nil, err
		}
	} else if pm.IsActive() == active {
		return pm, nil
	} else {
		pm.SetActive(active)
	}

	if err := r.repo.Save(ctx, pm); err != nil {
		return nil, fmt.Errorf("failed to save payment method: %w", err)
	}
	return pm, nil
}
