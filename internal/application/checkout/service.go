package checkout

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"siapay-server/internal/application/auth"
	"siapay-server/internal/application/payment"
	"siapay-server/internal/domain/order"
	domainpayment "siapay-server/internal/domain/payment"
	"siapay-server/internal/domain/payment_method"
	"siapay-server/internal/domain/transaction"
	otelinfra "siapay-server/internal/infrastructure/observability/otel"
)

// PaymentService リダイレクト決済の状態遷移
type PaymentService interface {
	Pay(ctx context.Context, req *payment.PayRequest) (*payment.PayResponse, error)
	Finalize(ctx context.Context, transactionID string, state domainpayment.State) (*payment.FinalizeResult, error)
}

// TokenService 決済トークンの発行と検証
type TokenService interface {
	IssueToken(ctx context.Context, req *auth.IssueTokenRequest) (*auth.IssueTokenResponse, error)
	ValidateToken(ctx context.Context, token string) (*auth.PaymentTokenClaims, error)
}

// CheckoutApplicationService チェックアウトセッションのアプリケーションサービス
type CheckoutApplicationService struct {
	transactionRepo   transaction.TransactionRepository
	paymentMethodRepo payment_method.PaymentMethodRepository
	tokens            TokenService
	payments          PaymentService
	urls              URLs
	logger            *otelinfra.Logger
	tracer            trace.Tracer
}

// NewCheckoutApplicationService 新しいCheckoutApplicationServiceを作成
func NewCheckoutApplicationService(
	transactionRepo transaction.TransactionRepository,
	paymentMethodRepo payment_method.PaymentMethodRepository,
	tokens TokenService,
	payments PaymentService,
	urls URLs,
	logger *otelinfra.Logger,
) *CheckoutApplicationService {
	return &CheckoutApplicationService{
		transactionRepo:   transactionRepo,
		paymentMethodRepo: paymentMethodRepo,
		tokens:            tokens,
		payments:          payments,
		urls:              urls,
		logger:            logger,
		tracer:            otel.Tracer("checkout-service"),
	}
}

// StartPayment 決済トークンを発行して決済を開始する
func (s *CheckoutApplicationService) StartPayment(ctx context.Context, req *StartPaymentRequest) (*StartPaymentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutApplicationService.StartPayment")
	defer span.End()

	span.SetAttributes(attribute.String("transaction_id", req.TransactionID))

	txn, err := s.transactionRepo.FindByID(ctx, req.TransactionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}

	pm, err := s.paymentMethodRepo.FindByID(ctx, txn.PaymentMethodID())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find payment method: %w", err)
	}
	if pm.HandlerIdentifier() != payment_method.SiaPayHandlerIdentifier {
		err := fmt.Errorf("%w: handler %s", payment_method.ErrInvalidPaymentMethod, pm.HandlerIdentifier())
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}
	if err := pm.EnsureUsable(); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Warn(ctx, "Payment method is inactive", map[string]interface{}{
			"transaction_id":    req.TransactionID,
			"payment_method_id": pm.ID(),
		})
		return nil, err
	}

	issued, err := s.tokens.IssueToken(ctx, &auth.IssueTokenRequest{
		TransactionID: txn.TransactionID(),
		OrderID:       txn.OrderID(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	returnURL := withQuery(s.urls.CheckoutFinalizeURL, url.Values{
		order.PaymentTokenField: {issued.Token},
	})

	resp, err := s.payments.Pay(ctx, &payment.PayRequest{
		TransactionID: txn.TransactionID(),
		ReturnURL:     returnURL,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	return &StartPaymentResponse{
		TransactionID: resp.TransactionID,
		OrderNumber:   resp.OrderNumber,
		RedirectURL:   resp.RedirectURL,
	}, nil
}

// FinalizeTransaction 決済トークンを検証して取引を確定し、ストアフロントの遷移先を返す
func (s *CheckoutApplicationService) FinalizeTransaction(ctx context.Context, req *FinalizeTransactionRequest) (*FinalizeTransactionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutApplicationService.FinalizeTransaction")
	defer span.End()

	claims, err := s.tokens.ValidateToken(ctx, req.PaymentToken)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("transaction_id", claims.TransactionID),
		attribute.String("state", req.State),
	)

	result, err := s.payments.Finalize(ctx, claims.TransactionID, domainpayment.ParseState(req.State))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	query := url.Values{"orderId": {claims.OrderID}}
	redirectURL := withQuery(s.urls.FinishURL, query)
	if result.CustomerCanceled() {
		query.Set("error", ErrorCodeCustomerCanceled)
		redirectURL = withQuery(s.urls.ErrorURL, query)
		s.logger.Info(ctx, "Customer canceled payment", map[string]interface{}{
			"transaction_id": claims.TransactionID,
			"order_id":       claims.OrderID,
		})
	}

	return &FinalizeTransactionResponse{
		TransactionID: claims.TransactionID,
		OrderID:       claims.OrderID,
		Outcome:       result.Outcome,
		Status:        result.Status,
		RedirectURL:   redirectURL,
	}, nil
}

func withQuery(base string, values url.Values) string {
	if strings.Contains(base, "?") {
		return base + "&" + values.Encode()
	}
	return base + "?" + values.Encode()
}
