package payment

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"siapay-server/internal/domain/gateway"
	"siapay-server/internal/domain/merchant"
	"siapay-server/internal/domain/order"
	domainpayment "siapay-server/internal/domain/payment"
	"siapay-server/internal/domain/payment_request"
	"siapay-server/internal/domain/transaction"
	otelinfra "siapay-server/internal/infrastructure/observability/otel"
)

// CredentialResolver 加盟店認証情報の解決
type CredentialResolver interface {
	Resolve(ctx context.Context) (merchant.MerchantCredentials, error)
}

// OperatorIDGenerator 照会用オペレーターIDの生成
type OperatorIDGenerator interface {
	GenerateDefault() string
}

// PaymentApplicationService リダイレクト決済アプリケーションサービス
type PaymentApplicationService struct {
	orderRepo       order.OrderRepository
	transactionRepo transaction.TransactionRepository
	stateHandler    *transaction.StateHandler
	builder         *PaymentRequestBuilder
	resolver        CredentialResolver
	gateway         gateway.Client
	operatorIDs     OperatorIDGenerator
	urls            URLs
	logger          *otelinfra.Logger
	metrics         *otelinfra.Metrics
	tracer          trace.Tracer
}

// NewPaymentApplicationService 新しいPaymentApplicationServiceを作成
func NewPaymentApplicationService(
	orderRepo order.OrderRepository,
	transactionRepo transaction.TransactionRepository,
	resolver CredentialResolver,
	gatewayClient gateway.Client,
	operatorIDs OperatorIDGenerator,
	urls URLs,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *PaymentApplicationService {
	return &PaymentApplicationService{
		orderRepo:       orderRepo,
		transactionRepo: transactionRepo,
		stateHandler:    transaction.NewStateHandler(transactionRepo),
		builder:         NewPaymentRequestBuilder(orderRepo),
		resolver:        resolver,
		gateway:         gatewayClient,
		operatorIDs:     operatorIDs,
		urls:            urls,
		logger:          logger,
		metrics:         metrics,
		tracer:          otel.Tracer("payment-service"),
	}
}

// Pay 決済を開始し、ゲートウェイの決済ページURLを返す
// 失敗時は原因を保持したInitiationErrorを返す（再試行はしない）
func (s *PaymentApplicationService) Pay(ctx context.Context, req *PayRequest) (*PayResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentApplicationService.Pay")
	defer span.End()

	span.SetAttributes(attribute.String("transaction_id", req.TransactionID))

	s.logger.Info(ctx, "Initiating payment", map[string]interface{}{
		"transaction_id": req.TransactionID,
	})

	flow := domainpayment.NewFlow(domainpayment.PhaseInitiated)
	resp, environment, err := s.initiate(ctx, req)
	if err == nil {
		err = flow.Transition(domainpayment.PhaseAwaitingRedirect)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Payment initiation failed", err, map[string]interface{}{
			"transaction_id": req.TransactionID,
			"environment":    environment,
		})
		s.metrics.RecordPaymentInitiation(ctx, environment, "error")
		return nil, domainpayment.NewInitiationError(req.TransactionID, err)
	}
	resp.Phase = flow.Phase()

	s.metrics.RecordPaymentInitiation(ctx, environment, "success")
	s.metrics.RecordTransactionTransition(ctx, transaction.TransactionStatusInProgress.String())
	s.logger.Info(ctx, "Payment initiated", map[string]interface{}{
		"transaction_id": req.TransactionID,
		"order_number":   resp.OrderNumber,
		"environment":    environment,
	})

	return resp, nil
}

func (s *PaymentApplicationService) initiate(ctx context.Context, req *PayRequest) (*PayResponse, string, error) {
	environment := "unknown"

	txn, err := s.transactionRepo.FindByID(ctx, req.TransactionID)
	if err != nil {
		return nil, environment, fmt.Errorf("failed to find transaction: %w", err)
	}

	o, err := s.orderRepo.FindByID(ctx, txn.OrderID())
	if err != nil {
		return nil, environment, fmt.Errorf("failed to find order: %w", err)
	}

	// 通貨は認証情報より先に確認する
	if _, err := payment_request.CurrencyNumericCode(o.CurrencyISOCode()); err != nil {
		return nil, environment, err
	}

	creds, err := s.resolver.Resolve(ctx)
	if err != nil {
		return nil, environment, err
	}
	environment = creds.Environment.String()

	pr, err := s.builder.Build(ctx, BuildInput{
		Order:               o,
		Credentials:         creds,
		ReturnURL:           req.ReturnURL,
		FinalizeURL:         s.urls.GatewayFinalizeURL,
		MerchantCallbackURL: s.urls.MerchantCallbackURL,
	})
	if err != nil {
		return nil, environment, err
	}

	redirectURL, err := s.gateway.BuildAuthorizationRedirectURL(ctx, pr, creds)
	if err != nil {
		return nil, environment, err
	}

	if _, err := s.stateHandler.Process(ctx, txn.TransactionID()); err != nil {
		return nil, environment, fmt.Errorf("failed to mark transaction in progress: %w", err)
	}

	return &PayResponse{
		TransactionID: txn.TransactionID(),
		OrderNumber:   o.OrderNumber(),
		RedirectURL:   redirectURL,
	}, environment, nil
}

// HandleRedirect ゲートウェイから戻ってきた顧客のリダイレクトを処理し、次の遷移先を返す
// 成功の主張はゲートウェイへの照会で確認し、失敗の主張はそのまま信頼する
func (s *PaymentApplicationService) HandleRedirect(ctx context.Context, values url.Values) (*RedirectResult, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentApplicationService.HandleRedirect")
	defer span.End()

	params := domainpayment.ParseRedirectParams(values)
	action := params.Decide()

	span.SetAttributes(
		attribute.String("order_number", params.OrderID),
		attribute.String("action", string(action)),
	)
	s.metrics.RecordRedirect(ctx, string(action))

	if action == domainpayment.ActionIgnore {
		s.logger.Info(ctx, "Redirect without gateway parameters, falling back to home", nil)
		return &RedirectResult{RedirectURL: s.urls.HomeURL, Action: action}, nil
	}

	o, err := s.orderRepo.FindByOrderNumber(ctx, params.OrderID)
	if errors.Is(err, order.ErrOrderNotFound) {
		s.logger.Warn(ctx, "Redirect for unknown order, falling back to home", map[string]interface{}{
			"order_number": params.OrderID,
		})
		return &RedirectResult{RedirectURL: s.urls.HomeURL, Action: domainpayment.ActionIgnore}, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	// 決済トークンと確定stateはクエリから上書きさせない
	raw := params.Raw
	delete(raw, order.PaymentTokenField)
	delete(raw, order.ResolvedStateField)
	if err := s.orderRepo.MergeCustomFields(ctx, o.ID(), raw); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to store redirect parameters: %w", err)
	}
	o.MergeCustomFields(raw)

	token, ok := o.PaymentToken()
	if !ok {
		err := fmt.Errorf("%w: order %s", payment_request.ErrMissingCorrelationToken, o.OrderNumber())
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Payment token not found on order", err, map[string]interface{}{
			"order_number": o.OrderNumber(),
		})
		return nil, err
	}

	flow := domainpayment.NewFlow(domainpayment.PhaseAwaitingRedirect)
	if err := s.resolve(ctx, flow, action, o, params.TransactionID); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}
	state := flow.State()

	if err := s.orderRepo.MergeCustomFields(ctx, o.ID(), map[string]interface{}{
		order.ResolvedStateField: state.String(),
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to store resolved state: %w", err)
	}

	s.logger.Info(ctx, "Redirect resolved", map[string]interface{}{
		"order_number":   o.OrderNumber(),
		"action":         string(action),
		"state":          state.String(),
		"transaction_id": params.TransactionID,
	})

	return &RedirectResult{
		RedirectURL: appendQuery(s.urls.CheckoutFinalizeURL, url.Values{
			order.PaymentTokenField:  {token},
			domainpayment.ParamState: {state.String()},
		}),
		Action:      action,
		State:       state,
		OrderNumber: o.OrderNumber(),
		Phases:      flow.History(),
	}, nil
}

func (s *PaymentApplicationService) resolve(ctx context.Context, flow *domainpayment.Flow, action domainpayment.Action, o *order.Order, gatewayTransactionID string) error {
	switch action {
	case domainpayment.ActionCancel:
		return flow.Transition(domainpayment.PhaseCanceled)
	case domainpayment.ActionVerify:
		if err := flow.Transition(domainpayment.PhasePendingVerification); err != nil {
			return err
		}
		verified, err := s.Verify(ctx, o.OrderNumber(), payment_request.FormatAmount(o.AmountTotal()), gatewayTransactionID)
		if err != nil {
			s.logger.Warn(ctx, "Verification failed, treating payment as failed", map[string]interface{}{
				"order_number": o.OrderNumber(),
				"error":        err.Error(),
			})
		}
		if verified {
			return flow.Transition(domainpayment.PhaseVerifiedPaid)
		}
		return flow.Transition(domainpayment.PhaseVerifiedFailed)
	default:
		return flow.Transition(domainpayment.PhaseVerifiedFailed)
	}
}

// Verify ゲートウェイに注文ステータスを照会し、結果コード・金額・注文番号が一致する承認があるかを返す
func (s *PaymentApplicationService) Verify(ctx context.Context, orderNumber, expectedAmount, transactionID string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentApplicationService.Verify")
	defer span.End()

	span.SetAttributes(
		attribute.String("order_number", orderNumber),
		attribute.String("expected_amount", expectedAmount),
		attribute.String("gateway_transaction_id", transactionID),
	)

	creds, err := s.resolver.Resolve(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.metrics.RecordVerification(ctx, "error")
		return false, err
	}

	query := gateway.OrderStatusQuery{
		OrderID:    orderNumber,
		OperatorID: s.operatorIDs.GenerateDefault(),
	}
	result, err := s.gateway.QueryOrderStatus(ctx, query, creds)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.metrics.RecordVerification(ctx, "error")
		return false, err
	}

	matched := domainpayment.MatchAuthorization(result, orderNumber, expectedAmount)
	span.SetAttributes(
		attribute.Int("authorizations", result.NumberOfItems()),
		attribute.Bool("matched", matched),
	)

	outcome := "unmatched"
	if matched {
		outcome = "matched"
	}
	s.metrics.RecordVerification(ctx, outcome)
	s.logger.Info(ctx, "Order status verified", map[string]interface{}{
		"order_number":   orderNumber,
		"operator_id":    query.OperatorID,
		"authorizations": result.NumberOfItems(),
		"matched":        matched,
	})

	return matched, nil
}

// Finalize チェックアウトに戻ってきたstateで取引を確定する
// canceledは失敗、successは支払い済み、それ以外は再オープン
func (s *PaymentApplicationService) Finalize(ctx context.Context, transactionID string, state domainpayment.State) (*FinalizeResult, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentApplicationService.Finalize")
	defer span.End()

	span.SetAttributes(
		attribute.String("transaction_id", transactionID),
		attribute.String("state", state.String()),
	)

	txn, err := s.transactionRepo.FindByID(ctx, transactionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}

	if state == domainpayment.StateSuccess {
		o, err := s.orderRepo.FindByID(ctx, txn.OrderID())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, fmt.Errorf("failed to find order: %w", err)
		}
		// 照会で確認されていない成功は信頼しない
		if o.ResolvedState() != domainpayment.StateSuccess.String() {
			s.logger.Warn(ctx, "Unverified success state, reopening transaction", map[string]interface{}{
				"transaction_id": transactionID,
				"order_number":   o.OrderNumber(),
				"resolved_state": o.ResolvedState(),
			})
			state = domainpayment.StatePending
		}
	}

	outcome := domainpayment.OutcomeForState(state)
	switch outcome {
	case domainpayment.OutcomeCustomerCanceled:
		txn, err = s.stateHandler.Fail(ctx, transactionID, "customer canceled at gateway")
	case domainpayment.OutcomePaid:
		txn, err = s.stateHandler.Paid(ctx, transactionID)
	default:
		txn, err = s.stateHandler.Reopen(ctx, transactionID)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to finalize transaction", err, map[string]interface{}{
			"transaction_id": transactionID,
			"outcome":        outcome.String(),
		})
		return nil, err
	}

	s.metrics.RecordTransactionTransition(ctx, txn.Status().String())
	s.logger.Info(ctx, "Transaction finalized", map[string]interface{}{
		"transaction_id": transactionID,
		"outcome":        outcome.String(),
		"status":         txn.Status().String(),
	})

	return &FinalizeResult{
		TransactionID: transactionID,
		State:         state,
		Outcome:       outcome,
		Status:        txn.Status(),
	}, nil
}

// CheckGatewayStatus 注文についてゲートウェイに照会し、結果だけを返す（状態は変更しない）
func (s *PaymentApplicationService) CheckGatewayStatus(ctx context.Context, orderNumber string) (*GatewayStatusResult, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentApplicationService.CheckGatewayStatus")
	defer span.End()

	span.SetAttributes(attribute.String("order_number", orderNumber))

	o, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	expected := payment_request.FormatAmount(o.AmountTotal())
	verified, err := s.Verify(ctx, o.OrderNumber(), expected, "")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	return &GatewayStatusResult{
		OrderNumber:    o.OrderNumber(),
		ExpectedAmount: expected,
		Verified:       verified,
		ResolvedState:  o.ResolvedState(),
	}, nil
}
