package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"siapay-server/internal/infrastructure/config"
	otelinfra "siapay-server/internal/infrastructure/observability/otel"
)

// PaymentTokenService 決済トークン（チェックアウトセッションの相関トークン）を発行・検証する
type PaymentTokenService struct {
	cfg    *config.PaymentTokenConfig
	logger *otelinfra.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// NewPaymentTokenService 新しいPaymentTokenServiceを作成
func NewPaymentTokenService(cfg *config.PaymentTokenConfig, logger *otelinfra.Logger) *PaymentTokenService {
	return &PaymentTokenService{
		cfg:    cfg,
		logger: logger,
		tracer: otel.Tracer("payment-token-service"),
		now:    time.Now,
	}
}

// IssueToken 決済トークンを発行
func (s *PaymentTokenService) IssueToken(ctx context.Context, req *IssueTokenRequest) (*IssueTokenResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentTokenService.IssueToken")
	defer span.End()

	span.SetAttributes(
		attribute.String("transaction_id", req.TransactionID),
		attribute.String("order_id", req.OrderID),
	)

	if req.TransactionID == "" || req.OrderID == "" {
		err := fmt.Errorf("transaction_id and order_id are required")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	now := s.now()
	expiresAt := now.Add(s.cfg.Expiration)

	claims := jwt.MapClaims{
		"transaction_id": req.TransactionID,
		"order_id":       req.OrderID,
		"jti":            uuid.NewString(),
		"iss":            s.cfg.Issuer,
		"iat":            now.Unix(),
		"exp":            expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error(ctx, "Failed to sign payment token", err, map[string]interface{}{
			"transaction_id": req.TransactionID,
		})
		return nil, fmt.Errorf("failed to sign payment token: %w", err)
	}

	return &IssueTokenResponse{
		Token:     tokenString,
		ExpiresAt: time.Unix(expiresAt.Unix(), 0),
	}, nil
}

// ValidateToken 決済トークンを検証してクレームを返す
func (s *PaymentTokenService) ValidateToken(ctx context.Context, tokenString string) (*PaymentTokenClaims, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentTokenService.ValidateToken")
	defer span.End()

	if tokenString == "" {
		span.SetStatus(codes.Error, "empty token")
		return nil, fmt.Errorf("%w: empty token", ErrInvalidPaymentToken)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		if err == nil {
			err = errors.New("token is not valid")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn(ctx, "Invalid payment token", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrInvalidPaymentToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims", ErrInvalidPaymentToken)
	}

	transactionID, _ := claims["transaction_id"].(string)
	orderID, _ := claims["order_id"].(string)
	if transactionID == "" || orderID == "" {
		span.SetStatus(codes.Error, "missing claims")
		return nil, fmt.Errorf("%w: missing transaction_id or order_id", ErrInvalidPaymentToken)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%w: missing exp", ErrInvalidPaymentToken)
	}

	span.SetAttributes(attribute.String("transaction_id", transactionID))

	return &PaymentTokenClaims{
		TransactionID: transactionID,
		OrderID:       orderID,
		ExpiresAt:     exp.Time,
	}, nil
}
