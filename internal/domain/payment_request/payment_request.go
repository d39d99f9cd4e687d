package payment_request

import (
	"fmt"
	"regexp"
)

// ゲートウェイへの固定パラメータ
const (
	Exponent                   = "2"
	AccountingModeImmediate    = "I"
	AuthorizationModeImmediate = "I"
	OptionsB                   = "B"
)

var amountRegex = regexp.MustCompile(`^[0-9]+$`)

// ThreeDSContext 3-Dセキュア用の追加情報
type ThreeDSContext struct {
	BillingCity string
}

// Params PaymentRequestの生成パラメータ
type Params struct {
	Amount              string
	CurrencyNumericCode string
	OrderID             string
	ShopID              string
	ReturnURLOnSuccess  string
	ReturnURLOnCancel   string
	CustomerFirstName   string
	CustomerLastName    string
	MerchantCallbackURL string
	ThreeDS             ThreeDSContext
}

// PaymentRequest ゲートウェイへの決済承認リクエスト（生成後は不変）
type PaymentRequest struct {
	amount              string
	currencyNumericCode string
	exponent            string
	orderID             string
	shopID              string
	returnURLOnSuccess  string
	returnURLOnCancel   string
	accountingMode      string
	authorizationMode   string
	options             string
	customerFirstName   string
	customerLastName    string
	merchantCallbackURL string
	threeDS             ThreeDSContext
}

// NewPaymentRequest 新しいPaymentRequestを作成
func NewPaymentRequest(p Params) (*PaymentRequest, error) {
	if !amountRegex.MatchString(p.Amount) {
		return nil, fmt.Errorf("%w: amount %q", ErrInvalidPaymentRequest, p.Amount)
	}
	if p.CurrencyNumericCode == "" {
		return nil, fmt.Errorf("%w: currency is required", ErrInvalidPaymentRequest)
	}
	if p.OrderID == "" {
		return nil, fmt.Errorf("%w: order id is required", ErrInvalidPaymentRequest)
	}
	if p.ShopID == "" {
		return nil, fmt.Errorf("%w: shop id is required", ErrInvalidPaymentRequest)
	}
	if p.ReturnURLOnSuccess == "" || p.ReturnURLOnCancel == "" {
		return nil, fmt.Errorf("%w: return urls are required", ErrInvalidPaymentRequest)
	}

	return &PaymentRequest{
		amount:              p.Amount,
		currencyNumericCode: p.CurrencyNumericCode,
		exponent:            Exponent,
		orderID:             p.OrderID,
		shopID:              p.ShopID,
		returnURLOnSuccess:  p.ReturnURLOnSuccess,
		returnURLOnCancel:   p.ReturnURLOnCancel,
		accountingMode:      AccountingModeImmediate,
		authorizationMode:   AuthorizationModeImmediate,
		options:             OptionsB,
		customerFirstName:   p.CustomerFirstName,
		customerLastName:    p.CustomerLastName,
		merchantCallbackURL: p.MerchantCallbackURL,
		threeDS:             p.ThreeDS,
	}, nil
}

// MustNewPaymentRequest PaymentRequestを作成（エラー時はpanic）
func MustNewPaymentRequest(p Params) *PaymentRequest {
	pr, err := NewPaymentRequest(p)
	if err != nil {
		panic(err)
	}
	return pr
}

// Amount 金額（最小単位の文字列）を返す
func (pr *PaymentRequest) Amount() string {
	return pr.amount
}

// CurrencyNumericCode 通貨の数値コードを返す
func (pr *PaymentRequest) CurrencyNumericCode() string {
	return pr.currencyNumericCode
}

// Exponent 通貨の小数桁数を返す
func (pr *PaymentRequest) Exponent() string {
	return pr.exponent
}

// OrderID 注文番号を返す
func (pr *PaymentRequest) OrderID() string {
	return pr.orderID
}

// ShopID ショップIDを返す
func (pr *PaymentRequest) ShopID() string {
	return pr.shopID
}

// ReturnURLOnSuccess 完了時の戻り先URLを返す
func (pr *PaymentRequest) ReturnURLOnSuccess() string {
	return pr.returnURLOnSuccess
}

// ReturnURLOnCancel キャンセル時の戻り先URLを返す
func (pr *PaymentRequest) ReturnURLOnCancel() string {
	return pr.returnURLOnCancel
}

// AccountingMode 売上計上モードを返す
func (pr *PaymentRequest) AccountingMode() string {
	return pr.accountingMode
}

// AuthorizationMode 承認モードを返す
func (pr *PaymentRequest) AuthorizationMode() string {
	return pr.authorizationMode
}

// Options オプションを返す
func (pr *PaymentRequest) Options() string {
	return pr.options
}

// CustomerFirstName 顧客の名を返す
func (pr *PaymentRequest) CustomerFirstName() string {
	return pr.customerFirstName
}

// CustomerLastName 顧客の姓を返す
func (pr *PaymentRequest) CustomerLastName() string {
	return pr.customerLastName
}

// MerchantCallbackURL サーバー間通知のURLを返す
func (pr *PaymentRequest) MerchantCallbackURL() string {
	return pr.merchantCallbackURL
}

// ThreeDS 3-Dセキュア情報を返す
func (pr *PaymentRequest) ThreeDS() ThreeDSContext {
	return pr.threeDS
}
