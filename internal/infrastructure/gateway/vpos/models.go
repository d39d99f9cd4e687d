package vpos

// Settings 呼び出しごとにSDKへ渡す加盟店設定
type Settings struct {
	ShopID       string `json:"shopId"`
	MacKey       string `json:"redirectKey"`
	APIResultKey string `json:"apiResultKey"`
	RedirectURL  string `json:"redirectUrl"`
	APIURL       string `json:"apiUrl"`
}

// ThreeDSData 3-Dセキュア用の追加情報
type ThreeDSData struct {
	BillingCity string `json:"billingCity,omitempty"`
}

// RedirectRequest 決済ページへのリダイレクトURL生成リクエスト
type RedirectRequest struct {
	Amount         string      `json:"amount"`
	Currency       string      `json:"currency"`
	Exponent       string      `json:"exponent"`
	OrderID        string      `json:"orderId"`
	ShopID         string      `json:"shopId"`
	URLBack        string      `json:"urlBack"`
	URLDone        string      `json:"urlDone"`
	AccountingMode string      `json:"accountingMode"`
	AuthorMode     string      `json:"authorMode"`
	Options        string      `json:"options"`
	Name           string      `json:"name"`
	Surname        string      `json:"surname"`
	URLMs          string      `json:"urlMs"`
	ThreeDSData    ThreeDSData `json:"threeDSData"`
}

// OrderStatusRequest 注文ステータス照会リクエスト
type OrderStatusRequest struct {
	OrderID    string `json:"orderId"`
	OperatorID string `json:"operatorId"`
}

// AuthorizationItem 照会結果の承認1件
type AuthorizationItem struct {
	TransactionResult string `json:"transactionResult"`
	AuthorizedAmount  string `json:"authorizedAmount"`
	OrderID           string `json:"orderId"`
	TransactionID     string `json:"transactionId"`
}

// OrderStatusResponse 注文ステータス照会レスポンス
type OrderStatusResponse struct {
	Result         string              `json:"result"`
	Authorizations []AuthorizationItem `json:"authorizations"`
}

type redirectURLRequest struct {
	Settings Settings        `json:"settings"`
	Request  RedirectRequest `json:"request"`
}

type redirectURLResponse struct {
	URL string `json:"url"`
}

type orderStatusRequest struct {
	Settings Settings           `json:"settings"`
	Request  OrderStatusRequest `json:"request"`
}

type bridgeError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
