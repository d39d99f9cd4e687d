package payment_request

import "fmt"

// 対応通貨
const (
	CurrencyEUR            = "EUR"
	CurrencyEURNumericCode = "978"
)

// CurrencyNumericCode ISO通貨コードを数値コードに変換（EURのみ対応）
func CurrencyNumericCode(isoCode string) (string, error) {
	if isoCode == CurrencyEUR {
		return CurrencyEURNumericCode, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedCurrency, isoCode)
}
